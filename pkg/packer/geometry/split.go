package geometry

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// Split 在空间内落位一个货件后，生成其残余空闲空间
//
// 采用"最大空间"式的切分：六个方向各产出一个贯穿整个原空间的板状残余，
// 残余之间允许相互重叠（右侧板自然覆盖右上、右前等角部组合，顶板覆盖
// 全部上方角落），后续落位的合法性由碰撞判定保证。过小的残余由调用方
// 的 Arena 按最小可用尺寸过滤。
func Split(s Space, pos model.Vector3, d model.Dimensions) []Space {
	// 裁剪货件到空间范围内，避免堆叠候选越界产生负尺寸残余
	bx0 := math.Max(pos.X, s.Origin.X)
	by0 := math.Max(pos.Y, s.Origin.Y)
	bz0 := math.Max(pos.Z, s.Origin.Z)
	bx1 := math.Min(pos.X+d.Length, s.MaxX())
	by1 := math.Min(pos.Y+d.Height, s.MaxY())
	bz1 := math.Min(pos.Z+d.Width, s.MaxZ())
	if bx1 <= bx0 || by1 <= by0 || bz1 <= bz0 {
		// 货件与空间无交集，空间原样保留
		return []Space{s}
	}

	residuals := make([]Space, 0, 6)

	// 左侧板（X负方向），贯穿整个Y/Z
	if left := bx0 - s.Origin.X; left > 0 {
		residuals = append(residuals,
			NewSpace(s.Origin.X, s.Origin.Y, s.Origin.Z, left, s.Dims.Height, s.Dims.Width))
	}
	// 右侧板（X正方向）
	if right := s.MaxX() - bx1; right > 0 {
		residuals = append(residuals,
			NewSpace(bx1, s.Origin.Y, s.Origin.Z, right, s.Dims.Height, s.Dims.Width))
	}
	// 后侧板（Z负方向），贯穿整个X/Y
	if back := bz0 - s.Origin.Z; back > 0 {
		residuals = append(residuals,
			NewSpace(s.Origin.X, s.Origin.Y, s.Origin.Z, s.Dims.Length, s.Dims.Height, back))
	}
	// 前侧板（Z正方向）
	if front := s.MaxZ() - bz1; front > 0 {
		residuals = append(residuals,
			NewSpace(s.Origin.X, s.Origin.Y, bz1, s.Dims.Length, s.Dims.Height, front))
	}
	// 下方板（货件悬空放入空间中部时才出现）
	if below := by0 - s.Origin.Y; below > 0 {
		residuals = append(residuals,
			NewSpace(s.Origin.X, s.Origin.Y, s.Origin.Z, s.Dims.Length, below, s.Dims.Width))
	}
	// 上方板，贯穿整个X/Z，保证货件顶面及周边上空可达
	if above := s.MaxY() - by1; above > 0 {
		residuals = append(residuals,
			NewSpace(s.Origin.X, by1, s.Origin.Z, s.Dims.Length, above, s.Dims.Width))
	}

	return residuals
}

// Commit 将落位结果应用到空间池：移除被消耗的空间并加入其残余
func Commit(arena *Arena, spaceIdx int, pos model.Vector3, d model.Dimensions) {
	consumed := arena.Get(spaceIdx)
	arena.Remove(spaceIdx)
	for _, r := range Split(consumed, pos, d) {
		arena.Add(r)
	}
}
