// Package evaluator 提供可选的落位评估能力
// 内置基于高度图的启发式评分器，并支持连接本地模型服务；
// 模型服务缺席或失败时回退到启发式评分器，不构成错误
package evaluator

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// DefaultGridSize 高度图网格边长
const DefaultGridSize = 32

// heightmap 容器顶视图的归一化高度图
// 单元值为该处最高货件顶面与容器高度的比值 [0,1]
type heightmap struct {
	grid []float64
	size int
}

func newHeightmap(size int) *heightmap {
	return &heightmap{grid: make([]float64, size*size), size: size}
}

func (h *heightmap) at(i, j int) float64 {
	return h.grid[i*h.size+j]
}

func (h *heightmap) clone() *heightmap {
	c := newHeightmap(h.size)
	copy(c.grid, h.grid)
	return c
}

// stamp 将货件投影到高度图上，抬升足迹内的单元
func (h *heightmap) stamp(c *model.Container, pos model.Vector3, d model.Dimensions) {
	if c.Length <= 0 || c.Width <= 0 || c.Height <= 0 {
		return
	}
	top := (pos.Y + d.Height) / c.Height
	i0, i1, j0, j1 := h.cellRange(c, pos, d)
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			if top > h.at(i, j) {
				h.grid[i*h.size+j] = top
			}
		}
	}
}

// cellRange 计算足迹覆盖的单元下标范围 [i0,i1)×[j0,j1)，至少覆盖一个单元
func (h *heightmap) cellRange(c *model.Container, pos model.Vector3, d model.Dimensions) (int, int, int, int) {
	i0 := clampIdx(int(pos.X/c.Length*float64(h.size)), h.size)
	j0 := clampIdx(int(pos.Z/c.Width*float64(h.size)), h.size)
	i1 := int(math.Ceil((pos.X + d.Length) / c.Length * float64(h.size)))
	j1 := int(math.Ceil((pos.Z + d.Width) / c.Width * float64(h.size)))
	if i1 > h.size {
		i1 = h.size
	}
	if j1 > h.size {
		j1 = h.size
	}
	if i1 <= i0 {
		i1 = i0 + 1
	}
	if j1 <= j0 {
		j1 = j0 + 1
	}
	return i0, i1, j0, j1
}

// footprintCells 返回货件足迹覆盖的单元索引
func (h *heightmap) footprintCells(c *model.Container, pos model.Vector3, d model.Dimensions) [][2]int {
	i0, i1, j0, j1 := h.cellRange(c, pos, d)
	cells := make([][2]int, 0, (i1-i0)*(j1-j0))
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			cells = append(cells, [2]int{i, j})
		}
	}
	return cells
}

func clampIdx(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max-1 {
		return max - 1
	}
	return v
}

// max 返回高度图的最大值
func (h *heightmap) max() float64 {
	var m float64
	for _, v := range h.grid {
		if v > m {
			m = v
		}
	}
	return m
}

// variance 返回高度图的方差
func (h *heightmap) variance() float64 {
	n := float64(len(h.grid))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range h.grid {
		sum += v
	}
	mean := sum / n
	var sq float64
	for _, v := range h.grid {
		d := v - mean
		sq += d * d
	}
	return sq / n
}

// nonZeroStd 返回非零单元高度的标准差
func (h *heightmap) nonZeroStd() (float64, bool) {
	var vals []float64
	for _, v := range h.grid {
		if v > 0 {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals))), true
}

// compactness 计算占用体积与占用包围盒体积的比值
func (h *heightmap) compactness() float64 {
	minI, maxI, minJ, maxJ := h.size, -1, h.size, -1
	var occupied float64
	for i := 0; i < h.size; i++ {
		for j := 0; j < h.size; j++ {
			v := h.at(i, j)
			if v <= 0 {
				continue
			}
			occupied += v
			if i < minI {
				minI = i
			}
			if i > maxI {
				maxI = i
			}
			if j < minJ {
				minJ = j
			}
			if j > maxJ {
				maxJ = j
			}
		}
	}
	if maxI < 0 {
		return 0
	}
	bbox := float64(maxI-minI+1) * float64(maxJ-minJ+1) * h.max()
	if bbox <= 0 {
		return 0
	}
	return occupied / bbox
}

// buildMaps 由落位状态和候选构建高度图与动作图
func buildMaps(size int, c *model.Container, placed []*model.PlacedItem, candidate *model.PlacedItem) (*heightmap, *heightmap) {
	hmap := newHeightmap(size)
	for _, p := range placed {
		hmap.stamp(c, p.Position, p.Dims)
	}
	amap := hmap.clone()
	amap.stamp(c, candidate.Position, candidate.Dims)
	return hmap, amap
}
