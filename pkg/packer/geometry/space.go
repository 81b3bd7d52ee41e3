// Package geometry 提供装箱引擎的空闲空间模型与几何判定
package geometry

import (
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

const (
	// FitEpsilon 尺寸比较容差，允许物品恰好贴合容器边界
	FitEpsilon = 1e-6
	// OverlapEpsilon 碰撞判定容差，小于该值的重叠视为浮点噪声
	OverlapEpsilon = 1e-6
	// SupportYTolerance 支撑面高度容差
	SupportYTolerance = 1e-3
)

// Space 容器内的轴对齐空闲长方体
// 由原点和三轴尺寸描述，不与任何已落位货件重叠
type Space struct {
	Origin model.Vector3    `json:"origin"`
	Dims   model.Dimensions `json:"dims"`
}

// NewSpace 由原点坐标和尺寸创建空闲空间
func NewSpace(x, y, z, length, height, width float64) Space {
	return Space{
		Origin: model.Vector3{X: x, Y: y, Z: z},
		Dims:   model.Dimensions{Length: length, Height: height, Width: width},
	}
}

// ContainerSpace 创建覆盖整个容器的初始空间
func ContainerSpace(c *model.Container) Space {
	return NewSpace(0, 0, 0, c.Length, c.Height, c.Width)
}

// Volume 计算空间体积
func (s Space) Volume() float64 {
	return s.Dims.Volume()
}

// MaxX 返回X轴上界
func (s Space) MaxX() float64 { return s.Origin.X + s.Dims.Length }

// MaxY 返回Y轴上界
func (s Space) MaxY() float64 { return s.Origin.Y + s.Dims.Height }

// MaxZ 返回Z轴上界
func (s Space) MaxZ() float64 { return s.Origin.Z + s.Dims.Width }

// Fits 检查给定尺寸能否放入该空间
func (s Space) Fits(d model.Dimensions) bool {
	return d.Length <= s.Dims.Length+FitEpsilon &&
		d.Height <= s.Dims.Height+FitEpsilon &&
		d.Width <= s.Dims.Width+FitEpsilon
}

// Compactness 返回空间的紧凑度（最短边/最长边）
// 细长碎片的紧凑度低，裁剪时优先淘汰
func (s Space) Compactness() float64 {
	max := s.Dims.MaxExtent()
	if max <= 0 {
		return 0
	}
	return s.Dims.MinExtent() / max
}

// Contains 检查该空间是否完全包含另一空间
func (s Space) Contains(other Space) bool {
	return other.Origin.X >= s.Origin.X-FitEpsilon &&
		other.Origin.Y >= s.Origin.Y-FitEpsilon &&
		other.Origin.Z >= s.Origin.Z-FitEpsilon &&
		other.MaxX() <= s.MaxX()+FitEpsilon &&
		other.MaxY() <= s.MaxY()+FitEpsilon &&
		other.MaxZ() <= s.MaxZ()+FitEpsilon
}

// FootprintOverlapsItem 检查空间底面与货件在XZ平面上是否有正向重叠
func (s Space) FootprintOverlapsItem(p *model.PlacedItem) bool {
	ox := model.AxisOverlap(s.Origin.X, s.MaxX(), p.Position.X, p.MaxX())
	oz := model.AxisOverlap(s.Origin.Z, s.MaxZ(), p.Position.Z, p.MaxZ())
	return ox > OverlapEpsilon && oz > OverlapEpsilon
}
