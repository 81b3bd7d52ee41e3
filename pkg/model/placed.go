package model

import "github.com/google/uuid"

// PlacedItem 已落位的单件货物
// 一经创建不可变，归属于所在运行的结果集
type PlacedItem struct {
	ID          uuid.UUID   `json:"id"`
	Item        *CargoItem  `json:"item"`
	Sequence    int         `json:"sequence"`
	Position    Vector3     `json:"position"`
	Orientation Orientation `json:"orientation"`
	Dims        Dimensions  `json:"dims"`
	// Fallback 标记该件是通过放宽约束的兜底通道落位的
	Fallback bool `json:"fallback,omitempty"`
	// StabilityScore 落位时的稳定性评分
	StabilityScore float64 `json:"stabilityScore,omitempty"`
}

// NewPlacedItem 由单件货物、位置和姿态创建落位记录
func NewPlacedItem(unit *CargoUnit, pos Vector3, o Orientation) *PlacedItem {
	return &PlacedItem{
		ID:          unit.ID,
		Item:        unit.Item,
		Sequence:    unit.Sequence,
		Position:    pos,
		Orientation: o,
		Dims:        o.Apply(unit.Item),
	}
}

// Weight 返回单件重量
func (p *PlacedItem) Weight() float64 {
	return p.Item.Weight
}

// Volume 返回单件体积
func (p *PlacedItem) Volume() float64 {
	return p.Dims.Volume()
}

// MaxX 返回X轴上界
func (p *PlacedItem) MaxX() float64 {
	return p.Position.X + p.Dims.Length
}

// TopY 返回顶面高度
func (p *PlacedItem) TopY() float64 {
	return p.Position.Y + p.Dims.Height
}

// MaxZ 返回Z轴上界
func (p *PlacedItem) MaxZ() float64 {
	return p.Position.Z + p.Dims.Width
}

// Center 返回几何中心
func (p *PlacedItem) Center() Vector3 {
	return Vector3{
		X: p.Position.X + p.Dims.Length/2,
		Y: p.Position.Y + p.Dims.Height/2,
		Z: p.Position.Z + p.Dims.Width/2,
	}
}

// OverlapVolume 计算与另一落位件的三维重叠体积
func (p *PlacedItem) OverlapVolume(other *PlacedItem) float64 {
	ox := AxisOverlap(p.Position.X, p.MaxX(), other.Position.X, other.MaxX())
	oy := AxisOverlap(p.Position.Y, p.TopY(), other.Position.Y, other.TopY())
	oz := AxisOverlap(p.Position.Z, p.MaxZ(), other.Position.Z, other.MaxZ())
	return ox * oy * oz
}

// FootprintOverlapArea 计算与矩形 [x,x+l)×[z,z+w) 在XZ平面上的重叠面积
func (p *PlacedItem) FootprintOverlapArea(x, z, l, w float64) float64 {
	ox := AxisOverlap(p.Position.X, p.MaxX(), x, x+l)
	oz := AxisOverlap(p.Position.Z, p.MaxZ(), z, z+w)
	return ox * oz
}
