// Package model 定义装箱引擎的核心数据模型
package model

import "math"

// Vector3 三维坐标
// X 沿容器长度方向，Y 竖直向上，Z 沿容器宽度方向
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add 向量相加
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// HorizontalDistance 计算XZ平面上到另一点的距离（忽略高度）
func (v Vector3) HorizontalDistance(other Vector3) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Dimensions 轴对齐尺寸
// Length 沿X轴，Height 沿Y轴，Width 沿Z轴
type Dimensions struct {
	Length float64 `json:"length"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// Volume 计算体积
func (d Dimensions) Volume() float64 {
	return d.Length * d.Height * d.Width
}

// BaseArea 计算底面积（XZ平面）
func (d Dimensions) BaseArea() float64 {
	return d.Length * d.Width
}

// MaxExtent 返回最大边长
func (d Dimensions) MaxExtent() float64 {
	return math.Max(d.Length, math.Max(d.Height, d.Width))
}

// MinExtent 返回最小边长
func (d Dimensions) MinExtent() float64 {
	return math.Min(d.Length, math.Min(d.Height, d.Width))
}

// AxisOverlap 计算一维区间 [aStart, aEnd) 与 [bStart, bEnd) 的正向重叠长度
func AxisOverlap(aStart, aEnd, bStart, bEnd float64) float64 {
	overlap := math.Min(aEnd, bEnd) - math.Max(aStart, bStart)
	if overlap < 0 {
		return 0
	}
	return overlap
}
