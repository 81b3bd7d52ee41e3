package geometry

import (
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// InsideContainer 检查给定位置和尺寸的货件是否完全位于容器内
func InsideContainer(pos model.Vector3, d model.Dimensions, c *model.Container) bool {
	return pos.X >= -FitEpsilon && pos.Y >= -FitEpsilon && pos.Z >= -FitEpsilon &&
		pos.X+d.Length <= c.Length+FitEpsilon &&
		pos.Y+d.Height <= c.Height+FitEpsilon &&
		pos.Z+d.Width <= c.Width+FitEpsilon
}

// Overlaps 检查候选位置是否与任一已落位货件碰撞
// 三个轴上的重叠都必须为正才构成碰撞
func Overlaps(pos model.Vector3, d model.Dimensions, placed []*model.PlacedItem) bool {
	for _, p := range placed {
		ox := model.AxisOverlap(pos.X, pos.X+d.Length, p.Position.X, p.MaxX())
		if ox <= OverlapEpsilon {
			continue
		}
		oy := model.AxisOverlap(pos.Y, pos.Y+d.Height, p.Position.Y, p.TopY())
		if oy <= OverlapEpsilon {
			continue
		}
		oz := model.AxisOverlap(pos.Z, pos.Z+d.Width, p.Position.Z, p.MaxZ())
		if oz > OverlapEpsilon {
			return true
		}
	}
	return false
}

// SupportRatio 计算候选位置的底面支撑率 [0,1]
// 地面(y≈0)視为全支撑；其余为顶面贴合货件的XZ重叠面积之和除以底面积
func SupportRatio(pos model.Vector3, d model.Dimensions, placed []*model.PlacedItem) float64 {
	if pos.Y <= SupportYTolerance {
		return 1.0
	}
	base := d.BaseArea()
	if base <= 0 {
		return 0
	}
	var supported float64
	for _, p := range placed {
		if math.Abs(p.TopY()-pos.Y) > SupportYTolerance {
			continue
		}
		supported += p.FootprintOverlapArea(pos.X, pos.Z, d.Length, d.Width)
	}
	ratio := supported / base
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// SupportingItems 返回顶面贴合候选底面且有正向XZ重叠的货件
func SupportingItems(pos model.Vector3, d model.Dimensions, placed []*model.PlacedItem) []*model.PlacedItem {
	var supports []*model.PlacedItem
	for _, p := range placed {
		if math.Abs(p.TopY()-pos.Y) > SupportYTolerance {
			continue
		}
		if p.FootprintOverlapArea(pos.X, pos.Z, d.Length, d.Width) > OverlapEpsilon {
			supports = append(supports, p)
		}
	}
	return supports
}

// ItemsDirectlyAbove 返回位于货件顶面正上方且XZ足迹有正向重叠的货件
func ItemsDirectlyAbove(base *model.PlacedItem, placed []*model.PlacedItem) []*model.PlacedItem {
	var above []*model.PlacedItem
	for _, p := range placed {
		if p == base || p.Position.Y < base.TopY()-SupportYTolerance {
			continue
		}
		if p.FootprintOverlapArea(base.Position.X, base.Position.Z, base.Dims.Length, base.Dims.Width) > OverlapEpsilon {
			above = append(above, p)
		}
	}
	return above
}

// HighestTop 返回当前最高占用面的高度，空集为0
func HighestTop(placed []*model.PlacedItem) float64 {
	var highest float64
	for _, p := range placed {
		if top := p.TopY(); top > highest {
			highest = top
		}
	}
	return highest
}
