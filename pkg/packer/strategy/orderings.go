// Package strategy 提供装箱顺序策略与多策略执行器
package strategy

import (
	"sort"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// Strategy 装箱顺序策略
// 只决定单件货物的处理顺序，落位本身由搜索器完成
type Strategy interface {
	// Name 返回策略名称
	Name() string

	// Order 返回按该策略排序的单件列表（不修改输入）
	Order(units []*model.CargoUnit) []*model.CargoUnit
}

// orderBy 按比较函数稳定排序，先比较主键，相等时非易碎品在前
func orderBy(units []*model.CargoUnit, less func(a, b *model.CargoUnit) int) []*model.CargoUnit {
	ordered := make([]*model.CargoUnit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(i, j int) bool {
		switch less(ordered[i], ordered[j]) {
		case -1:
			return true
		case 1:
			return false
		}
		// 同键值时非易碎品优先落位
		return !ordered[i].Item.IsFragile() && ordered[j].Item.IsFragile()
	})
	return ordered
}

func cmpFloatDesc(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}

// LargestVolumeFirst 最大体积优先
type LargestVolumeFirst struct{}

// Name 返回策略名称
func (LargestVolumeFirst) Name() string { return "largest_volume_first" }

// Order 按体积降序排序
func (LargestVolumeFirst) Order(units []*model.CargoUnit) []*model.CargoUnit {
	return orderBy(units, func(a, b *model.CargoUnit) int {
		return cmpFloatDesc(a.Item.Volume(), b.Item.Volume())
	})
}

// HeaviestFirst 最重优先
type HeaviestFirst struct{}

// Name 返回策略名称
func (HeaviestFirst) Name() string { return "heaviest_first" }

// Order 按重量降序排序
func (HeaviestFirst) Order(units []*model.CargoUnit) []*model.CargoUnit {
	return orderBy(units, func(a, b *model.CargoUnit) int {
		return cmpFloatDesc(a.Item.Weight, b.Item.Weight)
	})
}

// MostConstrainedFirst 约束最多优先
// 约束多的货件可选位置少，先处理以免后续无处可放
type MostConstrainedFirst struct{}

// Name 返回策略名称
func (MostConstrainedFirst) Name() string { return "most_constrained_first" }

// Order 按约束数量降序，同数量按体积降序
func (MostConstrainedFirst) Order(units []*model.CargoUnit) []*model.CargoUnit {
	return orderBy(units, func(a, b *model.CargoUnit) int {
		if c := cmpFloatDesc(float64(a.Item.ConstraintCount()), float64(b.Item.ConstraintCount())); c != 0 {
			return c
		}
		return cmpFloatDesc(a.Item.Volume(), b.Item.Volume())
	})
}

// WallBuildingByHeight 按高度砌墙
// 高件先行，沿容器壁筑起稳定的"墙"，矮件填充剩余空间
type WallBuildingByHeight struct{}

// Name 返回策略名称
func (WallBuildingByHeight) Name() string { return "wall_building_by_height" }

// Order 按高度降序，同高度按底面积降序
func (WallBuildingByHeight) Order(units []*model.CargoUnit) []*model.CargoUnit {
	return orderBy(units, func(a, b *model.CargoUnit) int {
		if c := cmpFloatDesc(a.Item.Height, b.Item.Height); c != 0 {
			return c
		}
		return cmpFloatDesc(a.Item.Length*a.Item.Width, b.Item.Length*b.Item.Width)
	})
}

// DefaultStrategies 返回默认的策略序列
func DefaultStrategies() []Strategy {
	return []Strategy{
		LargestVolumeFirst{},
		HeaviestFirst{},
		MostConstrainedFirst{},
		WallBuildingByHeight{},
	}
}
