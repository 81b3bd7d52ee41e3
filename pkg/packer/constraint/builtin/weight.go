package builtin

import (
	"fmt"
	"math"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
)

// WeightLimitConstraint 容器整体载重约束
// 物理硬约束，兜底通道也不放宽
type WeightLimitConstraint struct {
	*BaseConstraint
}

// NewWeightLimitConstraint 创建容器载重约束
func NewWeightLimitConstraint() *WeightLimitConstraint {
	return &WeightLimitConstraint{
		BaseConstraint: NewBaseConstraint(
			"容器载重上限",
			constraint.TypeWeightLimit,
			constraint.CategoryPhysical,
		),
	}
}

// Check 检查加入候选后总重是否超出容器最大载重
func (c *WeightLimitConstraint) Check(ctx *constraint.Context, candidate *model.PlacedItem) (bool, string) {
	total := ctx.TotalWeight + candidate.Weight()
	if total > ctx.Container.MaxWeight+geometry.FitEpsilon {
		return false, fmt.Sprintf("物品 '%s' 重量 %.2f 超出剩余承重 %.2f",
			candidate.Item.Name, candidate.Weight(), ctx.RemainingWeight())
	}
	return true, ""
}

// SupportLimitConstraint 支撑件承重约束
// 候选直接压在声明了 CAN_SUPPORT_WEIGHT 的货件上时，
// 该货件顶面的累计载重不得超过声明值
type SupportLimitConstraint struct {
	*BaseConstraint
}

// NewSupportLimitConstraint 创建支撑件承重约束
func NewSupportLimitConstraint() *SupportLimitConstraint {
	return &SupportLimitConstraint{
		BaseConstraint: NewBaseConstraint(
			"支撑件承重上限",
			constraint.TypeSupportLimit,
			constraint.CategoryPhysical,
		),
	}
}

// Check 检查候选的各个直接支撑件是否超出其承重上限
func (c *SupportLimitConstraint) Check(ctx *constraint.Context, candidate *model.PlacedItem) (bool, string) {
	supports := geometry.SupportingItems(candidate.Position, candidate.Dims, ctx.Placed)
	for _, s := range supports {
		limit, ok := s.Item.SupportLimit()
		if !ok {
			continue
		}
		load := candidate.Weight()
		// 累计同一支撑件上已有的直接载重
		for _, p := range ctx.Placed {
			if p == s {
				continue
			}
			if math.Abs(p.Position.Y-s.TopY()) <= geometry.SupportYTolerance &&
				p.FootprintOverlapArea(s.Position.X, s.Position.Z, s.Dims.Length, s.Dims.Width) > geometry.OverlapEpsilon {
				load += p.Weight()
			}
		}
		if load > limit+geometry.FitEpsilon {
			return false, fmt.Sprintf("支撑件 '%s' 承重 %.2f 超出上限 %.2f", s.Item.Name, load, limit)
		}
	}
	return true, ""
}
