package builtin

import (
	"fmt"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
)

// positionTolerance 高度位置约束的判定容差
const positionTolerance = 1e-3

// MustBeOnTopConstraint 顶层摆放约束
// 带 MUST_BE_ON_TOP 的候选必须落在当前最高占用面（或空容器地面）
type MustBeOnTopConstraint struct {
	*BaseConstraint
}

// NewMustBeOnTopConstraint 创建顶层摆放约束
func NewMustBeOnTopConstraint() *MustBeOnTopConstraint {
	return &MustBeOnTopConstraint{
		BaseConstraint: NewBaseConstraint(
			"必须顶层摆放",
			constraint.TypeMustBeOnTop,
			constraint.CategoryPlacement,
		),
	}
}

// Check 检查候选高度是否达到当前最高占用面
func (c *MustBeOnTopConstraint) Check(ctx *constraint.Context, candidate *model.PlacedItem) (bool, string) {
	if !candidate.Item.HasConstraint(model.ConstraintMustBeOnTop) {
		return true, ""
	}
	highest := ctx.HighestTop()
	if candidate.Position.Y < highest-positionTolerance {
		return false, fmt.Sprintf("物品 '%s' 必须放在最高占用面 %.2f，当前 %.2f",
			candidate.Item.Name, highest, candidate.Position.Y)
	}
	return true, ""
}

// MustBeOnBottomConstraint 底层摆放约束
// 带 MUST_BE_ON_BOTTOM 的候选必须落地
type MustBeOnBottomConstraint struct {
	*BaseConstraint
}

// NewMustBeOnBottomConstraint 创建底层摆放约束
func NewMustBeOnBottomConstraint() *MustBeOnBottomConstraint {
	return &MustBeOnBottomConstraint{
		BaseConstraint: NewBaseConstraint(
			"必须底层摆放",
			constraint.TypeMustBeOnBottom,
			constraint.CategoryPlacement,
		),
	}
}

// Check 检查候选是否落地
func (c *MustBeOnBottomConstraint) Check(ctx *constraint.Context, candidate *model.PlacedItem) (bool, string) {
	if !candidate.Item.HasConstraint(model.ConstraintMustBeOnBottom) {
		return true, ""
	}
	if candidate.Position.Y > geometry.SupportYTolerance {
		return false, fmt.Sprintf("物品 '%s' 必须落地，当前高度 %.2f",
			candidate.Item.Name, candidate.Position.Y)
	}
	return true, ""
}
