package builtin

import (
	"fmt"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
)

// FragileTopConstraint 易碎品顶面禁压约束
// 已落位的易碎品上方的XZ足迹内不允许再摆放任何货件；
// 只有易碎品自身声明了 CAN_SUPPORT_WEIGHT 时例外，改由承重约束限制
type FragileTopConstraint struct {
	*BaseConstraint
}

// NewFragileTopConstraint 创建易碎品顶面禁压约束
func NewFragileTopConstraint() *FragileTopConstraint {
	return &FragileTopConstraint{
		BaseConstraint: NewBaseConstraint(
			"易碎品顶面禁压",
			constraint.TypeFragileTopFace,
			constraint.CategoryPhysical,
		),
	}
}

// Check 检查候选是否压在不可承重的易碎品上方
func (c *FragileTopConstraint) Check(ctx *constraint.Context, candidate *model.PlacedItem) (bool, string) {
	for _, p := range ctx.Placed {
		if !p.Item.IsFragile() {
			continue
		}
		if _, hasLimit := p.Item.SupportLimit(); hasLimit {
			continue
		}
		// 候选底面位于易碎品顶面之上且XZ足迹有正向重叠即违反
		if candidate.Position.Y < p.TopY()-geometry.SupportYTolerance {
			continue
		}
		if candidate.FootprintOverlapArea(p.Position.X, p.Position.Z, p.Dims.Length, p.Dims.Width) > geometry.OverlapEpsilon {
			return false, fmt.Sprintf("不可压在易碎品 '%s' 上方", p.Item.Name)
		}
	}
	return true, ""
}
