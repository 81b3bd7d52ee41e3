// Package constraint 定义落位约束接口和管理器
package constraint

import (
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// Type 约束类型标识
type Type string

const (
	TypeWeightLimit    Type = "weight_limit"       // 容器整体载重上限
	TypeFragileTopFace Type = "fragile_top_face"   // 易碎品顶面禁压
	TypeSupportLimit   Type = "support_limit"      // 支撑件承重上限
	TypeMustBeOnTop    Type = "must_be_on_top"     // 必须位于最高占用面
	TypeMustBeOnBottom Type = "must_be_on_bottom"  // 必须落地
)

// Category 约束类别
type Category string

const (
	// CategoryPhysical 物理硬约束，兜底通道也不放宽（载重、易碎禁压、承重上限）
	CategoryPhysical Category = "physical"
	// CategoryPlacement 摆放约束，兜底通道中被放宽
	CategoryPlacement Category = "placement"
)

// Constraint 落位约束接口
type Constraint interface {
	// Name 返回约束名称
	Name() string

	// Type 返回约束类型
	Type() Type

	// Category 返回约束类别
	Category() Category

	// Check 检查候选落位是否满足约束
	// 返回：是否满足、拒绝原因
	Check(ctx *Context, candidate *model.PlacedItem) (bool, string)
}

// Context 落位检查上下文
// 持有当前运行的容器与落位状态，每次运行独占一份，不跨运行共享
type Context struct {
	Container   *model.Container
	Placed      []*model.PlacedItem
	TotalWeight float64
}

// NewContext 创建落位检查上下文
func NewContext(container *model.Container) *Context {
	return &Context{
		Container: container,
		Placed:    make([]*model.PlacedItem, 0),
	}
}

// AddPlaced 记录已落位货件并更新累计重量
func (c *Context) AddPlaced(p *model.PlacedItem) {
	c.Placed = append(c.Placed, p)
	c.TotalWeight += p.Weight()
}

// RemainingWeight 返回容器剩余承重
func (c *Context) RemainingWeight() float64 {
	return c.Container.MaxWeight - c.TotalWeight
}

// HighestTop 返回当前最高占用面高度
func (c *Context) HighestTop() float64 {
	var highest float64
	for _, p := range c.Placed {
		if top := p.TopY(); top > highest {
			highest = top
		}
	}
	return highest
}
