// Package validator 对装箱结果做事后不变量校验
// 用于验收接口与测试，独立于引擎内部的落位判定逻辑
package validator

import (
	"fmt"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/geometry"
)

// 校验阈值
const (
	// OverlapTolerance 允许的成对相交体积上限
	OverlapTolerance = 1e-6
	// MinSupportRatio 非兜底落位要求的最小底面支撑率
	MinSupportRatio = 0.5
)

// Violation 单条不变量违例
type Violation struct {
	Rule    string `json:"rule"`
	Item    string `json:"item,omitempty"`
	Message string `json:"message"`
}

// Report 校验报告
type Report struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

func (r *Report) add(rule, item, format string, args ...interface{}) {
	r.Valid = false
	r.Violations = append(r.Violations, Violation{
		Rule:    rule,
		Item:    item,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate 校验装箱结果满足全部几何与物理不变量
// 输入货物清单用于核对件数守恒，可传 nil 跳过该项
func Validate(container *model.Container, result *model.PackingResult, items []*model.CargoItem) *Report {
	report := &Report{Valid: true}
	if container == nil || result == nil {
		report.add("input", "", "容器或结果为空")
		return report
	}

	checkBounds(report, container, result.PackedItems)
	checkOverlap(report, result.PackedItems)
	checkWeight(report, container, result.PackedItems)
	checkSupport(report, result.PackedItems)
	checkFragile(report, result.PackedItems)
	if items != nil {
		checkConservation(report, result, items)
	}
	return report
}

// checkBounds 每件货物完全位于容器内
func checkBounds(report *Report, container *model.Container, placed []*model.PlacedItem) {
	for _, p := range placed {
		if !geometry.InsideContainer(p.Position, p.Dims, container) {
			report.add("bounds", p.Item.Name, "货件超出容器边界: 位置(%.2f, %.2f, %.2f) 尺寸(%.2f, %.2f, %.2f)",
				p.Position.X, p.Position.Y, p.Position.Z, p.Dims.Length, p.Dims.Height, p.Dims.Width)
		}
	}
}

// checkOverlap 任意两件货物的相交体积不超过容差
func checkOverlap(report *Report, placed []*model.PlacedItem) {
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			if v := placed[i].OverlapVolume(placed[j]); v > OverlapTolerance {
				report.add("overlap", placed[i].Item.Name, "与 %s 相交体积 %.6f", placed[j].Item.Name, v)
			}
		}
	}
}

// checkWeight 总重量不超过容器载重上限
func checkWeight(report *Report, container *model.Container, placed []*model.PlacedItem) {
	if container.MaxWeight <= 0 {
		return
	}
	var total float64
	for _, p := range placed {
		total += p.Weight()
	}
	if total > container.MaxWeight {
		report.add("weight", "", "总重量 %.2f 超过载重上限 %.2f", total, container.MaxWeight)
	}
}

// checkSupport 非兜底落位的底面支撑率不低于下限
func checkSupport(report *Report, placed []*model.PlacedItem) {
	for i, p := range placed {
		if p.Fallback {
			continue
		}
		others := make([]*model.PlacedItem, 0, len(placed)-1)
		others = append(others, placed[:i]...)
		others = append(others, placed[i+1:]...)
		if ratio := geometry.SupportRatio(p.Position, p.Dims, others); ratio < MinSupportRatio {
			report.add("support", p.Item.Name, "底面支撑率 %.2f 低于下限 %.2f", ratio, MinSupportRatio)
		}
	}
}

// checkFragile 易碎货物顶面上方不得有其他货物
// 易碎货物自身声明了可承重上限时除外，压载由承重校验另行约束
func checkFragile(report *Report, placed []*model.PlacedItem) {
	for _, base := range placed {
		if !base.Item.IsFragile() {
			continue
		}
		if _, ok := base.Item.SupportLimit(); ok {
			continue
		}
		for _, above := range geometry.ItemsDirectlyAbove(base, placed) {
			report.add("fragile", base.Item.Name, "易碎货物上方压有 %s", above.Item.Name)
		}
	}
}

// checkConservation 已装入与未装入件数之和等于输入总件数
func checkConservation(report *Report, result *model.PackingResult, items []*model.CargoItem) {
	var total int
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += qty
	}
	if got := result.PackedCount() + result.UnpackedCount(); got != total {
		report.add("conservation", "", "装入 %d + 未装入 %d 不等于输入总件数 %d",
			result.PackedCount(), result.UnpackedCount(), total)
	}
}
