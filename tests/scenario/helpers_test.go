// Package scenario 提供场景测试
package scenario

import (
	"testing"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/validator"
)

// createContainer 创建测试容器
func createContainer(length, width, height, maxWeight float64) *model.Container {
	return &model.Container{
		Length:    length,
		Width:     width,
		Height:    height,
		MaxWeight: maxWeight,
	}
}

// createItem 创建货物定义
func createItem(name string, l, w, h, weight float64, qty int, cs ...model.ItemConstraint) *model.CargoItem {
	return &model.CargoItem{
		ID:          name,
		Name:        name,
		Length:      l,
		Width:       w,
		Height:      h,
		Weight:      weight,
		Quantity:    qty,
		Constraints: cs,
	}
}

// totalQuantity 输入清单的总件数
func totalQuantity(items []*model.CargoItem) int {
	var n int
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// assertInvariants 校验装箱结果的全部不变量并检查件数守恒
func assertInvariants(t *testing.T, container *model.Container, result *model.PackingResult, items []*model.CargoItem) {
	t.Helper()
	report := validator.Validate(container, result, items)
	if !report.Valid {
		for _, v := range report.Violations {
			t.Errorf("不变量违例 [%s] %s: %s", v.Rule, v.Item, v.Message)
		}
	}
	if got := result.PackedCount() + result.UnpackedCount(); got != totalQuantity(items) {
		t.Errorf("件数不守恒: 装入 %d + 未装入 %d != 输入 %d",
			result.PackedCount(), result.UnpackedCount(), totalQuantity(items))
	}
}
