package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestCargoItem_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		item     CargoItem
		expected bool
	}{
		{"合法货物", CargoItem{Length: 10, Width: 10, Height: 10, Weight: 5, Quantity: 1}, true},
		{"零重量合法", CargoItem{Length: 10, Width: 10, Height: 10, Weight: 0, Quantity: 1}, true},
		{"长度为零", CargoItem{Length: 0, Width: 10, Height: 10, Weight: 5, Quantity: 1}, false},
		{"负高度", CargoItem{Length: 10, Width: 10, Height: -1, Weight: 5, Quantity: 1}, false},
		{"数量为零", CargoItem{Length: 10, Width: 10, Height: 10, Weight: 5, Quantity: 0}, false},
		{"负重量", CargoItem{Length: 10, Width: 10, Height: 10, Weight: -5, Quantity: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.item.IsValid(); result != tt.expected {
				t.Errorf("IsValid() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestCargoItem_HasConstraint(t *testing.T) {
	item := &CargoItem{
		Constraints: []ItemConstraint{
			{Type: ConstraintFragile},
			{Type: ConstraintCanSupportWeight, Value: 20},
		},
	}

	if !item.HasConstraint(ConstraintFragile) {
		t.Error("应识别易碎约束")
	}
	if !item.IsFragile() {
		t.Error("IsFragile() 应为 true")
	}
	if item.HasConstraint(ConstraintMustBeUpright) {
		t.Error("不应识别未声明的约束")
	}

	limit, ok := item.SupportLimit()
	if !ok || limit != 20 {
		t.Errorf("SupportLimit() = %v, %v, expected 20, true", limit, ok)
	}
}

func TestExpandUnits(t *testing.T) {
	items := []*CargoItem{
		{ID: "a", Name: "纸箱", Length: 10, Width: 10, Height: 10, Quantity: 3},
		{ID: "b", Name: "木箱", Length: 20, Width: 20, Height: 20, Quantity: 1},
	}

	units := ExpandUnits(items)
	if len(units) != 4 {
		t.Fatalf("展开后应有4个单件, 实际 %d", len(units))
	}

	// 同一货物的单件序号递增，ID互不相同
	seen := make(map[uuid.UUID]bool)
	for _, u := range units {
		if seen[u.ID] {
			t.Errorf("单件ID重复: %s", u.ID)
		}
		seen[u.ID] = true
	}
	if units[0].Sequence != 1 || units[2].Sequence != 3 {
		t.Errorf("序号应从1递增, 实际 %d, %d", units[0].Sequence, units[2].Sequence)
	}
	if units[0].Label() == units[1].Label() {
		t.Error("多件货物的单件标签应包含序号")
	}
	if units[3].Label() != "木箱" {
		t.Errorf("单件货物的标签不应带序号, 实际 %s", units[3].Label())
	}
}

func TestConsolidateUnpacked(t *testing.T) {
	items := []*CargoItem{
		{ID: "a", Name: "纸箱", Length: 10, Width: 10, Height: 10, Quantity: 2},
		{ID: "b", Name: "木箱", Length: 20, Width: 20, Height: 20, Quantity: 1},
	}
	units := ExpandUnits(items)

	reasons := map[uuid.UUID]string{
		units[0].ID: "超出载重上限",
	}
	unpacked := ConsolidateUnpacked(units, reasons)

	if len(unpacked) != 2 {
		t.Fatalf("合并后应有2条记录, 实际 %d", len(unpacked))
	}
	// 保持输入顺序
	if unpacked[0].Item.ID != "a" || unpacked[1].Item.ID != "b" {
		t.Error("合并应保持原始输入顺序")
	}
	if unpacked[0].Quantity != 2 {
		t.Errorf("纸箱剩余数量应为2, 实际 %d", unpacked[0].Quantity)
	}
	if unpacked[0].Reason != "超出载重上限" {
		t.Errorf("应保留首个失败原因, 实际 %q", unpacked[0].Reason)
	}
}

func TestContainer_IsValid(t *testing.T) {
	valid := &Container{Length: 100, Width: 100, Height: 100, MaxWeight: 500}
	if !valid.IsValid() {
		t.Error("合法容器应通过校验")
	}

	var nilContainer *Container
	if nilContainer.IsValid() {
		t.Error("空容器不应通过校验")
	}

	noWeight := &Container{Length: 100, Width: 100, Height: 100}
	if noWeight.IsValid() {
		t.Error("载重为零的容器不应通过校验")
	}
}
