package search

import (
	"testing"

	"github.com/google/uuid"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint/builtin"
)

func testSearch(c *model.Container) *Search {
	m := constraint.NewManager()
	builtin.RegisterDefaultConstraints(m)
	return New(c, m, DefaultConfig())
}

func makeUnit(name string, l, w, h, weight float64, cs ...model.ItemConstraint) *model.CargoUnit {
	return &model.CargoUnit{
		ID: uuid.New(),
		Item: &model.CargoItem{
			ID: uuid.NewString(), Name: name,
			Length: l, Width: w, Height: h,
			Weight: weight, Quantity: 1, Constraints: cs,
		},
		Sequence: 1,
	}
}

// 单件立方体应落在容器原点角落
func TestPlaceUnit_SingleCubeAtOrigin(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	s := testSearch(c)

	unit := makeUnit("立方体", 50, 50, 50, 10)
	placed, reason := s.PlaceUnit(unit, model.AllowedOrientations(unit.Item))
	if placed == nil {
		t.Fatalf("落位失败: %s", reason)
	}
	if placed.Position.X != 0 || placed.Position.Y != 0 || placed.Position.Z != 0 {
		t.Errorf("期望落在原点，实际 %+v", placed.Position)
	}
	if placed.Fallback {
		t.Error("常规落位不应带兜底标记")
	}
	if len(s.Placed()) != 1 {
		t.Errorf("已落位件数 = %d, 期望 1", len(s.Placed()))
	}
	if s.TotalWeight() != 10 {
		t.Errorf("总重量 = %.1f, 期望 10", s.TotalWeight())
	}
}

// 尺寸与容器完全一致的货件应允许精确贴合落位
func TestPlaceUnit_ExactFit(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	s := testSearch(c)

	unit := makeUnit("满箱件", 100, 100, 100, 200)
	placed, reason := s.PlaceUnit(unit, model.AllowedOrientations(unit.Item))
	if placed == nil {
		t.Fatalf("精确贴合应可落位: %s", reason)
	}
	if placed.Position != (model.Vector3{}) {
		t.Errorf("精确贴合应落在原点，实际 %+v", placed.Position)
	}
}

// 两件60x100x100放入100^3容器，只有一件能装入
func TestPlaceUnit_OversizedPairOnlyOneFits(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	s := testSearch(c)

	first := makeUnit("大件A", 60, 100, 100, 50)
	second := makeUnit("大件B", 60, 100, 100, 50)

	placed, reason := s.PlaceUnit(first, model.AllowedOrientations(first.Item))
	if placed == nil {
		t.Fatalf("第一件应可落位: %s", reason)
	}

	if p, reason := s.PlaceUnit(second, model.AllowedOrientations(second.Item)); p != nil {
		t.Errorf("第二件不应装入，实际落在 %+v", p.Position)
	} else if reason == "" {
		t.Error("拒绝落位时应给出原因")
	}
	if len(s.Placed()) != 1 {
		t.Errorf("已落位件数 = %d, 期望 1", len(s.Placed()))
	}
}

// 第二件应可堆叠在第一件顶面
func TestPlaceUnit_Stacking(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	s := testSearch(c)

	base := makeUnit("底层板", 100, 100, 20, 40)
	top := makeUnit("上层件", 30, 30, 30, 5)

	if p, reason := s.PlaceUnit(base, model.AllowedOrientations(base.Item)); p == nil {
		t.Fatalf("底层板应可落位: %s", reason)
	}
	p, reason := s.PlaceUnit(top, model.AllowedOrientations(top.Item))
	if p == nil {
		t.Fatalf("上层件应可堆叠: %s", reason)
	}
	if p.Position.Y != 20 {
		t.Errorf("上层件应落在顶面 Y=20，实际 Y=%.1f", p.Position.Y)
	}
}

// 超过容器载重的货件应被拒绝并给出原因
func TestPlaceUnit_WeightLimit(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 100}
	s := testSearch(c)

	heavy := makeUnit("重件", 20, 20, 20, 150)
	p, reason := s.PlaceUnit(heavy, model.AllowedOrientations(heavy.Item))
	if p != nil {
		t.Fatal("超载货件不应落位")
	}
	if reason == "" {
		t.Error("超载拒绝应给出原因")
	}
}

// 兜底落位放宽摆放约束并带 Fallback 标记
func TestPlaceUnitRelaxed_SetsFallback(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	s := testSearch(c)

	floor := makeUnit("铺底板", 100, 100, 20, 40)
	if p, reason := s.PlaceUnit(floor, model.AllowedOrientations(floor.Item)); p == nil {
		t.Fatalf("铺底板应可落位: %s", reason)
	}

	bottomOnly := makeUnit("底层件", 30, 30, 30, 5,
		model.ItemConstraint{Type: model.ConstraintMustBeOnBottom})
	if p, _ := s.PlaceUnit(bottomOnly, model.AllowedOrientations(bottomOnly.Item)); p != nil {
		t.Fatal("底面已被占满时，底层件常规落位应失败")
	}

	p, reason := s.PlaceUnitRelaxed(bottomOnly, model.AllowedOrientations(bottomOnly.Item))
	if p == nil {
		t.Fatalf("兜底落位应成功: %s", reason)
	}
	if !p.Fallback {
		t.Error("兜底落位应带 Fallback 标记")
	}
}

// 兜底落位仍不放宽载重限制
func TestPlaceUnitRelaxed_KeepsWeightLimit(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 100}
	s := testSearch(c)

	heavy := makeUnit("重件", 20, 20, 20, 150)
	if p, _ := s.PlaceUnitRelaxed(heavy, model.AllowedOrientations(heavy.Item)); p != nil {
		t.Fatal("兜底通道不应放宽载重限制")
	}
}

// 注入的外部评估器应参与候选评分
func TestSetEvaluator_Invoked(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	s := testSearch(c)

	eval := &countingEvaluator{}
	s.SetEvaluator(eval)

	unit := makeUnit("立方体", 50, 50, 50, 10)
	if p, reason := s.PlaceUnit(unit, model.AllowedOrientations(unit.Item)); p == nil {
		t.Fatalf("落位失败: %s", reason)
	}
	if eval.calls == 0 {
		t.Error("外部评估器未被调用")
	}
}

type countingEvaluator struct {
	calls int
}

func (e *countingEvaluator) Score(_ *model.Container, _ []*model.PlacedItem, _ *model.PlacedItem) (float64, bool) {
	e.calls++
	return 0.5, true
}
