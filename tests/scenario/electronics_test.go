package scenario

import (
	"context"
	"testing"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer"
)

// TestElectronicsFragileLoad 家电混装场景：易碎品不被压顶
func TestElectronicsFragileLoad(t *testing.T) {
	container := createContainer(235, 230, 239, 2000)

	items := []*model.CargoItem{
		createItem("洗衣机", 60, 60, 85, 70, 4),
		createItem("微波炉", 50, 40, 30, 12, 6),
		createItem("电视机", 120, 15, 75, 25, 3,
			model.ItemConstraint{Type: model.ConstraintFragile},
			model.ItemConstraint{Type: model.ConstraintMustBeUpright}),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	t.Logf("装入: %d 件, 未装入: %d 件", result.PackedCount(), result.UnpackedCount())
	t.Logf("填充率: %.1f%%, 载重利用率: %.1f%%",
		result.ContainerFillPercentage, result.WeightCapacityPercentage)

	if result.PackedCount() == 0 {
		t.Fatal("应至少装入部分货物")
	}
	assertInvariants(t, container, result, items)

	// 电视机必须保持直立姿态
	for _, p := range result.PackedItems {
		if p.Item.Name != "电视机" {
			continue
		}
		if p.Dims.Height != p.Item.Height {
			t.Errorf("电视机姿态高度 = %.1f, 期望保持 %.1f", p.Dims.Height, p.Item.Height)
		}
	}
}

// TestElectronicsReinforcedFragileStacking 自身声明可承重的易碎品允许被压
func TestElectronicsReinforcedFragileStacking(t *testing.T) {
	container := createContainer(100, 100, 100, 500)

	items := []*model.CargoItem{
		createItem("加固玻璃面板", 100, 100, 20, 30, 1,
			model.ItemConstraint{Type: model.ConstraintFragile},
			model.ItemConstraint{Type: model.ConstraintCanSupportWeight, Value: 10}),
		createItem("泡沫垫层", 60, 60, 20, 2, 1),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	// 面板铺满底面后，垫层只能落在其上，面板的可承重声明使其免于易碎禁压
	if result.PackedCount() != 2 {
		t.Fatalf("装入件数 = %d, 期望 2", result.PackedCount())
	}
	assertInvariants(t, container, result, items)
}

// TestElectronicsFragileNeverCrushed 无承重声明的易碎品上方任何货物都不得落位
func TestElectronicsFragileNeverCrushed(t *testing.T) {
	container := createContainer(100, 100, 100, 500)

	// 面板铺满底面且无承重声明，第二件即使自身声明可承重也只能未装入
	items := []*model.CargoItem{
		createItem("玻璃面板", 100, 100, 20, 30, 1,
			model.ItemConstraint{Type: model.ConstraintFragile}),
		createItem("支撑托架", 60, 60, 20, 2, 1,
			model.ItemConstraint{Type: model.ConstraintCanSupportWeight, Value: 10}),
	}

	cfg := packer.DefaultEngineConfig()
	cfg.Strategy.EnableFallback = false

	e := packer.NewEngine(cfg)
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	// 两件无法共存：面板铺底后托架无处可放，托架先落地则面板无处可放
	if result.PackedCount() != 1 {
		t.Fatalf("装入件数 = %d, 期望 1", result.PackedCount())
	}
	if result.UnpackedCount() != 1 {
		t.Fatalf("未装入件数 = %d, 期望 1", result.UnpackedCount())
	}
	assertInvariants(t, container, result, items)
}

// TestElectronicsUprightOrientations 直立约束限制可用姿态
func TestElectronicsUprightOrientations(t *testing.T) {
	item := createItem("立式冰箱", 70, 70, 180, 80, 1,
		model.ItemConstraint{Type: model.ConstraintMustBeUpright})

	orientations := model.AllowedOrientations(item)
	if len(orientations) != 2 {
		t.Fatalf("直立货物允许姿态数 = %d, 期望 2", len(orientations))
	}
	for _, o := range orientations {
		if dims := o.Apply(item); dims.Height != item.Height {
			t.Errorf("姿态 %v 改变了竖直高度", o)
		}
	}
}
