package scenario

import (
	"context"
	"testing"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer"
	"github.com/zhuangxiang/zhuangxiang/pkg/stats"
)

// TestWarehousePerfectFit 标准箱满载场景：8个半边长立方体恰好填满容器
func TestWarehousePerfectFit(t *testing.T) {
	container := createContainer(100, 100, 100, 1000)
	items := []*model.CargoItem{
		createItem("标准箱", 50, 50, 50, 25, 8),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	t.Logf("装入: %d/8, 填充率: %.1f%%", result.PackedCount(), result.ContainerFillPercentage)

	if result.PackedCount() != 8 {
		t.Fatalf("装入件数 = %d, 期望 8", result.PackedCount())
	}
	if result.ContainerFillPercentage < 99.9 {
		t.Errorf("填充率 = %.2f%%, 期望满载", result.ContainerFillPercentage)
	}
	assertInvariants(t, container, result, items)
}

// TestWarehouseMixedLoad 电商混合订单：多种规格与数量展开
func TestWarehouseMixedLoad(t *testing.T) {
	container := createContainer(120, 80, 100, 800)
	items := []*model.CargoItem{
		createItem("大纸箱", 60, 40, 40, 18, 2),
		createItem("中纸箱", 40, 30, 30, 8, 4),
		createItem("小纸箱", 20, 20, 15, 2, 6),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	t.Logf("装入: %d/%d, 填充率: %.1f%%",
		result.PackedCount(), totalQuantity(items), result.ContainerFillPercentage)
	if result.PackedCount() == 0 {
		t.Fatal("应至少装入部分货物")
	}
	assertInvariants(t, container, result, items)

	// 同规格多件展开为独立单件，标识互不重复
	seen := make(map[string]bool)
	for _, p := range result.PackedItems {
		key := p.ID.String()
		if seen[key] {
			t.Errorf("单件标识重复: %s", key)
		}
		seen[key] = true
	}

	report := stats.BuildUtilizationReport(container, result.PackedItems, 4)
	if len(report.Layers) != 4 {
		t.Fatalf("分层报告层数 = %d, 期望 4", len(report.Layers))
	}
	if report.FillPercentage != result.ContainerFillPercentage {
		t.Errorf("分层报告填充率 = %.2f, 与结果 %.2f 不一致",
			report.FillPercentage, result.ContainerFillPercentage)
	}
	// 底层应先于上层被占用
	if report.Layers[0].FillPercentage < report.Layers[3].FillPercentage {
		t.Errorf("底层填充率 %.1f%% 低于顶层 %.1f%%",
			report.Layers[0].FillPercentage, report.Layers[3].FillPercentage)
	}
}

// TestWarehouseAlgorithmComparison 同一订单各算法均应给出合法结果
func TestWarehouseAlgorithmComparison(t *testing.T) {
	container := createContainer(120, 80, 100, 800)
	newItems := func() []*model.CargoItem {
		return []*model.CargoItem{
			createItem("大纸箱", 60, 40, 40, 18, 2),
			createItem("中纸箱", 40, 30, 30, 8, 3),
		}
	}

	cfg := packer.DefaultEngineConfig()
	cfg.Genetic.PopulationSize = 8
	cfg.Genetic.Generations = 3
	e := packer.NewEngine(cfg)

	for _, algo := range []packer.Algorithm{
		packer.AlgorithmDefault,
		packer.AlgorithmGuillotine,
		packer.AlgorithmGenetic,
		packer.AlgorithmPhysicsEnhanced,
		packer.AlgorithmRLHeuristic,
	} {
		t.Run(string(algo), func(t *testing.T) {
			items := newItems()
			result, err := e.Pack(context.Background(), &packer.Request{
				Container: container,
				Items:     items,
				Algorithm: algo,
			})
			if err != nil {
				t.Fatalf("装箱执行失败: %v", err)
			}
			t.Logf("%s: 装入 %d/%d, 填充率 %.1f%%",
				algo, result.PackedCount(), totalQuantity(items), result.ContainerFillPercentage)
			if result.PackedCount() == 0 {
				t.Error("应至少装入部分货物")
			}
			assertInvariants(t, container, result, items)
		})
	}
}
