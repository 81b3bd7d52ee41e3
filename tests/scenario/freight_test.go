package scenario

import (
	"context"
	"testing"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer"
	"github.com/zhuangxiang/zhuangxiang/pkg/stats"
)

// TestFreightWeightLimit 重货场景：载重上限先于空间耗尽
func TestFreightWeightLimit(t *testing.T) {
	// 空间充裕但载重紧张的轻型货车
	container := createContainer(300, 170, 180, 1000)

	items := []*model.CargoItem{
		createItem("钢件托盘", 80, 60, 40, 450, 4),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	t.Logf("装入: %d 件, 总重量: %.0f / %.0f",
		result.PackedCount(), result.TotalWeight, container.MaxWeight)

	// 450×3 > 1000，最多装入2件
	if result.PackedCount() != 2 {
		t.Errorf("装入件数 = %d, 期望 2", result.PackedCount())
	}
	if result.TotalWeight > container.MaxWeight {
		t.Errorf("总重量 %.0f 超过载重上限 %.0f", result.TotalWeight, container.MaxWeight)
	}
	if result.UnpackedCount() != 2 {
		t.Errorf("未装入件数 = %d, 期望 2", result.UnpackedCount())
	}
	for _, u := range result.UnpackedItems {
		if u.Reason == "" {
			t.Errorf("未装入货物 %s 缺少原因", u.Item.Name)
		}
		t.Logf("未装入 %s ×%d: %s", u.Item.Name, u.Quantity, u.Reason)
	}
	assertInvariants(t, container, result, items)
}

// TestFreightBalanceReport 重货装载后的配载平衡报告
func TestFreightBalanceReport(t *testing.T) {
	container := createContainer(300, 170, 180, 5000)

	items := []*model.CargoItem{
		createItem("机床底座", 100, 80, 50, 800, 2),
		createItem("配件箱", 60, 50, 40, 120, 6),
	}

	cfg := packer.DefaultEngineConfig()
	e := packer.NewEngine(cfg)
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
		Algorithm: packer.AlgorithmPhysicsEnhanced,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}
	if result.PackedCount() != totalQuantity(items) {
		t.Fatalf("装入件数 = %d, 期望全部装入 %d", result.PackedCount(), totalQuantity(items))
	}
	assertInvariants(t, container, result, items)

	report := stats.BuildBalanceReport(container, result.PackedItems)
	t.Logf("重心: (%.1f, %.1f, %.1f), 偏移比: %.3f",
		report.CenterOfGravity.X, report.CenterOfGravity.Y, report.CenterOfGravity.Z,
		report.OffsetRatio)
	t.Logf("四象限重量: %+v", report.Quadrants)

	if report.TotalWeight != result.TotalWeight {
		t.Errorf("平衡报告总重量 = %.0f, 期望 %.0f", report.TotalWeight, result.TotalWeight)
	}
	// 物理增强模式下重心偏移不应过大
	if report.OffsetRatio > 0.5 {
		t.Errorf("重心偏移比 = %.3f, 过于偏置", report.OffsetRatio)
	}
}

// TestFreightBottomHeavy 重件置底与顶层限定
func TestFreightBottomHeavy(t *testing.T) {
	container := createContainer(200, 150, 150, 3000)

	items := []*model.CargoItem{
		createItem("铸铁块", 60, 60, 40, 300, 2,
			model.ItemConstraint{Type: model.ConstraintMustBeOnBottom}),
		createItem("标准箱", 50, 50, 40, 30, 4),
		createItem("样品盒", 40, 40, 20, 5, 2,
			model.ItemConstraint{Type: model.ConstraintMustBeOnTop}),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}
	assertInvariants(t, container, result, items)

	for _, p := range result.PackedItems {
		if p.Fallback {
			continue
		}
		if p.Item.Name == "铸铁块" && p.Position.Y != 0 {
			t.Errorf("铸铁块落在 Y=%.1f, 应置底", p.Position.Y)
		}
	}
}

// TestFreightTopPinned 顶层限定货物必须落在最高占用面
func TestFreightTopPinned(t *testing.T) {
	container := createContainer(100, 100, 100, 1000)

	// 托板铺满底面，顶层限定件只能落在其顶面
	items := []*model.CargoItem{
		createItem("托板", 100, 100, 30, 80, 1),
		createItem("仪表箱", 30, 30, 30, 5, 1,
			model.ItemConstraint{Type: model.ConstraintMustBeOnTop}),
	}

	e := packer.NewEngine(packer.DefaultEngineConfig())
	result, err := e.Pack(context.Background(), &packer.Request{
		Container: container,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("装箱执行失败: %v", err)
	}

	if result.PackedCount() != 2 {
		t.Fatalf("装入件数 = %d, 期望 2", result.PackedCount())
	}
	assertInvariants(t, container, result, items)

	for _, p := range result.PackedItems {
		if p.Item.Name != "仪表箱" {
			continue
		}
		if p.Fallback {
			t.Fatal("仪表箱不应经由兜底通道落位")
		}
		if p.Position.Y != 30 {
			t.Errorf("仪表箱落在 Y=%.1f, 应位于托板顶面 30", p.Position.Y)
		}
	}
}
