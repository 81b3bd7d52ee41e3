package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

func placedBox(x, y, z, l, w, h, weight float64) *model.PlacedItem {
	unit := &model.CargoUnit{
		ID: uuid.New(),
		Item: &model.CargoItem{
			ID: uuid.NewString(), Name: "测试件",
			Length: l, Width: w, Height: h,
			Weight: weight, Quantity: 1,
		},
		Sequence: 1,
	}
	return model.NewPlacedItem(unit, model.Vector3{X: x, Y: y, Z: z}, model.OrientationUpright)
}

func TestBuildUtilizationReport(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	placed := []*model.PlacedItem{
		// 铺满底部25高度的货板
		placedBox(0, 0, 0, 100, 100, 25, 100),
		// 其上的半截货件，跨第二层
		placedBox(0, 25, 0, 50, 50, 25, 20),
	}

	report := BuildUtilizationReport(c, placed, 4)
	if report.ContainerVolume != 1e6 {
		t.Errorf("容器体积 = %.0f, 期望 1000000", report.ContainerVolume)
	}
	wantPacked := 100.0*100*25 + 50.0*50*25
	if report.PackedVolume != wantPacked {
		t.Errorf("货物体积 = %.0f, 期望 %.0f", report.PackedVolume, wantPacked)
	}
	if report.UsedHeight != 50 {
		t.Errorf("货堆高度 = %.0f, 期望 50", report.UsedHeight)
	}
	if len(report.Layers) != 4 {
		t.Fatalf("层数 = %d, 期望 4", len(report.Layers))
	}

	// 第一层被货板铺满
	if got := report.Layers[0].FillPercentage; math.Abs(got-100) > 1e-9 {
		t.Errorf("第一层填充率 = %.2f, 期望 100", got)
	}
	if report.Layers[0].ItemCount != 1 {
		t.Errorf("第一层货件数 = %d, 期望 1", report.Layers[0].ItemCount)
	}
	// 第二层只有半截货件：50x50x25 / 100x100x25 = 25%
	if got := report.Layers[1].FillPercentage; math.Abs(got-25) > 1e-9 {
		t.Errorf("第二层填充率 = %.2f, 期望 25", got)
	}
	// 上两层为空
	if report.Layers[2].ItemCount != 0 || report.Layers[3].ItemCount != 0 {
		t.Error("上两层应无货件")
	}
}

func TestBuildUtilizationReport_DefaultLayerCount(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	report := BuildUtilizationReport(c, nil, 0)
	if len(report.Layers) != 4 {
		t.Errorf("默认层数 = %d, 期望 4", len(report.Layers))
	}
	if report.FillPercentage != 0 || report.UsedHeight != 0 {
		t.Error("空结果的填充率与货堆高度应为 0")
	}
}

func TestBuildBalanceReport_Centered(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	// 四角对称放置，重心落在中心
	placed := []*model.PlacedItem{
		placedBox(0, 0, 0, 20, 20, 20, 10),
		placedBox(80, 0, 0, 20, 20, 20, 10),
		placedBox(0, 0, 80, 20, 20, 20, 10),
		placedBox(80, 0, 80, 20, 20, 20, 10),
	}

	report := BuildBalanceReport(c, placed)
	if report.TotalWeight != 40 {
		t.Errorf("总重量 = %.0f, 期望 40", report.TotalWeight)
	}
	if math.Abs(report.OffsetRatio) > 1e-9 {
		t.Errorf("对称配载的偏移比 = %.4f, 期望 0", report.OffsetRatio)
	}
	if !report.Balanced {
		t.Error("对称配载应判定为平衡")
	}
	q := report.Quadrants
	if q.FrontLeft != 10 || q.FrontRight != 10 || q.RearLeft != 10 || q.RearRight != 10 {
		t.Errorf("四象限重量 = %+v, 期望各 10", q)
	}
}

func TestBuildBalanceReport_OffCenter(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	// 全部重量压在前左角
	placed := []*model.PlacedItem{
		placedBox(0, 0, 0, 20, 20, 20, 100),
	}

	report := BuildBalanceReport(c, placed)
	if report.Balanced {
		t.Error("偏置配载不应判定为平衡")
	}
	if report.OffsetRatio <= BalanceOffsetThreshold {
		t.Errorf("偏移比 = %.4f, 应超过阈值 %.2f", report.OffsetRatio, BalanceOffsetThreshold)
	}
	if report.Quadrants.FrontLeft != 100 {
		t.Errorf("前左象限重量 = %.0f, 期望 100", report.Quadrants.FrontLeft)
	}
	if report.Quadrants.RearRight != 0 {
		t.Errorf("后右象限重量 = %.0f, 期望 0", report.Quadrants.RearRight)
	}
}

func TestBuildBalanceReport_Empty(t *testing.T) {
	c := &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000}
	report := BuildBalanceReport(c, nil)
	if !report.Balanced {
		t.Error("空载应判定为平衡")
	}
	if report.TotalWeight != 0 {
		t.Errorf("空载总重量 = %.0f, 期望 0", report.TotalWeight)
	}
}
