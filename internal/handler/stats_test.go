package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

func statsPlaced(x, y, z, l, w, h, weight float64) *model.PlacedItem {
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

func TestStatsHandler_Utilization(t *testing.T) {
	h := NewStatsHandler()
	w := postJSON(t, h.Utilization, "/api/v1/stats/utilization", StatsRequest{
		Container: &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000},
		PackedItems: []*model.PlacedItem{
			statsPlaced(0, 0, 0, 100, 100, 25, 100),
		},
		LayerCount: 4,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	var resp UtilizationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("响应 = %+v, 期望成功", resp)
	}
	if len(resp.Data.Layers) != 4 {
		t.Errorf("层数 = %d, 期望 4", len(resp.Data.Layers))
	}
	if resp.Data.FillPercentage != 25 {
		t.Errorf("填充率 = %.2f, 期望 25", resp.Data.FillPercentage)
	}
}

func TestStatsHandler_Balance(t *testing.T) {
	h := NewStatsHandler()
	w := postJSON(t, h.Balance, "/api/v1/stats/balance", StatsRequest{
		Container: &model.Container{Length: 100, Width: 100, Height: 100, MaxWeight: 1000},
		PackedItems: []*model.PlacedItem{
			statsPlaced(0, 0, 0, 20, 20, 20, 100),
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	var resp BalanceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("响应 = %+v, 期望成功", resp)
	}
	if resp.Data.Balanced {
		t.Error("单角偏置配载不应判定为平衡")
	}
}

func TestStatsHandler_InvalidContainer(t *testing.T) {
	h := NewStatsHandler()
	w := postJSON(t, h.Utilization, "/api/v1/stats/utilization", StatsRequest{
		Container: &model.Container{Length: 0, Width: 100, Height: 100, MaxWeight: 100},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", w.Code)
	}
}

func TestStatsHandler_MethodNotAllowed(t *testing.T) {
	h := NewStatsHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/balance", nil)
	w := httptest.NewRecorder()
	h.Balance(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", w.Code)
	}
}

func TestConstraintLibraryHandler(t *testing.T) {
	h := NewConstraintLibraryHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/constraints/library", nil)
	w := httptest.NewRecorder()
	h.Library(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	var resp struct {
		Library []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"library"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(resp.Library) < 6 {
		t.Errorf("约束目录条目数 = %d, 期望至少 6", len(resp.Library))
	}
	names := make(map[string]bool)
	for _, c := range resp.Library {
		names[c.Name] = true
	}
	for _, want := range []string{"weight_limit", "fragile", "must_be_upright"} {
		if !names[want] {
			t.Errorf("约束目录缺少 %s", want)
		}
	}
}
