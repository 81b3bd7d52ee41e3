// Package integration 提供API集成测试
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zhuangxiang/zhuangxiang/internal/handler"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer"
)

// newTestMux 按服务入口的路由表组装处理器
func newTestMux() *http.ServeMux {
	packHandler := handler.NewPackHandler(packer.DefaultEngineConfig(), 30*time.Second, nil)
	statsHandler := handler.NewStatsHandler()
	libraryHandler := handler.NewConstraintLibraryHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/pack/generate", packHandler.Generate)
	mux.HandleFunc("/api/v1/pack/stream", packHandler.Stream)
	mux.HandleFunc("/api/v1/pack/validate", packHandler.Validate)
	mux.HandleFunc("/api/v1/constraints/library", libraryHandler.Library)
	mux.HandleFunc("/api/v1/stats/utilization", statsHandler.Utilization)
	mux.HandleFunc("/api/v1/stats/balance", statsHandler.Balance)
	return mux
}

func post(t *testing.T, mux *http.ServeMux, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("编码请求失败: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// TestPackingWorkflow 完整装箱工作流：计算、结果校验、统计报告
func TestPackingWorkflow(t *testing.T) {
	mux := newTestMux()
	container := &model.Container{Length: 120, Width: 100, Height: 100, MaxWeight: 800}
	items := []*model.CargoItem{
		{ID: "a", Name: "大纸箱", Length: 60, Width: 50, Height: 40, Weight: 18, Quantity: 2},
		{ID: "b", Name: "小纸箱", Length: 30, Width: 30, Height: 20, Weight: 4, Quantity: 4},
	}

	// 1. 执行装箱计算
	w := post(t, mux, "/api/v1/pack/generate", handler.PackRequest{
		Container: container,
		Items:     items,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("装箱请求状态码 = %d, 响应: %s", w.Code, w.Body.String())
	}
	var packResp handler.PackResponse
	if err := json.Unmarshal(w.Body.Bytes(), &packResp); err != nil {
		t.Fatalf("解析装箱响应失败: %v", err)
	}
	if packResp.Result == nil || packResp.Result.PackedCount() == 0 {
		t.Fatal("装箱结果为空")
	}
	t.Logf("装入 %d 件, 填充率 %.1f%%",
		packResp.Result.PackedCount(), packResp.Result.ContainerFillPercentage)

	// 2. 结果经校验接口复核
	w = post(t, mux, "/api/v1/pack/validate", handler.ValidateRequest{
		Container: container,
		Items:     items,
		Result:    packResp.Result,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("校验请求状态码 = %d", w.Code)
	}
	var report struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("解析校验报告失败: %v", err)
	}
	if !report.Valid {
		t.Errorf("装箱结果未通过校验: %s", w.Body.String())
	}

	// 3. 基于结果生成统计报告
	w = post(t, mux, "/api/v1/stats/utilization", handler.StatsRequest{
		Container:   container,
		PackedItems: packResp.Result.PackedItems,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("利用率请求状态码 = %d", w.Code)
	}
	var utilResp handler.UtilizationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &utilResp); err != nil {
		t.Fatalf("解析利用率响应失败: %v", err)
	}
	if !utilResp.Success || utilResp.Data == nil {
		t.Fatal("利用率报告为空")
	}

	w = post(t, mux, "/api/v1/stats/balance", handler.StatsRequest{
		Container:   container,
		PackedItems: packResp.Result.PackedItems,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("平衡报告请求状态码 = %d", w.Code)
	}
}

// TestConstraintLibraryEndpoint 约束目录端点
func TestConstraintLibraryEndpoint(t *testing.T) {
	mux := newTestMux()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/constraints/library", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200", w.Code)
	}
	var resp struct {
		Library []json.RawMessage `json:"library"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(resp.Library) == 0 {
		t.Error("约束目录不应为空")
	}
}

// TestPackAPI_RequestFormat 装箱API请求的序列化格式
func TestPackAPI_RequestFormat(t *testing.T) {
	request := handler.PackRequest{
		Container: &model.Container{Length: 589, Width: 235, Height: 239, MaxWeight: 26000},
		Items: []*model.CargoItem{
			{
				ID: "tv-55", Name: "电视机", Length: 130, Width: 20, Height: 80,
				Weight: 22, Quantity: 10,
				Constraints: []model.ItemConstraint{
					{Type: model.ConstraintFragile},
					{Type: model.ConstraintMustBeUpright},
				},
			},
		},
		Algorithm:      "physics_enhanced",
		TimeoutSeconds: 20,
	}

	body, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("编码请求失败: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("请求体不是合法JSON: %v", err)
	}
	if parsed["algorithm"] != "physics_enhanced" {
		t.Error("algorithm 字段序列化不符")
	}
	items, ok := parsed["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatal("items 字段序列化不符")
	}
	t.Logf("请求体大小: %d 字节", len(body))
}
