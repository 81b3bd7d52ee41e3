// Package handler 提供API处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/zhuangxiang/zhuangxiang/internal/constraints"
	"github.com/zhuangxiang/zhuangxiang/pkg/errors"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/stats"
)

// StatsRequest 统计请求
type StatsRequest struct {
	Container   *model.Container    `json:"container"`
	PackedItems []*model.PlacedItem `json:"packedItems"`
	// LayerCount 分层利用率报告的层数，缺省为4层
	LayerCount int `json:"layerCount,omitempty"`
}

// UtilizationResponse 空间利用率响应
type UtilizationResponse struct {
	Success bool                     `json:"success"`
	Data    *stats.UtilizationReport `json:"data,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// BalanceResponse 配载平衡响应
type BalanceResponse struct {
	Success bool                 `json:"success"`
	Data    *stats.BalanceReport `json:"data,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// StatsHandler 统计处理器
type StatsHandler struct{}

// NewStatsHandler 创建统计处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// Utilization 计算分层空间利用率报告
func (h *StatsHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStatsRequest(w, r)
	if !ok {
		return
	}
	report := stats.BuildUtilizationReport(req.Container, req.PackedItems, req.LayerCount)
	respondJSON(w, http.StatusOK, UtilizationResponse{Success: true, Data: report})
}

// Balance 计算配载平衡报告
func (h *StatsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStatsRequest(w, r)
	if !ok {
		return
	}
	report := stats.BuildBalanceReport(req.Container, req.PackedItems)
	respondJSON(w, http.StatusOK, BalanceResponse{Success: true, Data: report})
}

// decodeStatsRequest 解析并校验统计请求
func (h *StatsHandler) decodeStatsRequest(w http.ResponseWriter, r *http.Request) (*StatsRequest, bool) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return nil, false
	}
	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return nil, false
	}
	if !req.Container.IsValid() {
		respondError(w, errors.New(errors.CodeInvalidInput, "容器尺寸与载重必须为正数"))
		return nil, false
	}
	return &req, true
}

// ConstraintLibraryHandler 约束目录处理器
type ConstraintLibraryHandler struct{}

// NewConstraintLibraryHandler 创建约束目录处理器
func NewConstraintLibraryHandler() *ConstraintLibraryHandler {
	return &ConstraintLibraryHandler{}
}

// Library 返回引擎支持的完整约束目录
func (h *ConstraintLibraryHandler) Library(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	respondJSON(w, http.StatusOK, constraints.LibraryResponse{Library: constraints.GetLibrary()})
}
