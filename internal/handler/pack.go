// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zhuangxiang/zhuangxiang/internal/metrics"
	"github.com/zhuangxiang/zhuangxiang/internal/repository"
	"github.com/zhuangxiang/zhuangxiang/pkg/errors"
	"github.com/zhuangxiang/zhuangxiang/pkg/logger"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
	"github.com/zhuangxiang/zhuangxiang/pkg/packer"
	"github.com/zhuangxiang/zhuangxiang/pkg/validator"
)

// PackHandler 装箱处理器
type PackHandler struct {
	engine  *packer.Engine
	cfg     packer.Config
	timeout time.Duration
	// history 可为空，为空时不落库
	history *repository.PackRunRepository
}

// NewPackHandler 创建装箱处理器
func NewPackHandler(cfg packer.Config, timeout time.Duration, history *repository.PackRunRepository) *PackHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PackHandler{
		engine:  packer.NewEngine(cfg),
		cfg:     cfg,
		timeout: timeout,
		history: history,
	}
}

// PackRequest 装箱请求
type PackRequest struct {
	Container *model.Container   `json:"container"`
	Items     []*model.CargoItem `json:"items"`
	Algorithm string             `json:"algorithm,omitempty"`
	// TimeoutSeconds 单次计算超时，超出服务端上限时被截断
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// PackResponse 装箱响应
type PackResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Result  *model.PackingResult `json:"result"`
}

// Generate 执行装箱计算
func (h *PackHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req PackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout(req.TimeoutSeconds))
	defer cancel()

	engineReq := &packer.Request{
		Container: req.Container,
		Items:     req.Items,
		Algorithm: packer.ParseAlgorithm(req.Algorithm),
	}

	start := time.Now()
	result, err := h.engine.Pack(ctx, engineReq)
	metrics.RecordPackRun(string(engineReq.Algorithm), err == nil, time.Since(start))

	if err != nil && result == nil {
		respondError(w, toAppError(err))
		return
	}

	metrics.RecordPackOutcome(result.Algorithm, result.ContainerFillPercentage,
		result.UnpackedCount(), result.UsedFallback)
	h.saveHistory(r.Context(), len(req.Items), result)

	resp := PackResponse{Success: true, Result: result}
	if err != nil {
		// 超时或取消返回已完成的部分结果
		resp.Message = "计算提前终止，返回部分结果"
	} else if result.UnpackedCount() > 0 {
		resp.Message = fmt.Sprintf("有%d件货物未能装入", result.UnpackedCount())
	}
	respondJSON(w, http.StatusOK, resp)
}

// Stream 执行装箱计算并以SSE推送进度事件
func (h *PackHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, errors.New(errors.CodeInternal, "连接不支持流式响应"))
		return
	}

	var req PackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout(req.TimeoutSeconds))
	defer cancel()

	engineReq := &packer.Request{
		Container: req.Container,
		Items:     req.Items,
		Algorithm: packer.ParseAlgorithm(req.Algorithm),
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	emitter := packer.NewProgressEmitter(h.cfg.Progress, req.Container)

	type packOutcome struct {
		result *model.PackingResult
		err    error
	}
	outcome := make(chan packOutcome, 1)
	go func() {
		start := time.Now()
		result, err := h.engine.PackWithProgress(ctx, engineReq, emitter)
		metrics.RecordPackRun(string(engineReq.Algorithm), err == nil, time.Since(start))
		outcome <- packOutcome{result: result, err: err}
	}()

	// 引擎完成时关闭事件通道，循环随之退出
	for ev := range emitter.Events() {
		writeSSE(w, flusher, ev)
	}

	out := <-outcome
	if out.result != nil {
		metrics.RecordPackOutcome(out.result.Algorithm, out.result.ContainerFillPercentage,
			out.result.UnpackedCount(), out.result.UsedFallback)
		h.saveHistory(context.Background(), len(req.Items), out.result)
	} else if out.err != nil {
		writeSSE(w, flusher, map[string]interface{}{
			"type":    "error",
			"code":    errors.GetCode(out.err),
			"message": out.err.Error(),
		})
	}
}

// ValidateRequest 结果校验请求
type ValidateRequest struct {
	Container *model.Container     `json:"container"`
	Items     []*model.CargoItem   `json:"items,omitempty"`
	Result    *model.PackingResult `json:"result"`
}

// Validate 校验已有装箱结果的几何与物理不变量
func (h *PackHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if req.Container == nil || req.Result == nil {
		respondError(w, errors.New(errors.CodeInvalidInput, "容器与装箱结果不能为空"))
		return
	}

	report := validator.Validate(req.Container, req.Result, req.Items)
	respondJSON(w, http.StatusOK, report)
}

// History 查询最近的装箱记录
func (h *PackHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.history == nil {
		respondError(w, errors.New(errors.CodeInternal, "装箱历史未启用"))
		return
	}

	records, err := h.history.ListRecent(r.Context(), 50)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询装箱记录失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// requestTimeout 请求级超时，受服务端默认值上限约束
func (h *PackHandler) requestTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return h.timeout
	}
	timeout := time.Duration(seconds) * time.Second
	if timeout > h.timeout {
		return h.timeout
	}
	return timeout
}

// saveHistory 异步落库，失败只记日志不影响响应
func (h *PackHandler) saveHistory(ctx context.Context, itemCount int, result *model.PackingResult) {
	if h.history == nil || result == nil || result.RunID == "" {
		return
	}
	go func() {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := h.history.Save(saveCtx, itemCount, result); err != nil {
			logger.Warn().Err(err).Str("run_id", result.RunID).Msg("保存装箱记录失败")
		}
	}()
}

// writeSSE 写入单条SSE事件
func writeSSE(w http.ResponseWriter, flusher http.Flusher, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

// toAppError 归一化为应用错误
func toAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	if err == context.DeadlineExceeded {
		return errors.New(errors.CodeTimeout, "装箱计算超时")
	}
	return errors.Wrap(err, errors.CodeInternal, "装箱计算失败")
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
