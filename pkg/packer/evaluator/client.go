package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zhuangxiang/zhuangxiang/pkg/logger"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// ModelClient 本地模型服务客户端
// 调用 POST {base}/predict，输入为批量封装的状态/动作特征图
type ModelClient struct {
	baseURL string
	client  *http.Client
}

// NewModelClient 创建模型服务客户端
func NewModelClient(baseURL string, timeout time.Duration) *ModelClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ModelClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// predictRequest 模型服务请求体
type predictRequest struct {
	ConstIn [][]float64   `json:"const_in"`
	HmapIn  [][][]float64 `json:"hmap_in"`
	AmapIn  [][][]float64 `json:"amap_in"`
	ImapIn  [][][]float64 `json:"imap_in"`
}

// predictResponse 模型服务响应体
// prediction 为批量推理输出，形状 [batch][1]
type predictResponse struct {
	QValue     *float64    `json:"q_value"`
	Prediction [][]float64 `json:"prediction"`
}

// Predict 请求模型服务对状态-动作对打分
func (c *ModelClient) Predict(ctx context.Context, hmap, amap [][]float64) (float64, error) {
	req := predictRequest{
		ConstIn: [][]float64{{1}},
		HmapIn:  [][][]float64{hmap},
		AmapIn:  [][][]float64{amap},
		ImapIn:  [][][]float64{{}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("编码预测请求失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("构造预测请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("请求模型服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("模型服务返回状态码 %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("解码预测响应失败: %w", err)
	}
	switch {
	case pr.QValue != nil:
		return *pr.QValue, nil
	case len(pr.Prediction) > 0 && len(pr.Prediction[0]) > 0:
		return pr.Prediction[0][0], nil
	default:
		return 0, fmt.Errorf("预测响应缺少评分字段")
	}
}

// RemoteEvaluator 远端模型评估器
// 模型服务失败时透明回退到内置启发式评估器
type RemoteEvaluator struct {
	client   *ModelClient
	fallback *HeightmapEvaluator
	gridSize int
	timeout  time.Duration
}

// NewRemoteEvaluator 创建远端评估器
func NewRemoteEvaluator(client *ModelClient, gridSize int) *RemoteEvaluator {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &RemoteEvaluator{
		client:   client,
		fallback: NewHeightmapEvaluator(gridSize),
		gridSize: gridSize,
	}
}

// Score 优先请求模型服务，失败时回退到启发式评分
func (e *RemoteEvaluator) Score(container *model.Container, placed []*model.PlacedItem, candidate *model.PlacedItem) (float64, bool) {
	if container == nil || candidate == nil || container.Height <= 0 {
		return 0, false
	}
	hmap, amap := buildMaps(e.gridSize, container, placed, candidate)

	ctx, cancel := context.WithTimeout(context.Background(), e.client.client.Timeout)
	defer cancel()

	q, err := e.client.Predict(ctx, toRows(hmap), toRows(amap))
	if err != nil {
		logger.Debug().Err(err).Msg("模型服务不可用，回退到启发式评分")
		return e.fallback.Score(container, placed, candidate)
	}
	return q, true
}

// toRows 将高度图展开为二维数组
func toRows(h *heightmap) [][]float64 {
	rows := make([][]float64, h.size)
	for i := 0; i < h.size; i++ {
		rows[i] = make([]float64, h.size)
		for j := 0; j < h.size; j++ {
			rows[i][j] = h.at(i, j)
		}
	}
	return rows
}
