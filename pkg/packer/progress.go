package packer

import (
	"time"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// 进度事件类型
const (
	EventItemPacked = "item_packed"
	EventComplete   = "complete"
)

// ProgressEvent 单向进度通知
// 引擎在落位提交后按批量或时间间隔发出，宿主只读不回应
type ProgressEvent struct {
	Type                     string              `json:"type"`
	PackedItems              []*model.PlacedItem `json:"packedItems"`
	UnpackedItems            []*model.CargoItem  `json:"unpackedItems"`
	ContainerFillPercentage  float64             `json:"containerFillPercentage"`
	WeightCapacityPercentage float64             `json:"weightCapacityPercentage"`
	TotalWeight              float64             `json:"totalWeight"`
	Progress                 float64             `json:"progress"`
}

// ProgressConfig 进度发射配置
type ProgressConfig struct {
	// BatchSize 每累计多少次落位发出一次事件
	BatchSize int `json:"batch_size"`
	// FlushInterval 距上次发出超过该间隔则立即发出，不依赖延时排程
	FlushInterval time.Duration `json:"flush_interval"`
	// BufferSize 事件通道缓冲，写满时丢弃新事件而不阻塞引擎
	BufferSize int `json:"buffer_size"`
}

// DefaultProgressConfig 默认进度发射配置
func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		BatchSize:     3,
		FlushInterval: 200 * time.Millisecond,
		BufferSize:    16,
	}
}

// ProgressEmitter 进度发射器
// 回调由引擎在单一计算协程内顺序调用，发送永不阻塞
type ProgressEmitter struct {
	cfg        ProgressConfig
	container  *model.Container
	ch         chan ProgressEvent
	sinceFlush int
	lastFlush  time.Time
}

// NewProgressEmitter 创建进度发射器
func NewProgressEmitter(cfg ProgressConfig, container *model.Container) *ProgressEmitter {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 16
	}
	return &ProgressEmitter{
		cfg:       cfg,
		container: container,
		ch:        make(chan ProgressEvent, cfg.BufferSize),
		lastFlush: time.Now(),
	}
}

// Events 返回只读事件通道，引擎完成后通道被关闭
func (p *ProgressEmitter) Events() <-chan ProgressEvent {
	return p.ch
}

// Observe 记录一次落位提交，按批量与时间间隔决定是否发出快照
func (p *ProgressEmitter) Observe(placed *model.PlacedItem, allPlaced []*model.PlacedItem, processed, total int) {
	p.sinceFlush++
	if p.sinceFlush < p.cfg.BatchSize && time.Since(p.lastFlush) < p.cfg.FlushInterval {
		return
	}
	p.flush(allPlaced, processed, total)
}

// flush 组装当前快照并非阻塞发送
func (p *ProgressEmitter) flush(allPlaced []*model.PlacedItem, processed, total int) {
	p.sinceFlush = 0
	p.lastFlush = time.Now()

	ev := ProgressEvent{
		Type:        EventItemPacked,
		PackedItems: allPlaced,
	}
	var volume, weight float64
	for _, item := range allPlaced {
		volume += item.Volume()
		weight += item.Weight()
	}
	ev.TotalWeight = weight
	if cv := p.container.Volume(); cv > 0 {
		ev.ContainerFillPercentage = volume / cv * 100
	}
	if p.container.MaxWeight > 0 {
		ev.WeightCapacityPercentage = weight / p.container.MaxWeight * 100
	}
	if total > 0 {
		ev.Progress = float64(processed) / float64(total) * 100
	}
	p.send(ev)
}

// Complete 发出终态事件并关闭通道
func (p *ProgressEmitter) Complete(result *model.PackingResult) {
	unpacked := make([]*model.CargoItem, 0, len(result.UnpackedItems))
	for i := range result.UnpackedItems {
		unpacked = append(unpacked, result.UnpackedItems[i].Item)
	}
	p.send(ProgressEvent{
		Type:                     EventComplete,
		PackedItems:              result.PackedItems,
		UnpackedItems:            unpacked,
		ContainerFillPercentage:  result.ContainerFillPercentage,
		WeightCapacityPercentage: result.WeightCapacityPercentage,
		TotalWeight:              result.TotalWeight,
		Progress:                 100,
	})
	close(p.ch)
}

// Close 不发终态事件直接关闭通道，用于计算未开始即失败的场合
func (p *ProgressEmitter) Close() {
	close(p.ch)
}

// send 非阻塞发送，宿主消费过慢时丢弃当前事件
func (p *ProgressEmitter) send(ev ProgressEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}
