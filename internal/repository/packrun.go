// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// DB 仓储依赖的最小数据库接口
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PackRunRecord 装箱历史记录
type PackRunRecord struct {
	RunID            uuid.UUID           `json:"runId"`
	Algorithm        string              `json:"algorithm"`
	Strategy         string              `json:"strategy"`
	ItemCount        int                 `json:"itemCount"`
	PackedCount      int                 `json:"packedCount"`
	UnpackedCount    int                 `json:"unpackedCount"`
	FillPercentage   float64             `json:"fillPercentage"`
	WeightPercentage float64             `json:"weightPercentage"`
	TotalWeight      float64             `json:"totalWeight"`
	UsedFallback     bool                `json:"usedFallback"`
	DurationMs       int64               `json:"durationMs"`
	Result           *model.PackingResult `json:"result,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// PackRunRepository 装箱历史仓储
type PackRunRepository struct {
	db DB
}

// NewPackRunRepository 创建装箱历史仓储
func NewPackRunRepository(db DB) *PackRunRepository {
	return &PackRunRepository{db: db}
}

// Save 保存一次装箱结果
func (r *PackRunRepository) Save(ctx context.Context, itemCount int, result *model.PackingResult) error {
	runID, err := uuid.Parse(result.RunID)
	if err != nil {
		return fmt.Errorf("非法的运行ID: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化装箱结果失败: %w", err)
	}

	query := `
		INSERT INTO pack_runs (
			run_id, algorithm, strategy, item_count, packed_count, unpacked_count,
			fill_percentage, weight_percentage, total_weight, used_fallback,
			duration_ms, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		runID, result.Algorithm, result.Strategy, itemCount,
		result.PackedCount(), result.UnpackedCount(),
		result.ContainerFillPercentage, result.WeightCapacityPercentage,
		result.TotalWeight, result.UsedFallback, result.DurationMs,
		resultJSON, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("保存装箱记录失败: %w", err)
	}
	return nil
}

// GetByRunID 根据运行ID获取装箱记录
func (r *PackRunRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*PackRunRecord, error) {
	query := `
		SELECT run_id, algorithm, strategy, item_count, packed_count, unpacked_count,
			fill_percentage, weight_percentage, total_weight, used_fallback,
			duration_ms, result, created_at
		FROM pack_runs
		WHERE run_id = $1
	`

	return r.scanRecord(r.db.QueryRowContext(ctx, query, runID))
}

// ListRecent 返回最近的装箱记录，按创建时间倒序
func (r *PackRunRepository) ListRecent(ctx context.Context, limit int) ([]*PackRunRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT run_id, algorithm, strategy, item_count, packed_count, unpacked_count,
			fill_percentage, weight_percentage, total_weight, used_fallback,
			duration_ms, result, created_at
		FROM pack_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("查询装箱记录失败: %w", err)
	}
	defer rows.Close()

	var records []*PackRunRecord
	for rows.Next() {
		rec, err := r.scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PackRunRepository) scanRecord(row *sql.Row) (*PackRunRecord, error) {
	rec, err := r.scanRecordRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (r *PackRunRepository) scanRecordRow(row rowScanner) (*PackRunRecord, error) {
	rec := &PackRunRecord{}
	var resultJSON []byte
	err := row.Scan(
		&rec.RunID, &rec.Algorithm, &rec.Strategy, &rec.ItemCount,
		&rec.PackedCount, &rec.UnpackedCount,
		&rec.FillPercentage, &rec.WeightPercentage, &rec.TotalWeight,
		&rec.UsedFallback, &rec.DurationMs, &resultJSON, &rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("扫描装箱记录失败: %w", err)
	}
	if len(resultJSON) > 0 {
		rec.Result = &model.PackingResult{}
		if err := json.Unmarshal(resultJSON, rec.Result); err != nil {
			return nil, fmt.Errorf("反序列化装箱结果失败: %w", err)
		}
	}
	return rec, nil
}
