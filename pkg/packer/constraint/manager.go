package constraint

import (
	"sort"
	"sync"

	"github.com/zhuangxiang/zhuangxiang/pkg/model"
)

// Manager 约束管理器
type Manager struct {
	constraints []Constraint
	mu          sync.RWMutex
}

// NewManager 创建约束管理器
func NewManager() *Manager {
	return &Manager{
		constraints: make([]Constraint, 0),
	}
}

// Register 注册约束，同类型约束被替换
func (m *Manager) Register(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.constraints {
		if existing.Type() == c.Type() {
			m.constraints[i] = c
			return
		}
	}

	m.constraints = append(m.constraints, c)

	// 物理约束排在前面，优先拒绝不可恢复的候选
	sort.Slice(m.constraints, func(i, j int) bool {
		ci, cj := m.constraints[i], m.constraints[j]
		if ci.Category() != cj.Category() {
			return ci.Category() == CategoryPhysical
		}
		return ci.Type() < cj.Type()
	})
}

// Unregister 注销约束
func (m *Manager) Unregister(t Type) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.constraints {
		if c.Type() == t {
			m.constraints = append(m.constraints[:i], m.constraints[i+1:]...)
			return
		}
	}
}

// GetAll 获取所有约束
func (m *Manager) GetAll() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Constraint, len(m.constraints))
	copy(result, m.constraints)
	return result
}

// CanPlace 检查候选落位是否满足全部约束
// relaxed 为真时跳过摆放类约束，只保留物理硬约束（兜底通道）
func (m *Manager) CanPlace(ctx *Context, candidate *model.PlacedItem, relaxed bool) (bool, string) {
	m.mu.RLock()
	constraints := make([]Constraint, len(m.constraints))
	copy(constraints, m.constraints)
	m.mu.RUnlock()

	for _, c := range constraints {
		if relaxed && c.Category() == CategoryPlacement {
			continue
		}
		if ok, reason := c.Check(ctx, candidate); !ok {
			return false, reason
		}
	}
	return true, ""
}
