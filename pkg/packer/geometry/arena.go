package geometry

import "sort"

// ArenaConfig 空闲空间池配置
type ArenaConfig struct {
	// MinDimension 残余空间任一边小于该值时直接丢弃
	MinDimension float64 `json:"min_dimension"`
	// MaxSpaces 空闲空间数量上限，超出时按体积×紧凑度淘汰
	MaxSpaces int `json:"max_spaces"`
}

// DefaultArenaConfig 默认空闲空间池配置
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		MinDimension: 0.5,
		MaxSpaces:    64,
	}
}

// Arena 空闲空间池
// 以带空闲槽复用的索引数组管理空间的高频增删，避免反复整体搬移
type Arena struct {
	cfg    ArenaConfig
	spaces []Space
	alive  []bool
	free   []int // 可复用的槽位下标
	count  int
}

// NewArena 创建空闲空间池
func NewArena(cfg ArenaConfig) *Arena {
	return &Arena{cfg: cfg}
}

// Seed 放入初始空间（通常为整个容器）
func (a *Arena) Seed(s Space) {
	a.Add(s)
}

// Count 返回当前有效空间数
func (a *Arena) Count() int {
	return a.count
}

// Get 按索引取空间，索引必须来自 Indices
func (a *Arena) Get(idx int) Space {
	return a.spaces[idx]
}

// Indices 返回当前有效空间的索引快照（升序）
func (a *Arena) Indices() []int {
	indices := make([]int, 0, a.count)
	for i, ok := range a.alive {
		if ok {
			indices = append(indices, i)
		}
	}
	return indices
}

// Add 加入空间，返回槽位索引
// 小于最小可用尺寸或被现有空间完全包含的空间会被拒绝，返回-1
func (a *Arena) Add(s Space) int {
	if s.Dims.Length < a.cfg.MinDimension ||
		s.Dims.Height < a.cfg.MinDimension ||
		s.Dims.Width < a.cfg.MinDimension {
		return -1
	}
	for i, ok := range a.alive {
		if ok && a.spaces[i].Contains(s) {
			return -1
		}
	}

	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.spaces[idx] = s
		a.alive[idx] = true
	} else {
		idx = len(a.spaces)
		a.spaces = append(a.spaces, s)
		a.alive = append(a.alive, true)
	}
	a.count++

	if a.cfg.MaxSpaces > 0 && a.count > a.cfg.MaxSpaces {
		a.prune()
	}
	return idx
}

// Remove 释放槽位供后续复用
func (a *Arena) Remove(idx int) {
	if idx < 0 || idx >= len(a.alive) || !a.alive[idx] {
		return
	}
	a.alive[idx] = false
	a.free = append(a.free, idx)
	a.count--
}

// prune 按体积×紧凑度淘汰最差的空间，直到回到上限
func (a *Arena) prune() {
	indices := a.Indices()
	sort.Slice(indices, func(i, j int) bool {
		si, sj := a.spaces[indices[i]], a.spaces[indices[j]]
		return si.Volume()*si.Compactness() < sj.Volume()*sj.Compactness()
	})
	for _, idx := range indices {
		if a.count <= a.cfg.MaxSpaces {
			break
		}
		a.Remove(idx)
	}
}
