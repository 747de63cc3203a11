package workflow

import "sort"

// Phase 烹飪流程的兩個階段，沒有第三種
type Phase string

const (
	PhasePrep Phase = "prep" // 備料（勾食材）
	PhaseCook Phase = "cook" // 烹飪（勾步驟）
)

// ItemKind 完成表的種類
type ItemKind string

const (
	KindIngredient ItemKind = "ingredient"
	KindStep       ItemKind = "step"
)

// Progress 烹飪進度
// 兩張互相獨立的完成表，索引 → 是否完成。
// 已完成的條目只會被 Undo（清掉最大索引）或 Reset 移除。
type Progress struct {
	Phase       Phase        `json:"phase"`
	Ingredients map[int]bool `json:"ingredients"`
	Steps       map[int]bool `json:"steps"`
}

// NewProgress 每份新食譜（或載入收藏）都從 prep 開始
func NewProgress() *Progress {
	return &Progress{
		Phase:       PhasePrep,
		Ingredients: make(map[int]bool),
		Steps:       make(map[int]bool),
	}
}

func (p *Progress) table(kind ItemKind) map[int]bool {
	if kind == KindStep {
		return p.Steps
	}
	return p.Ingredients
}

// Complete 標記一項完成；冪等，只設 true，不會經由此呼叫設回 false。
// total 為該類項目的總數：當每個食材索引都完成時自動 prep → cook，
// 步驟全部完成不會自動切換（需手動或 Reset）。
func (p *Progress) Complete(kind ItemKind, index, total int) {
	if index < 0 || index >= total {
		return
	}
	p.table(kind)[index] = true

	if kind == KindIngredient && p.AllDone(KindIngredient, total) {
		p.Phase = PhaseCook
	}
}

// Undo 清掉目前為 true 的最大索引（LIFO by index，不是按操作時間）；
// 沒有任何已完成條目時為 no-op。
func (p *Progress) Undo(kind ItemKind) {
	table := p.table(kind)
	max := -1
	for idx, done := range table {
		if done && idx > max {
			max = idx
		}
	}
	if max >= 0 {
		delete(table, max)
	}
}

// Reset 清空兩張表並回到 prep
func (p *Progress) Reset() {
	p.Phase = PhasePrep
	p.Ingredients = make(map[int]bool)
	p.Steps = make(map[int]bool)
}

// SetPhase 手動切換階段，兩個方向都允許
func (p *Progress) SetPhase(phase Phase) bool {
	if phase != PhasePrep && phase != PhaseCook {
		return false
	}
	p.Phase = phase
	return true
}

// DoneCount 已完成數
func (p *Progress) DoneCount(kind ItemKind) int {
	count := 0
	for _, done := range p.table(kind) {
		if done {
			count++
		}
	}
	return count
}

// AllDone 全部完成；total 不為正（集合未定義或為空）一律視為未完成
func (p *Progress) AllDone(kind ItemKind, total int) bool {
	if total <= 0 {
		return false
	}
	return p.DoneCount(kind) == total
}

// Remaining 尚未完成的索引，保持原始順序
func (p *Progress) Remaining(kind ItemKind, total int) []int {
	table := p.table(kind)
	remaining := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if !table[i] {
			remaining = append(remaining, i)
		}
	}
	return remaining
}

// DoneIndices 已完成的索引，升冪排序（快照輸出用）
func (p *Progress) DoneIndices(kind ItemKind) []int {
	table := p.table(kind)
	done := make([]int, 0, len(table))
	for idx, ok := range table {
		if ok {
			done = append(done, idx)
		}
	}
	sort.Ints(done)
	return done
}
