package diag

import (
	"fmt"
	"math"
)

// Bag accumulates warnings for one merge run in arrival order.
type Bag struct {
	items []Warning
	max   uint16
}

// NewBag creates a bag that keeps at most max warnings. The cap is clamped
// to [0, MaxUint16] so an oversized limit does not wrap into a tiny one.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	if max > math.MaxUint16 {
		max = math.MaxUint16
	}
	return &Bag{
		items: make([]Warning, 0, max),
		max:   uint16(max),
	}
}

// Add добавляет предупреждение, учитывая лимит.
// Возвращает false, если лимит достигнут и запись отброшена.
func (b *Bag) Add(w Warning) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, w)
	return true
}

// Warnf formats and records a warning attributed to mod (may be empty).
func (b *Bag) Warnf(kind WarnKind, mod, format string, args ...any) bool {
	return b.Add(Warning{Kind: kind, Mod: mod, Message: fmt.Sprintf(format, args...)})
}

func (b *Bag) Cap() uint16 {
	return b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice предупреждений.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Warning {
	return b.items
}

// Merge appends another bag's warnings, growing max when needed so nothing
// is dropped at a join point.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}
