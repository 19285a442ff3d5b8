package exceptions

import (
	"sync"

	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/ports"
)

// Row is a rendered table row: the record as last shown plus its visibility.
type Row struct {
	Record  exception.Record
	Visible bool
}

// CanResolve reports whether the row still offers the resolve action.
func (r Row) CanResolve() bool {
	return !r.Record.IsResolved()
}

// Board is the reference table view. It holds no data of its own beyond the
// rows it was told to render, and is safe for concurrent readers.
type Board struct {
	mu    sync.RWMutex
	rows  []Row
	stats exception.Stats
}

var _ ports.View = (*Board)(nil)

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) Apply(changes []exception.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, change := range changes {
		switch change.Kind {
		case exception.ChangeRowAppended:
			if idx := b.indexOf(change.ID); idx >= 0 {
				b.rows[idx].Record = change.Record
				continue
			}
			b.rows = append(b.rows, Row{Record: change.Record, Visible: true})
		case exception.ChangeRowUpdated:
			if idx := b.indexOf(change.ID); idx >= 0 {
				b.rows[idx].Record = change.Record
			}
		case exception.ChangeRowRemoved:
			if idx := b.indexOf(change.ID); idx >= 0 {
				b.rows = append(b.rows[:idx], b.rows[idx+1:]...)
			}
		case exception.ChangeVisibility:
			if idx := b.indexOf(change.ID); idx >= 0 {
				b.rows[idx].Visible = change.Visible
			}
		case exception.ChangeStats:
			b.stats = change.Stats
		}
	}
}

func (b *Board) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Row, len(b.rows))
	copy(out, b.rows)
	return out
}

func (b *Board) VisibleRows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Row, 0, len(b.rows))
	for _, row := range b.rows {
		if row.Visible {
			out = append(out, row)
		}
	}
	return out
}

func (b *Board) Row(id uint64) (Row, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := b.indexOf(id)
	if idx < 0 {
		return Row{}, false
	}
	return b.rows[idx], true
}

func (b *Board) Stats() exception.Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rows)
}

func (b *Board) indexOf(id uint64) int {
	for i, row := range b.rows {
		if row.Record.ID == id {
			return i
		}
	}
	return -1
}
