package exceptions

import (
	"testing"

	"deliverydesk/internal/domain/exception"
)

func TestBoardAppliesDiffsInOrder(t *testing.T) {
	board := NewBoard()
	a := exception.Record{ID: 0, DeliveryID: "A", IssueType: "Lost", Status: exception.StatusOpen}
	b := exception.Record{ID: 1, DeliveryID: "B", IssueType: "Damaged", Status: exception.StatusOpen}

	board.Apply([]exception.Change{
		exception.RowAppended(a),
		exception.RowAppended(b),
		exception.VisibilityChanged(a.ID, false),
		exception.StatsChanged(exception.Stats{Open: 2}),
	})

	rows := board.Rows()
	if len(rows) != 2 || rows[0].Record.DeliveryID != "A" || rows[1].Record.DeliveryID != "B" {
		t.Fatalf("Rows() = %+v", rows)
	}
	if visible := board.VisibleRows(); len(visible) != 1 || visible[0].Record.ID != b.ID {
		t.Fatalf("VisibleRows() = %+v", visible)
	}

	resolvedB, _ := exception.Resolve(b)
	board.Apply([]exception.Change{
		exception.RowUpdated(resolvedB),
		exception.RowRemoved(a.ID),
		exception.StatsChanged(exception.Stats{Resolved: 1}),
	})

	row, ok := board.Row(b.ID)
	if !ok || row.CanResolve() || !row.Visible {
		t.Fatalf("Row(b) = %+v, %v", row, ok)
	}
	if _, ok := board.Row(a.ID); ok {
		t.Fatalf("Row(a) still present after removal")
	}
	if board.Stats() != (exception.Stats{Resolved: 1}) {
		t.Fatalf("Stats() = %+v", board.Stats())
	}
}

func TestBoardIgnoresUnknownRows(t *testing.T) {
	board := NewBoard()
	board.Apply([]exception.Change{
		exception.RowUpdated(exception.Record{ID: 9}),
		exception.RowRemoved(9),
		exception.VisibilityChanged(9, false),
	})
	if board.Len() != 0 {
		t.Fatalf("Len() = %d", board.Len())
	}
}
