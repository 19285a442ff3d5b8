package exception

import "fmt"

type ChangeKind int

const (
	ChangeRowAppended ChangeKind = iota + 1
	ChangeRowUpdated
	ChangeRowRemoved
	ChangeVisibility
	ChangeStats
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeRowAppended:
		return "row_appended"
	case ChangeRowUpdated:
		return "row_updated"
	case ChangeRowRemoved:
		return "row_removed"
	case ChangeVisibility:
		return "visibility"
	case ChangeStats:
		return "stats"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// Change is one instruction for a view. Only the fields relevant to Kind are set.
type Change struct {
	Kind    ChangeKind
	ID      uint64
	Record  Record
	Visible bool
	Stats   Stats
}

func RowAppended(r Record) Change {
	return Change{Kind: ChangeRowAppended, ID: r.ID, Record: r}
}

func RowUpdated(r Record) Change {
	return Change{Kind: ChangeRowUpdated, ID: r.ID, Record: r}
}

func RowRemoved(id uint64) Change {
	return Change{Kind: ChangeRowRemoved, ID: id}
}

func VisibilityChanged(id uint64, visible bool) Change {
	return Change{Kind: ChangeVisibility, ID: id, Visible: visible}
}

func StatsChanged(stats Stats) Change {
	return Change{Kind: ChangeStats, Stats: stats}
}

// VisibilityChanges emits one visibility change per record, in collection order.
func VisibilityChanges(records []Record, f Filter) []Change {
	out := make([]Change, 0, len(records))
	for _, r := range records {
		out = append(out, VisibilityChanged(r.ID, f.Matches(r)))
	}
	return out
}
