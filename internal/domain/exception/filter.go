package exception

// Filter selects rows for display. A zero field places no constraint.
type Filter struct {
	IssueType IssueType
	Status    Status
}

func (f Filter) IsZero() bool {
	return f.IssueType == "" && f.Status == ""
}

// Matches is conjunctive over the set selectors.
func (f Filter) Matches(r Record) bool {
	if f.IssueType != "" && r.IssueType != f.IssueType {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// Visibility assigns a visible flag to every record under f.
func Visibility(records []Record, f Filter) map[uint64]bool {
	out := make(map[uint64]bool, len(records))
	for _, r := range records {
		out[r.ID] = f.Matches(r)
	}
	return out
}

type Stats struct {
	Open     int
	Resolved int
}

func (s Stats) Total() int {
	return s.Open + s.Resolved
}

// ComputeStats counts over the full collection, never a filtered view.
func ComputeStats(records []Record) Stats {
	var stats Stats
	for _, r := range records {
		switch r.Status {
		case StatusOpen:
			stats.Open++
		case StatusResolved:
			stats.Resolved++
		}
	}
	return stats
}
