package exception

import (
	"errors"
	"testing"
)

func TestResolveIsOneWay(t *testing.T) {
	open := Record{ID: 1, Status: StatusOpen}

	resolved, ok := Resolve(open)
	if !ok || resolved.Status != StatusResolved {
		t.Fatalf("Resolve(open) = %+v, %v", resolved, ok)
	}

	again, ok := Resolve(resolved)
	if ok || again != resolved {
		t.Fatalf("Resolve(resolved) = %+v, %v, want unchanged no-op", again, ok)
	}

	if StatusResolved.CanTransitionTo(StatusOpen) {
		t.Fatalf("Resolved -> Open must not be allowed")
	}
}

func TestIsHighPriority(t *testing.T) {
	if !(Record{Priority: PriorityHigh}).IsHighPriority() {
		t.Fatalf("High record not reported as high priority")
	}
	for _, priority := range []Priority{PriorityLow, PriorityMedium, ""} {
		if (Record{Priority: priority}).IsHighPriority() {
			t.Fatalf("%q record reported as high priority", priority)
		}
	}
}

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{input: "", want: ""},
		{input: "open", want: StatusOpen},
		{input: " Resolved ", want: StatusResolved},
		{input: "closed", wantErr: true},
	}

	for _, testCase := range testCases {
		got, err := ParseStatus(testCase.input)
		if testCase.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("ParseStatus(%q) error = %v, want ErrInvalidStatus", testCase.input, err)
			}
			continue
		}
		if err != nil || got != testCase.want {
			t.Fatalf("ParseStatus(%q) = %q, %v", testCase.input, got, err)
		}
	}
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority("high")
	if err != nil || got != PriorityHigh {
		t.Fatalf("ParsePriority(high) = %q, %v", got, err)
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("ParsePriority(urgent) error = %v", err)
	}
}

func TestFilterIsConjunctive(t *testing.T) {
	records := []Record{
		{ID: 0, IssueType: "Lost", Status: StatusOpen},
		{ID: 1, IssueType: "Damaged", Status: StatusResolved},
		{ID: 2, IssueType: "Damaged", Status: StatusOpen},
	}

	testCases := []struct {
		name   string
		filter Filter
		want   map[uint64]bool
	}{
		{name: "no constraint", filter: Filter{}, want: map[uint64]bool{0: true, 1: true, 2: true}},
		{name: "issue type", filter: Filter{IssueType: "Damaged"}, want: map[uint64]bool{0: false, 1: true, 2: true}},
		{name: "status", filter: Filter{Status: StatusOpen}, want: map[uint64]bool{0: true, 1: false, 2: true}},
		{name: "both", filter: Filter{IssueType: "Damaged", Status: StatusOpen}, want: map[uint64]bool{0: false, 1: false, 2: true}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Visibility(records, testCase.filter)
			for id, want := range testCase.want {
				if got[id] != want {
					t.Fatalf("Visibility()[%d] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestComputeStatsCoversWholeCollection(t *testing.T) {
	records := []Record{
		{ID: 0, Status: StatusOpen},
		{ID: 1, Status: StatusResolved},
		{ID: 2, Status: StatusOpen},
	}

	stats := ComputeStats(records)
	if stats.Open != 2 || stats.Resolved != 1 || stats.Total() != len(records) {
		t.Fatalf("ComputeStats() = %+v", stats)
	}
	if got := ComputeStats(nil); got != (Stats{}) {
		t.Fatalf("ComputeStats(nil) = %+v", got)
	}
}

func TestValidationError(t *testing.T) {
	err := error(&ValidationError{Missing: []string{"delivery_id", "priority"}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("errors.Is(err, ErrValidation) = false")
	}
	if got := err.Error(); got != "missing required fields: delivery_id, priority" {
		t.Fatalf("Error() = %q", got)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Notice() != RequiredFieldsNotice {
		t.Fatalf("Notice() = %q", ve.Notice())
	}

	invalid := &ValidationError{Invalid: []string{"issue_type"}}
	if invalid.Notice() == RequiredFieldsNotice {
		t.Fatalf("invalid-only notice should name the field")
	}
}

func TestCatalog(t *testing.T) {
	catalog, err := NewCatalog([]string{" Damaged ", "damaged", "", "Lost"})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if len(catalog.IssueTypes) != 2 || catalog.IssueTypes[0] != "Damaged" || catalog.IssueTypes[1] != "Lost" {
		t.Fatalf("IssueTypes = %#v", catalog.IssueTypes)
	}
	if len(catalog.Priorities) != 3 {
		t.Fatalf("Priorities = %#v", catalog.Priorities)
	}

	if _, err := NewCatalog([]string{" ", ""}); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("NewCatalog(blank) error = %v", err)
	}

	got, err := catalog.ParseIssueType("LOST")
	if err != nil || got != "Lost" {
		t.Fatalf("ParseIssueType(LOST) = %q, %v", got, err)
	}
	if _, err := catalog.ParseIssueType("Stolen"); !errors.Is(err, ErrInvalidIssue) {
		t.Fatalf("ParseIssueType(Stolen) error = %v", err)
	}

	filter, err := catalog.ParseFilter("damaged", "open")
	if err != nil || filter != (Filter{IssueType: "Damaged", Status: StatusOpen}) {
		t.Fatalf("ParseFilter() = %+v, %v", filter, err)
	}
}

func TestVisibilityChangesKeepOrder(t *testing.T) {
	records := []Record{{ID: 4, IssueType: "Lost"}, {ID: 9, IssueType: "Damaged"}}
	changes := VisibilityChanges(records, Filter{IssueType: "Damaged"})
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d", len(changes))
	}
	if changes[0].ID != 4 || changes[0].Visible || changes[1].ID != 9 || !changes[1].Visible {
		t.Fatalf("changes = %+v", changes)
	}
	if changes[0].Kind.String() != "visibility" {
		t.Fatalf("Kind.String() = %q", changes[0].Kind.String())
	}
}
