package exceptionconsole

import (
	"github.com/charmbracelet/bubbles/textinput"

	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/usecase/exceptions"
)

type field int

const (
	fieldDeliveryID field = iota
	fieldCustomer
	fieldIssueType
	fieldPriority
	fieldNotes
	// focusTable is the focus slot after the last form field.
	focusTable
)

var fieldLabels = map[field]string{
	fieldDeliveryID: "Delivery ID",
	fieldCustomer:   "Customer",
	fieldIssueType:  "Issue type",
	fieldPriority:   "Priority",
	fieldNotes:      "Notes",
}

// selector is a closed choice list; index -1 is the unselected placeholder.
type selector struct {
	placeholder string
	options     []string
	index       int
}

func (s *selector) next() {
	if len(s.options) == 0 {
		return
	}
	s.index++
	if s.index >= len(s.options) {
		s.index = -1
	}
}

func (s *selector) prev() {
	if len(s.options) == 0 {
		return
	}
	s.index--
	if s.index < -1 {
		s.index = len(s.options) - 1
	}
}

func (s selector) value() string {
	if s.index < 0 || s.index >= len(s.options) {
		return ""
	}
	return s.options[s.index]
}

func (s selector) display() string {
	if v := s.value(); v != "" {
		return v
	}
	return s.placeholder
}

type form struct {
	deliveryID textinput.Model
	customer   textinput.Model
	notes      textinput.Model
	issueType  selector
	priority   selector
}

func newForm(catalog exception.Catalog) form {
	issueTypes := make([]string, 0, len(catalog.IssueTypes))
	for _, it := range catalog.IssueTypes {
		issueTypes = append(issueTypes, string(it))
	}
	priorities := make([]string, 0, len(catalog.Priorities))
	for _, p := range catalog.Priorities {
		priorities = append(priorities, string(p))
	}

	return form{
		deliveryID: newInput("e.g. DLV-1001", 64),
		customer:   newInput("customer name", 128),
		notes:      newInput("optional", 512),
		issueType:  selector{placeholder: "Select issue type", options: issueTypes, index: -1},
		priority:   selector{placeholder: "Select priority", options: priorities, index: -1},
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = limit
	return input
}

func (f *form) input() exceptions.CreateInput {
	return exceptions.CreateInput{
		DeliveryID:   f.deliveryID.Value(),
		CustomerName: f.customer.Value(),
		IssueType:    f.issueType.value(),
		Priority:     f.priority.value(),
		Notes:        f.notes.Value(),
	}
}

func (f *form) reset() {
	f.deliveryID.Reset()
	f.customer.Reset()
	f.notes.Reset()
	f.issueType.index = -1
	f.priority.index = -1
}

// text returns the text input behind id, or nil for selector fields.
func (f *form) text(id field) *textinput.Model {
	switch id {
	case fieldDeliveryID:
		return &f.deliveryID
	case fieldCustomer:
		return &f.customer
	case fieldNotes:
		return &f.notes
	default:
		return nil
	}
}

func (f *form) choice(id field) *selector {
	switch id {
	case fieldIssueType:
		return &f.issueType
	case fieldPriority:
		return &f.priority
	default:
		return nil
	}
}
