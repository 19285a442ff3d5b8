package httpui

import (
	"html/template"
	"strings"

	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/usecase/exceptions"
)

type pageData struct {
	Catalog      exception.Catalog
	Statuses     []exception.Status
	Form         exceptions.CreateInput
	Notice       string
	Filter       exception.Filter
	Rows         []exceptions.Row
	Stats        exception.Stats
	CreateAction string
	// Suffix is the filter query carried by every action URL, "" or "?...".
	Suffix       string
	DeletePrompt string
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"lower":    strings.ToLower,
	"rowClass": rowClass,
}).Parse(pageHTML))

// rowClass lists the CSS classes of a table row, "" when it has none.
func rowClass(r exception.Record) string {
	classes := make([]string, 0, 2)
	if r.IsHighPriority() {
		classes = append(classes, "high-priority")
	}
	if r.IsResolved() {
		classes = append(classes, "resolved")
	}
	return strings.Join(classes, " ")
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Delivery Exceptions</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: .3rem .6rem; text-align: left; }
tr.resolved td { color: #888; }
tr.high-priority { border-left: 3px solid #c0392b; }
.badge { padding: 0 .4rem; border-radius: .6rem; font-size: .85em; }
.priority-high { background: #f8d7da; }
.priority-medium { background: #fff3cd; }
.priority-low { background: #d4edda; }
.status-open { background: #d6eaf8; }
.status-resolved { background: #e5e5e5; }
.notice { background: #fde2e2; border: 1px solid #e99; padding: .5rem 1rem; }
.summary { margin-top: 1rem; font-weight: bold; }
form.inline { display: inline; }
</style>
</head>
<body>
<h1>Delivery Exceptions</h1>
{{if .Notice}}<p class="notice" role="alert">{{.Notice}}</p>{{end}}
<form method="post" action="{{.CreateAction}}" id="exception-form">
  <label>Delivery ID* <input name="delivery_id" value="{{.Form.DeliveryID}}"></label>
  <label>Customer* <input name="customer_name" value="{{.Form.CustomerName}}"></label>
  <label>Issue type*
    <select name="issue_type">
      <option value="">Select issue type</option>
      {{range .Catalog.IssueTypes}}<option value="{{.}}"{{if eq (print .) $.Form.IssueType}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Priority*
    <select name="priority">
      <option value="">Select priority</option>
      {{range .Catalog.Priorities}}<option value="{{.}}"{{if eq (print .) $.Form.Priority}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <label>Notes <input name="notes" value="{{.Form.Notes}}"></label>
  <button type="submit">Log exception</button>
</form>

<form method="get" action="/" id="filters">
  <select name="issue_type">
    <option value="">All issue types</option>
    {{range .Catalog.IssueTypes}}<option value="{{.}}"{{if eq . $.Filter.IssueType}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <select name="status">
    <option value="">All statuses</option>
    {{range .Statuses}}<option value="{{.}}"{{if eq . $.Filter.Status}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <button type="submit">Filter</button>
</form>

<table id="exceptions">
<thead><tr><th>ID</th><th>Delivery ID</th><th>Customer</th><th>Issue</th><th>Priority</th><th>Status</th><th>Notes</th><th>Actions</th></tr></thead>
<tbody>
{{range .Rows}}<tr data-id="{{.Record.ID}}"{{with rowClass .Record}} class="{{.}}"{{end}}>
  <td>{{.Record.ID}}</td><td>{{.Record.DeliveryID}}</td><td>{{.Record.CustomerName}}</td><td>{{.Record.IssueType}}</td>
  <td><span class="badge priority-{{lower (printf "%s" .Record.Priority)}}">{{.Record.Priority}}</span></td>
  <td><span class="badge status-{{lower (printf "%s" .Record.Status)}}">{{.Record.Status}}</span></td>
  <td>{{or .Record.Notes "-"}}</td>
  <td>
    {{if .CanResolve}}<form class="inline" method="post" action="{{printf "/exceptions/%d/resolve%s" .Record.ID $.Suffix}}"><button type="submit">Resolve</button></form>{{end}}
    <form class="inline" method="post" action="{{printf "/exceptions/%d/delete%s" .Record.ID $.Suffix}}" data-confirm="{{$.DeletePrompt}}" onsubmit="return confirm(this.dataset.confirm)">
      <input type="hidden" name="confirm" value="yes"><button type="submit">Delete</button>
    </form>
  </td>
</tr>
{{else}}<tr><td colspan="8">No exceptions.</td></tr>
{{end}}</tbody>
</table>
<p class="summary" id="summary">Open: {{.Stats.Open}} | Resolved: {{.Stats.Resolved}}</p>
</body>
</html>
`
