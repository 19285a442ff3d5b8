// Package httpui serves the exception page as plain HTML forms.
package httpui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/ports"
	"deliverydesk/internal/usecase/exceptions"
)

type exceptionService interface {
	Catalog() exception.Catalog
	Subscribe(ctx context.Context, view ports.View) (func(), error)
	Create(ctx context.Context, input exceptions.CreateInput) (exception.Record, error)
	Resolve(ctx context.Context, id uint64) (bool, error)
	Delete(ctx context.Context, id uint64, confirm ports.Confirmer) (exceptions.DeleteOutcome, error)
	ApplyFilterSelectors(ctx context.Context, issueType string, status string) (map[uint64]bool, error)
	ActiveFilter(ctx context.Context) (exception.Filter, error)
}

// Handler renders the page from its own Board, which the service keeps current.
type Handler struct {
	svc         exceptionService
	board       *exceptions.Board
	unsubscribe func()
	router      chi.Router
}

func NewHandler(ctx context.Context, svc exceptionService) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("exception service is required")
	}

	board := exceptions.NewBoard()
	unsubscribe, err := svc.Subscribe(ctx, board)
	if err != nil {
		return nil, errs.Wrap(err, "subscribe page board")
	}

	h := &Handler{
		svc:         svc,
		board:       board,
		unsubscribe: unsubscribe,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Get("/", h.handlePage)
	r.Post("/exceptions", h.handleCreate)
	r.Post("/exceptions/{id}/resolve", h.handleResolve)
	r.Post("/exceptions/{id}/delete", h.handleDelete)
	h.router = r

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Close detaches the page board from the service.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if _, err := h.svc.ApplyFilterSelectors(ctx, query.Get("issue_type"), query.Get("status")); err != nil {
		if errors.Is(err, exception.ErrInvalidIssue) || errors.Is(err, exception.ErrInvalidStatus) {
			h.render(w, r, http.StatusBadRequest, exceptions.CreateInput{}, "Unknown filter value.")
			return
		}
		h.fail(w, r, "apply filters", err)
		return
	}

	h.render(w, r, http.StatusOK, exceptions.CreateInput{}, "")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	input := exceptions.CreateInput{
		DeliveryID:   r.PostForm.Get("delivery_id"),
		CustomerName: r.PostForm.Get("customer_name"),
		IssueType:    r.PostForm.Get("issue_type"),
		Priority:     r.PostForm.Get("priority"),
		Notes:        r.PostForm.Get("notes"),
	}

	if _, err := h.svc.Create(r.Context(), input); err != nil {
		var validationErr *exception.ValidationError
		if errors.As(err, &validationErr) {
			h.render(w, r, http.StatusUnprocessableEntity, input, validationErr.Notice())
			return
		}
		h.fail(w, r, "create exception", err)
		return
	}

	h.redirectBack(w, r)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Resolve(r.Context(), id); err != nil {
		h.fail(w, r, "resolve exception", err)
		return
	}

	h.redirectBack(w, r)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	// The browser asked the question before posting; an absent answer is a no.
	confirmed := r.PostForm.Get("confirm") == "yes"
	confirmer := ports.ConfirmFunc(func(context.Context, string) bool { return confirmed })

	if _, err := h.svc.Delete(r.Context(), id, confirmer); err != nil {
		h.fail(w, r, "delete exception", err)
		return
	}

	h.redirectBack(w, r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, form exceptions.CreateInput, notice string) {
	filter, err := h.svc.ActiveFilter(r.Context())
	if err != nil {
		h.fail(w, r, "load active filter", err)
		return
	}

	suffix := filterSuffix(r)
	data := pageData{
		Catalog:      h.svc.Catalog(),
		Statuses:     []exception.Status{exception.StatusOpen, exception.StatusResolved},
		Form:         form,
		Notice:       notice,
		Filter:       filter,
		Rows:         h.board.VisibleRows(),
		Stats:        h.board.Stats(),
		CreateAction: "/exceptions" + suffix,
		Suffix:       suffix,
		DeletePrompt: exceptions.DeletePrompt,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.fail(w, r, "render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) redirectBack(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+filterSuffix(r), http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	logging.Error(r.Context(), "request failed", slog.String("action", action), slog.Any("err", errs.Loggable(err)))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// filterSuffix keeps only the filter selectors of the request query.
func filterSuffix(r *http.Request) string {
	query := r.URL.Query()
	kept := url.Values{}
	for _, key := range []string{"issue_type", "status"} {
		if value := query.Get(key); value != "" {
			kept.Set(key, value)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "?" + kept.Encode()
}

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid exception id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
