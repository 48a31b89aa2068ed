package transaction

import (
	"context"
	"net/http"
	"strings"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateTransactionDTO, actorID int64) (*Transaction, error)
	Get(ctx context.Context, id int64) (*Transaction, error)
	GetByTrackingCode(ctx context.Context, code string) (*Transaction, error)
	Track(ctx context.Context, code string) (*PublicView, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ServiceHistory(ctx context.Context, customerID int64) ([]*Transaction, error)
	TransitionStatus(ctx context.Context, id int64, newStatus string) (*Transaction, error)
	TransitionByTrackingCode(ctx context.Context, code, newStatus string) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func trackingParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
}

// ListTransactions handles GET /transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	from, err := h.QueryDate(r, "from")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	to, err := h.QueryDate(r, "to")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	filter := ListFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		From:   from,
		To:     to,
	}
	customerID, err := h.QueryInt(r, "customer_id", 0)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	filter.CustomerID = int64(customerID)
	if filter.Limit, err = h.QueryInt(r, "limit", 100); err != nil {
		h.WriteAppError(w, err)
		return
	}
	if filter.Offset, err = h.QueryInt(r, "offset", 0); err != nil {
		h.WriteAppError(w, err)
		return
	}

	transactions, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TransactionsResponse{Transactions: transactions})
}

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto CreateTransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	var actorID int64
	if actor, ok := internal.ActorFromContext(r.Context()); ok {
		actorID = actor.UserID
	}

	t, err := h.Service.Create(r.Context(), dto, actorID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	t, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// UpdateStatus handles PATCH /transactions/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	t, err := h.Service.TransitionStatus(r.Context(), id, dto.Status)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetByTrackingCode handles GET /tracking/{code} for staff.
func (h *Handler) GetByTrackingCode(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.GetByTrackingCode(r.Context(), trackingParam(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// UpdateStatusByTrackingCode handles PATCH /tracking/{code}/status
func (h *Handler) UpdateStatusByTrackingCode(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	t, err := h.Service.TransitionByTrackingCode(r.Context(), trackingParam(r), dto.Status)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// Track handles the unauthenticated GET /track/{code}
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Track(r.Context(), trackingParam(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// ServiceHistory handles GET /service-history?customer_id=
func (h *Handler) ServiceHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := h.QueryID(r, "customer_id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	history, err := h.Service.ServiceHistory(r.Context(), customerID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TransactionsResponse{Transactions: history})
}
