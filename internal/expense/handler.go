package expense

import (
	"context"
	"net/http"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto ExpenseDTO, actorID int64) (*Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, filter ListFilter) ([]*Expense, error)
	Update(ctx context.Context, id int64, dto ExpenseDTO) (*Expense, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListExpenses handles GET /finance/expenses?category_id=&from=&to=
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
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

	filter := ListFilter{From: from, To: to}
	categoryID, err := h.QueryInt(r, "category_id", 0)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	filter.CategoryID = int64(categoryID)
	if filter.Limit, err = h.QueryInt(r, "limit", 100); err != nil {
		h.WriteAppError(w, err)
		return
	}
	if filter.Offset, err = h.QueryInt(r, "offset", 0); err != nil {
		h.WriteAppError(w, err)
		return
	}

	expenses, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ExpensesResponse{Expenses: expenses, Total: Sum(expenses)})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.Logger.Error("CreateExpense: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	e, err := h.Service.Create(r.Context(), dto, actor.UserID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	var dto ExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	e, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
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
