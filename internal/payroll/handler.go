package payroll

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/spreadsheet"
	"github.com/deevseek/washcorner/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreatePayrollDTO, actorID int64) (*Payroll, error)
	Preview(ctx context.Context, dto CreatePayrollDTO) (*PreviewResponse, error)
	Get(ctx context.Context, id int64) (*Payroll, error)
	List(ctx context.Context, filter ListFilter) ([]*Payroll, error)
	Approve(ctx context.Context, id int64) (*Payroll, error)
	Reject(ctx context.Context, id int64) (*Payroll, error)
	MarkPaid(ctx context.Context, id int64) (*Payroll, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, filter ListFilter) ([]byte, error)

	ListPositionSalaries(ctx context.Context) ([]*PositionSalary, error)
	GetPositionSalary(ctx context.Context, id int64) (*PositionSalary, error)
	CreatePositionSalary(ctx context.Context, dto PositionSalaryDTO) (*PositionSalary, error)
	UpdatePositionSalary(ctx context.Context, id int64, dto PositionSalaryDTO) (*PositionSalary, error)
	DeletePositionSalary(ctx context.Context, id int64) error
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

func (h *Handler) filter(r *http.Request) (ListFilter, error) {
	from, err := h.QueryDate(r, "from")
	if err != nil {
		return ListFilter{}, err
	}
	to, err := h.QueryDate(r, "to")
	if err != nil {
		return ListFilter{}, err
	}
	employeeID, err := h.QueryInt(r, "employee_id", 0)
	if err != nil {
		return ListFilter{}, err
	}
	return ListFilter{
		EmployeeID: int64(employeeID),
		Status:     strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))),
		From:       from,
		To:         to,
	}, nil
}

// ListPayrolls handles GET /hrd/payrolls
func (h *Handler) ListPayrolls(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	payrolls, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PayrollsResponse{Payrolls: payrolls})
}

// CreatePayroll handles POST /hrd/payrolls
func (h *Handler) CreatePayroll(w http.ResponseWriter, r *http.Request) {
	var dto CreatePayrollDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	var actorID int64
	if actor, ok := internal.ActorFromContext(r.Context()); ok {
		actorID = actor.UserID
	}

	p, err := h.Service.Create(r.Context(), dto, actorID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// PreviewPayroll handles POST /hrd/payrolls/preview
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var dto CreatePayrollDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	preview, err := h.Service.Preview(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, preview)
}

func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Approve)
}

func (h *Handler) RejectPayroll(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Reject)
}

func (h *Handler) PayPayroll(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.MarkPaid)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, int64) (*Payroll, error)) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	p, err := op(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePayroll(w http.ResponseWriter, r *http.Request) {
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

// ExportPayrolls handles GET /hrd/payrolls/export
func (h *Handler) ExportPayrolls(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	data, err := h.Service.Export(r.Context(), filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	name := fmt.Sprintf("payrolls_%s.xlsx", time.Now().Format("20060102"))
	h.WriteAttachment(w, spreadsheet.ContentType, name, data)
}

func (h *Handler) ListPositionSalaries(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Service.ListPositionSalaries(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, PositionSalariesResponse{PositionSalaries: rates})
}

func (h *Handler) GetPositionSalary(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	rate, err := h.Service.GetPositionSalary(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rate)
}

func (h *Handler) CreatePositionSalary(w http.ResponseWriter, r *http.Request) {
	var dto PositionSalaryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	rate, err := h.Service.CreatePositionSalary(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rate)
}

func (h *Handler) UpdatePositionSalary(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	var dto PositionSalaryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	rate, err := h.Service.UpdatePositionSalary(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rate)
}

func (h *Handler) DeletePositionSalary(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	if err := h.Service.DeletePositionSalary(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
