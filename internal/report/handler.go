package report

import (
	"context"
	"net/http"
	"time"

	"github.com/deevseek/washcorner/internal/core/common/spreadsheet"
	"github.com/deevseek/washcorner/internal/transport"
)

type ServiceAPI interface {
	ProfitLoss(ctx context.Context, from, to time.Time) (*ProfitLoss, error)
	Export(ctx context.Context, from, to time.Time) ([]byte, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	now     func() time.Time
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		now:         time.Now,
	}
}

// period reads ?from=&to=, defaulting to the current month.
func (h *Handler) period(r *http.Request) (time.Time, time.Time, error) {
	from, err := h.QueryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := h.QueryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.IsZero() && to.IsZero() {
		y, m, _ := h.now().Date()
		from = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	}
	return from, to, nil
}

// GetProfitLoss handles GET /finance/profit-loss
func (h *Handler) GetProfitLoss(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	report, err := h.Service.ProfitLoss(r.Context(), from, to)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report)
}

// ExportProfitLoss handles GET /finance/profit-loss/export
func (h *Handler) ExportProfitLoss(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	data, err := h.Service.Export(r.Context(), from, to)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	filename := "laba_rugi_" + from.Format("20060102") + "_" + to.Format("20060102") + ".xlsx"
	h.WriteAttachment(w, spreadsheet.ContentType, filename, data)
}
