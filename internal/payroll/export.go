package payroll

import (
	"context"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/spreadsheet"
)

var exportHeader = []string{
	"ID", "Employee", "Position", "Period Start", "Period End", "Payment Type",
	"Working Days", "Base Salary", "Allowance", "Bonus", "Deduction", "Total",
	"Status", "Payment Method", "Payment Date",
}

// Export renders the payrolls matching filter as an xlsx workbook.
func (s *Service) Export(ctx context.Context, filter ListFilter) ([]byte, error) {
	payrolls, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(payrolls))
	for _, p := range payrolls {
		paid := ""
		if p.PaymentDate != nil {
			paid = p.PaymentDate.Format(dateLayout)
		}
		rows = append(rows, []any{
			p.ID,
			p.EmployeeName,
			p.EmployeePosition,
			p.PeriodStart.Format(dateLayout),
			p.PeriodEnd.Format(dateLayout),
			string(p.PaymentType),
			p.WorkingDays,
			p.BaseSalary.InexactFloat64(),
			p.Allowance.InexactFloat64(),
			p.Bonus.InexactFloat64(),
			p.Deduction.InexactFloat64(),
			p.TotalAmount.InexactFloat64(),
			string(p.Status),
			p.PaymentMethod,
			paid,
		})
	}

	data, err := spreadsheet.Build("Payrolls", exportHeader, rows)
	if err != nil {
		return nil, errors.NewInternalError("failed to export payrolls", err)
	}
	s.logger.InfoContext(ctx, "payrolls exported", "rows", len(rows))
	return data, nil
}
