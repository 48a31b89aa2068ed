package payroll

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	employeeDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/employee"
	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	"github.com/deevseek/washcorner/internal/core/metrics"
)

type Repository interface {
	Create(ctx context.Context, p *payrollDatamodel.Payroll) error
	GetByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollWithEmployee, error)
	List(ctx context.Context, filter ListFilter) ([]*payrollDatamodel.PayrollWithEmployee, error)
	// UpdateStatus moves a payroll from one status to another and reports
	// whether a row was still in the expected status.
	UpdateStatus(ctx context.Context, id int64, from, to Status, paymentDate *time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type PositionSalaryRepository interface {
	List(ctx context.Context) ([]*payrollDatamodel.PositionSalary, error)
	GetByID(ctx context.Context, id int64) (*payrollDatamodel.PositionSalary, error)
	GetByPosition(ctx context.Context, position string) (*payrollDatamodel.PositionSalary, error)
	Create(ctx context.Context, p *payrollDatamodel.PositionSalary) error
	Update(ctx context.Context, p *payrollDatamodel.PositionSalary) error
	Delete(ctx context.Context, id int64) error
}

type EmployeeLookup interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
}

type Service struct {
	repo      Repository
	rates     PositionSalaryRepository
	employees EmployeeLookup
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, rates PositionSalaryRepository, employees EmployeeLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		rates:     rates,
		employees: employees,
		logger:    logger,
		now:       time.Now,
	}
}

// compute resolves the employee and rate snapshot, then runs the calculator.
func (s *Service) compute(ctx context.Context, dto CreatePayrollDTO) (*employeeDatamodel.Employee, Result, error) {
	if err := dto.Validate(); err != nil {
		return nil, Result{}, err
	}

	emp, err := s.employees.GetByID(ctx, dto.EmployeeID)
	if err != nil {
		return nil, Result{}, errors.NewInternalError("failed to get employee", err)
	}
	if emp == nil {
		return nil, Result{}, errors.NewNotFoundError("employee not found", errors.ErrCodeEmployeeNotFound)
	}

	var rate *PositionSalary
	if !dto.hasOverride() {
		row, err := s.rates.GetByPosition(ctx, emp.Position)
		if err != nil {
			return nil, Result{}, errors.NewInternalError("failed to get position salary", err)
		}
		if row != nil {
			rate = PositionSalaryFromDataModel(row)
		}
	}

	res, err := Compute(dto.Input(rate))
	if err != nil {
		s.logger.WarnContext(ctx, "payroll computation rejected",
			"employee_id", emp.ID, "position", emp.Position, "error", err)
		return nil, Result{}, err
	}
	return emp, res, nil
}

// Preview returns the computed breakdown for dto without persisting anything.
func (s *Service) Preview(ctx context.Context, dto CreatePayrollDTO) (*PreviewResponse, error) {
	dto.Normalize()
	emp, res, err := s.compute(ctx, dto)
	if err != nil {
		return nil, err
	}
	return &PreviewResponse{
		EmployeeID:  emp.ID,
		Position:    emp.Position,
		PaymentType: PaymentType(dto.PaymentType),
		WorkingDays: res.WorkingDays,
		BaseSalary:  res.BaseSalary,
		Allowance:   res.Allowance,
		Bonus:       res.Bonus,
		Deduction:   res.Deduction,
		TotalAmount: res.TotalAmount,
	}, nil
}

// Create computes and stores a pending payroll. Any client supplied base
// salary or total is discarded.
func (s *Service) Create(ctx context.Context, dto CreatePayrollDTO, actorID int64) (*Payroll, error) {
	dto.Normalize()
	emp, res, err := s.compute(ctx, dto)
	if err != nil {
		return nil, err
	}
	in := dto.Input(nil)

	p := &Payroll{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.Name,
		EmployeePosition: emp.Position,
		PeriodStart:      in.PeriodStart,
		PeriodEnd:        in.PeriodEnd,
		PaymentType:      in.PaymentType,
		WorkingDays:      res.WorkingDays,
		BaseSalary:       res.BaseSalary,
		Allowance:        res.Allowance,
		Bonus:            res.Bonus,
		Deduction:        res.Deduction,
		TotalAmount:      res.TotalAmount,
		Status:           StatusPending,
		PaymentMethod:    dto.PaymentMethod,
		Notes:            dto.Notes,
	}
	if actorID > 0 {
		p.CreatedBy = &actorID
	}

	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create payroll", "error", err, "employee_id", emp.ID)
		return nil, errors.NewInternalError("failed to create payroll", err)
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt

	metrics.PayrollsCreated.WithLabelValues(string(p.PaymentType)).Inc()
	s.logger.InfoContext(ctx, "payroll created",
		"payroll_id", p.ID,
		"employee_id", p.EmployeeID,
		"payment_type", p.PaymentType,
		"total_amount", p.TotalAmount.String())
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Payroll, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get payroll", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("payroll not found", errors.ErrCodePayrollNotFound)
	}
	return FromJoinedDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Payroll, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list payrolls", err)
	}
	out := make([]*Payroll, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromJoinedDataModel(row))
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, id int64) (*Payroll, error) {
	return s.transition(ctx, id, StatusPending, StatusApproved, nil)
}

func (s *Service) Reject(ctx context.Context, id int64) (*Payroll, error) {
	return s.transition(ctx, id, StatusPending, StatusRejected, nil)
}

// MarkPaid settles an approved payroll and stamps today's date as payment date.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*Payroll, error) {
	y, m, d := s.now().Date()
	paid := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return s.transition(ctx, id, StatusApproved, StatusPaid, &paid)
}

func (s *Service) transition(ctx context.Context, id int64, from, to Status, paymentDate *time.Time) (*Payroll, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != from {
		return nil, errors.NewConflictError(
			"payroll is "+string(current.Status)+", expected "+string(from),
			errors.ErrCodeInvalidPayrollState)
	}

	ok, err := s.repo.UpdateStatus(ctx, id, from, to, paymentDate)
	if err != nil {
		return nil, errors.NewInternalError("failed to update payroll status", err)
	}
	if !ok {
		return nil, errors.NewConflictError("payroll status changed concurrently", errors.ErrCodeInvalidPayrollState)
	}

	s.logger.InfoContext(ctx, "payroll status changed", "payroll_id", id, "from", from, "to", to)
	current.Status = to
	if paymentDate != nil {
		current.PaymentDate = paymentDate
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete payroll", err)
	}
	s.logger.InfoContext(ctx, "payroll deleted", "payroll_id", id)
	return nil
}

func (s *Service) ListPositionSalaries(ctx context.Context) ([]*PositionSalary, error) {
	rows, err := s.rates.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list position salaries", err)
	}
	out := make([]*PositionSalary, 0, len(rows))
	for _, row := range rows {
		out = append(out, PositionSalaryFromDataModel(row))
	}
	return out, nil
}

func (s *Service) GetPositionSalary(ctx context.Context, id int64) (*PositionSalary, error) {
	row, err := s.rates.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get position salary", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("position salary not found", errors.ErrCodePositionNotFound)
	}
	return PositionSalaryFromDataModel(row), nil
}

func (s *Service) CreatePositionSalary(ctx context.Context, dto PositionSalaryDTO) (*PositionSalary, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.rates.GetByPosition(ctx, dto.Position)
	if err != nil {
		return nil, errors.NewInternalError("failed to check position", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("a salary rate for this position already exists", errors.ErrCodeDuplicate)
	}

	row := PositionSalaryToDataModel(&PositionSalary{
		Position:      dto.Position,
		DailyRate:     dto.DailyRate,
		MonthlySalary: dto.MonthlySalary,
		Allowances:    dto.Allowances,
		Description:   dto.Description,
	})
	if err := s.rates.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create position salary", err)
	}
	s.logger.InfoContext(ctx, "position salary created", "position", row.Position, "id", row.ID)
	return PositionSalaryFromDataModel(row), nil
}

// UpdatePositionSalary replaces a rate. Existing payrolls keep the amounts
// they were computed with.
func (s *Service) UpdatePositionSalary(ctx context.Context, id int64, dto PositionSalaryDTO) (*PositionSalary, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.rates.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get position salary", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("position salary not found", errors.ErrCodePositionNotFound)
	}

	other, err := s.rates.GetByPosition(ctx, dto.Position)
	if err != nil {
		return nil, errors.NewInternalError("failed to check position", err)
	}
	if other != nil && other.ID != id {
		return nil, errors.NewConflictError("a salary rate for this position already exists", errors.ErrCodeDuplicate)
	}

	row.Position = dto.Position
	row.DailyRate = dto.DailyRate
	row.MonthlySalary = dto.MonthlySalary
	row.Allowances = dto.Allowances
	row.Description = dto.Description
	if err := s.rates.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to update position salary", err)
	}
	return PositionSalaryFromDataModel(row), nil
}

func (s *Service) DeletePositionSalary(ctx context.Context, id int64) error {
	if _, err := s.GetPositionSalary(ctx, id); err != nil {
		return err
	}
	if err := s.rates.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete position salary", err)
	}
	return nil
}
