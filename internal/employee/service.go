package employee

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	employeeDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	Deactivate(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Employee, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, errors.NewInternalError("failed to list employees", err)
	}
	out := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("employee not found", errors.ErrCodeEmployeeNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	joined, _ := dto.joinDate()

	e := &Employee{
		Name:     dto.Name,
		Phone:    dto.Phone,
		Position: dto.Position,
		JoinDate: joined,
		IsActive: true,
	}
	if dto.IsActive != nil {
		e.IsActive = *dto.IsActive
	}

	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create employee", err)
	}
	s.logger.Info("employee created", "employee_id", row.ID, "position", row.Position)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("employee not found", errors.ErrCodeEmployeeNotFound)
	}

	row.Name = dto.Name
	row.Phone = dto.Phone
	row.Position = dto.Position
	if dto.JoinDate != "" {
		row.JoinDate, _ = dto.joinDate()
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to update employee", err)
	}
	return FromDataModel(row), nil
}

// Delete deactivates the employee; payroll history keeps referencing the row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete employee", err)
	}
	s.logger.Info("employee deactivated", "employee_id", id)
	return nil
}
