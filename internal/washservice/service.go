package washservice

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	washserviceDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/washservice"
)

type RepositoryAPI interface {
	List(ctx context.Context, activeOnly bool) ([]*washserviceDatamodel.Service, error)
	GetByID(ctx context.Context, id int64) (*washserviceDatamodel.Service, error)
	Create(ctx context.Context, s *washserviceDatamodel.Service) error
	Update(ctx context.Context, s *washserviceDatamodel.Service) error
	Deactivate(ctx context.Context, id int64) error
}

type ServiceManager struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewServiceManager(repo RepositoryAPI, logger *slog.Logger) *ServiceManager {
	return &ServiceManager{
		repo:   repo,
		logger: logger,
	}
}

func (m *ServiceManager) List(ctx context.Context, activeOnly bool) ([]*Service, error) {
	rows, err := m.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.NewInternalError("failed to list services", err)
	}
	out := make([]*Service, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (m *ServiceManager) Get(ctx context.Context, id int64) (*Service, error) {
	row, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get service", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("service not found", errors.ErrCodeServiceNotFound)
	}
	return FromDataModel(row), nil
}

func (m *ServiceManager) Create(ctx context.Context, dto ServiceDTO) (*Service, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		Name:            dto.Name,
		Description:     dto.Description,
		Price:           dto.Price,
		DurationMinutes: dto.DurationMinutes,
		IsActive:        true,
	}
	if dto.IsActive != nil {
		s.IsActive = *dto.IsActive
	}
	row := ToDataModel(s)
	if err := m.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create service", err)
	}
	m.logger.Info("service created", "service_id", row.ID, "price", row.Price)
	return FromDataModel(row), nil
}

// Update changes the menu entry. Prices already copied onto transaction
// items are not affected.
func (m *ServiceManager) Update(ctx context.Context, id int64, dto ServiceDTO) (*Service, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get service", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("service not found", errors.ErrCodeServiceNotFound)
	}

	row.Name = dto.Name
	row.Description = dto.Description
	row.Price = dto.Price
	row.DurationMinutes = dto.DurationMinutes
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := m.repo.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to update service", err)
	}
	return FromDataModel(row), nil
}

// Delete takes the service off the menu. Rows stay for transaction history.
func (m *ServiceManager) Delete(ctx context.Context, id int64) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	if err := m.repo.Deactivate(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete service", err)
	}
	m.logger.Info("service deactivated", "service_id", id)
	return nil
}
