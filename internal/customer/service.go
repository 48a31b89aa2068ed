package customer

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	customerDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/customer"
)

type RepositoryAPI interface {
	List(ctx context.Context, search string) ([]*customerDatamodel.Customer, error)
	GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error)
	Create(ctx context.Context, c *customerDatamodel.Customer) error
	Update(ctx context.Context, c *customerDatamodel.Customer) error
	Delete(ctx context.Context, id int64) error
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

// List returns customers whose name, phone or plate contains search.
func (s *Service) List(ctx context.Context, search string) ([]*Customer, error) {
	rows, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, errors.NewInternalError("failed to list customers", err)
	}
	out := make([]*Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get customer", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("customer not found", errors.ErrCodeCustomerNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CustomerDTO) (*Customer, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row := ToDataModel(&Customer{
		Name:         dto.Name,
		Phone:        dto.Phone,
		Email:        dto.Email,
		VehiclePlate: dto.VehiclePlate,
		VehicleType:  dto.VehicleType,
		Notes:        dto.Notes,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create customer", err)
	}
	s.logger.Info("customer created", "customer_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CustomerDTO) (*Customer, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get customer", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("customer not found", errors.ErrCodeCustomerNotFound)
	}

	row.Name = dto.Name
	row.Phone = dto.Phone
	row.Email = dto.Email
	row.VehiclePlate = dto.VehiclePlate
	row.VehicleType = dto.VehicleType
	row.Notes = dto.Notes
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to update customer", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete customer", err)
	}
	s.logger.Info("customer deleted", "customer_id", id)
	return nil
}
