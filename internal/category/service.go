package category

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	categoryDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, activeOnly bool) ([]*categoryDatamodel.ExpenseCategory, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.ExpenseCategory, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.ExpenseCategory, error)
	Create(ctx context.Context, category *categoryDatamodel.ExpenseCategory) error
	Update(ctx context.Context, category *categoryDatamodel.ExpenseCategory) error
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

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	rows, err := s.repo.GetAll(ctx, activeOnly)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, errors.NewInternalError("failed to list categories", err)
	}

	out := make([]*Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("category not found", errors.ErrCodeCategoryNotFound)
	}
	return FromDataModel(row), nil
}

// IsValidCategory reports whether id names an active category.
func (s *Service) IsValidCategory(ctx context.Context, id int64) bool {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("error checking category validity", "category_id", id, "error", err)
		return false
	}
	return row != nil && row.IsActive
}

func (s *Service) Create(ctx context.Context, dto CategoryDTO) (*Category, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	row := newRow(dto)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create category", err)
	}
	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CategoryDTO) (*Category, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("category not found", errors.ErrCodeCategoryNotFound)
	}
	if err := s.ensureUniqueName(ctx, dto.Name, id); err != nil {
		return nil, err
	}

	apply(row, dto)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to update category", err)
	}
	return FromDataModel(row), nil
}

// Delete deactivates the category. Expenses keep referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete category", err)
	}
	s.logger.Info("category deactivated", "category_id", id)
	return nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return errors.NewInternalError("failed to check category name", err)
	}
	if existing != nil && existing.ID != selfID {
		return errors.NewConflictError("a category with this name already exists", errors.ErrCodeDuplicate)
	}
	return nil
}
