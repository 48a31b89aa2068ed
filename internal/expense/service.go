package expense

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	expenseDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/expense"
)

type RepositoryAPI interface {
	Create(ctx context.Context, e *expenseDatamodel.Expense) error
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	List(ctx context.Context, filter ListFilter) ([]*expenseDatamodel.Expense, error)
	Update(ctx context.Context, e *expenseDatamodel.Expense) error
	Delete(ctx context.Context, id int64) error
}

// CategoryValidator reports whether an expense may be booked on a category.
type CategoryValidator interface {
	IsValidCategory(ctx context.Context, id int64) bool
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryValidator
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryValidator, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) validate(ctx context.Context, dto *ExpenseDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}
	if !s.categories.IsValidCategory(ctx, dto.CategoryID) {
		return errors.NewValidationFieldError("category_id", "category does not exist or is inactive", errors.ErrCodeCategoryNotFound)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto ExpenseDTO, actorID int64) (*Expense, error) {
	if err := s.validate(ctx, &dto); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", actorID)
		return nil, err
	}
	date, _ := dto.date()

	row := ToDataModel(&Expense{
		CategoryID:  dto.CategoryID,
		Amount:      dto.Amount,
		Description: dto.Description,
		ExpenseDate: date,
		CreatedBy:   actorID,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", actorID)
		return nil, errors.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", row.ID,
		"user_id", actorID,
		"category_id", row.CategoryID,
		"amount", row.Amount)
	return s.Get(ctx, row.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to get expense", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("expense not found", errors.ErrCodeExpenseNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, errors.NewInternalError("failed to list expenses", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto ExpenseDTO) (*Expense, error) {
	if err := s.validate(ctx, &dto); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get expense", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("expense not found", errors.ErrCodeExpenseNotFound)
	}

	date, _ := dto.date()
	row.CategoryID = dto.CategoryID
	row.Amount = dto.Amount
	row.Description = dto.Description
	row.ExpenseDate = date
	row.Category = nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, errors.NewInternalError("failed to update expense", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete expense", err)
	}
	s.logger.Info("expense deleted", "expense_id", id)
	return nil
}

// Sum totals the amounts of expenses.
func Sum(expenses []*Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
