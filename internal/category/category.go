package category

import (
	"time"

	categoryDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/category"
)

// Category groups operational expenses (electricity, soap, rent) for the
// profit/loss breakdown. Inactive categories stay on old expenses but cannot
// be picked for new ones.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// newRow builds the row for a validated payload. Categories start active
// unless the payload says otherwise.
func newRow(dto CategoryDTO) *categoryDatamodel.ExpenseCategory {
	row := &categoryDatamodel.ExpenseCategory{IsActive: true}
	apply(row, dto)
	return row
}

// apply copies the editable fields of dto onto row. A nil is_active keeps
// the current state.
func apply(row *categoryDatamodel.ExpenseCategory, dto CategoryDTO) {
	row.Name = dto.Name
	row.Description = dto.Description
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
}

func FromDataModel(row *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
