package expense

import (
	"time"

	"github.com/deevseek/washcorner/internal/core/datamodel/category"
)

type Expense struct {
	ID          int64                     `gorm:"primaryKey"`
	CategoryID  int64                     `gorm:"column:category_id;not null;index"`
	Amount      int64                     `gorm:"column:amount;not null"`
	Description string                    `gorm:"column:description;not null"`
	ExpenseDate time.Time                 `gorm:"column:expense_date;type:date;not null;index"`
	CreatedBy   int64                     `gorm:"column:created_by;not null"`
	CreatedAt   time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
	Category    *category.ExpenseCategory `gorm:"foreignKey:CategoryID"`
}

func (Expense) TableName() string { return "expenses" }
