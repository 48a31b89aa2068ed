package transaction

import (
	"time"

	"github.com/deevseek/washcorner/internal/core/datamodel/customer"
	"github.com/deevseek/washcorner/internal/core/datamodel/washservice"
)

type Transaction struct {
	ID            int64              `gorm:"primaryKey"`
	CustomerID    *int64             `gorm:"column:customer_id;index"`
	EmployeeID    *int64             `gorm:"column:employee_id"`
	Date          time.Time          `gorm:"column:date;not null"`
	Total         int64              `gorm:"column:total;not null;default:0"`
	PaymentMethod string             `gorm:"column:payment_method;not null"`
	Status        string             `gorm:"column:status;not null;default:pending;index"`
	Notes         string             `gorm:"column:notes"`
	TrackingCode  *string            `gorm:"column:tracking_code;uniqueIndex"`
	CreatedBy     *int64             `gorm:"column:created_by"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	Customer      *customer.Customer `gorm:"foreignKey:CustomerID"`
	Items         []TransactionItem  `gorm:"foreignKey:TransactionID"`
}

func (Transaction) TableName() string { return "transactions" }

type TransactionItem struct {
	ID            int64                `gorm:"primaryKey"`
	TransactionID int64                `gorm:"column:transaction_id;not null;index"`
	ServiceID     int64                `gorm:"column:service_id;not null"`
	Price         int64                `gorm:"column:price;not null"`
	Quantity      int                  `gorm:"column:quantity;not null;default:1"`
	Discount      int64                `gorm:"column:discount;not null;default:0"`
	Service       *washservice.Service `gorm:"foreignKey:ServiceID"`
}

func (TransactionItem) TableName() string { return "transaction_items" }
