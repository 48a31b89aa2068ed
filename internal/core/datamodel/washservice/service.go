package washservice

import "time"

type Service struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description"`
	Price           int64     `gorm:"column:price;not null"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null;default:0"`
	IsActive        bool      `gorm:"column:is_active;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Service) TableName() string { return "services" }
