package customer

import "time"

type Customer struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Phone        string    `gorm:"column:phone;index"`
	Email        string    `gorm:"column:email"`
	VehiclePlate string    `gorm:"column:vehicle_plate"`
	VehicleType  string    `gorm:"column:vehicle_type"`
	Notes        string    `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }
