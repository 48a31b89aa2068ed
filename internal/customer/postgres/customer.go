package postgres

import (
	"context"
	"errors"

	customerDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/customer"
	"github.com/deevseek/washcorner/internal/customer"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) customer.RepositoryAPI {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(ctx context.Context, search string) ([]*customerDatamodel.Customer, error) {
	q := r.db.WithContext(ctx)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR phone LIKE ? OR LOWER(vehicle_plate) LIKE LOWER(?)", like, like, like)
	}
	var rows []*customerDatamodel.Customer
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error) {
	var c customerDatamodel.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *customerDatamodel.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) Update(ctx context.Context, c *customerDatamodel.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes the customer; transactions keep their rows with customer_id cleared.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("transactions").Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&customerDatamodel.Customer{}, id).Error
	})
}
