package postgres

import (
	"context"
	"errors"

	washserviceDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/washservice"
	"github.com/deevseek/washcorner/internal/washservice"
	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

var _ washservice.RepositoryAPI = (*ServiceRepository)(nil)

func (r *ServiceRepository) List(ctx context.Context, activeOnly bool) ([]*washserviceDatamodel.Service, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []*washserviceDatamodel.Service
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*washserviceDatamodel.Service, error) {
	var s washserviceDatamodel.Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDs returns the services with the given ids keyed by id.
func (r *ServiceRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*washserviceDatamodel.Service, error) {
	var rows []*washserviceDatamodel.Service
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]*washserviceDatamodel.Service, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *washserviceDatamodel.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceRepository) Update(ctx context.Context, s *washserviceDatamodel.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServiceRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&washserviceDatamodel.Service{}).Where("id = ?", id).Update("is_active", false).Error
}
