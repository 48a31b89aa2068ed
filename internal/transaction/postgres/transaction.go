package postgres

import (
	"context"
	"errors"
	"time"

	transactionDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/transaction"
	"github.com/deevseek/washcorner/internal/transaction"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithinTx(ctx context.Context, fn func(repo transaction.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TransactionRepository{db: tx})
	})
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	// items are inserted one by one by the caller
	return r.db.WithContext(ctx).Omit("Items", "Customer").Create(t).Error
}

func (r *TransactionRepository) CreateItem(ctx context.Context, item *transactionDatamodel.TransactionItem) error {
	return r.db.WithContext(ctx).Omit("Service").Create(item).Error
}

func (r *TransactionRepository) loaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("transaction_items.id ASC") }).
		Preload("Items.Service")
}

func (r *TransactionRepository) first(q *gorm.DB) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	if err := q.Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	return r.first(r.loaded(ctx).Where("transactions.id = ?", id))
}

func (r *TransactionRepository) GetByTrackingCode(ctx context.Context, code string) (*transactionDatamodel.Transaction, error) {
	return r.first(r.loaded(ctx).Where("transactions.tracking_code = ?", code))
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.ListFilter) ([]*transactionDatamodel.Transaction, error) {
	q := r.loaded(ctx)
	if filter.Status != "" {
		q = q.Where("transactions.status = ?", filter.Status)
	}
	if filter.CustomerID > 0 {
		q = q.Where("transactions.customer_id = ?", filter.CustomerID)
	}
	if !filter.From.IsZero() {
		q = q.Where("transactions.date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		// To is a calendar day; include all of it
		q = q.Where("transactions.date < ?", filter.To.Add(24*time.Hour))
	}

	var rows []*transactionDatamodel.Transaction
	err := q.Order("transactions.date DESC, transactions.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	return rows, err
}

func (r *TransactionRepository) TrackingCodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).Where("tracking_code = ?", code).Count(&n).Error
	return n > 0, err
}

func (r *TransactionRepository) AssignTrackingCode(ctx context.Context, id int64, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Where("id = ? AND tracking_code IS NULL", id).
		Update("tracking_code", code)
	return res.RowsAffected > 0, res.Error
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status transaction.Status) error {
	return r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&transactionDatamodel.TransactionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&transactionDatamodel.Transaction{}, id).Error
	})
}
