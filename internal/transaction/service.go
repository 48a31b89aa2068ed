package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	customerDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/customer"
	transactionDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/transaction"
	washserviceDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/washservice"
	"github.com/deevseek/washcorner/internal/core/events"
	"github.com/deevseek/washcorner/internal/core/metrics"
)

type Repository interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
	Create(ctx context.Context, t *transactionDatamodel.Transaction) error
	CreateItem(ctx context.Context, item *transactionDatamodel.TransactionItem) error
	// GetByID and GetByTrackingCode preload the customer and items with
	// their services; both return nil, nil when nothing matches.
	GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error)
	GetByTrackingCode(ctx context.Context, code string) (*transactionDatamodel.Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*transactionDatamodel.Transaction, error)
	TrackingCodeExists(ctx context.Context, code string) (bool, error)
	// AssignTrackingCode sets the code only where none is stored yet and
	// reports whether the row was updated.
	AssignTrackingCode(ctx context.Context, id int64, code string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*washserviceDatamodel.Service, error)
}

type CustomerLookup interface {
	GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error)
}

type Service struct {
	repo      Repository
	catalog   ServiceCatalog
	customers CustomerLookup
	codes     *TrackingCodeGenerator
	policy    TransitionPolicy
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithPolicy(p TransitionPolicy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

func WithTrackingAttempts(n int) Option {
	return func(s *Service) {
		s.codes = NewTrackingCodeGenerator(s.repo.TrackingCodeExists, n)
	}
}

func NewService(repo Repository, catalog ServiceCatalog, customers CustomerLookup, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		policy:    PermissiveTransitions,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	s.codes = NewTrackingCodeGenerator(repo.TrackingCodeExists, DefaultTrackingAttempts)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the items against the service catalog, computes the
// total, and stores the transaction with a fresh tracking code.
func (s *Service) Create(ctx context.Context, dto CreateTransactionDTO, actorID int64) (*Transaction, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.CustomerID != nil {
		c, err := s.customers.GetByID(ctx, *dto.CustomerID)
		if err != nil {
			return nil, errors.NewInternalError("failed to get customer", err)
		}
		if c == nil {
			return nil, errors.NewNotFoundError("customer not found", errors.ErrCodeCustomerNotFound)
		}
	}

	items, total, err := s.priceItems(ctx, dto.Items)
	if err != nil {
		return nil, err
	}

	date, _ := dto.date(s.now())
	var createdBy *int64
	if actorID > 0 {
		createdBy = &actorID
	}

	var id int64
	for attempt := 1; ; attempt++ {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return nil, s.trackingError(err)
		}

		row := &transactionDatamodel.Transaction{
			CustomerID:    dto.CustomerID,
			EmployeeID:    dto.EmployeeID,
			Date:          date,
			Total:         total,
			PaymentMethod: dto.PaymentMethod,
			Status:        string(StatusPending),
			Notes:         dto.Notes,
			TrackingCode:  &code,
			CreatedBy:     createdBy,
		}
		err = s.repo.WithinTx(ctx, func(repo Repository) error {
			if err := repo.Create(ctx, row); err != nil {
				return err
			}
			for i := range items {
				item := items[i]
				item.TransactionID = row.ID
				if err := repo.CreateItem(ctx, &item); err != nil {
					return fmt.Errorf("create item %d: %w", i, err)
				}
			}
			return nil
		})
		if err == nil {
			id = row.ID
			break
		}
		if IsUniqueViolation(err) && attempt < s.codes.Attempts() {
			s.logger.WarnContext(ctx, "tracking code collided on insert, retrying", "attempt", attempt)
			continue
		}
		if IsUniqueViolation(err) {
			return nil, s.trackingError(err)
		}
		s.logger.ErrorContext(ctx, "failed to create transaction", "error", err)
		return nil, errors.NewInternalError("failed to create transaction", err)
	}

	created, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "transaction created",
		"transaction_id", created.ID,
		"tracking_code", created.TrackingCode,
		"total", created.Total)
	s.announce(ctx, created)
	return created, nil
}

// priceItems resolves each line against the catalog. A missing price takes
// the catalog price at the time of sale.
func (s *Service) priceItems(ctx context.Context, in []ItemDTO) ([]transactionDatamodel.TransactionItem, int64, error) {
	ids := make([]int64, 0, len(in))
	for _, it := range in {
		ids = append(ids, it.ServiceID)
	}
	services, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, errors.NewInternalError("failed to load services", err)
	}

	var (
		total int64
		out   = make([]transactionDatamodel.TransactionItem, 0, len(in))
		fails []errors.ValidationError
	)
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		svc, ok := services[it.ServiceID]
		if !ok || !svc.IsActive {
			fails = append(fails, errors.ValidationError{Field: field + ".service_id", Message: "service does not exist or is inactive", Code: string(errors.ErrCodeServiceNotFound)})
			continue
		}
		price := svc.Price
		if it.Price != nil {
			price = *it.Price
		}
		if gross := price * int64(it.quantity()); it.Discount > gross {
			fails = append(fails, errors.ValidationError{Field: field + ".discount", Message: "discount cannot exceed price times quantity", Code: string(errors.ErrCodeInvalidAmount)})
			continue
		}
		total += Subtotal(price, it.quantity(), it.Discount)
		out = append(out, transactionDatamodel.TransactionItem{
			ServiceID: it.ServiceID,
			Price:     price,
			Quantity:  it.quantity(),
			Discount:  it.Discount,
		})
	}
	if len(fails) > 0 {
		return nil, 0, errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: fails})
	}
	return out, total, nil
}

// TransitionStatus writes a new status. A transaction without a tracking
// code receives one first. Subscribers are notified after the write; their
// failures never undo it.
func (s *Service) TransitionStatus(ctx context.Context, id int64, newStatus string) (*Transaction, error) {
	to, err := ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy(current.Status, to) {
		return nil, errors.NewValidationFieldError("status",
			fmt.Sprintf("cannot move a %s transaction to %s", current.Status, to),
			errors.ErrCodeStatusTransition)
	}

	if current.TrackingCode == "" {
		if err := s.ensureTrackingCode(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		s.logger.ErrorContext(ctx, "failed to update transaction status", "transaction_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update transaction status", err)
	}
	metrics.TransactionStatusChanges.WithLabelValues(string(to)).Inc()

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "transaction status changed",
		"transaction_id", id,
		"tracking_code", updated.TrackingCode,
		"from", current.Status,
		"to", to)
	s.announce(ctx, updated)
	return updated, nil
}

// TransitionByTrackingCode resolves the code and applies TransitionStatus.
func (s *Service) TransitionByTrackingCode(ctx context.Context, code, newStatus string) (*Transaction, error) {
	t, err := s.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.TransitionStatus(ctx, t.ID, newStatus)
}

func (s *Service) ensureTrackingCode(ctx context.Context, id int64) error {
	for attempt := 1; attempt <= s.codes.Attempts(); attempt++ {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return s.trackingError(err)
		}
		assigned, err := s.repo.AssignTrackingCode(ctx, id, code)
		if IsUniqueViolation(err) {
			s.logger.WarnContext(ctx, "tracking code collided on assign, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			return errors.NewInternalError("failed to assign tracking code", err)
		}
		if assigned {
			s.logger.InfoContext(ctx, "tracking code assigned", "transaction_id", id, "tracking_code", code)
		}
		// not assigned means a concurrent writer stored one first
		return nil
	}
	return s.trackingError(ErrTrackingCodeExhausted)
}

func (s *Service) trackingError(cause error) error {
	s.logger.Error("tracking code generation failed", "error", cause)
	return errors.NewConflictError("could not allocate a tracking code, try again", errors.ErrCodeTrackingCode).WithCause(cause)
}

func (s *Service) announce(ctx context.Context, t *Transaction) {
	if s.publisher == nil {
		return
	}
	event := events.NewTransactionStatusChangedEvent(
		t.ID, t.TrackingCode, string(t.Status),
		t.CustomerName, t.CustomerPhone, t.ServiceNames(), t.Total)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish status change", "transaction_id", t.ID, "error", err)
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to get transaction", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("transaction not found", errors.ErrCodeTransactionNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByTrackingCode(ctx context.Context, code string) (*Transaction, error) {
	if !ValidTrackingCode(code) {
		return nil, errors.NewNotFoundError("transaction not found", errors.ErrCodeTransactionNotFound)
	}
	row, err := s.repo.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, errors.NewInternalError("failed to get transaction", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("transaction not found", errors.ErrCodeTransactionNotFound)
	}
	return FromDataModel(row), nil
}

// Track is the customer-facing lookup. It never exposes contact details.
func (s *Service) Track(ctx context.Context, code string) (*PublicView, error) {
	t, err := s.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return t.PublicView(), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to list transactions", err)
	}
	out := make([]*Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// ServiceHistory returns completed transactions of a customer, newest first.
func (s *Service) ServiceHistory(ctx context.Context, customerID int64) ([]*Transaction, error) {
	if customerID <= 0 {
		return nil, errors.NewValidationFieldError("customer_id", "customer_id must be a positive integer", errors.ErrCodeInvalidID)
	}
	return s.List(ctx, ListFilter{Status: string(StatusCompleted), CustomerID: customerID, Limit: 500})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewInternalError("failed to delete transaction", err)
	}
	s.logger.InfoContext(ctx, "transaction deleted", "transaction_id", id)
	return nil
}
