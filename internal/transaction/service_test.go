package transaction_test

import (
	"context"
	"errors"
	"sync"

	"github.com/deevseek/washcorner/internal"
	transactionDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/transaction"
	"github.com/deevseek/washcorner/internal/core/events"
	customerPostgres "github.com/deevseek/washcorner/internal/customer/postgres"
	"github.com/deevseek/washcorner/internal/transaction"
	transactionPostgres "github.com/deevseek/washcorner/internal/transaction/postgres"
	washservicePostgres "github.com/deevseek/washcorner/internal/washservice/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.TransactionStatusChangedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(*events.TransactionStatusChangedEvent); ok {
		p.events = append(p.events, e)
	}
	return nil
}

func (p *recordingPublisher) last() *events.TransactionStatusChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func int64p(v int64) *int64 { return &v }

func intp(v int) *int { return &v }

var _ = Describe("Transaction service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		f         fixtures
		publisher *recordingPublisher
		service   *transaction.Service
	)

	newService := func(pub events.Publisher, opts ...transaction.Option) *transaction.Service {
		return transaction.NewService(
			transactionPostgres.NewTransactionRepository(db),
			washservicePostgres.NewServiceRepository(db),
			customerPostgres.NewCustomerRepository(db),
			pub,
			quietLogger(),
			opts...,
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = openDB()
		f = seed(db)
		publisher = &recordingPublisher{}
		service = newService(publisher)
	})

	Describe("Create", func() {
		It("computes the total from the items and assigns a tracking code", func() {
			t, err := service.Create(ctx, transaction.CreateTransactionDTO{
				CustomerID: int64p(f.customer.ID),
				Items: []transaction.ItemDTO{
					{ServiceID: f.basic.ID, Quantity: intp(2), Discount: 5000},
					{ServiceID: f.wax.ID, Price: int64p(45000)},
				},
				Total: int64p(1),
			}, 7)
			Expect(err).NotTo(HaveOccurred())

			Expect(t.Total).To(Equal(int64(35000*2 - 5000 + 45000)))
			Expect(t.Status).To(Equal(transaction.StatusPending))
			Expect(t.PaymentMethod).To(Equal(transaction.PaymentMethodCash))
			Expect(t.TrackingCode).To(MatchRegexp(`^WC-[A-Z0-9]{6}$`))
			Expect(t.CustomerName).To(Equal("Budi"))
			Expect(*t.CreatedBy).To(Equal(int64(7)))
			Expect(t.ServiceNames()).To(Equal([]string{"Cuci Basic", "Wax"}))
			Expect(t.Items[1].Price).To(Equal(int64(45000)))

			Expect(publisher.last()).NotTo(BeNil())
			Expect(publisher.last().Status).To(Equal("pending"))
			Expect(publisher.last().TrackingCode).To(Equal(t.TrackingCode))
		})

		It("rejects a discount larger than the line amount", func() {
			_, err := service.Create(ctx, transaction.CreateTransactionDTO{
				Items: []transaction.ItemDTO{{ServiceID: f.basic.ID, Discount: 40000}},
			}, 0)
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())

			var count int64
			Expect(db.Model(&transactionDatamodel.Transaction{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("rejects inactive and unknown services", func() {
			_, err := service.Create(ctx, transaction.CreateTransactionDTO{
				Items: []transaction.ItemDTO{{ServiceID: f.retired.ID}, {ServiceID: 999}},
			}, 0)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(2))
			Expect(details.Errors[0].Field).To(Equal("items[0].service_id"))
		})

		It("charges one unit when the quantity is left out", func() {
			t, err := service.Create(ctx, transaction.CreateTransactionDTO{
				Items: []transaction.ItemDTO{{ServiceID: f.basic.ID}},
			}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Items[0].Quantity).To(Equal(1))
			Expect(t.Total).To(Equal(int64(35000)))
		})

		It("rejects an explicit zero quantity", func() {
			_, err := service.Create(ctx, transaction.CreateTransactionDTO{
				Items: []transaction.ItemDTO{{ServiceID: f.basic.ID, Quantity: intp(0)}},
			}, 0)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(ContainElement(HaveField("Field", "items[0].quantity")))

			var count int64
			Expect(db.Model(&transactionDatamodel.Transaction{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("requires at least one item", func() {
			_, err := service.Create(ctx, transaction.CreateTransactionDTO{}, 0)
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("returns not found for an unknown customer", func() {
			_, err := service.Create(ctx, transaction.CreateTransactionDTO{
				CustomerID: int64p(404),
				Items:      []transaction.ItemDTO{{ServiceID: f.basic.ID}},
			}, 0)
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("never stores two transactions with the same code", func() {
			seen := map[string]bool{}
			for i := 0; i < 50; i++ {
				t, err := service.Create(ctx, transaction.CreateTransactionDTO{
					Items: []transaction.ItemDTO{{ServiceID: f.basic.ID}},
				}, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(seen).NotTo(HaveKey(t.TrackingCode))
				seen[t.TrackingCode] = true
			}
		})
	})

	Describe("the tracking code unique index", func() {
		It("is reported as a unique violation", func() {
			code := "WC-AAAAAA"
			Expect(db.Create(&transactionDatamodel.Transaction{PaymentMethod: "cash", Status: "pending", TrackingCode: &code}).Error).To(Succeed())
			err := db.Create(&transactionDatamodel.Transaction{PaymentMethod: "cash", Status: "pending", TrackingCode: &code}).Error
			Expect(transaction.IsUniqueViolation(err)).To(BeTrue())
		})
	})

	Describe("TransitionStatus", func() {
		var created *transaction.Transaction

		BeforeEach(func() {
			var err error
			created, err = service.Create(ctx, transaction.CreateTransactionDTO{
				CustomerID: int64p(f.customer.ID),
				Items:      []transaction.ItemDTO{{ServiceID: f.basic.ID}},
			}, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes the status and announces it", func() {
			t, err := service.TransitionStatus(ctx, created.ID, "in_progress")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(transaction.StatusInProgress))
			Expect(t.TrackingCode).To(Equal(created.TrackingCode))

			e := publisher.last()
			Expect(e.Status).To(Equal("in_progress"))
			Expect(e.CustomerPhone).To(Equal("081234567890"))
			Expect(e.Services).To(Equal([]string{"Cuci Basic"}))
		})

		It("rejects values outside the status set without coercion", func() {
			for _, s := range []string{"Completed", "done", ""} {
				_, err := service.TransitionStatus(ctx, created.ID, s)
				Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue(), s)
			}
			t, err := service.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(transaction.StatusPending))
		})

		It("allows any move under the permissive policy", func() {
			_, err := service.TransitionStatus(ctx, created.ID, "completed")
			Expect(err).NotTo(HaveOccurred())
			t, err := service.TransitionStatus(ctx, created.ID, "pending")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(transaction.StatusPending))
		})

		It("refuses backward moves under the forward only policy", func() {
			strict := newService(publisher, transaction.WithPolicy(transaction.ForwardOnlyTransitions))
			_, err := strict.TransitionStatus(ctx, created.ID, "in_progress")
			Expect(err).NotTo(HaveOccurred())
			_, err = strict.TransitionStatus(ctx, created.ID, "completed")
			Expect(err).NotTo(HaveOccurred())

			_, err = strict.TransitionStatus(ctx, created.ID, "pending")
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("assigns a code to a transaction stored without one", func() {
			legacy := &transactionDatamodel.Transaction{PaymentMethod: "cash", Status: "pending", Total: 35000}
			Expect(db.Create(legacy).Error).To(Succeed())

			t, err := service.TransitionStatus(ctx, legacy.ID, "in_progress")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.TrackingCode).To(MatchRegexp(`^WC-[A-Z0-9]{6}$`))

			again, err := service.TransitionStatus(ctx, legacy.ID, "completed")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.TrackingCode).To(Equal(t.TrackingCode))
		})

		It("keeps the write when a subscriber fails", func() {
			bus := events.NewEventBus(quietLogger())
			bus.Subscribe(events.EventTypeTransactionStatusChanged, func(ctx context.Context, e events.Event) error {
				return errors.New("gateway unreachable")
			})
			bus.Subscribe(events.EventTypeTransactionStatusChanged, func(ctx context.Context, e events.Event) error {
				panic("subscriber bug")
			})
			withBus := newService(bus)

			t, err := withBus.TransitionStatus(ctx, created.ID, "completed")
			bus.Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(transaction.StatusCompleted))

			stored, err := service.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(transaction.StatusCompleted))
		})

		It("returns not found for an unknown transaction", func() {
			_, err := service.TransitionStatus(ctx, 9999, "completed")
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("resolves tracking codes", func() {
			t, err := service.TransitionByTrackingCode(ctx, created.TrackingCode, "cancelled")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).To(Equal(created.ID))
			Expect(t.Status).To(Equal(transaction.StatusCancelled))
		})
	})

	Describe("Track", func() {
		It("returns the reduced public view", func() {
			created, err := service.Create(ctx, transaction.CreateTransactionDTO{
				CustomerID: int64p(f.customer.ID),
				Items:      []transaction.ItemDTO{{ServiceID: f.wax.ID}},
			}, 0)
			Expect(err).NotTo(HaveOccurred())

			view, err := service.Track(ctx, created.TrackingCode)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(transaction.StatusPending))
			Expect(view.Services).To(Equal([]string{"Wax"}))
			Expect(view.Total).To(Equal(int64(50000)))
		})

		It("treats malformed codes as not found", func() {
			_, err := service.Track(ctx, "WC-12")
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
			_, err = service.Track(ctx, "WC-ZZZZZZ")
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})

	Describe("ServiceHistory", func() {
		It("lists only completed transactions of the customer", func() {
			var ids []int64
			for i := 0; i < 3; i++ {
				t, err := service.Create(ctx, transaction.CreateTransactionDTO{
					CustomerID: int64p(f.customer.ID),
					Items:      []transaction.ItemDTO{{ServiceID: f.basic.ID}},
				}, 0)
				Expect(err).NotTo(HaveOccurred())
				ids = append(ids, t.ID)
			}
			_, err := service.TransitionStatus(ctx, ids[0], "completed")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.TransitionStatus(ctx, ids[2], "completed")
			Expect(err).NotTo(HaveOccurred())

			history, err := service.ServiceHistory(ctx, f.customer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			for _, t := range history {
				Expect(t.Status).To(Equal(transaction.StatusCompleted))
			}
			Expect(history[0].ID).To(Equal(ids[2]))
			Expect(history[1].ID).To(Equal(ids[0]))
		})

		DescribeTable("rejects a customer id that is not positive",
			func(customerID int64) {
				history, err := service.ServiceHistory(ctx, customerID)
				Expect(history).To(BeNil())
				Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("customer_id"))
			},
			Entry("zero", int64(0)),
			Entry("negative", int64(-3)),
		)
	})

	Describe("Delete", func() {
		It("removes the transaction and its items", func() {
			created, err := service.Create(ctx, transaction.CreateTransactionDTO{
				Items: []transaction.ItemDTO{{ServiceID: f.basic.ID}, {ServiceID: f.wax.ID}},
			}, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, created.ID)).To(Succeed())
			var items int64
			Expect(db.Model(&transactionDatamodel.TransactionItem{}).Count(&items).Error).To(Succeed())
			Expect(items).To(BeZero())

			_, err = service.Get(ctx, created.ID)
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})
})
