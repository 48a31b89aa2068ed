package payroll_test

import (
	"context"
	"fmt"
	"time"

	"github.com/deevseek/washcorner/internal"
	employeeDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/employee"
	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	"github.com/deevseek/washcorner/internal/payroll"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

type mockPayrollRepository struct {
	payrolls  map[int64]*payrollDatamodel.Payroll
	nextID    int64
	createErr error
}

func newMockPayrollRepository() *mockPayrollRepository {
	return &mockPayrollRepository{payrolls: make(map[int64]*payrollDatamodel.Payroll), nextID: 1}
}

func (m *mockPayrollRepository) Create(ctx context.Context, p *payrollDatamodel.Payroll) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.payrolls[p.ID] = &cp
	return nil
}

func (m *mockPayrollRepository) GetByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollWithEmployee, error) {
	p, ok := m.payrolls[id]
	if !ok {
		return nil, nil
	}
	return &payrollDatamodel.PayrollWithEmployee{Payroll: *p}, nil
}

func (m *mockPayrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]*payrollDatamodel.PayrollWithEmployee, error) {
	var out []*payrollDatamodel.PayrollWithEmployee
	for _, p := range m.payrolls {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, &payrollDatamodel.PayrollWithEmployee{Payroll: *p})
	}
	return out, nil
}

func (m *mockPayrollRepository) UpdateStatus(ctx context.Context, id int64, from, to payroll.Status, paymentDate *time.Time) (bool, error) {
	p, ok := m.payrolls[id]
	if !ok || p.Status != string(from) {
		return false, nil
	}
	p.Status = string(to)
	if paymentDate != nil {
		p.PaymentDate = paymentDate
	}
	return true, nil
}

func (m *mockPayrollRepository) Delete(ctx context.Context, id int64) error {
	delete(m.payrolls, id)
	return nil
}

type mockRateRepository struct {
	rates  map[int64]*payrollDatamodel.PositionSalary
	nextID int64
}

func newMockRateRepository(rates ...*payrollDatamodel.PositionSalary) *mockRateRepository {
	m := &mockRateRepository{rates: make(map[int64]*payrollDatamodel.PositionSalary), nextID: 1}
	for _, r := range rates {
		_ = m.Create(context.Background(), r)
	}
	return m
}

func (m *mockRateRepository) List(ctx context.Context) ([]*payrollDatamodel.PositionSalary, error) {
	var out []*payrollDatamodel.PositionSalary
	for _, r := range m.rates {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRateRepository) GetByID(ctx context.Context, id int64) (*payrollDatamodel.PositionSalary, error) {
	return m.rates[id], nil
}

func (m *mockRateRepository) GetByPosition(ctx context.Context, position string) (*payrollDatamodel.PositionSalary, error) {
	for _, r := range m.rates {
		if r.Position == position {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRateRepository) Create(ctx context.Context, p *payrollDatamodel.PositionSalary) error {
	p.ID = m.nextID
	m.nextID++
	m.rates[p.ID] = p
	return nil
}

func (m *mockRateRepository) Update(ctx context.Context, p *payrollDatamodel.PositionSalary) error {
	m.rates[p.ID] = p
	return nil
}

func (m *mockRateRepository) Delete(ctx context.Context, id int64) error {
	delete(m.rates, id)
	return nil
}

type mockEmployeeLookup struct {
	employees map[int64]*employeeDatamodel.Employee
}

func (m *mockEmployeeLookup) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	return m.employees[id], nil
}

var _ = Describe("Payroll service", func() {
	var (
		ctx     context.Context
		repo    *mockPayrollRepository
		rates   *mockRateRepository
		service *payroll.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockPayrollRepository()
		rates = newMockRateRepository(&payrollDatamodel.PositionSalary{
			Position:      "Washer",
			DailyRate:     decimal.NewFromInt(40000),
			MonthlySalary: decimal.NewFromInt(3000000),
		})
		employees := &mockEmployeeLookup{employees: map[int64]*employeeDatamodel.Employee{
			1: {ID: 1, Name: "E1", Position: "Washer", IsActive: true},
			2: {ID: 2, Name: "E2", Position: "Detailer", IsActive: true},
		}}
		service = payroll.NewService(repo, rates, employees, quietLogger())
	})

	scenario := func() payroll.CreatePayrollDTO {
		return payroll.CreatePayrollDTO{
			EmployeeID:  1,
			PeriodStart: "2024-06-01",
			PeriodEnd:   "2024-06-03",
			PaymentType: "daily",
			Allowance:   dec(35000),
			Bonus:       dec(10000),
			Deduction:   dec(5000),
		}
	}

	Describe("Create", func() {
		It("computes the Washer scenario and stores a pending payroll", func() {
			p, err := service.Create(ctx, scenario(), 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(BeNumerically(">", 0))
			Expect(p.Status).To(Equal(payroll.StatusPending))
			Expect(p.PaymentMethod).To(Equal(payroll.PaymentMethodCash))
			Expect(p.BaseSalary.Equal(decimal.NewFromInt(120000))).To(BeTrue())
			Expect(p.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
			Expect(*p.CreatedBy).To(Equal(int64(7)))

			stored := repo.payrolls[p.ID]
			Expect(stored.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
			Expect(stored.WorkingDays).To(Equal(3))
		})

		It("ignores client supplied base salary and total", func() {
			dto := scenario()
			dto.BaseSalary = dec(1)
			dto.TotalAmount = dec(999999999)

			p, err := service.Create(ctx, dto, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
			Expect(p.CreatedBy).To(BeNil())
		})

		It("returns a configuration error when the position has no rate", func() {
			dto := scenario()
			dto.EmployeeID = 2
			_, err := service.Create(ctx, dto, 1)
			Expect(internal.IsErrorType(err, internal.ErrorTypeConfiguration)).To(BeTrue())
			Expect(repo.payrolls).To(BeEmpty())
		})

		It("accepts an override when the position has no rate", func() {
			dto := scenario()
			dto.EmployeeID = 2
			dto.DailyRate = dec(30000)
			p, err := service.Create(ctx, dto, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.BaseSalary.Equal(decimal.NewFromInt(90000))).To(BeTrue())
		})

		It("returns not found for unknown employees", func() {
			dto := scenario()
			dto.EmployeeID = 99
			_, err := service.Create(ctx, dto, 1)
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("validates the payload", func() {
			_, err := service.Create(ctx, payroll.CreatePayrollDTO{
				PeriodStart:   "2024-06-05",
				PeriodEnd:     "2024-06-01",
				PaymentType:   "weekly",
				PaymentMethod: "cheque",
				Bonus:         dec(-1),
			}, 1)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))

			fields := []string{}
			for _, e := range appErr.Details.(internal.ValidationErrors).Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ContainElements("employeeId", "periodEnd", "paymentType", "paymentMethod", "bonus"))
		})

		It("rejects malformed dates", func() {
			dto := scenario()
			dto.PeriodStart = "01/06/2024"
			_, err := service.Create(ctx, dto, 1)
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})

		It("wraps repository failures as internal errors", func() {
			repo.createErr = fmt.Errorf("connection reset")
			_, err := service.Create(ctx, scenario(), 1)
			Expect(internal.IsErrorType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	It("previews without persisting", func() {
		preview, err := service.Preview(ctx, scenario())
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
		Expect(preview.Position).To(Equal("Washer"))
		Expect(repo.payrolls).To(BeEmpty())
	})

	Describe("status lifecycle", func() {
		var id int64

		BeforeEach(func() {
			p, err := service.Create(ctx, scenario(), 1)
			Expect(err).NotTo(HaveOccurred())
			id = p.ID
		})

		It("approves then pays", func() {
			p, err := service.Approve(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(payroll.StatusApproved))

			p, err = service.MarkPaid(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(payroll.StatusPaid))
			Expect(p.PaymentDate).NotTo(BeNil())
		})

		It("refuses to pay a pending payroll", func() {
			_, err := service.MarkPaid(ctx, id)
			Expect(internal.IsErrorType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("refuses to approve a rejected payroll", func() {
			_, err := service.Reject(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Approve(ctx, id)
			Expect(internal.IsErrorType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("deletes payrolls and reports missing ones", func() {
			Expect(service.Delete(ctx, id)).To(Succeed())
			_, err := service.Get(ctx, id)
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})
	})

	Describe("position salaries", func() {
		It("rejects duplicate positions", func() {
			_, err := service.CreatePositionSalary(ctx, payroll.PositionSalaryDTO{Position: " Washer ", DailyRate: decimal.NewFromInt(1)})
			Expect(internal.IsErrorType(err, internal.ErrorTypeConflict)).To(BeTrue())
		})

		It("creates, updates and deletes a rate", func() {
			rate, err := service.CreatePositionSalary(ctx, payroll.PositionSalaryDTO{
				Position:   "Detailer",
				DailyRate:  decimal.NewFromInt(55000),
				Allowances: map[string]interface{}{"meal": 15000},
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdatePositionSalary(ctx, rate.ID, payroll.PositionSalaryDTO{
				Position:  "Detailer",
				DailyRate: decimal.NewFromInt(60000),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.DailyRate.Equal(decimal.NewFromInt(60000))).To(BeTrue())

			Expect(service.DeletePositionSalary(ctx, rate.ID)).To(Succeed())
			_, err = service.GetPositionSalary(ctx, rate.ID)
			Expect(internal.IsErrorType(err, internal.ErrorTypeNotFound)).To(BeTrue())
		})

		It("rejects negative rates", func() {
			_, err := service.CreatePositionSalary(ctx, payroll.PositionSalaryDTO{Position: "Cashier", DailyRate: decimal.NewFromInt(-5)})
			Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
		})
	})
})
