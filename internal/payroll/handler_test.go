package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/spreadsheet"
	employeeDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/employee"
	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	"github.com/deevseek/washcorner/internal/payroll"
	payrollPostgres "github.com/deevseek/washcorner/internal/payroll/postgres"
	"github.com/deevseek/washcorner/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type employeeTable struct{ db *gorm.DB }

func (e employeeTable) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	if err := e.db.WithContext(ctx).Take(&emp, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

var _ = Describe("Payroll handler", func() {
	var (
		router *chi.Mux
		db     *gorm.DB
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{}, &payrollDatamodel.PositionSalary{}, &payrollDatamodel.Payroll{})).To(Succeed())

		Expect(db.Create(&employeeDatamodel.Employee{Name: "E1", Position: "Washer", JoinDate: time.Now(), IsActive: true}).Error).To(Succeed())
		Expect(db.Create(&payrollDatamodel.PositionSalary{
			Position:      "Washer",
			DailyRate:     decimal.NewFromInt(40000),
			MonthlySalary: decimal.NewFromInt(3000000),
		}).Error).To(Succeed())

		service := payroll.NewService(
			payrollPostgres.NewPayrollRepository(db),
			payrollPostgres.NewPositionSalaryRepository(db),
			employeeTable{db: db},
			quietLogger(),
		)
		handler := payroll.NewHandler(transport.NewBaseHandler(quietLogger()), service)

		router = chi.NewRouter()
		router.Route("/hrd/payrolls", func(r chi.Router) {
			r.Get("/", handler.ListPayrolls)
			r.Post("/", handler.CreatePayroll)
			r.Get("/export", handler.ExportPayrolls)
			r.Get("/{id}", handler.GetPayroll)
			r.Patch("/{id}/approve", handler.ApprovePayroll)
			r.Patch("/{id}/pay", handler.PayPayroll)
			r.Delete("/{id}", handler.DeletePayroll)
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(internal.ContextWithActor(req.Context(), &internal.Actor{UserID: 1, Role: "admin"}))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	const scenarioBody = `{"employeeId":1,"periodStart":"2024-06-01","periodEnd":"2024-06-03","paymentType":"daily","allowance":35000,"bonus":10000,"deduction":5000,"totalAmount":1}`

	It("creates a payroll with a server computed total", func() {
		w := do(http.MethodPost, "/hrd/payrolls", scenarioBody)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var body payroll.Payroll
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
		Expect(body.BaseSalary.Equal(decimal.NewFromInt(120000))).To(BeTrue())
		Expect(body.WorkingDays).To(Equal(3))

		var stored payrollDatamodel.Payroll
		Expect(db.First(&stored, body.ID).Error).To(Succeed())
		Expect(stored.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
	})

	It("rejects non-numeric amounts", func() {
		w := do(http.MethodPost, "/hrd/payrolls", `{"employeeId":1,"periodStart":"2024-06-01","periodEnd":"2024-06-03","paymentType":"daily","bonus":"lots"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))
	})

	It("returns 422 when no rate is configured", func() {
		Expect(db.Where("position = ?", "Washer").Delete(&payrollDatamodel.PositionSalary{}).Error).To(Succeed())
		w := do(http.MethodPost, "/hrd/payrolls", scenarioBody)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(w.Body.String()).To(ContainSubstring("no salary rate configured for position"))
	})

	It("walks a payroll through approval and payment", func() {
		w := do(http.MethodPost, "/hrd/payrolls", scenarioBody)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created payroll.Payroll
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		path := "/hrd/payrolls/" + jsonID(created.ID)

		Expect(do(http.MethodPatch, path+"/pay", "").Code).To(Equal(http.StatusConflict))
		Expect(do(http.MethodPatch, path+"/approve", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPatch, path+"/pay", "").Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var got payroll.Payroll
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Status).To(Equal(payroll.StatusPaid))
		Expect(got.EmployeeName).To(Equal("E1"))
	})

	It("lists by status and hides deleted payrolls", func() {
		Expect(do(http.MethodPost, "/hrd/payrolls", scenarioBody).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPost, "/hrd/payrolls", scenarioBody)
		var second payroll.Payroll
		Expect(json.NewDecoder(w.Body).Decode(&second)).To(Succeed())
		Expect(do(http.MethodDelete, "/hrd/payrolls/"+jsonID(second.ID), "").Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/hrd/payrolls?status=pending", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list payroll.PayrollsResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list.Payrolls).To(HaveLen(1))

		Expect(do(http.MethodGet, "/hrd/payrolls?status=unknown", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("exports payrolls as a workbook", func() {
		Expect(do(http.MethodPost, "/hrd/payrolls", scenarioBody).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodGet, "/hrd/payrolls/export", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal(spreadsheet.ContentType))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring(".xlsx"))
		Expect(w.Body.Len()).To(BeNumerically(">", 0))
	})
})

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
