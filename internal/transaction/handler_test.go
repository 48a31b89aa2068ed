package transaction_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	customerDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/customer"
	customerPostgres "github.com/deevseek/washcorner/internal/customer/postgres"
	"github.com/deevseek/washcorner/internal/transaction"
	transactionPostgres "github.com/deevseek/washcorner/internal/transaction/postgres"
	"github.com/deevseek/washcorner/internal/transport"
	washservicePostgres "github.com/deevseek/washcorner/internal/washservice/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Transaction handler", func() {
	var (
		router *chi.Mux
		db     *gorm.DB
		f      fixtures
	)

	BeforeEach(func() {
		db = openDB()
		f = seed(db)
		service := transaction.NewService(
			transactionPostgres.NewTransactionRepository(db),
			washservicePostgres.NewServiceRepository(db),
			customerPostgres.NewCustomerRepository(db),
			nil,
			quietLogger(),
		)
		handler := transaction.NewHandler(transport.NewBaseHandler(quietLogger()), service)

		router = chi.NewRouter()
		router.Route("/transactions", func(r chi.Router) {
			r.Get("/", handler.ListTransactions)
			r.Post("/", handler.CreateTransaction)
			r.Get("/{id}", handler.GetTransaction)
			r.Patch("/{id}/status", handler.UpdateStatus)
			r.Delete("/{id}", handler.DeleteTransaction)
		})
		router.Get("/tracking/{code}", handler.GetByTrackingCode)
		router.Patch("/tracking/{code}/status", handler.UpdateStatusByTrackingCode)
		router.Get("/track/{code}", handler.Track)
		router.Get("/service-history", handler.ServiceHistory)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	createFor := func(customerID int64) map[string]interface{} {
		rec := do(http.MethodPost, "/transactions", fmt.Sprintf(
			`{"customer_id": %d, "payment_method": "QRIS", "items": [{"service_id": %d, "quantity": 1}], "total": 1}`,
			customerID, f.basic.ID))
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}
	create := func() map[string]interface{} { return createFor(f.customer.ID) }

	It("creates a transaction with a server computed total", func() {
		body := create()
		Expect(body["total"]).To(BeNumerically("==", 35000))
		Expect(body["payment_method"]).To(Equal("qris"))
		Expect(body["status"]).To(Equal("pending"))
		Expect(body["tracking_code"]).To(MatchRegexp(`^WC-[A-Z0-9]{6}$`))
	})

	It("answers 400 for an unknown status", func() {
		body := create()
		rec := do(http.MethodPatch, fmt.Sprintf("/transactions/%v/status", body["id"]), `{"status": "finished"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("moves a transaction through its tracking code", func() {
		body := create()
		code := body["tracking_code"].(string)

		rec := do(http.MethodPatch, "/tracking/"+strings.ToLower(code)+"/status", `{"status": "in_progress"}`)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())

		rec = do(http.MethodGet, "/tracking/"+code, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"in_progress"`))
	})

	It("hides contact details on the public tracking page", func() {
		body := create()
		rec := do(http.MethodGet, "/track/"+body["tracking_code"].(string), "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Cuci Basic"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("081234567890"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("Budi"))
	})

	It("answers 404 for an unknown tracking code", func() {
		rec := do(http.MethodGet, "/track/WC-000000", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("filters the list by status", func() {
		create()
		body := create()
		rec := do(http.MethodPatch, fmt.Sprintf("/transactions/%v/status", body["id"]), `{"status": "completed"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/transactions?status=completed", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list transaction.TransactionsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Transactions).To(HaveLen(1))
	})

	It("answers 400 for a malformed limit", func() {
		rec := do(http.MethodGet, "/transactions?limit=ten", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring(`"field":"limit"`))
	})

	Describe("service history", func() {
		BeforeEach(func() {
			other := &customerDatamodel.Customer{Name: "Other", Phone: "089876543210", VehiclePlate: "D4321EF"}
			Expect(db.Create(other).Error).To(Succeed())
			for _, id := range []int64{f.customer.ID, other.ID} {
				body := createFor(id)
				rec := do(http.MethodPatch, fmt.Sprintf("/transactions/%v/status", body["id"]), `{"status": "completed"}`)
				Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			}
		})

		It("returns only the requested customer's completed transactions", func() {
			rec := do(http.MethodGet, fmt.Sprintf("/service-history?customer_id=%d", f.customer.ID), "")
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			var list transaction.TransactionsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
			Expect(list.Transactions).To(HaveLen(1))
			Expect(list.Transactions[0].CustomerName).To(Equal("Budi"))
		})

		DescribeTable("answers 400 without a usable customer_id",
			func(path string) {
				rec := do(http.MethodGet, path, "")
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(rec.Body.String()).To(ContainSubstring(`"field":"customer_id"`))
				Expect(rec.Body.String()).NotTo(ContainSubstring("Other"))
				Expect(rec.Body.String()).NotTo(ContainSubstring("Budi"))
			},
			Entry("absent", "/service-history"),
			Entry("empty", "/service-history?customer_id="),
			Entry("not a number", "/service-history?customer_id=abc"),
			Entry("zero", "/service-history?customer_id=0"),
			Entry("negative", "/service-history?customer_id=-1"),
		)
	})

	It("deletes a transaction", func() {
		body := create()
		rec := do(http.MethodDelete, fmt.Sprintf("/transactions/%v", body["id"]), "")
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		rec = do(http.MethodGet, fmt.Sprintf("/transactions/%v", body["id"]), "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
