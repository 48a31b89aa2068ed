package category_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/deevseek/washcorner/internal/category"
	categoryPostgres "github.com/deevseek/washcorner/internal/category/postgres"
	categoryDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/category"
	"github.com/deevseek/washcorner/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&categoryDatamodel.ExpenseCategory{})).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		repo := categoryPostgres.NewCategoryRepository(db)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), category.NewService(repo, slogger))

		for _, cat := range []*categoryDatamodel.ExpenseCategory{
			{Name: "Listrik", Description: "PLN", IsActive: true},
			{Name: "Sabun", Description: "Bahan cuci", IsActive: true},
			{Name: "Lama", Description: "Tidak dipakai", IsActive: false},
		} {
			Expect(db.Create(cat).Error).To(Succeed())
		}

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Get("/categories/{id}", handler.GetCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	list := func(path string) []string {
		w := do(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		names := make([]string, 0, len(response.Categories))
		for _, c := range response.Categories {
			names = append(names, c.Name)
		}
		return names
	}

	It("lists active categories", func() {
		Expect(list("/categories")).To(ConsistOf("Listrik", "Sabun"))
		Expect(list("/categories?all=true")).To(ConsistOf("Listrik", "Sabun", "Lama"))
	})

	It("creates a category and rejects the duplicate", func() {
		w := do(http.MethodPost, "/categories", `{"name":"Sewa","description":"Sewa tempat"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodPost, "/categories", `{"name":"sewa"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("answers 400 for a blank name", func() {
		w := do(http.MethodPost, "/categories", `{"name":""}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("updates and deletes", func() {
		w := do(http.MethodPut, "/categories/1", `{"name":"Listrik dan Air"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Listrik dan Air"))

		w = do(http.MethodDelete, "/categories/1", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(list("/categories")).To(ConsistOf("Sabun"))
	})

	It("answers 404 for unknown ids", func() {
		w := do(http.MethodGet, "/categories/99", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
