package rbac_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	appErrors "github.com/deevseek/washcorner/internal"
	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	"github.com/deevseek/washcorner/internal/rbac"
	rbacPostgres "github.com/deevseek/washcorner/internal/rbac/postgres"
	"github.com/deevseek/washcorner/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Role management", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		store   rbac.Store
		service *rbac.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		store = rbacPostgres.NewRBACRepository(db)
		Expect(rbac.NewSeeder(store, quietLogger()).Ensure(ctx)).To(Succeed())
		service = rbac.NewService(store, quietLogger())
	})

	It("creates a custom role with catalog permissions", func() {
		role, err := service.CreateRole(ctx, rbac.CreateRoleDTO{
			Name:        " Supervisor ",
			Permissions: []string{"dashboard.view", "reports_operational.view"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(role.Name).To(Equal("supervisor"))
		Expect(role.IsBuiltin).To(BeFalse())
		Expect(bindingsOf(ctx, store, "supervisor")).To(ConsistOf("dashboard.view", "reports_operational.view"))
	})

	It("rejects permissions outside the catalog", func() {
		_, err := service.CreateRole(ctx, rbac.CreateRoleDTO{Name: "supervisor", Permissions: []string{"everything.all"}})
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeValidation)).To(BeTrue())
	})

	It("rejects duplicate role names", func() {
		_, err := service.CreateRole(ctx, rbac.CreateRoleDTO{Name: "kasir"})
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeConflict)).To(BeTrue())
	})

	It("protects built-in roles from deletion and editing", func() {
		admin, err := store.GetRoleByName(ctx, "admin")
		Expect(err).NotTo(HaveOccurred())

		err = service.DeleteRole(ctx, admin.ID)
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeValidation)).To(BeTrue())

		_, err = service.SetRolePermissions(ctx, admin.ID, rbac.SetPermissionsDTO{Permissions: []string{"dashboard.view"}})
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeValidation)).To(BeTrue())
		Expect(bindingsOf(ctx, store, "admin")).To(HaveLen(len(rbac.Catalog())))
	})

	It("replaces the permissions of a custom role", func() {
		role, err := service.CreateRole(ctx, rbac.CreateRoleDTO{Name: "washer", Permissions: []string{"dashboard.view"}})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.SetRolePermissions(ctx, role.ID, rbac.SetPermissionsDTO{Permissions: []string{"tracking.view", "tracking.update_status"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(bindingsOf(ctx, store, "washer")).To(ConsistOf("tracking.view", "tracking.update_status"))
	})

	It("refuses to delete a role that is still assigned", func() {
		role, err := service.CreateRole(ctx, rbac.CreateRoleDTO{Name: "washer"})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(&userDatamodel.User{Email: "w@wash.test", Name: "W", PasswordHash: "x", RoleID: role.ID, IsActive: true}).Error).To(Succeed())

		err = service.DeleteRole(ctx, role.ID)
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeConflict)).To(BeTrue())
	})

	It("deletes an unassigned custom role together with its bindings", func() {
		role, err := service.CreateRole(ctx, rbac.CreateRoleDTO{Name: "washer", Permissions: []string{"dashboard.view"}})
		Expect(err).NotTo(HaveOccurred())

		Expect(service.DeleteRole(ctx, role.ID)).To(Succeed())
		_, found, err := store.RolePermissionNames(ctx, "washer")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("returns not found for unknown roles", func() {
		err := service.DeleteRole(ctx, 999)
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeNotFound)).To(BeTrue())
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := rbac.NewHandler(transport.NewBaseHandler(quietLogger()), service)
			router = chi.NewRouter()
			router.Get("/roles", handler.ListRoles)
			router.Post("/roles", handler.CreateRole)
			router.Delete("/roles/{id}", handler.DeleteRole)
			router.Put("/roles/{id}/permissions", handler.SetRolePermissions)
			router.Get("/permissions", handler.ListPermissions)
		})

		It("lists roles with their permissions", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/roles", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp rbac.RolesResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Roles).To(HaveLen(3))
			Expect(resp.Roles[2].Name).To(Equal("kasir"))
			Expect(resp.Roles[2].Permissions).To(HaveLen(11))
		})

		It("renders validation errors with field details", func() {
			w := httptest.NewRecorder()
			body := strings.NewReader(`{"name":"x","permissions":["nope.nope"]}`)
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/roles", body))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring(`"type":"VALIDATION_ERROR"`))
			Expect(w.Body.String()).To(ContainSubstring(`"field":"permissions"`))
		})

		It("rejects a malformed id", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/roles/abc", nil))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("lists the persisted permission catalog", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/permissions", nil))

			var resp rbac.PermissionsResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Permissions).To(HaveLen(len(rbac.Catalog())))
			Expect(resp.Permissions[0].ID).To(BeNumerically(">", 0))
		})
	})
})
