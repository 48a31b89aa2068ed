package rbac_test

import (
	"context"
	"errors"

	appErrors "github.com/deevseek/washcorner/internal"
	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
	"github.com/deevseek/washcorner/internal/rbac"
	rbacPostgres "github.com/deevseek/washcorner/internal/rbac/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func bindingsOf(ctx context.Context, store rbac.Store, role string) []string {
	names, found, err := store.RolePermissionNames(ctx, role)
	Expect(err).NotTo(HaveOccurred())
	Expect(found).To(BeTrue())
	return names
}

var _ = Describe("Seeder", func() {
	var (
		ctx    context.Context
		db     *gorm.DB
		store  rbac.Store
		seeder *rbac.Seeder
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		store = rbacPostgres.NewRBACRepository(db)
		seeder = rbac.NewSeeder(store, quietLogger())
	})

	It("is idempotent across runs", func() {
		Expect(seeder.Ensure(ctx)).To(Succeed())
		firstAdmin := bindingsOf(ctx, store, "admin")
		firstKasir := bindingsOf(ctx, store, "kasir")

		Expect(seeder.Ensure(ctx)).To(Succeed())

		var roleCount, permCount int64
		Expect(db.Model(&rbacDatamodel.Role{}).Count(&roleCount).Error).To(Succeed())
		Expect(db.Model(&rbacDatamodel.Permission{}).Count(&permCount).Error).To(Succeed())
		Expect(roleCount).To(Equal(int64(3)))
		Expect(permCount).To(Equal(int64(len(rbac.Catalog()))))

		Expect(bindingsOf(ctx, store, "admin")).To(Equal(firstAdmin))
		Expect(bindingsOf(ctx, store, "kasir")).To(Equal(firstKasir))
	})

	It("keeps admin a superset of manager and manager a superset of kasir", func() {
		Expect(seeder.Ensure(ctx)).To(Succeed())

		admin := bindingsOf(ctx, store, "admin")
		manager := bindingsOf(ctx, store, "manager")
		kasir := bindingsOf(ctx, store, "kasir")

		Expect(admin).To(ContainElements(manager))
		Expect(manager).To(ContainElements(kasir))
		Expect(kasir).To(HaveLen(11))
	})

	It("resets manual edits to built-in roles", func() {
		Expect(seeder.Ensure(ctx)).To(Succeed())

		kasir, err := store.GetRoleByName(ctx, "kasir")
		Expect(err).NotTo(HaveOccurred())
		var usersView rbacDatamodel.Permission
		Expect(db.Where("name = ?", "users.view").First(&usersView).Error).To(Succeed())
		Expect(db.Create(&rbacDatamodel.RolePermission{RoleID: kasir.ID, PermissionID: usersView.ID}).Error).To(Succeed())
		Expect(bindingsOf(ctx, store, "kasir")).To(ContainElement("users.view"))

		Expect(seeder.Ensure(ctx)).To(Succeed())
		Expect(bindingsOf(ctx, store, "kasir")).NotTo(ContainElement("users.view"))
	})

	It("leaves custom role bindings untouched", func() {
		Expect(seeder.Ensure(ctx)).To(Succeed())

		custom := &rbacDatamodel.Role{Name: "supervisor"}
		Expect(store.CreateRole(ctx, custom)).To(Succeed())
		var view rbacDatamodel.Permission
		Expect(db.Where("name = ?", "users.view").First(&view).Error).To(Succeed())
		Expect(store.ReplaceBindings(ctx, custom.ID, []int64{view.ID})).To(Succeed())

		Expect(seeder.Ensure(ctx)).To(Succeed())
		Expect(bindingsOf(ctx, store, "supervisor")).To(Equal([]string{"users.view"}))
	})

	It("fails with an initialization error when a row comes back without an id", func() {
		broken := rbac.NewSeeder(&zeroIDStore{Store: store}, quietLogger())

		err := broken.Ensure(ctx)
		Expect(err).To(HaveOccurred())
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeInitialization)).To(BeTrue())
	})

	It("fails with an initialization error when the store errors", func() {
		failing := rbac.NewSeeder(&failingListStore{Store: store}, quietLogger())

		err := failing.Ensure(ctx)
		Expect(appErrors.IsErrorType(err, appErrors.ErrorTypeInitialization)).To(BeTrue())
	})
})

// zeroIDStore simulates a driver that does not report generated keys.
type zeroIDStore struct {
	rbac.Store
}

func (s *zeroIDStore) WithinTx(ctx context.Context, fn func(tx rbac.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx rbac.Store) error {
		return fn(&zeroIDStore{Store: tx})
	})
}

func (s *zeroIDStore) CreateRole(ctx context.Context, role *rbacDatamodel.Role) error {
	if err := s.Store.CreateRole(ctx, role); err != nil {
		return err
	}
	role.ID = 0
	return nil
}

type failingListStore struct {
	rbac.Store
}

func (s *failingListStore) WithinTx(ctx context.Context, fn func(tx rbac.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx rbac.Store) error {
		return fn(&failingListStore{Store: tx})
	})
}

func (s *failingListStore) ListPermissions(ctx context.Context) ([]*rbacDatamodel.Permission, error) {
	return nil, errors.New("connection reset")
}
