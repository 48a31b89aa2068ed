package rbac_test

import (
	"github.com/deevseek/washcorner/internal/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Plan", func() {
	It("creates every built-in role and catalog permission on an empty database", func() {
		plan := rbac.Plan(nil, nil)

		names := make([]string, 0, len(plan.RolesToCreate))
		for _, r := range plan.RolesToCreate {
			names = append(names, r.Name)
			Expect(r.IsBuiltin).To(BeTrue())
		}
		Expect(names).To(Equal([]string{"admin", "manager", "kasir"}))
		Expect(plan.PermissionsToCreate).To(HaveLen(len(rbac.Catalog())))
		Expect(plan.IsNoop()).To(BeFalse())
	})

	It("creates only what is missing", func() {
		existingRoles := []rbac.Role{{ID: 1, Name: "admin"}, {ID: 7, Name: "supervisor"}}
		existingPerms := []rbac.Permission{{ID: 1, Name: "dashboard.view"}, {ID: 2, Name: "legacy.permission"}}

		plan := rbac.Plan(existingRoles, existingPerms)

		Expect(plan.RolesToCreate).To(HaveLen(2))
		Expect(plan.PermissionsToCreate).To(HaveLen(len(rbac.Catalog()) - 1))
		for _, p := range plan.PermissionsToCreate {
			Expect(p.Name).NotTo(Equal("dashboard.view"))
		}
	})

	It("is a no-op for creation once everything exists, but still lists bindings", func() {
		first := rbac.Plan(nil, nil)
		var roles []rbac.Role
		for i, r := range first.RolesToCreate {
			r.ID = int64(i + 1)
			roles = append(roles, r)
		}
		var perms []rbac.Permission
		for i, p := range first.PermissionsToCreate {
			p.ID = int64(i + 1)
			perms = append(perms, p)
		}

		second := rbac.Plan(roles, perms)
		Expect(second.IsNoop()).To(BeTrue())
		Expect(second.Bindings).To(Equal(first.Bindings))
	})

	It("never binds custom roles", func() {
		plan := rbac.Plan([]rbac.Role{{ID: 9, Name: "supervisor"}}, nil)
		Expect(plan.Bindings).To(HaveLen(3))
		Expect(plan.Bindings).NotTo(HaveKey("supervisor"))
	})
})
