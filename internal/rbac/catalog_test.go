package rbac_test

import (
	"regexp"

	"github.com/deevseek/washcorner/internal/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Permission catalog", func() {
	It("names every permission module.action in lowercase", func() {
		pattern := regexp.MustCompile(`^[a-z_]+\.[a-z_]+$`)
		for _, e := range rbac.Catalog() {
			Expect(e.Name).To(MatchRegexp(pattern.String()))
			Expect(e.Name).To(Equal(e.Module + "." + e.Action))
			Expect(e.Description).NotTo(BeEmpty())
		}
	})

	It("contains the full module table", func() {
		Expect(rbac.Catalog()).To(HaveLen(104))
		for _, name := range []string{
			"dashboard.view",
			"inventory.manage_stock",
			"hrd_payrolls.process",
			"hrd_leave_requests.reject",
			"finance_profit_loss_reports.generate",
			"settings_notifications.manage_templates",
			"users.change_role",
			"permissions.manage",
			"reports_hrd.export",
		} {
			Expect(rbac.InCatalog(name)).To(BeTrue(), name)
		}
		Expect(rbac.InCatalog("expenses.approve")).To(BeFalse())
	})

	It("grants admin every permission", func() {
		Expect(rbac.GrantedTo(rbac.RoleAdmin)).To(HaveLen(len(rbac.Catalog())))
	})

	It("withholds user, role and a few admin-only permissions from manager", func() {
		granted := rbac.GrantedTo(rbac.RoleManager)
		for _, name := range granted {
			Expect(name).NotTo(HavePrefix("users."))
			Expect(name).NotTo(HavePrefix("roles."))
		}
		Expect(granted).NotTo(ContainElement("permissions.view"))
		Expect(granted).NotTo(ContainElement("settings_general.update"))
		Expect(granted).To(ContainElement("permissions.manage"))
		Expect(granted).To(ContainElement("settings_general.view"))
		Expect(granted).To(HaveLen(len(rbac.Catalog()) - 5 - 5 - 2))
	})

	It("grants kasir exactly the front desk allow-list", func() {
		Expect(rbac.GrantedTo(rbac.RoleKasir)).To(ConsistOf(
			"dashboard.view",
			"customers.view", "customers.create", "customers.update",
			"services.view",
			"transactions.view", "transactions.create", "transactions.update", "transactions.change_status",
			"service_history.view",
			"tracking.view",
		))
	})

	It("grants nothing to unknown roles", func() {
		Expect(rbac.GrantedTo("supervisor")).To(BeEmpty())
	})
})
