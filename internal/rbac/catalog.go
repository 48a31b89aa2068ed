package rbac

import (
	"fmt"
	"strings"
)

// Audience is the set of built-in roles a catalog action is granted to.
type Audience uint8

const (
	AudienceAdmin Audience = 1 << iota
	AudienceManager
	AudienceCashier
)

const (
	adminOnly = AudienceAdmin
	staff     = AudienceAdmin | AudienceManager
	everyone  = staff | AudienceCashier
)

func (a Audience) Includes(b Audience) bool {
	return a&b == b
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleKasir   = "kasir"
)

type BuiltinRole struct {
	Name        string
	Description string
	Audience    Audience
}

var builtinRoles = []BuiltinRole{
	{Name: RoleAdmin, Description: "Administrator with full access", Audience: AudienceAdmin},
	{Name: RoleManager, Description: "Store manager", Audience: AudienceManager},
	{Name: RoleKasir, Description: "Cashier at the front desk", Audience: AudienceCashier},
}

func BuiltinRoles() []BuiltinRole {
	return append([]BuiltinRole(nil), builtinRoles...)
}

func IsBuiltinRole(name string) bool {
	for _, r := range builtinRoles {
		if r.Name == name {
			return true
		}
	}
	return false
}

type Action struct {
	Name     string
	Audience Audience
}

type Module struct {
	Name    string
	Actions []Action
}

func grant(aud Audience, names ...string) []Action {
	actions := make([]Action, len(names))
	for i, n := range names {
		actions[i] = Action{Name: n, Audience: aud}
	}
	return actions
}

func join(groups ...[]Action) []Action {
	var out []Action
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var crud = []string{"view", "create", "update", "delete"}

// modules is the static permission catalog. Order here is the order
// permissions are created and listed in.
var modules = []Module{
	{"dashboard", grant(everyone, "view")},
	{"customers", join(grant(everyone, "view", "create", "update"), grant(staff, "delete"))},
	{"services", join(grant(everyone, "view"), grant(staff, "create", "update", "delete"))},
	{"inventory", grant(staff, append(crud, "manage_stock")...)},
	{"employees", grant(staff, crud...)},
	{"transactions", join(grant(everyone, "view", "create", "update"), grant(staff, "delete"), grant(everyone, "change_status"))},
	{"service_history", grant(everyone, "view")},
	{"tracking", join(grant(everyone, "view"), grant(staff, "update_status"))},
	{"hrd_employees", grant(staff, crud...)},
	{"hrd_attendances", grant(staff, append(crud, "manage_report")...)},
	{"hrd_payrolls", grant(staff, append(crud, "process", "manage_report")...)},
	{"hrd_performance_reviews", grant(staff, crud...)},
	{"hrd_leave_requests", grant(staff, append(crud, "approve", "reject")...)},
	{"hrd_training_sessions", grant(staff, append(crud, "manage_participants")...)},
	{"hrd_documents", grant(staff, append(crud, "manage_types")...)},
	{"hrd_position_salaries", grant(staff, crud...)},
	{"finance_expenses", grant(staff, append(crud, "manage_report")...)},
	{"finance_expense_categories", grant(staff, crud...)},
	{"finance_profit_loss_reports", grant(staff, "view", "generate", "save", "delete", "manage_report")},
	{"finance_cashflow", grant(staff, "view", "manage_report")},
	{"settings_general", join(grant(staff, "view"), grant(adminOnly, "update"))},
	{"settings_notifications", grant(staff, "view", "update", "manage_templates")},
	{"users", grant(adminOnly, append(crud, "change_role")...)},
	{"roles", grant(adminOnly, append(crud, "manage")...)},
	{"permissions", join(grant(adminOnly, "view"), grant(staff, "manage"))},
	{"reports_operational", grant(staff, "view", "export")},
	{"reports_financial", grant(staff, "view", "export")},
	{"reports_hrd", grant(staff, "view", "export")},
}

// Entry is one flattened catalog permission.
type Entry struct {
	Name        string
	Module      string
	Action      string
	Description string
	Audience    Audience
}

var (
	entries []Entry
	index   map[string]Entry
)

func init() {
	index = make(map[string]Entry)
	for _, m := range modules {
		for _, a := range m.Actions {
			e := Entry{
				Name:        PermissionName(m.Name, a.Name),
				Module:      m.Name,
				Action:      a.Name,
				Description: describe(m.Name, a.Name),
				Audience:    a.Audience | AudienceAdmin,
			}
			if _, dup := index[e.Name]; dup {
				panic(fmt.Sprintf("rbac: duplicate catalog permission %s", e.Name))
			}
			index[e.Name] = e
			entries = append(entries, e)
		}
	}
}

func PermissionName(module, action string) string {
	return module + "." + action
}

func describe(module, action string) string {
	verb := strings.ReplaceAll(action, "_", " ")
	return strings.ToUpper(verb[:1]) + verb[1:] + " " + strings.ReplaceAll(module, "_", " ")
}

// Catalog returns every permission in catalog order.
func Catalog() []Entry {
	return append([]Entry(nil), entries...)
}

func Lookup(name string) (Entry, bool) {
	e, ok := index[name]
	return e, ok
}

func InCatalog(name string) bool {
	_, ok := index[name]
	return ok
}

// GrantedTo lists the catalog permissions a built-in role receives, in
// catalog order. Unknown roles receive nothing.
func GrantedTo(role string) []string {
	var aud Audience
	for _, r := range builtinRoles {
		if r.Name == role {
			aud = r.Audience
		}
	}
	if aud == 0 {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.Audience.Includes(aud) {
			names = append(names, e.Name)
		}
	}
	return names
}
