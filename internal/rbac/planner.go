package rbac

// SeedPlan is the difference between what the database holds and what the
// catalog requires. Bindings always lists the full grant of every built-in
// role; the seeder replaces existing bindings with it.
type SeedPlan struct {
	RolesToCreate       []Role
	PermissionsToCreate []Permission
	Bindings            map[string][]string
}

func (p SeedPlan) IsNoop() bool {
	return len(p.RolesToCreate) == 0 && len(p.PermissionsToCreate) == 0
}

// Plan computes the seed plan. It has no side effects.
func Plan(existingRoles []Role, existingPermissions []Permission) SeedPlan {
	haveRole := make(map[string]bool, len(existingRoles))
	for _, r := range existingRoles {
		haveRole[r.Name] = true
	}
	havePerm := make(map[string]bool, len(existingPermissions))
	for _, p := range existingPermissions {
		havePerm[p.Name] = true
	}

	plan := SeedPlan{Bindings: make(map[string][]string, len(builtinRoles))}

	for _, br := range builtinRoles {
		if !haveRole[br.Name] {
			plan.RolesToCreate = append(plan.RolesToCreate, Role{
				Name:        br.Name,
				Description: br.Description,
				IsBuiltin:   true,
			})
		}
		plan.Bindings[br.Name] = GrantedTo(br.Name)
	}

	for _, e := range entries {
		if !havePerm[e.Name] {
			plan.PermissionsToCreate = append(plan.PermissionsToCreate, Permission{
				Name:        e.Name,
				Module:      e.Module,
				Action:      e.Action,
				Description: e.Description,
			})
		}
	}

	return plan
}
