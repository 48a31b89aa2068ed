package user

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.UserWithRole, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.UserWithRole, error)
	List(ctx context.Context) ([]*userDatamodel.UserWithRole, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdateRole(ctx context.Context, id, roleID int64) error
}

// RoleLookup resolves role names; rbac.Store satisfies it.
type RoleLookup interface {
	GetRoleByName(ctx context.Context, name string) (*rbacDatamodel.Role, error)
}

// PermissionSource returns the permission names of a role.
type PermissionSource interface {
	PermissionsOf(ctx context.Context, role string) []string
}

type Service struct {
	repo       Repository
	roles      RoleLookup
	perms      PermissionSource
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, roles RoleLookup, perms PermissionSource, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		roles:      roles,
		perms:      perms,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// GetByID returns the user with the permissions of their role.
func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("user not found", errors.ErrCodeUserNotFound)
	}

	u := FromDataModel(row)
	if s.perms != nil {
		u.Permissions = s.perms.PermissionsOf(ctx, u.Role)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list users", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, dto.Role)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("email is already registered", errors.ErrCodeDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", row.ID, "role", role.Name)
	return FromDataModel(&userDatamodel.UserWithRole{User: *row, RoleName: role.Name}), nil
}

// ChangeRole assigns another role. Admins cannot demote themselves, which
// would leave the installation without a way back in.
func (s *Service) ChangeRole(ctx context.Context, actorID, userID int64, dto ChangeRoleDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if target == nil {
		return nil, errors.NewNotFoundError("user not found", errors.ErrCodeUserNotFound)
	}

	role, err := s.resolveRole(ctx, dto.Role)
	if err != nil {
		return nil, err
	}
	if actorID == userID && target.RoleName == "admin" && role.Name != "admin" {
		return nil, errors.NewValidationFieldError("role", "administrators cannot remove their own admin role", errors.ErrCodeInvalidChoice)
	}

	if err := s.repo.UpdateRole(ctx, userID, role.ID); err != nil {
		return nil, errors.NewInternalError("failed to update role", err)
	}

	s.logger.Info("user role changed", "user_id", userID, "from", target.RoleName, "to", role.Name, "by", actorID)
	target.RoleID = role.ID
	target.RoleName = role.Name
	return FromDataModel(target), nil
}

func (s *Service) resolveRole(ctx context.Context, name string) (*rbacDatamodel.Role, error) {
	role, err := s.roles.GetRoleByName(ctx, name)
	if err != nil {
		return nil, errors.NewInternalError("failed to look up role", err)
	}
	if role == nil {
		return nil, errors.NewNotFoundError("role "+name+" not found", errors.ErrCodeRoleNotFound)
	}
	return role, nil
}
