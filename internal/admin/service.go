// Package admin runs the privileged workflows: provisioning users, granting
// and revoking roles, and bootstrapping the default administrator. Every
// operation here uses the elevated database connection.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/worshipdesk/worshipdesk-backend/internal/identity"
	"github.com/worshipdesk/worshipdesk-backend/pkg/config"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db"
	"github.com/worshipdesk/worshipdesk-backend/pkg/db/models"
	dbtypes "github.com/worshipdesk/worshipdesk-backend/pkg/db/types"
	"github.com/worshipdesk/worshipdesk-backend/pkg/enums"
	pkgerrors "github.com/worshipdesk/worshipdesk-backend/pkg/errors"
	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
	"github.com/worshipdesk/worshipdesk-backend/pkg/metrics"
	"github.com/worshipdesk/worshipdesk-backend/pkg/security"
)

// NotConfiguredMessage tells operators how to enable the privileged routes.
const NotConfiguredMessage = "Administrative operations are disabled: set WORSHIPDESK_SERVICE_DB_DSN to a connection string with the elevated service role and restart the server."

// ErrNotConfigured is returned for privileged operations when no elevated
// credential is configured.
var ErrNotConfigured = pkgerrors.New(pkgerrors.CodeNotConfigured, NotConfiguredMessage)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*ProvisionResult, error)
	Provision(ctx context.Context, req CreateUserRequest) (*ProvisionResult, error)
	AssignRole(ctx context.Context, req RoleRequest) error
	RemoveRole(ctx context.Context, req RoleRequest) error
	ListUsers(ctx context.Context) (*UserListing, error)
	EnsureDefaultAdmin(ctx context.Context) (string, error)
	DeleteMember(ctx context.Context, memberID uuid.UUID) error
}

type memberStore interface {
	FirstChurchID(ctx context.Context) (uuid.UUID, error)
	CreateMember(ctx context.Context, member *models.Member) error
	FindMember(ctx context.Context, id uuid.UUID) (*models.Member, error)
	FindMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	LinkDefaultAdmin(ctx context.Context, memberID, identityID uuid.UUID) error
	DeleteMember(ctx context.Context, id uuid.UUID) error
	ListMembers(ctx context.Context) ([]models.Member, error)
}

type identityStore interface {
	Create(ctx context.Context, identity *models.AuthIdentity) error
	FindByEmail(ctx context.Context, email string) (*models.AuthIdentity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roleStore interface {
	All(ctx context.Context) ([]models.Role, error)
	FindByName(ctx context.Context, name enums.RoleName) (*models.Role, error)
	FindByNames(ctx context.Context, names []string) ([]models.Role, error)
	Assignments(ctx context.Context) ([]models.UserRole, error)
	Assign(ctx context.Context, memberID, roleID uuid.UUID) error
	Unassign(ctx context.Context, memberID, roleID uuid.UUID) error
	UnassignAll(ctx context.Context, memberID uuid.UUID) error
}

type ServiceParams struct {
	Members        memberStore
	Identities     identityStore
	Roles          roleStore
	PasswordConfig config.PasswordConfig
	Bootstrap      config.BootstrapConfig
	Metrics        *metrics.OperationMetrics
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	members    memberStore
	identities identityStore
	roles      roleStore
	pwCfg      config.PasswordConfig
	bootstrap  config.BootstrapConfig
	metrics    *metrics.OperationMetrics
	logg       *logger.Logger
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Members == nil {
		return nil, fmt.Errorf("member store is required")
	}
	if params.Identities == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	if params.Roles == nil {
		return nil, fmt.Errorf("role store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		members:    params.Members,
		identities: params.Identities,
		roles:      params.Roles,
		pwCfg:      params.PasswordConfig,
		bootstrap:  params.Bootstrap,
		metrics:    params.Metrics,
		logg:       logg,
		now:        now,
	}, nil
}

// Register provisions a self-registered user with the musician role.
func (s *service) Register(ctx context.Context, req RegisterRequest) (res *ProvisionResult, err error) {
	defer s.metrics.Track("admin.register", time.Now(), &err)

	if err := requireCredentials(req.Email, req.Password, req.Name); err != nil {
		return nil, err
	}
	if _, err := s.roles.FindByName(ctx, enums.RoleMusician); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "musician role is missing")
		}
		return nil, pkgerrors.Store("Failed to resolve musician role", err)
	}
	return s.provision(ctx, CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Roles:    []string{enums.RoleMusician.String()},
	})
}

func (s *service) Provision(ctx context.Context, req CreateUserRequest) (res *ProvisionResult, err error) {
	defer s.metrics.Track("admin.provision", time.Now(), &err)

	if err := requireCredentials(req.Email, req.Password, req.Name); err != nil {
		return nil, err
	}
	return s.provision(ctx, req)
}

// provision creates the identity, the member and the role assignments. When
// a later step fails the rows created so far are removed again.
func (s *service) provision(ctx context.Context, req CreateUserRequest) (*ProvisionResult, error) {
	email := identity.NormalizeEmail(req.Email)
	if _, err := s.identities.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "A user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Store("Failed to check existing user", err)
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	now := s.now().UTC()
	ident := &models.AuthIdentity{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     hash,
		EmailConfirmedAt: &now,
	}
	if err := s.identities.Create(ctx, ident); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "A user with this email already exists")
		}
		return nil, pkgerrors.Store("Failed to create user", err)
	}

	rb := &rollback{identities: s.identities, members: s.members, roles: s.roles, identityID: ident.ID}

	churchID := uuid.Nil
	if req.ChurchID != nil && *req.ChurchID != uuid.Nil {
		churchID = *req.ChurchID
	} else if churchID, err = s.members.FirstChurchID(ctx); err != nil {
		return nil, s.fail(ctx, rb, "Failed to resolve church", err)
	}

	joined := dbtypes.NewDate(now)
	member := &models.Member{
		ID:          uuid.New(),
		ChurchID:    churchID,
		Email:       email,
		Name:        strings.TrimSpace(req.Name),
		Status:      enums.MemberStatusActive,
		JoinDate:    &joined,
		AuthUserID:  &ident.ID,
		Instruments: dbtypes.StringArray{},
	}
	if err := s.members.CreateMember(ctx, member); err != nil {
		return nil, s.fail(ctx, rb, "Failed to create member", err)
	}
	rb.memberID = &member.ID

	resolved, err := s.roles.FindByNames(ctx, req.Roles)
	if err != nil {
		return nil, s.fail(ctx, rb, "Failed to resolve roles", err)
	}
	for _, role := range resolved {
		if err := s.roles.Assign(ctx, member.ID, role.ID); err != nil && !db.IsUniqueViolation(err, "") {
			return nil, s.fail(ctx, rb, "Failed to assign roles", err)
		}
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"member_id": member.ID.String(), "auth_user_id": ident.ID.String()})
	s.logg.Info(ctx, "admin.user_provisioned")
	return &ProvisionResult{OK: true, MemberID: member.ID, AuthUserID: ident.ID}, nil
}

// fail undoes a partial provisioning run and reports the original error
// together with any cleanup failures.
func (s *service) fail(ctx context.Context, rb *rollback, action string, cause error) error {
	combined := multierr.Append(cause, rb.run(ctx))
	s.logg.Error(ctx, "admin.provision_rolled_back", combined)
	return pkgerrors.Store(action, combined)
}

type rollback struct {
	identities identityStore
	members    memberStore
	roles      roleStore
	identityID uuid.UUID
	memberID   *uuid.UUID
}

func (r *rollback) run(ctx context.Context) error {
	var errs error
	if r.memberID != nil {
		errs = multierr.Append(errs, wrapCleanup("remove role assignments", r.roles.UnassignAll(ctx, *r.memberID)))
		errs = multierr.Append(errs, wrapCleanup("remove member", r.members.DeleteMember(ctx, *r.memberID)))
	}
	errs = multierr.Append(errs, wrapCleanup("remove identity", r.identities.Delete(ctx, r.identityID)))
	return errs
}

func wrapCleanup(step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("cleanup %s: %w", step, err)
}

func (s *service) AssignRole(ctx context.Context, req RoleRequest) (err error) {
	defer s.metrics.Track("admin.assign_role", time.Now(), &err)

	role, err := s.resolveRole(ctx, req)
	if err != nil {
		return err
	}
	if err := s.roles.Assign(ctx, req.MemberID, role.ID); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Store("Failed to assign role", err)
	}
	return nil
}

func (s *service) RemoveRole(ctx context.Context, req RoleRequest) (err error) {
	defer s.metrics.Track("admin.remove_role", time.Now(), &err)

	role, err := s.resolveRole(ctx, req)
	if err != nil {
		return err
	}
	if err := s.roles.Unassign(ctx, req.MemberID, role.ID); err != nil {
		return pkgerrors.Store("Failed to remove role", err)
	}
	return nil
}

func (s *service) resolveRole(ctx context.Context, req RoleRequest) (*models.Role, error) {
	name := strings.TrimSpace(req.RoleName)
	if req.MemberID == uuid.Nil || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "memberId and roleName are required")
	}
	role, err := s.roles.FindByName(ctx, enums.RoleName(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Role not found: %s", name))
		}
		return nil, pkgerrors.Store("Failed to resolve role", err)
	}
	return role, nil
}

func (s *service) ListUsers(ctx context.Context) (*UserListing, error) {
	memberRows, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, pkgerrors.Store("Failed to list members", err)
	}
	roleRows, err := s.roles.All(ctx)
	if err != nil {
		return nil, pkgerrors.Store("Failed to list roles", err)
	}
	assignments, err := s.roles.Assignments(ctx)
	if err != nil {
		return nil, pkgerrors.Store("Failed to list user roles", err)
	}

	listing := &UserListing{
		Members:   make([]UserSummary, 0, len(memberRows)),
		Roles:     make([]RoleSummary, 0, len(roleRows)),
		UserRoles: make([]UserRoleSummary, 0, len(assignments)),
	}
	for _, m := range memberRows {
		listing.Members = append(listing.Members, UserSummary{
			ID:             m.ID,
			Name:           m.Name,
			Email:          m.Email,
			Status:         m.Status,
			IsDefaultAdmin: m.IsDefaultAdmin,
			AuthUserID:     m.AuthUserID,
		})
	}
	for _, r := range roleRows {
		listing.Roles = append(listing.Roles, RoleSummary{ID: r.ID, Name: r.Name})
	}
	for _, a := range assignments {
		listing.UserRoles = append(listing.UserRoles, UserRoleSummary{MemberID: a.MemberID, RoleID: a.RoleID})
	}
	return listing, nil
}

// EnsureDefaultAdmin links the seeded administrator member to a login
// identity. It is idempotent.
func (s *service) EnsureDefaultAdmin(ctx context.Context) (msg string, err error) {
	defer s.metrics.Track("admin.ensure_default_admin", time.Now(), &err)

	email := identity.NormalizeEmail(s.bootstrap.DefaultAdminEmail)
	member, err := s.members.FindMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("Default admin member %s not found; run the migrations first", email))
		}
		return "", pkgerrors.Store("Failed to load default admin member", err)
	}
	if member.AuthUserID != nil {
		return MessageDefaultAdminLinked, nil
	}

	ident, err := s.identities.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, hashErr := security.HashPassword(s.bootstrap.DefaultAdminPassword, s.pwCfg)
		if hashErr != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, hashErr, "hash password")
		}
		now := s.now().UTC()
		ident = &models.AuthIdentity{ID: uuid.New(), Email: email, PasswordHash: hash, EmailConfirmedAt: &now}
		if err := s.identities.Create(ctx, ident); err != nil {
			return "", pkgerrors.Store("Failed to create default admin user", err)
		}
	case err != nil:
		return "", pkgerrors.Store("Failed to check default admin user", err)
	}

	if err := s.members.LinkDefaultAdmin(ctx, member.ID, ident.ID); err != nil {
		return "", pkgerrors.Store("Failed to link default admin", err)
	}

	role, err := s.roles.FindByName(ctx, enums.RoleAdministrator)
	if err != nil {
		return "", pkgerrors.Store("Failed to resolve administrator role", err)
	}
	if err := s.roles.Assign(ctx, member.ID, role.ID); err != nil && !db.IsUniqueViolation(err, "") {
		return "", pkgerrors.Store("Failed to assign administrator role", err)
	}

	s.logg.Info(s.logg.WithMemberID(ctx, member.ID.String()), "admin.default_admin_linked")
	return MessageDefaultAdminCreated, nil
}

// DeleteMember removes a member and its role assignments. The default
// administrator is refused; the linked identity is left in place.
func (s *service) DeleteMember(ctx context.Context, memberID uuid.UUID) (err error) {
	defer s.metrics.Track("admin.delete_member", time.Now(), &err)

	member, err := s.members.FindMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Store("Failed to load member", err)
	}
	if member.IsDefaultAdmin {
		return pkgerrors.New(pkgerrors.CodeConflict, "The default administrator cannot be deleted.")
	}
	if err := s.roles.UnassignAll(ctx, memberID); err != nil {
		return pkgerrors.Store("Failed to delete member", err)
	}
	if err := s.members.DeleteMember(ctx, memberID); err != nil {
		return pkgerrors.Store("Failed to delete member", err)
	}
	return nil
}

func requireCredentials(email, password, name string) error {
	details := map[string]string{}
	if strings.TrimSpace(email) == "" {
		details["email"] = "required"
	}
	if password == "" {
		details["password"] = "required"
	}
	if strings.TrimSpace(name) == "" {
		details["name"] = "required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "email, password and name are required").WithDetails(details)
	}
	return nil
}
