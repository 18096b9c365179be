package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/shared"
)

// UserService handles user administration. Every operation except
// password self-service requires the admin role.
type UserService struct {
	userRepo       identity.UserRepository
	authService    *AuthService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, authService *AuthService, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		authService: authService,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new user in the actor's organization
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can manage users")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := identity.NewUser(actor.OrganizationID, req.Email, req.Password, req.DisplayName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.SetCreatedBy(actor.UserID)

	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("created_by", actor.UserID.String()),
	)

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user in the actor's organization
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForOrg(ctx, actor.OrganizationID, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users in the actor's organization
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		domainFilter.Role = &role
	}
	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		domainFilter.Status = &status
	}

	users, total, err := s.userRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// Update changes a user's profile fields
func (s *UserService) Update(ctx context.Context, actor identity.Actor, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can edit other users")
	}

	user, err := s.userRepo.FindByIDForOrg(ctx, actor.OrganizationID, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangeRole changes a user's role. Admins cannot change their own
// role, which keeps at least one admin in each organization.
func (s *UserService) ChangeRole(ctx context.Context, actor identity.Actor, userID uuid.UUID, role string) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can change roles")
	}
	if actor.UserID == userID {
		return nil, shared.NewDomainError("INVALID_OPERATION", "You cannot change your own role")
	}

	user, err := s.userRepo.FindByIDForOrg(ctx, actor.OrganizationID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.ChangeRole(identity.Role(role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	// Outstanding tokens carry the old role claim
	if err := s.authService.RevokeUserTokens(ctx, userID); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the actor's own password and revokes their
// outstanding tokens
func (s *UserService) ChangePassword(ctx context.Context, actor identity.Actor, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByIDForOrg(ctx, actor.OrganizationID, actor.UserID)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	return s.authService.RevokeUserTokens(ctx, actor.UserID)
}

// Deactivate disables a user's account and revokes their tokens
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can deactivate users")
	}
	if actor.UserID == userID {
		return shared.NewDomainError("INVALID_OPERATION", "You cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByIDForOrg(ctx, actor.OrganizationID, userID)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.publishEvents(ctx, user)

	s.logger.Info("user deactivated",
		zap.String("user_id", userID.String()),
		zap.String("deactivated_by", actor.UserID.String()),
	)

	return s.authService.RevokeUserTokens(ctx, userID)
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can activate users")
	}

	user, err := s.userRepo.FindByIDForOrg(ctx, actor.OrganizationID, userID)
	if err != nil {
		return err
	}

	user.Activate()
	return s.userRepo.Save(ctx, user)
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, user.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish user events", zap.Error(err))
	}
	user.ClearDomainEvents()
}
