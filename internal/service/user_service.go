package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/authz"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/mapper"
	"github.com/signgroup/workshop-api/internal/repository"
)

// UserService handles authentication, own-profile updates and the
// admin-facing account management.
type UserService struct {
	userRepo *repository.UserRepository
	jobRepo  *repository.JobRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(
	userRepo *repository.UserRepository,
	jobRepo *repository.JobRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies the credentials and issues a signed token. Unknown
// emails, wrong passwords and deactivated accounts all answer with the
// same error so the response never confirms an address exists.
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, mapper.FormatError("user", "load", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user, s.now().UTC())
	if err != nil {
		return nil, mapper.FormatError("token", "issue", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// Me returns the acting user's own account
func (s *UserService) Me(ctx context.Context, actor *auth.UserContext) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapper.FormatError("user", "load", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdateProfile changes the actor's own name, email and optionally
// password. A wrong current password is the one recoverable failure:
// it rejects the whole update and changes nothing.
func (s *UserService) UpdateProfile(ctx context.Context, actor *auth.UserContext, req *domain.UpdateProfileRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapper.FormatError("user", "load", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	taken, err := s.userRepo.EmailExists(ctx, req.Email, user.ID)
	if err != nil {
		return nil, mapper.FormatError("user", "check", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, mapper.FormatError("password", "hash", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapper.FormatError("user", "update", err)
	}

	s.logger.Info("profile updated", zap.String("user_id", user.ID.String()))
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Account management

func (s *UserService) List(ctx context.Context, actor *auth.UserContext) ([]domain.UserDTO, error) {
	if !authz.Can(actor.User, authz.ModuleUsers, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, mapper.FormatError("users", "list", err)
	}

	dtos := make([]domain.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, mapper.ToUserDTO(&users[i]))
	}
	return dtos, nil
}

func (s *UserService) GetByID(ctx context.Context, actor *auth.UserContext, id uuid.UUID) (*domain.UserDTO, error) {
	if !authz.Can(actor.User, authz.ModuleUsers, authz.ActionView) {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapper.FormatError("user", "load", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Create opens a new account. Permissions default to the role's matrix
// when the request leaves them out; an explicit set is stored as
// submitted and stays authoritative from then on.
func (s *UserService) Create(ctx context.Context, actor *auth.UserContext, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	if !authz.Can(actor.User, authz.ModuleUsers, authz.ActionCreate) {
		return nil, ErrPermissionDenied
	}
	if !req.Role.IsValid() {
		return nil, ErrInvalidInput
	}

	taken, err := s.userRepo.EmailExists(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, mapper.FormatError("user", "check", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, mapper.FormatError("password", "hash", err)
	}

	permissions := domain.DefaultPermissionsForRole(req.Role)
	if req.Permissions != nil {
		permissions = *req.Permissions
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Permissions:  permissions,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapper.FormatError("user", "create", err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Update replaces an account's editable fields. A role change with no
// explicit permission set resets the flags to the new role's defaults;
// an explicit set wins over the role matrix either way.
func (s *UserService) Update(ctx context.Context, actor *auth.UserContext, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	if !authz.Can(actor.User, authz.ModuleUsers, authz.ActionEdit) {
		return nil, ErrPermissionDenied
	}
	if !req.Role.IsValid() {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapper.FormatError("user", "load", err)
	}

	taken, err := s.userRepo.EmailExists(ctx, req.Email, id)
	if err != nil {
		return nil, mapper.FormatError("user", "check", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	} else {
		user.Permissions = domain.DefaultPermissionsForRole(req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, mapper.FormatError("password", "hash", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapper.FormatError("user", "update", err)
	}

	s.logger.Info("user updated",
		zap.String("user_id", user.ID.String()),
		zap.String("updated_by", actor.UserID.String()),
	)
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Delete removes an account. Users cannot delete themselves, so the
// system always keeps at least the acting admin.
func (s *UserService) Delete(ctx context.Context, actor *auth.UserContext, id uuid.UUID) error {
	if !authz.Can(actor.User, authz.ModuleUsers, authz.ActionDelete) {
		return ErrPermissionDenied
	}
	if id == actor.UserID {
		return ErrSelfDelete
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return mapper.FormatError("user", "load", err)
	}

	owned, err := s.jobRepo.CountBySalesperson(ctx, id)
	if err != nil {
		return mapper.FormatError("jobs", "count", err)
	}
	if owned > 0 {
		return ErrConflict
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return mapper.FormatError("user", "delete", err)
	}

	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}
