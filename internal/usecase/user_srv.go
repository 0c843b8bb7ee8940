package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"content-review/internal/apperr"
	"content-review/internal/authz"
	"content-review/internal/data/entity"
	"content-review/internal/data/repository"
	"content-review/internal/dto/request"
	"content-review/internal/dto/response"
	"content-review/pkg/utils"
)

type UserService interface {
	// Administration surface.
	Create(ctx context.Context, actor authz.Actor, req *request.CreateUserRequest) (*response.UserResponse, error)
	List(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetByUsername(ctx context.Context, username string) (*response.UserResponse, error)
	UpdateByUsername(ctx context.Context, actor authz.Actor, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error

	// Self-service surface.
	Me(ctx context.Context, actor authz.Actor) (*response.UserResponse, error)
	UpdateMe(ctx context.Context, actor authz.Actor, req *request.UpdateUserRequest) (*response.UserResponse, error)
}

type userService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		users: users,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) Create(ctx context.Context, actor authz.Actor, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create user validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	if err := checkUsername(req.Username); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != nil {
		role = entity.UserRole(*req.Role)
		if !entity.ValidRole(role) {
			return nil, apperr.ValidationFields("validation failed",
				map[string]string{"role": "Unknown role"})
		}
	}
	if role != entity.RoleUser && !authz.CanAssignRole(actor) {
		return nil, apperr.PermissionDenied("not allowed to assign roles")
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal("failed to create user", err)
	}

	s.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, search string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := s.users.FindAll(ctx, search, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, apperr.Internal("failed to list users", err)
	}

	total, err := s.users.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, apperr.Internal("failed to list users", err)
	}

	out := make([]response.UserResponse, len(users))
	for i, user := range users {
		out[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateByUsername(ctx context.Context, actor authz.Actor, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update user validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	s.applyUpdate(user, req, authz.CanAssignRole(actor))

	if err := s.users.Update(ctx, user); err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		s.log.Error("Failed to update user", zap.Error(err), zap.String("username", username))
		return nil, apperr.Internal("failed to update user", err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("username", username))
		return apperr.Internal("failed to delete user", err)
	}

	s.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username))

	return nil
}

func (s *userService) Me(ctx context.Context, actor authz.Actor) (*response.UserResponse, error) {
	user, err := s.findActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateMe(ctx context.Context, actor authz.Actor, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	user, err := s.findActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	// A submitted role is silently ignored for callers who cannot
	// assign roles; profile fields still apply.
	s.applyUpdate(user, req, authz.CanAssignRole(actor))

	if err := s.users.Update(ctx, user); err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		s.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperr.Internal("failed to update profile", err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) applyUpdate(user *entity.User, req *request.UpdateUserRequest, canAssignRole bool) {
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Role != nil && canAssignRole {
		if role := entity.UserRole(*req.Role); entity.ValidRole(role) {
			user.Role = role
		}
	}
	user.UpdatedAt = time.Now()
}

func (s *userService) findUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", username))
		return nil, apperr.Internal("failed to find user", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("user %s not found", username))
	}
	return user, nil
}

func (s *userService) findActor(ctx context.Context, actor authz.Actor) (*entity.User, error) {
	if !actor.Authenticated {
		return nil, apperr.Unauthenticated("authentication required")
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		s.log.Error("Failed to load account", zap.Error(err), zap.String("user_id", actor.ID.String()))
		return nil, apperr.Internal("failed to load account", err)
	}
	if user == nil {
		return nil, apperr.Unauthenticated("account no longer exists")
	}
	return user, nil
}
