package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"content-review/internal/apperr"
	"content-review/internal/data/entity"
	"content-review/internal/data/repository"
	"content-review/internal/dto/request"
	"content-review/internal/dto/response"
	"content-review/pkg/utils"
)

// reservedUsername collides with the /users/me self-service path.
const reservedUsername = "me"

var usernameRx = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)

// checkUsername enforces the reserved name and the allowed charset.
func checkUsername(username string) error {
	if username == reservedUsername {
		return apperr.ValidationFields("validation failed",
			map[string]string{"username": `Username "me" is reserved`})
	}
	if !usernameRx.MatchString(username) {
		return apperr.ValidationFields("validation failed",
			map[string]string{"username": "Username may only contain letters, digits and @.+-_"})
	}
	return nil
}

// TokenIssuer signs access tokens. *token.Manager satisfies it.
type TokenIssuer interface {
	Generate(userID, username, role string, isSuperuser bool) (string, error)
}

type AuthService interface {
	// Signup registers (or re-confirms) an account and delivers a
	// fresh confirmation code out-of-band. No token is issued here.
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	// Token exchanges a valid confirmation code for a signed access
	// token. The code is single-use.
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	tokens TokenIssuer
	mailer Mailer
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	tokens TokenIssuer,
	mailer Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		tokens: tokens,
		mailer: mailer,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	if err := checkUsername(req.Username); err != nil {
		return nil, err
	}

	byEmail, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, apperr.Internal("failed to check email", err)
	}
	if byEmail != nil && byEmail.Username != req.Username {
		return nil, apperr.ValidationFields("validation failed",
			map[string]string{"email": "Email is already registered"})
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal("failed to check username", err)
	}
	if user != nil && user.Email != req.Email {
		return nil, apperr.ValidationFields("validation failed",
			map[string]string{"username": "Username is already taken"})
	}

	// Same username+email pair: existing account, re-issue the code.
	if user == nil {
		now := time.Now()
		user = &entity.User{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Username: req.Username,
			Email:    req.Email,
			Role:     entity.RoleUser,
		}

		if err := s.repo.User.Create(ctx, user); err != nil {
			if apperr.IsKind(err, apperr.KindValidation) {
				return nil, err
			}
			s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
			return nil, apperr.Internal("failed to create account", err)
		}

		s.log.Info("User registered",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
	}

	if err := s.issueConfirmationCode(ctx, user); err != nil {
		return nil, err
	}

	return &response.SignupResponse{
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Token request validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperr.ValidationFields("validation failed", errs)
	}

	if req.Username == reservedUsername {
		return nil, apperr.ValidationFields("validation failed",
			map[string]string{"username": `Username "me" is reserved`})
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user for token", zap.Error(err), zap.String("username", req.Username))
		return nil, apperr.Internal("failed to find user", err)
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("user %s not found", req.Username))
	}

	code, err := s.repo.ConfirmationCode.FindActiveByUser(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to find confirmation code", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperr.Internal("failed to verify confirmation code", err)
	}

	// Same response for a missing, expired and wrong code: the caller
	// learns nothing about which part failed.
	if code == nil || bcrypt.CompareHashAndPassword([]byte(code.CodeHash), []byte(req.ConfirmationCode)) != nil {
		s.log.Warn("Confirmation code mismatch", zap.String("username", req.Username))
		return nil, apperr.Validation("invalid username or confirmation code")
	}

	// The code is burned only after a token was actually signed; a
	// signing failure leaves it valid for a retry.
	accessToken, err := s.tokens.Generate(user.ID.String(), user.Username, string(user.Role), user.IsSuperuser)
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperr.Internal("failed to issue token", err)
	}

	if err := s.repo.ConfirmationCode.MarkUsed(ctx, code.ID); err != nil {
		s.log.Error("Failed to invalidate confirmation code", zap.Error(err), zap.String("code_id", code.ID.String()))
		return nil, apperr.Internal("failed to issue token", err)
	}

	s.log.Info("Access token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &response.TokenResponse{Token: accessToken}, nil
}

func (s *authService) issueConfirmationCode(ctx context.Context, user *entity.User) error {
	plain, err := utils.GenerateConfirmationCode()
	if err != nil {
		s.log.Error("Failed to generate confirmation code", zap.Error(err))
		return apperr.Internal("failed to generate confirmation code", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash confirmation code", zap.Error(err))
		return apperr.Internal("failed to process confirmation code", err)
	}

	// A re-issued code is the only live one.
	if err := s.repo.ConfirmationCode.InvalidatePending(ctx, user.ID); err != nil {
		return apperr.Internal("failed to issue confirmation code", err)
	}

	code := &entity.ConfirmationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    user.ID,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(time.Duration(s.config.Code.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.ConfirmationCode.Create(ctx, code); err != nil {
		return apperr.Internal("failed to issue confirmation code", err)
	}

	if err := s.mailer.SendConfirmationCode(ctx, user.Email, plain); err != nil {
		// Signup already succeeded; the user can request a new code.
		s.log.Error("Failed to deliver confirmation code",
			zap.Error(err), zap.String("email", user.Email))
	}

	s.log.Info("Confirmation code issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", code.ExpiresAt))

	return nil
}
