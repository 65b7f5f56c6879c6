package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	"github.com/stybayev/graduate-work/internal/auth/dto"
	autherror "github.com/stybayev/graduate-work/internal/errors"
)

type UserService struct {
	repo   domain.UserRepository
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenIssuer, log zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		log:    log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Login:        input.Login,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials, appends a login history entry and issues
// a fresh token pair. The history write happens before issuance so a
// signing failure never loses the audit record.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.repo.GetByLogin(ctx, input.Login)
	if err != nil {
		return nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, autherror.ErrInvalidCredentials
	}

	roles, err := s.repo.GetRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordLogin(ctx, user.ID, input.UserAgent); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return s.tokens.IssuePair(ctx, user, roles)
}

// Refresh rotates a token pair: the presented refresh token and its
// paired access token are revoked before the new pair is issued, so the
// old pair is dead even if issuance fails afterwards.
func (s *UserService) Refresh(ctx context.Context, claims *RefreshClaims) (*dto.TokenResponse, error) {
	userID := claims.Subject

	if err := s.tokens.Revoke(ctx, claims.AccessJTI, claims.ID, userID); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	roles, err := s.repo.GetRoleNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.tokens.IssuePair(ctx, user, roles)
}

// Logout revokes both jtis carried by the refresh token. The revocation
// write is acknowledged before the caller gets its response, so any
// follow-up request with either token sees the revocation.
func (s *UserService) Logout(ctx context.Context, claims *RefreshClaims) error {
	return s.tokens.Revoke(ctx, claims.AccessJTI, claims.ID, claims.Subject)
}

func (s *UserService) GetDetails(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	roles, err := s.repo.GetRoleNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserOutput{
		ID:        user.ID,
		Login:     user.Login,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
		Roles:     roles,
	}, nil
}

func (s *UserService) UpdateCredentials(ctx context.Context, userID string, input dto.UpdateCredentialsInput) (*dto.UserOutput, error) {
	var passwordHash *string
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hashed)
		passwordHash = &h
	}

	user, err := s.repo.UpdateCredentials(ctx, userID, input.Login, passwordHash)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	roles, err := s.repo.GetRoleNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserOutput{
		ID:        user.ID,
		Login:     user.Login,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
		Roles:     roles,
	}, nil
}

func (s *UserService) GetLoginHistory(ctx context.Context, userID string, pageSize, pageNumber int) ([]dto.LoginHistoryOutput, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageNumber <= 0 {
		pageNumber = 1
	}
	offset := (pageNumber - 1) * pageSize

	entries, err := s.repo.GetLoginHistory(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LoginHistoryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LoginHistoryOutput{
			UserAgent: e.UserAgent,
			LoginTime: e.LoginTime,
		})
	}

	return out, nil
}
