package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/careerhub/backend/internal/db"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrRefreshMismatch   = errors.New("refresh token does not match stored token")
)

type UserInfo struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// LoginResult is the login response body. The identity fields sit at the
// top level next to the tokens.
type LoginResult struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// UserStore is the identity persistence the service needs. Satisfied by
// *db.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *db.User) error
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type Service struct {
	userRepo      UserStore
	accessSecret  []byte
	refreshSecret []byte
}

func NewService(userRepo UserStore, accessSecret, refreshSecret string) *Service {
	return &Service{
		userRepo:      userRepo,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

// Signup creates a new identity. The email is normalized before the
// uniqueness check so case and whitespace variants collapse to one account.
// The plaintext password never leaves this function unhashed.
func (s *Service) Signup(ctx context.Context, name, email, password, profileImage string) (*UserInfo, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        db.NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if profileImage != "" {
		user.ProfileImage.String = profileImage
		user.ProfileImage.Valid = true
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return userInfo(user), nil
}

// Login authenticates by email and password, mints both token classes and
// persists the refresh token on the identity. Unknown email and wrong
// password are distinct failures per the API contract.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, db.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	accessToken, err := s.issueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	// Overwriting the stored token revokes any previous session's refresh
	// token; only one refresh token is live per identity.
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, err
	}

	result := &LoginResult{
		UserID:       user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(AccessTokenExpiry.Seconds()),
	}
	if user.ProfileImage.Valid {
		result.ProfileImage = user.ProfileImage.String
	}
	return result, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must verify against the refresh secret AND match the value currently
// stored on the identity; a logout or later login invalidates it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	if !user.RefreshToken.Valid || user.RefreshToken.String != refreshToken {
		return "", ErrRefreshMismatch
	}

	return s.issueAccessToken(user)
}

// Logout clears the stored refresh token, revoking the session.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	err := s.userRepo.SetRefreshToken(ctx, userID, nil)
	if errors.Is(err, db.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ChangePassword is the only path that mutates a stored password hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func userInfo(user *db.User) *UserInfo {
	info := &UserInfo{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
	}
	if user.ProfileImage.Valid {
		info.ProfileImage = user.ProfileImage.String
	}
	return info
}
