package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/careerhub/backend/internal/db"
)

const (
	// Access tokens are short-lived to bound the blast radius of a leak.
	AccessTokenExpiry = 1 * time.Hour
	// Refresh tokens live long enough to survive a work week away.
	RefreshTokenExpiry = 7 * 24 * time.Hour

	tokenIssuer = "careerhub"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by both token classes. Which secret signed the token
// decides the class; the claim shape is shared.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) issueAccessToken(user *db.User) (string, error) {
	return s.signToken(user, AccessTokenExpiry, s.accessSecret)
}

func (s *Service) issueRefreshToken(user *db.User) (string, error) {
	return s.signToken(user, RefreshTokenExpiry, s.refreshSecret)
}

func (s *Service) signToken(user *db.User, expiry time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken validates an access token and returns its claims.
// Expired tokens return ErrTokenExpired; any signature or structure problem
// returns ErrInvalidToken. Verification fails closed: no error path admits
// the token.
func (s *Service) VerifyAccessToken(tokenString string) (*Claims, error) {
	return verifyToken(tokenString, s.accessSecret)
}

func (s *Service) verifyRefreshToken(tokenString string) (*Claims, error) {
	return verifyToken(tokenString, s.refreshSecret)
}

func verifyToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
