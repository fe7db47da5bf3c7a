package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"logtrail/internal/reqlog"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	jwtSecret    []byte
	passwordHash []byte
	aggregator   *reqlog.Aggregator
	logger       *slog.Logger
}

func NewAuthService(
	jwtSecret string,
	accessPassword string,
	aggregator *reqlog.Aggregator,
	logger *slog.Logger,
) *AuthService {
	// The configured password is only ever held as a hash so token
	// issuance can use a constant-time comparison
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(accessPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash access password", "error", err)
		panic(err)
	}

	return &AuthService{
		jwtSecret:    []byte(jwtSecret),
		passwordHash: passwordHash,
		aggregator:   aggregator,
		logger:       logger,
	}
}

func (s *AuthService) IssueToken(
	ctx context.Context,
	request *IssueTokenRequestDTO,
) (*IssueTokenResponseDTO, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(request.Password)); err != nil {
		s.aggregator.Warn(ctx, "access token request rejected", nil)
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().UTC().Add(tokenLifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "logtrail",
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	s.aggregator.Audit(ctx, "access token issued", map[string]any{
		"expiresAt": expiresAt,
	})

	return &IssueTokenResponseDTO{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, isHMAC := token.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, errors.New("unexpected signing method")
		}

		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}

	return nil
}
