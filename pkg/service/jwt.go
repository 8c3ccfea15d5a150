package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"asistencia-system/internal/entities"
	apperrors "asistencia-system/pkg/errors"
)

type SessionClaims struct {
	Session        entities.UserSession `json:"session"`
	IsRefreshToken bool                 `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

// TokenService emite y verifica los tokens de sesión. El token de acceso y
// el de refresco se firman con secretos independientes, de modo que cada uno
// se verifica por separado.
type TokenService interface {
	GenerateTokenPair(session entities.UserSession) (accessToken string, refreshToken string, err error)
	GenerateAccessToken(session entities.UserSession) (string, error)
	ValidateAccessToken(tokenString string) (*SessionClaims, error)
	ValidateRefreshToken(tokenString string) (*SessionClaims, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type tokenService struct {
	accessSecret    string
	refreshSecret   string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	logger          *zap.Logger
	now             func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, logger *zap.Logger) TokenService {
	return &tokenService{
		accessSecret:    accessSecret,
		refreshSecret:   refreshSecret,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *tokenService) sign(session entities.UserSession, isRefresh bool, secret string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &SessionClaims{
		Session:        session,
		IsRefreshToken: isRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *tokenService) GenerateTokenPair(session entities.UserSession) (string, string, error) {
	accessToken, err := s.sign(session, false, s.accessSecret, s.accessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := s.sign(session, true, s.refreshSecret, s.refreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GenerateAccessToken emite solo un token de acceso nuevo. Es el único
// camino del flujo de refresh: nunca se reemite un refresh token a partir
// de otro.
func (s *tokenService) GenerateAccessToken(session entities.UserSession) (string, error) {
	return s.sign(session, false, s.accessSecret, s.accessTokenTTL)
}

func (s *tokenService) validate(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalido
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("token no verificable", zap.Error(err))
		}
		return nil, apperrors.ErrTokenInvalido
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalido
	}

	return claims, nil
}

func (s *tokenService) ValidateAccessToken(tokenString string) (*SessionClaims, error) {
	claims, err := s.validate(tokenString, s.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.IsRefreshToken {
		return nil, apperrors.ErrTokenNoEsAccess
	}
	return claims, nil
}

func (s *tokenService) ValidateRefreshToken(tokenString string) (*SessionClaims, error) {
	claims, err := s.validate(tokenString, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenNoEsRefresh
	}
	return claims, nil
}

func (s *tokenService) GetAccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

func (s *tokenService) GetRefreshTokenTTL() time.Duration {
	return s.refreshTokenTTL
}
