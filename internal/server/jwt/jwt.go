// Package jwt issues and validates the stateless HS256 bearer tokens
// that carry a user's identity between requests.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/mmvit/garudar/internal/models"
)

// Issuer записывается в claim iss каждого токена
const Issuer = "garudar"

// MinSecretLength - минимальная длина ключа подписи в байтах
const MinSecretLength = 32

var (
	// ErrMalformed means the token could not be parsed or lacks sub/exp
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature means the signature does not verify or the algorithm is not HS256
	ErrBadSignature = errors.New("invalid token signature")
	// ErrExpired means the embedded exp is not after the current time
	ErrExpired = errors.New("token expired")
)

// Service provides JWT token generation and validation.
// Ключ и TTL не меняются после создания, Service безопасен для конкурентного использования.
type Service struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник текущего времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new JWT service
func NewService(secret []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	s := &Service{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// TTL returns the lifetime of issued tokens
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token whose subject is the user's username
func (s *Service) Issue(user *models.User) (string, time.Time, error) {
	if user == nil || user.Username == "" {
		return "", time.Time{}, fmt.Errorf("cannot issue token without username")
	}

	now := s.now()
	claims := gojwt.RegisteredClaims{
		Subject:   user.Username,
		Issuer:    Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	// NumericDate округляет до секунд, возвращаем то, что реально в токене
	return signed, claims.ExpiresAt.Time, nil
}

// Validate checks the token and returns its subject.
// Срок действия проверяется до подписи: просроченный токен всегда дает ErrExpired.
func (s *Service) Validate(tokenString string) (string, error) {
	unverified := &gojwt.RegisteredClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(tokenString, unverified); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if unverified.Subject == "" || unverified.ExpiresAt == nil {
		return "", fmt.Errorf("%w: missing sub or exp", ErrMalformed)
	}
	if !s.now().Before(unverified.ExpiresAt.Time) {
		return "", ErrExpired
	}

	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)

	claims := &gojwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", classify(err)
	}

	return claims.Subject, nil
}

// classify сводит ошибки библиотеки к трем видам отказа
func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid),
		errors.Is(err, gojwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	default:
		// битый формат, отсутствующие claims, nbf в будущем
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
