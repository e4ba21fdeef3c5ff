package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmvit/garudar/internal/models"
)

var (
	testSecret    = []byte("0123456789abcdef0123456789abcdef")
	foreignSecret = []byte("fedcba9876543210fedcba9876543210")
	testNow       = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, now func() time.Time) *Service {
	t.Helper()
	s, err := NewService(testSecret, 15*time.Minute, WithClock(now))
	require.NoError(t, err)
	return s
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func signWith(t *testing.T, method gojwt.SigningMethod, key any, claims gojwt.Claims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) gojwt.RegisteredClaims {
	return gojwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    Issuer,
		IssuedAt:  gojwt.NewNumericDate(testNow),
		ExpiresAt: gojwt.NewNumericDate(testNow.Add(time.Hour)),
	}
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name    string
		secret  []byte
		ttl     time.Duration
		wantErr bool
	}{
		{name: "valid", secret: testSecret, ttl: time.Minute},
		{name: "short secret", secret: []byte("short"), ttl: time.Minute, wantErr: true},
		{name: "zero ttl", secret: testSecret, ttl: 0, wantErr: true},
		{name: "negative ttl", secret: testSecret, ttl: -time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewService(tt.secret, tt.ttl)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ttl, s.TTL())
		})
	}
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	s := newTestService(t, fixedClock(testNow))

	token, expiresAt, err := s.Issue(&models.User{Username: "alice", Role: models.RoleUser})
	require.NoError(t, err)
	assert.True(t, testNow.Add(15*time.Minute).Equal(expiresAt))
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestIssue_ClaimsLayout(t *testing.T) {
	s := newTestService(t, fixedClock(testNow))

	token, _, err := s.Issue(&models.User{Username: "alice"})
	require.NoError(t, err)

	claims := &gojwt.RegisteredClaims{}
	parsed, _, err := gojwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "HS256", parsed.Header["alg"])
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, testNow.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, testNow.Unix(), claims.NotBefore.Unix())
	assert.Equal(t, testNow.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestIssue_RequiresUsername(t *testing.T) {
	s := newTestService(t, fixedClock(testNow))

	_, _, err := s.Issue(&models.User{})
	assert.Error(t, err)

	_, _, err = s.Issue(nil)
	assert.Error(t, err)
}

func TestValidate_Expiry(t *testing.T) {
	issuer := newTestService(t, fixedClock(testNow))
	token, expiresAt, err := issuer.Issue(&models.User{Username: "alice"})
	require.NoError(t, err)

	tests := []struct {
		wantErr error
		at      time.Time
		name    string
	}{
		{name: "just before expiry", at: expiresAt.Add(-time.Second)},
		{name: "exactly at expiry", at: expiresAt, wantErr: ErrExpired},
		{name: "after expiry", at: expiresAt.Add(time.Hour), wantErr: ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := newTestService(t, fixedClock(tt.at))
			subject, err := validator.Validate(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, subject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", subject)
		})
	}
}

func TestValidate_Failures(t *testing.T) {
	s := newTestService(t, fixedClock(testNow))

	expiredForeign := validClaims("alice")
	expiredForeign.ExpiresAt = gojwt.NewNumericDate(testNow.Add(-time.Minute))

	noSub := validClaims("")
	noExp := validClaims("alice")
	noExp.ExpiresAt = nil

	futureNbf := validClaims("alice")
	futureNbf.NotBefore = gojwt.NewNumericDate(testNow.Add(time.Minute))

	good := signWith(t, gojwt.SigningMethodHS256, testSecret, validClaims("alice"))
	parts := strings.Split(good, ".")
	tamperedPayload := signWith(t, gojwt.SigningMethodHS256, testSecret, validClaims("root"))
	tampered := parts[0] + "." + strings.Split(tamperedPayload, ".")[1] + "." + parts[2]

	tests := []struct {
		wantErr error
		name    string
		token   string
	}{
		{
			name:    "empty",
			token:   "",
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong segment count",
			token:   "abc.def",
			wantErr: ErrMalformed,
		},
		{
			name:    "not base64",
			token:   "!!!.@@@.###",
			wantErr: ErrMalformed,
		},
		{
			name:    "missing subject",
			token:   signWith(t, gojwt.SigningMethodHS256, testSecret, noSub),
			wantErr: ErrMalformed,
		},
		{
			name:    "missing exp",
			token:   signWith(t, gojwt.SigningMethodHS256, testSecret, noExp),
			wantErr: ErrMalformed,
		},
		{
			name:    "foreign key",
			token:   signWith(t, gojwt.SigningMethodHS256, foreignSecret, validClaims("alice")),
			wantErr: ErrBadSignature,
		},
		{
			name:    "tampered payload",
			token:   tampered,
			wantErr: ErrBadSignature,
		},
		{
			name:    "different hmac algorithm",
			token:   signWith(t, gojwt.SigningMethodHS512, testSecret, validClaims("alice")),
			wantErr: ErrBadSignature,
		},
		{
			name:    "alg none",
			token:   signWith(t, gojwt.SigningMethodNone, gojwt.UnsafeAllowNoneSignatureType, validClaims("alice")),
			wantErr: ErrBadSignature,
		},
		{
			name:    "expired wins over bad signature",
			token:   signWith(t, gojwt.SigningMethodHS256, foreignSecret, expiredForeign),
			wantErr: ErrExpired,
		},
		{
			name:    "not yet valid",
			token:   signWith(t, gojwt.SigningMethodHS256, testSecret, futureNbf),
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := s.Validate(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, subject)
		})
	}
}

func TestNewService_CopiesSecret(t *testing.T) {
	secret := append([]byte(nil), testSecret...)
	s, err := NewService(secret, time.Minute, WithClock(fixedClock(testNow)))
	require.NoError(t, err)

	token, _, err := s.Issue(&models.User{Username: "alice"})
	require.NoError(t, err)

	secret[0] ^= 0xff

	_, err = s.Validate(token)
	assert.NoError(t, err)
}
