package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, testAudience, testIssuer, time.Hour)
	id := uuid.New()

	token, err := issuer.IssueAccessToken(id, "ana@example.com")
	require.NoError(t, err)

	claims, err := issuer.ParseAccessToken(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestParseAccessTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, testAudience, testIssuer, time.Hour)
	id := uuid.New()

	tests := []struct {
		name  string
		token func() string
	}{
		{"other audience", func() string {
			s, _ := NewTokenIssuer(testSecret, "http://elsewhere", testIssuer, time.Hour).IssueAccessToken(id, "")
			return s
		}},
		{"other issuer", func() string {
			s, _ := NewTokenIssuer(testSecret, testAudience, "http://elsewhere", time.Hour).IssueAccessToken(id, "")
			return s
		}},
		{"other secret", func() string {
			s, _ := NewTokenIssuer("other", testAudience, testIssuer, time.Hour).IssueAccessToken(id, "")
			return s
		}},
		{"expired", func() string {
			old := NewTokenIssuer(testSecret, testAudience, testIssuer, time.Hour)
			old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
			s, _ := old.IssueAccessToken(id, "")
			return s
		}},
		{"alg none", func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: id.String()})
			s, _ := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
			return s
		}},
		{"garbage", func() string { return "a.b.c" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.ParseAccessToken(tt.token())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
