package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/apperror"
	"storefront/config"
	"storefront/models"
)

type fakeUsers map[string]models.User

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return &u, nil
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestGuard(t *testing.T) *Guard {
	users := fakeUsers{
		"admin@shop.test": {ID: primitive.NewObjectID(), Email: "admin@shop.test", Password: hash(t, "s3cret"), Role: models.RoleAdmin},
		"staff@shop.test": {ID: primitive.NewObjectID(), Email: "staff@shop.test", Password: hash(t, "s3cret"), Role: "staff"},
	}
	return NewGuard(users, config.AuthConfig{JWTSecret: "test-secret", SessionTTL: time.Hour})
}

func TestSignInIssuesAdminSession(t *testing.T) {
	g := newTestGuard(t)

	token, session, err := g.SignIn(context.Background(), "ADMIN@shop.test", "s3cret")
	require.NoError(t, err)
	assert.True(t, IsAdmin(session))

	parsed, err := g.Parse(token)
	require.NoError(t, err)
	assert.True(t, IsAdmin(parsed))
	assert.Equal(t, session.UserID, parsed.UserID)
	assert.Equal(t, "admin@shop.test", parsed.Email)
}

func TestSignInFailuresStayAnonymous(t *testing.T) {
	g := newTestGuard(t)
	cases := [][2]string{
		{"admin@shop.test", "wrong"},
		{"nobody@shop.test", "s3cret"},
		{"staff@shop.test", "s3cret"},
	}
	for _, c := range cases {
		token, session, err := g.SignIn(context.Background(), c[0], c[1])
		assert.Empty(t, token)
		assert.Nil(t, session)
		appErr := apperror.As(err)
		assert.Equal(t, apperror.KindUnauthorized, appErr.Kind)
		assert.Equal(t, apperror.CodeInvalidCredentials, appErr.Code)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	g := newTestGuard(t)
	token, _, err := g.SignIn(context.Background(), "admin@shop.test", "s3cret")
	require.NoError(t, err)

	g.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = g.Parse(token)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestParseRejectsForeignSignature(t *testing.T) {
	g := newTestGuard(t)
	other := NewGuard(fakeUsers{}, config.AuthConfig{JWTSecret: "other"})

	token, err := other.issue(&Session{Role: models.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = g.Parse(token)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = g.Parse("")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, IsAdmin(nil))
	assert.False(t, IsAdmin(&Session{Role: "staff"}))
	assert.True(t, IsAdmin(&Session{Role: "admin"}))
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, SessionFrom(ctx))

	s := &Session{Role: models.RoleAdmin}
	assert.Same(t, s, SessionFrom(WithSession(ctx, s)))
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")))
}
