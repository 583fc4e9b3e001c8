// Package auth is the admin session guard. A caller is either anonymous or
// holds a signed session token whose role is "admin".
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/apperror"
	"storefront/config"
	"storefront/models"
)

// Session is the authenticated context carried by a valid token
type Session struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin is the single predicate every mutating operation consults
func IsAdmin(s *Session) bool {
	return s != nil && s.Role == models.RoleAdmin
}

// Claims is the JWT payload
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserStore looks up admin accounts
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Guard struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewGuard(users UserStore, cfg config.AuthConfig) *Guard {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func invalidCredentials() *apperror.Error {
	return apperror.Unauthorized("Invalid email or password").WithCode(apperror.CodeInvalidCredentials)
}

// SignIn checks credentials and issues a token. Accounts without the admin
// role are refused the same way as a wrong password.
func (g *Guard) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return "", nil, invalidCredentials()
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, invalidCredentials()
	}
	if user.Role != models.RoleAdmin {
		zap.S().Warnw("Non-admin sign-in refused", "email", user.Email)
		return "", nil, invalidCredentials()
	}

	session := &Session{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: g.now().Add(g.ttl).Truncate(time.Second),
	}
	token, err := g.issue(session)
	if err != nil {
		return "", nil, apperror.Internal("Error generating token", err)
	}
	return token, session, nil
}

func (g *Guard) issue(s *Session) (string, error) {
	claims := Claims{
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(g.now()),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	return signed, errors.Wrap(err, "sign token")
}

// Parse validates a token and returns its session. Expired, tampered or
// malformed tokens are Unauthorized.
func (g *Guard) Parse(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired session")
	}

	session := &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// HashPassword produces the stored bcrypt hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

type sessionKey struct{}

// WithSession stores the session on the request context
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the request's session, or nil when anonymous
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
