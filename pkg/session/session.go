// Package session is the gateway's boundary to the dashboard's auth
// provider. Sessions are issued and refreshed elsewhere; this package only
// resolves the credential bundle carried by a request and checks roles.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apierr "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/api/types/errors"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/slices"
)

type User struct {
	ID    string
	Email string
	Roles []string
}

// Session is the authenticated user's credential bundle.
//
// Err is the sentinel left by a failed transparent refresh: such a session
// exists but must not be trusted.
type Session struct {
	AccessToken string
	User        User
	Expiry      time.Time
	Err         string
}

// Resolver looks up the session carried by a request.
//
// (nil, nil) is the absence signal: no session at all. A non-nil error means
// the resolution itself failed (malformed cookie, bad signature); callers
// treat both as unauthenticated.
type Resolver interface {
	Resolve(r *http.Request) (*Session, error)
}

var ErrInvalidToken = errors.New("session token is invalid")

// Claims is the session cookie's JWT payload. The upstream bearer token is
// embedded by the auth provider at sign-in.
type Claims struct {
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	AccessToken string   `json:"access_token"`
	RefreshErr  string   `json:"error,omitempty"`
	jwt.RegisteredClaims
}

// CookieResolver reads an HS256-signed session token from a cookie.
type CookieResolver struct {
	CookieName string
	Secret     []byte
	Issuer     string
}

func (cr *CookieResolver) Resolve(r *http.Request) (*Session, error) {
	c, err := r.Cookie(cr.CookieName)
	if err != nil {
		return nil, nil // no cookie, no session
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if cr.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cr.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		c.Value, claims,
		func(*jwt.Token) (any, error) { return cr.Secret, nil },
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	s := &Session{
		AccessToken: claims.AccessToken,
		User: User{
			ID:    claims.Subject,
			Email: claims.Email,
			Roles: claims.Roles,
		},
		Err: claims.RefreshErr,
	}
	if claims.ExpiresAt != nil {
		s.Expiry = claims.ExpiresAt.Time
	}
	return s, nil
}

// Authenticate resolves the request's session and authorizes it.
//
// It fails with 401 when there is no session, the session carries no bearer
// token, or a refresh failure sentinel is set; with 403 when requiredRole is
// non-empty and absent from the role set. It never touches the upstream, so
// a rejected request causes no partial forwarding.
func Authenticate(c echo.Context, resolver Resolver, requiredRole string) (*Session, error) {
	s, err := resolver.Resolve(c.Request())
	if err != nil {
		return nil, apierr.NewUnauthenticated(err)
	}
	if s == nil || s.AccessToken == "" {
		return nil, apierr.NewUnauthenticated(nil)
	}
	if s.Err != "" {
		return nil, apierr.NewUnauthenticated(fmt.Errorf("session refresh failed: %s", s.Err))
	}

	if requiredRole != "" && !slices.Contains(s.User.Roles, requiredRole) {
		return nil, apierr.NewForbidden(requiredRole)
	}
	return s, nil
}
