package session_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	httptestutil "github.com/amd-enterprise-ai/amd-eai-suite-sub006/internal/testutils/http"
	apierr "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/api/types/errors"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/session"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/cmp"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/try"
)

var testSecret = []byte("test-secret-for-session-tokens")

func issue(t *testing.T, claims session.Claims, secret []byte) *http.Cookie {
	t.Helper()
	token := try.To(
		jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret),
	).OrFatal(t)
	return &http.Cookie{Name: "aim-session", Value: token}
}

func resolver() *session.CookieResolver {
	return &session.CookieResolver{CookieName: "aim-session", Secret: testSecret}
}

func TestCookieResolver(t *testing.T) {

	t.Run("no cookie resolves to the absence signal", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/clusters", nil)
		s, err := resolver().Resolve(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s != nil {
			t.Errorf("expected no session, got %+v", s)
		}
	})

	t.Run("a valid token resolves to the full credential bundle", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		cookie := issue(t, session.Claims{
			Email:       "ada@example.com",
			Roles:       []string{"member", "admin"},
			AccessToken: "upstream-bearer",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(expiry),
			},
		}, testSecret)

		req, _ := http.NewRequest(http.MethodGet, "/api/clusters", nil)
		req.AddCookie(cookie)

		s, err := resolver().Resolve(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.AccessToken != "upstream-bearer" {
			t.Errorf("token: got %q", s.AccessToken)
		}
		if s.User.ID != "user-1" || s.User.Email != "ada@example.com" {
			t.Errorf("user: got %+v", s.User)
		}
		if !cmp.SliceEq(s.User.Roles, []string{"member", "admin"}) {
			t.Errorf("roles: got %v", s.User.Roles)
		}
		if !s.Expiry.Equal(expiry) {
			t.Errorf("expiry: got %s, want %s", s.Expiry, expiry)
		}
	})

	t.Run("an expired token is invalid", func(t *testing.T) {
		cookie := issue(t, session.Claims{
			AccessToken: "upstream-bearer",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}, testSecret)

		req, _ := http.NewRequest(http.MethodGet, "/api/clusters", nil)
		req.AddCookie(cookie)

		if _, err := resolver().Resolve(req); !errors.Is(err, session.ErrInvalidToken) {
			t.Errorf("want ErrInvalidToken, got %v", err)
		}
	})

	t.Run("a token signed with another secret is invalid", func(t *testing.T) {
		cookie := issue(t, session.Claims{
			AccessToken: "upstream-bearer",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, []byte("somebody-else"))

		req, _ := http.NewRequest(http.MethodGet, "/api/clusters", nil)
		req.AddCookie(cookie)

		if _, err := resolver().Resolve(req); !errors.Is(err, session.ErrInvalidToken) {
			t.Errorf("want ErrInvalidToken, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	e := echo.New()

	valid := func(t *testing.T, roles ...string) *http.Cookie {
		return issue(t, session.Claims{
			Roles:       roles,
			AccessToken: "upstream-bearer",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)
	}

	kindOf := func(t *testing.T, err error) apierr.Kind {
		t.Helper()
		ge := new(apierr.GatewayError)
		if !errors.As(err, &ge) {
			t.Fatalf("not a GatewayError: %v", err)
		}
		return ge.Kind
	}

	t.Run("without a session it rejects with 401 and the sign-in advice", func(t *testing.T) {
		c, _ := httptestutil.Get(e, "/api/clusters")

		_, err := session.Authenticate(c, resolver(), "")

		ge := new(apierr.GatewayError)
		if !errors.As(err, &ge) {
			t.Fatalf("not a GatewayError: %v", err)
		}
		if ge.Kind != apierr.Unauthenticated || ge.Status != http.StatusUnauthorized {
			t.Errorf("got kind %v status %d", ge.Kind, ge.Status)
		}
		if ge.UserMessage != apierr.SignInAdvice {
			t.Errorf("user message: got %q", ge.UserMessage)
		}
	})

	t.Run("a session without a bearer token is unauthenticated", func(t *testing.T) {
		cookie := issue(t, session.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)
		c, _ := httptestutil.Get(e, "/api/clusters", httptestutil.WithCookie(cookie))

		_, err := session.Authenticate(c, resolver(), "")
		if kindOf(t, err) != apierr.Unauthenticated {
			t.Errorf("want Unauthenticated, got %v", err)
		}
	})

	t.Run("a refresh failure sentinel is unauthenticated", func(t *testing.T) {
		cookie := issue(t, session.Claims{
			AccessToken: "stale",
			RefreshErr:  "RefreshAccessTokenError",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}, testSecret)
		c, _ := httptestutil.Get(e, "/api/clusters", httptestutil.WithCookie(cookie))

		_, err := session.Authenticate(c, resolver(), "")
		if kindOf(t, err) != apierr.Unauthenticated {
			t.Errorf("want Unauthenticated, got %v", err)
		}
	})

	t.Run("a missing required role is forbidden", func(t *testing.T) {
		c, _ := httptestutil.Get(e, "/api/secrets", httptestutil.WithCookie(valid(t, "member")))

		_, err := session.Authenticate(c, resolver(), "admin")
		if kindOf(t, err) != apierr.Forbidden {
			t.Errorf("want Forbidden, got %v", err)
		}
	})

	t.Run("a present required role passes", func(t *testing.T) {
		c, _ := httptestutil.Get(e, "/api/secrets", httptestutil.WithCookie(valid(t, "member", "admin")))

		s, err := session.Authenticate(c, resolver(), "admin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.AccessToken != "upstream-bearer" {
			t.Errorf("token: got %q", s.AccessToken)
		}
	})
}
