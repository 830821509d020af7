package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/api/types/errors"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/forms"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/gateway"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/session"
)

// URLOf builds the upstream target for one request, usually from path
// params.
type URLOf func(c echo.Context) string

// Static is the URLOf for routes without path params.
func Static(url string) URLOf {
	return func(echo.Context) string { return url }
}

type Option func(*options)

type options struct {
	role         string
	preserveKeys []string
	formFields   []forms.Field
	registry     *forms.Registry
}

// WithRequiredRole rejects sessions lacking role with 403.
func WithRequiredRole(role string) Option {
	return func(o *options) { o.role = role }
}

// WithPreserveKeys passes the named response subtrees through without key
// conversion.
func WithPreserveKeys(keys ...string) Option {
	return func(o *options) { o.preserveKeys = keys }
}

// WithForm validates mutating JSON payloads against field descriptors
// before anything is forwarded. Unparseable bodies skip validation; the
// proxy's leniency for body-less routes stays intact.
func WithForm(registry *forms.Registry, fields ...forms.Field) Option {
	return func(o *options) {
		o.registry = registry
		o.formFields = fields
	}
}

// Proxy authenticates the session, then forwards the request to the URL
// urlOf builds. Authentication runs strictly first: a rejected request
// never reaches the upstream.
func Proxy(resolver session.Resolver, urlOf URLOf, opts ...Option) echo.HandlerFunc {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c echo.Context) error {
		s, err := session.Authenticate(c, resolver, o.role)
		if err != nil {
			return err
		}

		if o.registry != nil && mutating(c.Request().Method) {
			if err := validateForm(c, &o); err != nil {
				return err
			}
		}

		return gateway.Proxy(c, urlOf(c), s.AccessToken, o.preserveKeys...)
	}
}

// Stream authenticates the session, then relays the request and its
// response verbatim chunk by chunk.
func Stream(resolver session.Resolver, urlOf URLOf, opts ...Option) echo.HandlerFunc {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c echo.Context) error {
		s, err := session.Authenticate(c, resolver, o.role)
		if err != nil {
			return err
		}
		return gateway.StreamProxy(c, urlOf(c), s.AccessToken)
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// validateForm peeks the body, validates it when it is a JSON object, and
// rewinds it so the proxy can forward it afterwards.
func validateForm(c echo.Context, o *options) error {
	req := c.Request()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))

	var payload map[string]any
	if json.Unmarshal(raw, &payload) != nil {
		return nil
	}

	if err := o.registry.Validate(o.formFields, payload); err != nil {
		return &apierr.GatewayError{
			Kind:    apierr.Malformed,
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Cause:   err,
		}
	}
	return nil
}
