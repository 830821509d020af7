// Package gateway forwards authenticated dashboard requests to the upstream
// platform API and translates payload key casing on the way through.
package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/api/types/errors"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/casing"
)

// BuildURL appends the inbound query string to the upstream target,
// using "&" when the target already carries a query.
func BuildURL(upstreamURL string, rawQuery string) string {
	if rawQuery == "" {
		return upstreamURL
	}
	if strings.Contains(upstreamURL, "?") {
		return upstreamURL + "&" + rawQuery
	}
	return upstreamURL + "?" + rawQuery
}

// Proxy forwards the request held by c to upstreamURL and writes the
// upstream's answer back to the caller.
//
// Exactly one outbound call is made, carrying the inbound query string, a
// JSON content type and the bearer token. For mutating methods the inbound
// body is decoded as JSON and its keys converted camelCase to snake_case;
// an unparseable body is forwarded as no body at all, which keeps
// body-less DELETE and POST routes working. GET never consumes a body.
//
// A 204 upstream answer stays 204 with no body. Any other 2xx body is
// decoded and its keys converted snake_case to camelCase, except subtrees
// rooted at keys in preserveKeys, which pass through verbatim. A non-2xx
// answer becomes an Upstream error carrying the original status and raw
// response text; nothing is retried.
//
// The outbound call runs under the inbound request's context, so client
// aborts cancel it best-effort.
func Proxy(c echo.Context, upstreamURL string, token string, preserveKeys ...string) error {
	req := c.Request()

	outURL := BuildURL(upstreamURL, req.URL.RawQuery)

	var payload io.Reader
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		var body any
		if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
			if buf, err := json.Marshal(casing.CamelToSnake(body)); err == nil {
				payload = bytes.NewReader(buf)
			}
		}
	}

	out, err := http.NewRequestWithContext(req.Context(), req.Method, outURL, payload)
	if err != nil {
		return fmt.Errorf("building upstream request for %s: %w", outURL, err)
	}
	out.Header.Set("Content-Type", "application/json")
	out.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{}
	resp, err := client.Do(out)
	if err != nil {
		return fmt.Errorf("calling upstream %s: %w", outURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return c.NoContent(http.StatusNoContent)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading upstream response from %s: %w", outURL, err)
	}

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return apierr.NewUpstream(resp.StatusCode, string(raw))
	}

	if len(raw) == 0 {
		return c.NoContent(resp.StatusCode)
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("upstream %s sent non-JSON success body: %w", outURL, err)
	}
	return c.JSON(resp.StatusCode, casing.SnakeToCamel(body, preserveKeys...))
}

// StreamProxy forwards the request verbatim and relays the response body
// chunk by chunk, flushing per read. No case conversion happens; this path
// carries token streams from chat completion endpoints, whose frames are
// latency-sensitive and not snake_case objects.
func StreamProxy(c echo.Context, upstreamURL string, token string) error {
	req := c.Request()

	out, err := http.NewRequestWithContext(
		req.Context(), req.Method, BuildURL(upstreamURL, req.URL.RawQuery), req.Body,
	)
	if err != nil {
		return fmt.Errorf("building upstream request for %s: %w", upstreamURL, err)
	}
	out.Header.Set("Content-Type", "application/json")
	out.Header.Set("Authorization", "Bearer "+token)
	if accept := req.Header.Get("Accept"); accept != "" {
		out.Header.Set("Accept", accept)
	}

	client := &http.Client{}
	resp, err := client.Do(out)
	if err != nil {
		return fmt.Errorf("calling upstream %s: %w", upstreamURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		raw, _ := io.ReadAll(resp.Body)
		return apierr.NewUpstream(resp.StatusCode, string(raw))
	}

	dst := c.Response()
	if ctyp := resp.Header.Get("Content-Type"); ctyp != "" {
		dst.Header().Set("Content-Type", ctyp)
	}
	dst.WriteHeader(resp.StatusCode)

	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if 0 < n {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			dst.Flush()
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
