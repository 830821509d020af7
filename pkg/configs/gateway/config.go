// Package gateway holds the aimd configuration file format.
package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// UpstreamEnv overrides the configured upstream API root when set.
const UpstreamEnv = "AIM_UPSTREAM_API_ROOT"

type GatewayConfig struct {
	ServerPort      string        `yaml:"serverPort"`
	UpstreamApiRoot string        `yaml:"upstreamApiRoot"`
	Session         SessionConfig `yaml:"session"`

	// PreserveKeys maps a resource name to the response keys whose
	// subtrees must pass through the proxy without case conversion,
	// overriding the built-in defaults for that resource.
	PreserveKeys map[string][]string `yaml:"preserveKeys,omitempty"`

	// SelectionFile, when set, is where the active-project bridge
	// persists the selection.
	SelectionFile string `yaml:"selectionFile,omitempty"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookieName"`
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer,omitempty"`
}

var ErrInvalidConfig = errors.New("invalid gateway config")

func LoadGatewayConfig(filepath string) (*GatewayConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*GatewayConfig, error) {
	var out GatewayConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}

	if env := os.Getenv(UpstreamEnv); env != "" {
		out.UpstreamApiRoot = env
	}

	if out.ServerPort == "" {
		return nil, fmt.Errorf("%w: serverPort is empty", ErrInvalidConfig)
	}
	if out.Session.CookieName == "" {
		return nil, fmt.Errorf("%w: session.cookieName is empty", ErrInvalidConfig)
	}
	if out.Session.Secret == "" {
		return nil, fmt.Errorf("%w: session.secret is empty", ErrInvalidConfig)
	}

	u, err := url.Parse(out.UpstreamApiRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: upstreamApiRoot: %s", ErrInvalidConfig, err)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return nil, fmt.Errorf(
			"%w: upstreamApiRoot must be an absolute URL: %s",
			ErrInvalidConfig, out.UpstreamApiRoot,
		)
	}

	return &out, nil
}
