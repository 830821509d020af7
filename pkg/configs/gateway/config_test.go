package gateway_test

import (
	"errors"
	"testing"

	kcg "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/configs/gateway"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/cmp"
)

func TestLoadGatewayConfig(t *testing.T) {

	t.Run("it can be created from a config file", func(t *testing.T) {
		result, err := kcg.LoadGatewayConfig("./testdata/config.yaml")
		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}

		if result.ServerPort != "8080" {
			t.Errorf("unmatch serverport:%s, expected:8080", result.ServerPort)
		}
		if result.UpstreamApiRoot != "https://api.aim.example/v1" {
			t.Errorf("unmatch upstream:%s", result.UpstreamApiRoot)
		}
		if result.Session.CookieName != "aim-session" {
			t.Errorf("unmatch cookie name:%s", result.Session.CookieName)
		}
		if !cmp.SliceEq(result.PreserveKeys["clusters"], []string{"kube_config", "node_labels"}) {
			t.Errorf("unmatch preserve keys: %v", result.PreserveKeys)
		}
	})

	t.Run("the environment overrides the upstream root", func(t *testing.T) {
		t.Setenv(kcg.UpstreamEnv, "https://internal.aim.example/v2")

		result, err := kcg.LoadGatewayConfig("./testdata/config.yaml")
		if err != nil {
			t.Fatal(err)
		}
		if result.UpstreamApiRoot != "https://internal.aim.example/v2" {
			t.Errorf("unmatch upstream:%s", result.UpstreamApiRoot)
		}
	})

	type When struct {
		content string
	}

	theory := func(when When) func(*testing.T) {
		return func(t *testing.T) {
			_, err := kcg.Unmarshal([]byte(when.content))
			if !errors.Is(err, kcg.ErrInvalidConfig) {
				t.Errorf("want ErrInvalidConfig, got %v", err)
			}
		}
	}

	t.Run("it rejects a relative upstream root", theory(When{content: `
serverPort: "8080"
upstreamApiRoot: /v1
session:
  cookieName: aim-session
  secret: s
`}))
	t.Run("it rejects a missing server port", theory(When{content: `
upstreamApiRoot: https://api.aim.example/v1
session:
  cookieName: aim-session
  secret: s
`}))
	t.Run("it rejects a missing session secret", theory(When{content: `
serverPort: "8080"
upstreamApiRoot: https://api.aim.example/v1
session:
  cookieName: aim-session
`}))
}
