package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/forms"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/session"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/pointer"
)

// Root builds URLs (or paths) under a fixed root, one per tier:
// the gateway's own /api surface and the upstream API.
type Root func(parts ...string) string

// Register wires every dashboard resource onto e.
//
// preserveOverrides replaces a resource's default preserved-key list when
// the resource name appears as a key; deployments use this when an upstream
// adds another verbatim-passthrough field.
func Register(
	e *echo.Echo,
	api Root,
	upstream Root,
	resolver session.Resolver,
	preserveOverrides map[string][]string,
) {
	registry := forms.NewRegistry()

	pk := func(resource string, defaults ...string) Option {
		if keys, ok := preserveOverrides[resource]; ok {
			return WithPreserveKeys(keys...)
		}
		return WithPreserveKeys(defaults...)
	}

	{
		// kube_config is opaque yaml text with its own key conventions
		keys := pk("clusters", "kube_config")
		param := func(c echo.Context) string { return upstream("clusters", c.Param("clusterId")) }
		e.GET(api("clusters"), Proxy(resolver, Static(upstream("clusters")), keys))
		e.POST(api("clusters"), Proxy(resolver, Static(upstream("clusters")), keys,
			WithForm(registry,
				forms.Field{Name: "name", Kind: forms.Text, Required: true},
			),
		))
		e.GET(api("clusters/:clusterId"), Proxy(resolver, param, keys))
		e.DELETE(api("clusters/:clusterId"), Proxy(resolver, param, keys))
	}

	{
		param := func(c echo.Context) string { return upstream("projects", c.Param("projectId")) }
		e.GET(api("projects"), Proxy(resolver, Static(upstream("projects"))))
		e.POST(api("projects"), Proxy(resolver, Static(upstream("projects")),
			WithForm(registry,
				forms.Field{Name: "name", Kind: forms.Text, Required: true},
				forms.Field{Name: "description", Kind: forms.Text},
			),
		))
		e.GET(api("projects/:projectId"), Proxy(resolver, param))
		e.PUT(api("projects/:projectId"), Proxy(resolver, param))
		e.DELETE(api("projects/:projectId"), Proxy(resolver, param))

		// quotas hang off their project
		quota := func(c echo.Context) string {
			return upstream("projects", c.Param("projectId"), "quota")
		}
		e.GET(api("projects/:projectId/quota"), Proxy(resolver, quota))
		e.PUT(api("projects/:projectId/quota"), Proxy(resolver, quota,
			WithForm(registry,
				forms.Field{Name: "gpuLimit", Kind: forms.Number, Min: pointer.Ref(0.0)},
				forms.Field{Name: "memoryLimitGb", Kind: forms.Number, Min: pointer.Ref(0.0)},
			),
		))
	}

	{
		// user-defined metadata keys pass through verbatim
		keys := pk("datasets", "metadata")
		param := func(c echo.Context) string { return upstream("datasets", c.Param("datasetId")) }
		e.GET(api("datasets"), Proxy(resolver, Static(upstream("datasets")), keys))
		e.POST(api("datasets"), Proxy(resolver, Static(upstream("datasets")), keys))
		e.GET(api("datasets/:datasetId"), Proxy(resolver, param, keys))
		e.DELETE(api("datasets/:datasetId"), Proxy(resolver, param, keys))
	}

	{
		keys := pk("models", "metadata")
		param := func(c echo.Context) string { return upstream("models", c.Param("modelId")) }
		e.GET(api("models"), Proxy(resolver, Static(upstream("models")), keys))
		e.POST(api("models"), Proxy(resolver, Static(upstream("models")), keys))
		e.GET(api("models/:modelId"), Proxy(resolver, param, keys))
		e.PUT(api("models/:modelId"), Proxy(resolver, param, keys))
		e.DELETE(api("models/:modelId"), Proxy(resolver, param, keys))
	}

	{
		// mutations on secrets are admin-only; reads list names, not values
		param := func(c echo.Context) string { return upstream("secrets", c.Param("secretName")) }
		e.GET(api("secrets"), Proxy(resolver, Static(upstream("secrets"))))
		e.POST(api("secrets"), Proxy(resolver, Static(upstream("secrets")),
			WithRequiredRole("admin"),
			WithForm(registry,
				forms.Field{Name: "name", Kind: forms.Text, Required: true},
				forms.Field{Name: "value", Kind: forms.Secret, Required: true},
			),
		))
		e.PUT(api("secrets/:secretName"), Proxy(resolver, param, WithRequiredRole("admin")))
		e.DELETE(api("secrets/:secretName"), Proxy(resolver, param, WithRequiredRole("admin")))
	}

	{
		param := func(c echo.Context) string { return upstream("storages", c.Param("storageId")) }
		e.GET(api("storages"), Proxy(resolver, Static(upstream("storages"))))
		e.POST(api("storages"), Proxy(resolver, Static(upstream("storages")),
			WithForm(registry,
				forms.Field{Name: "name", Kind: forms.Text, Required: true},
				forms.Field{Name: "storageClass", Kind: forms.Select, Options: []string{"standard", "fast", "archive"}},
				forms.Field{Name: "sizeGb", Kind: forms.Number, Required: true, Min: pointer.Ref(1.0)},
			),
		))
		e.GET(api("storages/:storageId"), Proxy(resolver, param))
		e.DELETE(api("storages/:storageId"), Proxy(resolver, param))
	}

	{
		param := func(c echo.Context) string { return upstream("workloads", c.Param("workloadId")) }
		e.GET(api("workloads"), Proxy(resolver, Static(upstream("workloads"))))
		e.POST(api("workloads"), Proxy(resolver, Static(upstream("workloads"))))
		e.GET(api("workloads/:workloadId"), Proxy(resolver, param))
		e.DELETE(api("workloads/:workloadId"), Proxy(resolver, param))
		e.PUT(api("workloads/:workloadId/restart"), Proxy(resolver, func(c echo.Context) string {
			return upstream("workloads", c.Param("workloadId"), "restart")
		}))
		// logs follow the workload while it runs
		e.GET(api("workloads/:workloadId/logs"), Stream(resolver, func(c echo.Context) string {
			return upstream("workloads", c.Param("workloadId"), "logs")
		}))
	}

	{
		e.POST(api("chat/completions"), Stream(resolver, Static(upstream("chat", "completions"))))
	}
}
