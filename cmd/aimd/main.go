package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/cmd/aimd/handlers"
	kcg "github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/configs/gateway"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/gateway"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/project"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/session"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/echoutil"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/filewatch"
)

func main() {

	configPath := flag.String("config-path", "", "gateway config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())

	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = gateway.ErrorHandler(e)
	e.Use(echoutil.LogHandlerFunc)

	conf, err := kcg.LoadGatewayConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	// quit to restart when the config file changes
	watchConfig(e, *configPath)

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}
	upstream, err := root(conf.UpstreamApiRoot)
	if err != nil {
		log.Fatalf("upstream api root %s is invalid url: %s", conf.UpstreamApiRoot, err)
	}

	resolver := &session.CookieResolver{
		CookieName: conf.Session.CookieName,
		Secret:     []byte(conf.Session.Secret),
		Issuer:     conf.Session.Issuer,
	}

	handlers.Register(e, api, upstream, resolver, conf.PreserveKeys)

	if conf.SelectionFile != "" {
		store := project.NewStore()
		cancel, err := project.BindFile(context.Background(), store, conf.SelectionFile)
		if err != nil {
			log.Fatalf("can not bind selection file %s: %s", conf.SelectionFile, err)
		}
		defer cancel()
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}

func watchConfig(e *echo.Echo, configPath string) {
	ctx, _, err := filewatch.UntilModifyContext(context.Background(), configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	context.AfterFunc(ctx, func() {
		log.Println("config file is updated. quit to restart server.")
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown by config update: %s", err)
		}
	})
}

// create api URL factory rooted at r, which may be a bare path ("/api") or
// an absolute URL (the upstream root).
func root(r string) (handlers.Root, error) {
	if _, err := url.Parse(r); err != nil {
		return nil, err
	}
	return func(parts ...string) string {
		joined, err := url.JoinPath(r, parts...)
		if err != nil {
			// parts come from the fixed route table; this is unreachable
			// for anything registered at startup
			return r
		}
		return joined
	}, nil
}
