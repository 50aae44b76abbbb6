package main

import (
	"context"
	"flag"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opsberry/deskfab/cmd/deskfabd/handlers"
	"github.com/opsberry/deskfab/pkg/agentcall"
	"github.com/opsberry/deskfab/pkg/auth"
	"github.com/opsberry/deskfab/pkg/blobstore/local"
	cfgr "github.com/opsberry/deskfab/pkg/configs/runtime"
	"github.com/opsberry/deskfab/pkg/db/postgres"
	"github.com/opsberry/deskfab/pkg/platform"
	dpaws "github.com/opsberry/deskfab/pkg/platform/aws"
	"github.com/opsberry/deskfab/pkg/provision"
	"github.com/opsberry/deskfab/pkg/utils/echoutil"
	"github.com/opsberry/deskfab/pkg/utils/filewatch"
	"github.com/opsberry/deskfab/pkg/websearch"
)

func main() {

	configPath := flag.String("config-path", "", "runtime config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	port := flag.String("port", "8080", "port to listen on")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)
	e.Use(auth.Middleware())

	// read configfile
	conf, err := cfgr.LoadRuntimeConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	outputs, err := provision.LoadOutputs(conf.Outputs)
	if err != nil {
		log.Fatalf("can not read provisioning outputs: %s", err)
	}

	// reprovisioning rewrites the outputs record. quit to restart on
	// the fresh supervisor rather than keep invoking a stale one.
	watchCtx, cancelWatch, err := filewatch.UntilModifyContext(context.Background(), conf.Outputs)
	if err != nil {
		log.Fatalf("can not watch provisioning outputs: %s", err)
	}
	defer cancelWatch()
	context.AfterFunc(watchCtx, func() {
		if context.Cause(watchCtx) == context.Canceled {
			return
		}
		log.Println("provisioning outputs are updated. quit to restart server.")
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown by outputs update: %s", err)
		}
	})

	ctx := context.Background()
	db, err := postgres.New(ctx, conf.Database)
	if err != nil {
		log.Fatalf("can not connect database: %s", err)
	}
	defer db.Close()

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.Region))
	if err != nil {
		log.Fatalf("can not load credentials: %s", err)
	}

	caller := agentcall.New(
		dpaws.NewAgentRuntime(awsConf), db.Conversations(),
		outputs.SupervisorAgentId, outputs.SupervisorAliasId,
		conf.Invoke, log.Default(),
	)

	var store platform.BlobStore
	switch {
	case conf.Bucket != "":
		store = dpaws.NewBlobStore(awsConf, conf.Bucket)
	case conf.ContentRoot != "":
		store = local.New(conf.ContentRoot)
	}

	// handlers
	{
		e.POST("/api/chat/", handlers.ChatHandler(caller))

		e.GET("/api/conversations/", handlers.ListConversationsHandler(db.Conversations()))
		e.GET("/api/conversations/:sessionId/", handlers.GetConversationHandler(db.Conversations(), "sessionId"))

		if store != nil {
			e.POST("/api/uploads/", handlers.UploadHandler(store))
		} else {
			e.Logger.Warn("no bucket nor content root is configured. uploads are not served")
		}

		if conf.Search.Endpoint != "" {
			client := websearch.NewClient(conf.Search.Endpoint, conf.Search.ApiKey, nil)
			e.POST("/api/actions/search/", handlers.SearchActionHandler(client))
		} else {
			e.Logger.Warn("no search endpoint is configured. the search action is not served")
		}
	}

	if *pcert != "" && *pkey != "" {
		e.Logger.Fatal(e.StartTLS(":"+*port, *pcert, *pkey))
	} else {
		e.Logger.Fatal(e.Start(":" + *port))
	}
}
