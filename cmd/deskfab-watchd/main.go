// deskfab-watchd observes the content root and starts ingestion jobs
// for documents dropped into the domain folders.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cfgr "github.com/opsberry/deskfab/pkg/configs/runtime"
	"github.com/opsberry/deskfab/pkg/ingest"
	dpaws "github.com/opsberry/deskfab/pkg/platform/aws"
	"github.com/opsberry/deskfab/pkg/provision"
	"github.com/opsberry/deskfab/pkg/utils/filewatch"
)

// settle batches a burst of file events into one ingestion trigger.
const settle = 5 * time.Second

func main() {
	configPath := flag.String("config-path", "", "runtime config path")
	flag.Parse()

	logger := log.New(os.Stderr, "deskfab-watchd: ", log.LstdFlags)

	conf, err := cfgr.LoadRuntimeConfig(*configPath)
	if err != nil {
		logger.Fatalf("can not read configration: %s", err)
	}
	if conf.ContentRoot == "" {
		logger.Fatal("contentRoot is required to watch")
	}
	outputs, err := provision.LoadOutputs(conf.Outputs)
	if err != nil {
		logger.Fatalf("can not read provisioning outputs: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.Region))
	if err != nil {
		logger.Fatalf("can not load credentials: %s", err)
	}
	trigger := ingest.New(dpaws.NewAgentPlatform(awsConf), outputs.KnowledgeBases, logger)

	events, err := filewatch.WatchTree(ctx, conf.ContentRoot)
	if err != nil {
		logger.Fatalf("can not watch %s: %s", conf.ContentRoot, err)
	}
	logger.Printf("watching %s", conf.ContentRoot)

	pending := map[string]ingest.Record{}
	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if len(pending) != 0 {
				drain(trigger, pending, logger)
			}
			logger.Print("bye")
			return

		case key, ok := <-events:
			if !ok {
				// the channel also closes on shutdown
				if ctx.Err() != nil {
					continue
				}
				logger.Fatal("the watcher is gone")
			}
			pending[key] = ingest.Record{Bucket: conf.Bucket, Key: key}
			flush = time.After(settle)

		case <-flush:
			drain(trigger, pending, logger)
			pending = map[string]ingest.Record{}
			flush = nil
		}
	}
}

func drain(trigger *ingest.Trigger, pending map[string]ingest.Record, logger *log.Logger) {
	records := make([]ingest.Record, 0, len(pending))
	for _, r := range pending {
		records = append(records, r)
	}

	// ingestion itself should not be cut short by shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()
	started := trigger.Process(ctx, records)
	logger.Printf("%d ingestion job(s) started for %d file(s)", started, len(records))
}
