// Package ingest re-indexes knowledge bases when their source content
// changes.
//
// It consumes object-created records (from the bucket's notifications,
// or from the local content watcher) and starts one ingestion job per
// affected record. Records it cannot map are skipped, never fatal.
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/platform"
)

// Record is one created or updated object, keyed "<folder>/<name>".
type Record struct {
	Bucket string
	Key    string
}

type Trigger struct {
	agents platform.AgentPlatform

	// knowledgeBases maps area keys to knowledge base ids, as published
	// by provisioning.
	knowledgeBases map[string]string

	logger *log.Logger
}

func New(agents platform.AgentPlatform, knowledgeBases map[string]string, logger *log.Logger) *Trigger {
	return &Trigger{agents: agents, knowledgeBases: knowledgeBases, logger: logger}
}

// Process starts ingestion for every mappable record and returns how
// many jobs were started. Unmappable or failing records are logged and
// skipped; one bad record never blocks the rest of the batch.
func (t *Trigger) Process(ctx context.Context, records []Record) int {
	started := 0
	for _, record := range records {
		if err := t.processOne(ctx, record); err != nil {
			t.logger.Printf("record %s skipped: %v", record.Key, err)
			continue
		}
		started += 1
	}
	return started
}

func (t *Trigger) processOne(ctx context.Context, record Record) error {
	folder, _, found := strings.Cut(record.Key, "/")
	if !found || folder == "" {
		return fmt.Errorf("key has no folder")
	}

	area := domain.AreaOfFolder(folder)
	kbId, ok := t.knowledgeBases[area]
	if !ok {
		return fmt.Errorf("folder %s maps to no knowledge base", folder)
	}

	dataSources, err := t.agents.ListDataSources(ctx, kbId)
	if err != nil {
		return fmt.Errorf("list data sources of %s: %w", kbId, err)
	}
	if len(dataSources) == 0 {
		return fmt.Errorf("knowledge base %s has no data source", kbId)
	}

	job, err := t.agents.StartIngestionJob(ctx, kbId, dataSources[0].Id)
	if err != nil {
		return fmt.Errorf("start ingestion on %s: %w", kbId, err)
	}
	t.logger.Printf("ingestion %s started for %s (key %s)", job.Id, area, record.Key)
	return nil
}
