// Package knowledgebase provisions one knowledge base per subject area:
// vector index, knowledge base, data source, then a first ingestion run.
//
// Areas are independent. A failure in one is recorded in its Outcome
// and the remaining areas still get their turn.
package knowledgebase

import (
	"context"
	"errors"
	"fmt"
	"log"

	cfgs "github.com/opsberry/deskfab/pkg/configs/provision"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/loop/poll"
	"github.com/opsberry/deskfab/pkg/platform"
	"github.com/opsberry/deskfab/pkg/utils/retry"
)

// Index layout shared by every area.
var indexSchema = platform.IndexSchema{
	VectorField:   "vector",
	Dimension:     1024,
	Method:        "hnsw",
	Engine:        "faiss",
	SpaceType:     "l2",
	TextField:     "text",
	MetadataField: "text-metadata",
}

var chunking = platform.ChunkingPolicy{MaxTokens: 1024, OverlapPercentage: 20}

type Deps struct {
	Indexes platform.IndexService
	Agents  platform.AgentPlatform
}

// Outcome is what one area's pipeline ended with.
type Outcome struct {
	Area            string
	KnowledgeBase   domain.KnowledgeBase
	DataSource      domain.DataSource
	IngestionStatus domain.IngestionStatus
	Err             error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// EnsureAll runs the pipeline for every subject area and reports per-area
// Outcomes. The returned map holds only the areas whose knowledge base
// came up, keyed by area.
func EnsureAll(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig, col domain.Collection) ([]Outcome, map[string]domain.KnowledgeBase) {
	outcomes := []Outcome{}
	active := map[string]domain.KnowledgeBase{}

	for _, spec := range domain.KnowledgeBaseSpecs(conf.Suffix) {
		outcome := ensureOne(ctx, logger, deps, conf, col, spec)
		outcomes = append(outcomes, outcome)
		if outcome.Succeeded() {
			active[spec.Area] = outcome.KnowledgeBase
		} else {
			logger.Printf("knowledge base for %s failed: %v. continue with the rest", spec.Area, outcome.Err)
		}
	}
	return outcomes, active
}

func ensureOne(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig, col domain.Collection, spec domain.KnowledgeBaseSpec) Outcome {
	outcome := Outcome{Area: spec.Area}

	// An index which cannot be created now may still exist from an
	// earlier run, so exhaustion here does not end the area; the
	// knowledge base creation is the real arbiter.
	if err := ensureIndex(ctx, logger, deps.Indexes, conf, col, spec); err != nil {
		logger.Printf("index %s could not be confirmed: %v. trying the knowledge base anyway", spec.Index, err)
	}

	kb, err := createKnowledgeBase(ctx, logger, deps.Agents, conf, col, spec)
	if err != nil {
		outcome.Err = fmt.Errorf("create knowledge base %s: %w", spec.Name, err)
		return outcome
	}
	outcome.KnowledgeBase = kb

	ds, err := deps.Agents.CreateDataSource(ctx, platform.CreateDataSourceParams{
		KnowledgeBaseId: kb.Id,
		Name:            domain.DataSourceName(conf.Suffix, spec.Folder),
		Description:     "Documents of the " + spec.Area + " area",
		Bucket:          conf.Bucket,
		Prefix:          spec.Folder + "/",
		Chunking:        chunking,
	})
	if err != nil {
		outcome.Err = fmt.Errorf("create data source for %s: %w", spec.Name, err)
		return outcome
	}
	outcome.DataSource = ds

	kb, err = waitActive(ctx, logger, deps.Agents, conf, kb)
	if err != nil {
		outcome.Err = fmt.Errorf("knowledge base %s did not become active: %w", spec.Name, err)
		return outcome
	}
	outcome.KnowledgeBase = kb

	// The first ingestion is best-effort. The watcher re-triggers it
	// whenever content changes, so a slow or failed first run does not
	// fail the area.
	status, err := ingest(ctx, logger, deps.Agents, conf, kb, ds)
	if err != nil {
		logger.Printf("first ingestion for %s did not finish: %v", spec.Area, err)
	}
	outcome.IngestionStatus = status

	return outcome
}

func ensureIndex(ctx context.Context, logger *log.Logger, indexes platform.IndexService, conf *cfgs.ProvisionConfig, col domain.Collection, spec domain.KnowledgeBaseSpec) error {
	created, err := retry.Blocking(ctx, retry.StaticBackoff(conf.Polling.Index.Interval), conf.Polling.Index.MaxAttempts, func() (bool, error) {
		err := indexes.CreateIndex(ctx, col.Host, spec.Index, indexSchema)
		if err == nil {
			return true, nil
		}
		if platform.IsConflict(err) {
			logger.Printf("index %s already exists. continue", spec.Index)
			return false, nil
		}
		return false, errors.Join(retry.ErrRetry, err)
	})
	if err != nil {
		return err
	}
	if created {
		// a fresh index is not queryable right away, and nothing
		// observable says when it becomes so
		return poll.Settle(ctx, conf.Settle.Index)
	}
	return nil
}

func createKnowledgeBase(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, conf *cfgs.ProvisionConfig, col domain.Collection, spec domain.KnowledgeBaseSpec) (domain.KnowledgeBase, error) {
	params := platform.CreateKnowledgeBaseParams{
		Name:              spec.Name,
		Description:       spec.Description,
		RoleArn:           conf.RoleArn,
		EmbeddingModelArn: embeddingModelArn(conf),
		CollectionArn:     col.Arn,
		IndexName:         spec.Index,
		FieldMapping: platform.FieldMapping{
			VectorField:   indexSchema.VectorField,
			TextField:     indexSchema.TextField,
			MetadataField: indexSchema.MetadataField,
		},
	}
	return retry.Blocking(ctx, retry.StaticBackoff(conf.Polling.KnowledgeBaseCreate.Interval), conf.Polling.KnowledgeBaseCreate.MaxAttempts, func() (domain.KnowledgeBase, error) {
		kb, err := agents.CreateKnowledgeBase(ctx, params)
		if err == nil {
			return kb, nil
		}
		if platform.IsTransient(err) {
			logger.Printf("create knowledge base %s: %v. retrying", spec.Name, err)
			return kb, errors.Join(retry.ErrRetry, err)
		}
		return kb, err
	})
}

func embeddingModelArn(conf *cfgs.ProvisionConfig) string {
	return fmt.Sprintf(
		"arn:aws:bedrock:%s::foundation-model/%s", conf.Region, conf.EmbeddingModel,
	)
}

func waitActive(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, conf *cfgs.ProvisionConfig, kb domain.KnowledgeBase) (domain.KnowledgeBase, error) {
	return poll.WaitFor(ctx, conf.Polling.KnowledgeBaseActive, func(ctx context.Context) (domain.KnowledgeBase, bool, error) {
		observed, err := agents.GetKnowledgeBase(ctx, kb.Id)
		if err != nil {
			return kb, false, err
		}
		if observed.Status.Broken() {
			return observed, false, fmt.Errorf("knowledge base %s is %s", kb.Id, observed.Status)
		}
		if observed.Status != domain.KnowledgeBaseActive {
			logger.Printf("knowledge base %s is %s. waiting", kb.Id, observed.Status)
			return observed, false, nil
		}
		return observed, true, nil
	})
}

// ingest starts one ingestion job and follows it until it is terminal
// or the polling budget runs out. The last observed status is returned
// either way.
func ingest(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, conf *cfgs.ProvisionConfig, kb domain.KnowledgeBase, ds domain.DataSource) (domain.IngestionStatus, error) {
	job, err := agents.StartIngestionJob(ctx, kb.Id, ds.Id)
	if err != nil {
		return "", err
	}

	job, err = poll.WaitFor(ctx, conf.Polling.Ingestion, func(ctx context.Context) (domain.IngestionJob, bool, error) {
		observed, err := agents.GetIngestionJob(ctx, kb.Id, ds.Id, job.Id)
		if err != nil {
			return job, false, err
		}
		if !observed.Status.Terminal() {
			logger.Printf("ingestion %s is %s. waiting", job.Id, observed.Status)
			return observed, false, nil
		}
		return observed, true, nil
	})
	if errors.Is(err, poll.ErrExhausted) {
		// still running; the job finishes on its own
		return job.Status, nil
	}
	return job.Status, err
}
