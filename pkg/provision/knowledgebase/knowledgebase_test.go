package knowledgebase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	cfgs "github.com/opsberry/deskfab/pkg/configs/provision"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/loop/poll"
	"github.com/opsberry/deskfab/pkg/platform"
	"github.com/opsberry/deskfab/pkg/platform/mocks"
	"github.com/opsberry/deskfab/pkg/provision/knowledgebase"
)

func testConfig() *cfgs.ProvisionConfig {
	return &cfgs.ProvisionConfig{
		AccountId:       "123456789012",
		Region:          "us-east-1",
		RoleArn:         "arn:aws:iam::123456789012:role/eva-execution-role",
		Bucket:          "eva-documents",
		Suffix:          "t0001",
		EmbeddingModel:  domain.DefaultEmbeddingModel,
		FoundationModel: domain.DefaultFoundationModel,
		Polling: cfgs.PollingConfig{
			Index:               poll.Spec{Interval: time.Millisecond, MaxAttempts: 3},
			KnowledgeBaseCreate: poll.Spec{Interval: time.Millisecond, MaxAttempts: 5},
			KnowledgeBaseActive: poll.Spec{Interval: time.Millisecond, MaxAttempts: 10},
			Ingestion:           poll.Spec{Interval: time.Millisecond, MaxAttempts: 5},
		},
	}
}

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testCollection() domain.Collection {
	return domain.Collection{
		Name: "eva-collection-t0001",
		Id:   "col-0001",
		Arn:  "arn:aws:aoss:us-east-1:123456789012:collection/col-0001",
		Host: "col-0001.us-east-1.aoss.amazonaws.com",
	}
}

// healthyDeps answers every call the way a working backend would.
func healthyDeps() (knowledgebase.Deps, *mocks.IndexService, *mocks.AgentPlatform) {
	indexes := mocks.NewIndexService()
	indexes.Impl.CreateIndex = func(ctx context.Context, host string, name string, schema platform.IndexSchema) error {
		return nil
	}

	agents := mocks.NewAgentPlatform()
	serial := 0
	agents.Impl.CreateKnowledgeBase = func(ctx context.Context, params platform.CreateKnowledgeBaseParams) (domain.KnowledgeBase, error) {
		serial += 1
		return domain.KnowledgeBase{
			Id: fmt.Sprintf("kb-%04d", serial), Name: params.Name,
			IndexName: params.IndexName, Status: domain.KnowledgeBaseCreating,
		}, nil
	}
	agents.Impl.GetKnowledgeBase = func(ctx context.Context, id string) (domain.KnowledgeBase, error) {
		return domain.KnowledgeBase{Id: id, Status: domain.KnowledgeBaseActive}, nil
	}
	agents.Impl.CreateDataSource = func(ctx context.Context, params platform.CreateDataSourceParams) (domain.DataSource, error) {
		return domain.DataSource{
			Id: "ds-" + params.Name, Name: params.Name,
			KnowledgeBaseId: params.KnowledgeBaseId, Prefix: params.Prefix,
		}, nil
	}
	agents.Impl.StartIngestionJob = func(ctx context.Context, kbId string, dsId string) (domain.IngestionJob, error) {
		return domain.IngestionJob{
			Id: "job-0001", KnowledgeBaseId: kbId, DataSourceId: dsId,
			Status: domain.IngestionStarting,
		}, nil
	}
	agents.Impl.GetIngestionJob = func(ctx context.Context, kbId string, dsId string, jobId string) (domain.IngestionJob, error) {
		return domain.IngestionJob{
			Id: jobId, KnowledgeBaseId: kbId, DataSourceId: dsId,
			Status: domain.IngestionComplete,
		}, nil
	}

	return knowledgebase.Deps{Indexes: indexes, Agents: agents}, indexes, agents
}

func TestEnsureAll(t *testing.T) {
	ctx := context.Background()

	t.Run("it provisions every area", func(t *testing.T) {
		deps, _, agents := healthyDeps()

		outcomes, active := knowledgebase.EnsureAll(ctx, quiet(), deps, testConfig(), testCollection())

		if len(outcomes) != 5 {
			t.Fatalf("unmatch outcome count: %d, expected 5", len(outcomes))
		}
		for _, o := range outcomes {
			if !o.Succeeded() {
				t.Errorf("area %s failed: %v", o.Area, o.Err)
			}
			if o.IngestionStatus != domain.IngestionComplete {
				t.Errorf("area %s ingestion is %s", o.Area, o.IngestionStatus)
			}
		}
		for _, area := range []string{"hr", "payroll", "benefits", "helpdesk", "training"} {
			if _, ok := active[area]; !ok {
				t.Errorf("area %s missing from the active map", area)
			}
		}
		if agents.Calls.StartIngestionJob.Times() != 5 {
			t.Errorf("ingestion started %d times, expected 5", agents.Calls.StartIngestionJob.Times())
		}
	})

	t.Run("a broken area does not take its siblings down", func(t *testing.T) {
		deps, _, agents := healthyDeps()
		createKB := agents.Impl.CreateKnowledgeBase
		agents.Impl.CreateKnowledgeBase = func(ctx context.Context, params platform.CreateKnowledgeBaseParams) (domain.KnowledgeBase, error) {
			if strings.Contains(params.Name, "payroll") {
				return domain.KnowledgeBase{}, errors.New("fake error")
			}
			return createKB(ctx, params)
		}

		outcomes, active := knowledgebase.EnsureAll(ctx, quiet(), deps, testConfig(), testCollection())

		if len(outcomes) != 5 {
			t.Fatalf("unmatch outcome count: %d, expected 5", len(outcomes))
		}
		if _, ok := active["payroll"]; ok {
			t.Error("failed area leaked into the active map")
		}
		for _, area := range []string{"hr", "benefits", "helpdesk", "training"} {
			if _, ok := active[area]; !ok {
				t.Errorf("area %s should have survived", area)
			}
		}
	})

	t.Run("the helpdesk area is keyed helpdesk though its folder is it_help_desk", func(t *testing.T) {
		deps, _, agents := healthyDeps()

		_, active := knowledgebase.EnsureAll(ctx, quiet(), deps, testConfig(), testCollection())

		if _, ok := active["helpdesk"]; !ok {
			t.Fatal("helpdesk missing from the active map")
		}
		found := false
		for _, call := range agents.Calls.CreateDataSource {
			if call.Prefix == "it_help_desk/" {
				found = true
				if call.Name != "ds_t0001_it_help_desk" {
					t.Errorf("unmatch data source name: %s", call.Name)
				}
			}
		}
		if !found {
			t.Error("no data source with the it_help_desk/ prefix")
		}
	})

	t.Run("an index conflict is success", func(t *testing.T) {
		deps, indexes, _ := healthyDeps()
		indexes.Impl.CreateIndex = func(ctx context.Context, host string, name string, schema platform.IndexSchema) error {
			return errors.New("resource_already_exists_exception: " + name)
		}

		outcomes, active := knowledgebase.EnsureAll(ctx, quiet(), deps, testConfig(), testCollection())

		if len(active) != 5 {
			t.Errorf("unmatch active count: %d, expected 5", len(active))
		}
		for _, o := range outcomes {
			if !o.Succeeded() {
				t.Errorf("area %s failed: %v", o.Area, o.Err)
			}
		}
	})

	t.Run("a fresh index is given time to settle before the knowledge base", func(t *testing.T) {
		deps, indexes, agents := healthyDeps()
		conf := testConfig()
		conf.Settle = cfgs.SettleConfig{Index: 50 * time.Millisecond}

		var indexedAt, kbAt time.Time
		createIndex := indexes.Impl.CreateIndex
		indexes.Impl.CreateIndex = func(ctx context.Context, host string, name string, schema platform.IndexSchema) error {
			if indexedAt.IsZero() {
				indexedAt = time.Now()
			}
			return createIndex(ctx, host, name, schema)
		}
		createKB := agents.Impl.CreateKnowledgeBase
		agents.Impl.CreateKnowledgeBase = func(ctx context.Context, params platform.CreateKnowledgeBaseParams) (domain.KnowledgeBase, error) {
			if kbAt.IsZero() {
				kbAt = time.Now()
			}
			return createKB(ctx, params)
		}

		knowledgebase.EnsureAll(ctx, quiet(), deps, conf, testCollection())

		if gap := kbAt.Sub(indexedAt); gap < conf.Settle.Index {
			t.Errorf("knowledge base created %s after the index, expected at least %s", gap, conf.Settle.Index)
		}
	})

	t.Run("an already existing index is not waited on", func(t *testing.T) {
		deps, indexes, _ := healthyDeps()
		conf := testConfig()
		conf.Settle = cfgs.SettleConfig{Index: 1 * time.Second}
		indexes.Impl.CreateIndex = func(ctx context.Context, host string, name string, schema platform.IndexSchema) error {
			return errors.New("resource_already_exists_exception: " + name)
		}

		started := time.Now()
		outcomes, _ := knowledgebase.EnsureAll(ctx, quiet(), deps, conf, testCollection())

		if elapsed := time.Since(started); conf.Settle.Index <= elapsed {
			t.Errorf("the run took %s, a settle wait leaked in", elapsed)
		}
		for _, o := range outcomes {
			if !o.Succeeded() {
				t.Errorf("area %s failed: %v", o.Area, o.Err)
			}
		}
	})

	t.Run("a never-finishing ingestion is best-effort", func(t *testing.T) {
		deps, _, agents := healthyDeps()
		agents.Impl.GetIngestionJob = func(ctx context.Context, kbId string, dsId string, jobId string) (domain.IngestionJob, error) {
			return domain.IngestionJob{Id: jobId, Status: domain.IngestionInProgress}, nil
		}

		outcomes, active := knowledgebase.EnsureAll(ctx, quiet(), deps, testConfig(), testCollection())

		if len(active) != 5 {
			t.Errorf("unmatch active count: %d, expected 5", len(active))
		}
		for _, o := range outcomes {
			if !o.Succeeded() {
				t.Errorf("area %s failed: %v", o.Area, o.Err)
			}
			if o.IngestionStatus != domain.IngestionInProgress {
				t.Errorf("area %s last status is %s, expected IN_PROGRESS", o.Area, o.IngestionStatus)
			}
		}
	})
}
