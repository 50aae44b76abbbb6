package ingest_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/ingest"
	"github.com/opsberry/deskfab/pkg/platform/mocks"
)

func quiet() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testKnowledgeBases() map[string]string {
	return map[string]string{
		"hr": "kb-hr", "payroll": "kb-payroll", "benefits": "kb-benefits",
		"helpdesk": "kb-helpdesk", "training": "kb-training",
	}
}

func healthyAgents() *mocks.AgentPlatform {
	agents := mocks.NewAgentPlatform()
	agents.Impl.ListDataSources = func(ctx context.Context, kbId string) ([]domain.DataSource, error) {
		return []domain.DataSource{{Id: "ds-" + kbId, KnowledgeBaseId: kbId}}, nil
	}
	agents.Impl.StartIngestionJob = func(ctx context.Context, kbId string, dsId string) (domain.IngestionJob, error) {
		return domain.IngestionJob{
			Id: "job-" + kbId, KnowledgeBaseId: kbId, DataSourceId: dsId,
			Status: domain.IngestionStarting,
		}, nil
	}
	return agents
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("a document under hr/ starts exactly one job", func(t *testing.T) {
		agents := healthyAgents()
		trigger := ingest.New(agents, testKnowledgeBases(), quiet())

		started := trigger.Process(ctx, []ingest.Record{
			{Bucket: "eva-documents", Key: "hr/policy.pdf"},
		})

		if started != 1 {
			t.Errorf("unmatch started count: %d, expected 1", started)
		}
		if agents.Calls.StartIngestionJob.Times() != 1 {
			t.Fatalf("ingestion started %d times, expected 1", agents.Calls.StartIngestionJob.Times())
		}
		call := agents.Calls.StartIngestionJob[0]
		if call.KnowledgeBaseId != "kb-hr" || call.DataSourceId != "ds-kb-hr" {
			t.Errorf("unmatch job target: %+v", call)
		}
	})

	t.Run("an unmapped folder starts nothing", func(t *testing.T) {
		agents := healthyAgents()
		trigger := ingest.New(agents, testKnowledgeBases(), quiet())

		started := trigger.Process(ctx, []ingest.Record{
			{Bucket: "eva-documents", Key: "finance/budget.pdf"},
			{Bucket: "eva-documents", Key: "rootfile.pdf"},
		})

		if started != 0 {
			t.Errorf("unmatch started count: %d, expected 0", started)
		}
		if agents.Calls.StartIngestionJob.Times() != 0 {
			t.Errorf("ingestion started %d times, expected 0", agents.Calls.StartIngestionJob.Times())
		}
	})

	t.Run("the it_help_desk folder reaches the helpdesk knowledge base", func(t *testing.T) {
		agents := healthyAgents()
		trigger := ingest.New(agents, testKnowledgeBases(), quiet())

		started := trigger.Process(ctx, []ingest.Record{
			{Bucket: "eva-documents", Key: "it_help_desk/vpn-setup.docx"},
			{Bucket: "eva-documents", Key: "it_helpdesk/password-reset.pdf"},
		})

		if started != 2 {
			t.Errorf("unmatch started count: %d, expected 2", started)
		}
		for _, call := range agents.Calls.StartIngestionJob {
			if call.KnowledgeBaseId != "kb-helpdesk" {
				t.Errorf("unmatch knowledge base: %s", call.KnowledgeBaseId)
			}
		}
	})

	t.Run("a failing record does not block the rest of the batch", func(t *testing.T) {
		agents := healthyAgents()
		agents.Impl.StartIngestionJob = func(ctx context.Context, kbId string, dsId string) (domain.IngestionJob, error) {
			if kbId == "kb-payroll" {
				return domain.IngestionJob{}, errors.New("fake error")
			}
			return domain.IngestionJob{Id: "job-" + kbId, Status: domain.IngestionStarting}, nil
		}
		trigger := ingest.New(agents, testKnowledgeBases(), quiet())

		started := trigger.Process(ctx, []ingest.Record{
			{Bucket: "eva-documents", Key: "payroll/taxes.pdf"},
			{Bucket: "eva-documents", Key: "training/onboarding.pdf"},
		})

		if started != 1 {
			t.Errorf("unmatch started count: %d, expected 1", started)
		}
	})

	t.Run("a knowledge base without data sources is skipped", func(t *testing.T) {
		agents := healthyAgents()
		agents.Impl.ListDataSources = func(ctx context.Context, kbId string) ([]domain.DataSource, error) {
			return []domain.DataSource{}, nil
		}
		trigger := ingest.New(agents, testKnowledgeBases(), quiet())

		started := trigger.Process(ctx, []ingest.Record{
			{Bucket: "eva-documents", Key: "hr/policy.pdf"},
		})

		if started != 0 {
			t.Errorf("unmatch started count: %d, expected 0", started)
		}
	})
}
