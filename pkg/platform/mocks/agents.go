package mocks

import (
	"context"
	"errors"

	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/platform"
)

type AgentPlatform struct {
	Impl struct {
		CreateKnowledgeBase    func(context.Context, platform.CreateKnowledgeBaseParams) (domain.KnowledgeBase, error)
		GetKnowledgeBase       func(context.Context, string) (domain.KnowledgeBase, error)
		CreateDataSource       func(context.Context, platform.CreateDataSourceParams) (domain.DataSource, error)
		ListDataSources        func(context.Context, string) ([]domain.DataSource, error)
		StartIngestionJob      func(context.Context, string, string) (domain.IngestionJob, error)
		GetIngestionJob        func(context.Context, string, string, string) (domain.IngestionJob, error)
		CreateAgent            func(context.Context, platform.CreateAgentParams) (domain.Agent, error)
		GetAgent               func(context.Context, string) (domain.Agent, error)
		ListAgents             func(context.Context) ([]domain.Agent, error)
		DeleteAgent            func(context.Context, string) error
		PrepareAgent           func(context.Context, string) (domain.AgentStatus, error)
		CreateActionGroup      func(context.Context, platform.CreateActionGroupParams) error
		AssociateKnowledgeBase func(context.Context, string, string, string) error
		CreateAlias            func(context.Context, string, string, string) (domain.Alias, error)
		ListAliases            func(context.Context, string) ([]domain.Alias, error)
		AssociateCollaborator  func(context.Context, string, domain.Collaborator) error
	}
	Calls struct {
		CreateKnowledgeBase CallLog[platform.CreateKnowledgeBaseParams]
		GetKnowledgeBase    CallLog[struct{ KnowledgeBaseId string }]
		CreateDataSource    CallLog[platform.CreateDataSourceParams]
		ListDataSources     CallLog[struct{ KnowledgeBaseId string }]
		StartIngestionJob   CallLog[struct {
			KnowledgeBaseId string
			DataSourceId    string
		}]
		GetIngestionJob CallLog[struct {
			KnowledgeBaseId string
			DataSourceId    string
			JobId           string
		}]
		CreateAgent       CallLog[platform.CreateAgentParams]
		GetAgent          CallLog[struct{ AgentId string }]
		ListAgents        CallLog[struct{}]
		DeleteAgent       CallLog[struct{ AgentId string }]
		PrepareAgent      CallLog[struct{ AgentId string }]
		CreateActionGroup CallLog[platform.CreateActionGroupParams]
		AssociateKnowledgeBase CallLog[struct {
			AgentId         string
			KnowledgeBaseId string
			Description     string
		}]
		CreateAlias CallLog[struct {
			AgentId     string
			AliasName   string
			Description string
		}]
		ListAliases           CallLog[struct{ AgentId string }]
		AssociateCollaborator CallLog[struct {
			AgentId      string
			Collaborator domain.Collaborator
		}]
	}
}

func NewAgentPlatform() *AgentPlatform {
	return &AgentPlatform{}
}

var _ platform.AgentPlatform = &AgentPlatform{}

func (m *AgentPlatform) CreateKnowledgeBase(ctx context.Context, params platform.CreateKnowledgeBaseParams) (domain.KnowledgeBase, error) {
	m.Calls.CreateKnowledgeBase = append(m.Calls.CreateKnowledgeBase, params)
	if m.Impl.CreateKnowledgeBase != nil {
		return m.Impl.CreateKnowledgeBase(ctx, params)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) GetKnowledgeBase(ctx context.Context, knowledgeBaseId string) (domain.KnowledgeBase, error) {
	m.Calls.GetKnowledgeBase = append(m.Calls.GetKnowledgeBase, struct{ KnowledgeBaseId string }{KnowledgeBaseId: knowledgeBaseId})
	if m.Impl.GetKnowledgeBase != nil {
		return m.Impl.GetKnowledgeBase(ctx, knowledgeBaseId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) CreateDataSource(ctx context.Context, params platform.CreateDataSourceParams) (domain.DataSource, error) {
	m.Calls.CreateDataSource = append(m.Calls.CreateDataSource, params)
	if m.Impl.CreateDataSource != nil {
		return m.Impl.CreateDataSource(ctx, params)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) ListDataSources(ctx context.Context, knowledgeBaseId string) ([]domain.DataSource, error) {
	m.Calls.ListDataSources = append(m.Calls.ListDataSources, struct{ KnowledgeBaseId string }{KnowledgeBaseId: knowledgeBaseId})
	if m.Impl.ListDataSources != nil {
		return m.Impl.ListDataSources(ctx, knowledgeBaseId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) StartIngestionJob(ctx context.Context, knowledgeBaseId string, dataSourceId string) (domain.IngestionJob, error) {
	m.Calls.StartIngestionJob = append(m.Calls.StartIngestionJob, struct {
		KnowledgeBaseId string
		DataSourceId    string
	}{KnowledgeBaseId: knowledgeBaseId, DataSourceId: dataSourceId})
	if m.Impl.StartIngestionJob != nil {
		return m.Impl.StartIngestionJob(ctx, knowledgeBaseId, dataSourceId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) GetIngestionJob(ctx context.Context, knowledgeBaseId string, dataSourceId string, jobId string) (domain.IngestionJob, error) {
	m.Calls.GetIngestionJob = append(m.Calls.GetIngestionJob, struct {
		KnowledgeBaseId string
		DataSourceId    string
		JobId           string
	}{KnowledgeBaseId: knowledgeBaseId, DataSourceId: dataSourceId, JobId: jobId})
	if m.Impl.GetIngestionJob != nil {
		return m.Impl.GetIngestionJob(ctx, knowledgeBaseId, dataSourceId, jobId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) CreateAgent(ctx context.Context, params platform.CreateAgentParams) (domain.Agent, error) {
	m.Calls.CreateAgent = append(m.Calls.CreateAgent, params)
	if m.Impl.CreateAgent != nil {
		return m.Impl.CreateAgent(ctx, params)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) GetAgent(ctx context.Context, agentId string) (domain.Agent, error) {
	m.Calls.GetAgent = append(m.Calls.GetAgent, struct{ AgentId string }{AgentId: agentId})
	if m.Impl.GetAgent != nil {
		return m.Impl.GetAgent(ctx, agentId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	m.Calls.ListAgents = append(m.Calls.ListAgents, struct{}{})
	if m.Impl.ListAgents != nil {
		return m.Impl.ListAgents(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) DeleteAgent(ctx context.Context, agentId string) error {
	m.Calls.DeleteAgent = append(m.Calls.DeleteAgent, struct{ AgentId string }{AgentId: agentId})
	if m.Impl.DeleteAgent != nil {
		return m.Impl.DeleteAgent(ctx, agentId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) PrepareAgent(ctx context.Context, agentId string) (domain.AgentStatus, error) {
	m.Calls.PrepareAgent = append(m.Calls.PrepareAgent, struct{ AgentId string }{AgentId: agentId})
	if m.Impl.PrepareAgent != nil {
		return m.Impl.PrepareAgent(ctx, agentId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) CreateActionGroup(ctx context.Context, params platform.CreateActionGroupParams) error {
	m.Calls.CreateActionGroup = append(m.Calls.CreateActionGroup, params)
	if m.Impl.CreateActionGroup != nil {
		return m.Impl.CreateActionGroup(ctx, params)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) AssociateKnowledgeBase(ctx context.Context, agentId string, knowledgeBaseId string, description string) error {
	m.Calls.AssociateKnowledgeBase = append(m.Calls.AssociateKnowledgeBase, struct {
		AgentId         string
		KnowledgeBaseId string
		Description     string
	}{AgentId: agentId, KnowledgeBaseId: knowledgeBaseId, Description: description})
	if m.Impl.AssociateKnowledgeBase != nil {
		return m.Impl.AssociateKnowledgeBase(ctx, agentId, knowledgeBaseId, description)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) CreateAlias(ctx context.Context, agentId string, aliasName string, description string) (domain.Alias, error) {
	m.Calls.CreateAlias = append(m.Calls.CreateAlias, struct {
		AgentId     string
		AliasName   string
		Description string
	}{AgentId: agentId, AliasName: aliasName, Description: description})
	if m.Impl.CreateAlias != nil {
		return m.Impl.CreateAlias(ctx, agentId, aliasName, description)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) ListAliases(ctx context.Context, agentId string) ([]domain.Alias, error) {
	m.Calls.ListAliases = append(m.Calls.ListAliases, struct{ AgentId string }{AgentId: agentId})
	if m.Impl.ListAliases != nil {
		return m.Impl.ListAliases(ctx, agentId)
	}
	panic(errors.New("it should not be called"))
}

func (m *AgentPlatform) AssociateCollaborator(ctx context.Context, agentId string, collaborator domain.Collaborator) error {
	m.Calls.AssociateCollaborator = append(m.Calls.AssociateCollaborator, struct {
		AgentId      string
		Collaborator domain.Collaborator
	}{AgentId: agentId, Collaborator: collaborator})
	if m.Impl.AssociateCollaborator != nil {
		return m.Impl.AssociateCollaborator(ctx, agentId, collaborator)
	}
	panic(errors.New("it should not be called"))
}
