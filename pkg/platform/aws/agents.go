package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/google/uuid"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/platform"
)

// draftVersion is the working version every mutation targets.
const draftVersion = "DRAFT"

type AgentPlatform struct {
	client *bedrockagent.Client
}

func NewAgentPlatform(cfg aws.Config) *AgentPlatform {
	return &AgentPlatform{client: bedrockagent.NewFromConfig(cfg)}
}

var _ platform.AgentPlatform = &AgentPlatform{}

func (a *AgentPlatform) CreateKnowledgeBase(ctx context.Context, params platform.CreateKnowledgeBaseParams) (domain.KnowledgeBase, error) {
	out, err := a.client.CreateKnowledgeBase(ctx, &bedrockagent.CreateKnowledgeBaseInput{
		Name:        aws.String(params.Name),
		Description: aws.String(params.Description),
		RoleArn:     aws.String(params.RoleArn),
		KnowledgeBaseConfiguration: &types.KnowledgeBaseConfiguration{
			Type: types.KnowledgeBaseTypeVector,
			VectorKnowledgeBaseConfiguration: &types.VectorKnowledgeBaseConfiguration{
				EmbeddingModelArn: aws.String(params.EmbeddingModelArn),
			},
		},
		StorageConfiguration: &types.StorageConfiguration{
			Type: types.KnowledgeBaseStorageTypeOpensearchServerless,
			OpensearchServerlessConfiguration: &types.OpenSearchServerlessConfiguration{
				CollectionArn:   aws.String(params.CollectionArn),
				VectorIndexName: aws.String(params.IndexName),
				FieldMapping: &types.OpenSearchServerlessFieldMapping{
					VectorField:   aws.String(params.FieldMapping.VectorField),
					TextField:     aws.String(params.FieldMapping.TextField),
					MetadataField: aws.String(params.FieldMapping.MetadataField),
				},
			},
		},
	})
	if err != nil {
		return domain.KnowledgeBase{}, classify("create knowledge base", params.Name, err)
	}

	kb := out.KnowledgeBase
	return domain.KnowledgeBase{
		Id:             aws.ToString(kb.KnowledgeBaseId),
		Name:           aws.ToString(kb.Name),
		EmbeddingModel: params.EmbeddingModelArn,
		IndexName:      params.IndexName,
		Status:         domain.KnowledgeBaseStatus(kb.Status),
	}, nil
}

func (a *AgentPlatform) GetKnowledgeBase(ctx context.Context, knowledgeBaseId string) (domain.KnowledgeBase, error) {
	out, err := a.client.GetKnowledgeBase(ctx, &bedrockagent.GetKnowledgeBaseInput{
		KnowledgeBaseId: aws.String(knowledgeBaseId),
	})
	if err != nil {
		return domain.KnowledgeBase{}, classify("get knowledge base", knowledgeBaseId, err)
	}

	kb := out.KnowledgeBase
	return domain.KnowledgeBase{
		Id:     aws.ToString(kb.KnowledgeBaseId),
		Name:   aws.ToString(kb.Name),
		Status: domain.KnowledgeBaseStatus(kb.Status),
	}, nil
}

func (a *AgentPlatform) CreateDataSource(ctx context.Context, params platform.CreateDataSourceParams) (domain.DataSource, error) {
	out, err := a.client.CreateDataSource(ctx, &bedrockagent.CreateDataSourceInput{
		KnowledgeBaseId: aws.String(params.KnowledgeBaseId),
		Name:            aws.String(params.Name),
		Description:     aws.String(params.Description),
		DataSourceConfiguration: &types.DataSourceConfiguration{
			Type: types.DataSourceTypeS3,
			S3Configuration: &types.S3DataSourceConfiguration{
				BucketArn:         aws.String("arn:aws:s3:::" + params.Bucket),
				InclusionPrefixes: []string{params.Prefix},
			},
		},
		VectorIngestionConfiguration: &types.VectorIngestionConfiguration{
			ChunkingConfiguration: &types.ChunkingConfiguration{
				ChunkingStrategy: types.ChunkingStrategyFixedSize,
				FixedSizeChunkingConfiguration: &types.FixedSizeChunkingConfiguration{
					MaxTokens:         aws.Int32(int32(params.Chunking.MaxTokens)),
					OverlapPercentage: aws.Int32(int32(params.Chunking.OverlapPercentage)),
				},
			},
		},
	})
	if err != nil {
		return domain.DataSource{}, classify("create data source", params.Name, err)
	}

	ds := out.DataSource
	return domain.DataSource{
		Id:              aws.ToString(ds.DataSourceId),
		Name:            aws.ToString(ds.Name),
		KnowledgeBaseId: aws.ToString(ds.KnowledgeBaseId),
		Prefix:          params.Prefix,
	}, nil
}

func (a *AgentPlatform) ListDataSources(ctx context.Context, knowledgeBaseId string) ([]domain.DataSource, error) {
	sources := []domain.DataSource{}
	var token *string
	for {
		out, err := a.client.ListDataSources(ctx, &bedrockagent.ListDataSourcesInput{
			KnowledgeBaseId: aws.String(knowledgeBaseId),
			NextToken:       token,
		})
		if err != nil {
			return nil, classify("list data sources", knowledgeBaseId, err)
		}
		for _, s := range out.DataSourceSummaries {
			sources = append(sources, domain.DataSource{
				Id:              aws.ToString(s.DataSourceId),
				Name:            aws.ToString(s.Name),
				KnowledgeBaseId: aws.ToString(s.KnowledgeBaseId),
			})
		}
		if token = out.NextToken; token == nil {
			return sources, nil
		}
	}
}

func (a *AgentPlatform) StartIngestionJob(ctx context.Context, knowledgeBaseId string, dataSourceId string) (domain.IngestionJob, error) {
	out, err := a.client.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(knowledgeBaseId),
		DataSourceId:    aws.String(dataSourceId),
		ClientToken:     aws.String(uuid.NewString()),
	})
	if err != nil {
		return domain.IngestionJob{}, classify("start ingestion job", dataSourceId, err)
	}
	return asIngestionJob(out.IngestionJob), nil
}

func (a *AgentPlatform) GetIngestionJob(ctx context.Context, knowledgeBaseId string, dataSourceId string, jobId string) (domain.IngestionJob, error) {
	out, err := a.client.GetIngestionJob(ctx, &bedrockagent.GetIngestionJobInput{
		KnowledgeBaseId: aws.String(knowledgeBaseId),
		DataSourceId:    aws.String(dataSourceId),
		IngestionJobId:  aws.String(jobId),
	})
	if err != nil {
		return domain.IngestionJob{}, classify("get ingestion job", jobId, err)
	}
	return asIngestionJob(out.IngestionJob), nil
}

func asIngestionJob(job *types.IngestionJob) domain.IngestionJob {
	return domain.IngestionJob{
		Id:              aws.ToString(job.IngestionJobId),
		KnowledgeBaseId: aws.ToString(job.KnowledgeBaseId),
		DataSourceId:    aws.ToString(job.DataSourceId),
		Status:          domain.IngestionStatus(job.Status),
	}
}

func (a *AgentPlatform) CreateAgent(ctx context.Context, params platform.CreateAgentParams) (domain.Agent, error) {
	collaboration := types.AgentCollaborationDisabled
	if params.Collaboration == domain.RoleSupervisor {
		collaboration = types.AgentCollaborationSupervisor
	}

	out, err := a.client.CreateAgent(ctx, &bedrockagent.CreateAgentInput{
		AgentName:            aws.String(params.Name),
		Description:          aws.String(params.Description),
		Instruction:          aws.String(params.Instruction),
		FoundationModel:      aws.String(params.FoundationModel),
		AgentResourceRoleArn: aws.String(params.RoleArn),
		AgentCollaboration:   collaboration,
	})
	if err != nil {
		return domain.Agent{}, classify("create agent", params.Name, err)
	}
	return asAgent(out.Agent), nil
}

func (a *AgentPlatform) GetAgent(ctx context.Context, agentId string) (domain.Agent, error) {
	out, err := a.client.GetAgent(ctx, &bedrockagent.GetAgentInput{
		AgentId: aws.String(agentId),
	})
	if err != nil {
		return domain.Agent{}, classify("get agent", agentId, err)
	}
	return asAgent(out.Agent), nil
}

func (a *AgentPlatform) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	agents := []domain.Agent{}
	var token *string
	for {
		out, err := a.client.ListAgents(ctx, &bedrockagent.ListAgentsInput{NextToken: token})
		if err != nil {
			return nil, classify("list agents", "", err)
		}
		for _, s := range out.AgentSummaries {
			agents = append(agents, domain.Agent{
				Id:     aws.ToString(s.AgentId),
				Name:   aws.ToString(s.AgentName),
				Status: domain.AgentStatus(s.AgentStatus),
			})
		}
		if token = out.NextToken; token == nil {
			return agents, nil
		}
	}
}

func (a *AgentPlatform) DeleteAgent(ctx context.Context, agentId string) error {
	_, err := a.client.DeleteAgent(ctx, &bedrockagent.DeleteAgentInput{
		AgentId: aws.String(agentId),
	})
	return classify("delete agent", agentId, err)
}

func (a *AgentPlatform) PrepareAgent(ctx context.Context, agentId string) (domain.AgentStatus, error) {
	out, err := a.client.PrepareAgent(ctx, &bedrockagent.PrepareAgentInput{
		AgentId: aws.String(agentId),
	})
	if err != nil {
		return "", classify("prepare agent", agentId, err)
	}
	return domain.AgentStatus(out.AgentStatus), nil
}

func (a *AgentPlatform) CreateActionGroup(ctx context.Context, params platform.CreateActionGroupParams) error {
	parameters := map[string]types.ParameterDetail{}
	for _, p := range params.Function.Parameters {
		parameters[p.Name] = types.ParameterDetail{
			Description: aws.String(p.Description),
			Type:        types.Type(p.Type),
			Required:    aws.Bool(p.Required),
		}
	}

	_, err := a.client.CreateAgentActionGroup(ctx, &bedrockagent.CreateAgentActionGroupInput{
		AgentId:         aws.String(params.AgentId),
		AgentVersion:    aws.String(draftVersion),
		ActionGroupName: aws.String(params.Name),
		Description:     aws.String(params.Description),
		ClientToken:     aws.String(params.ClientToken),
		ActionGroupExecutor: &types.ActionGroupExecutorMemberLambda{
			Value: params.Executor,
		},
		FunctionSchema: &types.FunctionSchemaMemberFunctions{
			Value: []types.Function{{
				Name:        aws.String(params.Function.Name),
				Description: aws.String(params.Function.Description),
				Parameters:  parameters,
			}},
		},
	})
	return classify("create action group", params.Name, err)
}

func (a *AgentPlatform) AssociateKnowledgeBase(ctx context.Context, agentId string, knowledgeBaseId string, description string) error {
	_, err := a.client.AssociateAgentKnowledgeBase(ctx, &bedrockagent.AssociateAgentKnowledgeBaseInput{
		AgentId:            aws.String(agentId),
		AgentVersion:       aws.String(draftVersion),
		KnowledgeBaseId:    aws.String(knowledgeBaseId),
		Description:        aws.String(description),
		KnowledgeBaseState: types.KnowledgeBaseStateEnabled,
	})
	return classify("associate knowledge base", knowledgeBaseId, err)
}

func (a *AgentPlatform) CreateAlias(ctx context.Context, agentId string, aliasName string, description string) (domain.Alias, error) {
	out, err := a.client.CreateAgentAlias(ctx, &bedrockagent.CreateAgentAliasInput{
		AgentId:        aws.String(agentId),
		AgentAliasName: aws.String(aliasName),
		Description:    aws.String(description),
	})
	if err != nil {
		return domain.Alias{}, classify("create alias", aliasName, err)
	}

	alias := out.AgentAlias
	return domain.Alias{
		Id:      aws.ToString(alias.AgentAliasId),
		Arn:     aws.ToString(alias.AgentAliasArn),
		Name:    aws.ToString(alias.AgentAliasName),
		AgentId: agentId,
	}, nil
}

func (a *AgentPlatform) ListAliases(ctx context.Context, agentId string) ([]domain.Alias, error) {
	aliases := []domain.Alias{}
	var token *string
	for {
		out, err := a.client.ListAgentAliases(ctx, &bedrockagent.ListAgentAliasesInput{
			AgentId:   aws.String(agentId),
			NextToken: token,
		})
		if err != nil {
			return nil, classify("list aliases", agentId, err)
		}
		for _, s := range out.AgentAliasSummaries {
			// summaries do not carry the alias ARN
			got, err := a.client.GetAgentAlias(ctx, &bedrockagent.GetAgentAliasInput{
				AgentId:      aws.String(agentId),
				AgentAliasId: s.AgentAliasId,
			})
			if err != nil {
				return nil, classify("get alias", aws.ToString(s.AgentAliasId), err)
			}
			aliases = append(aliases, domain.Alias{
				Id:      aws.ToString(got.AgentAlias.AgentAliasId),
				Arn:     aws.ToString(got.AgentAlias.AgentAliasArn),
				Name:    aws.ToString(got.AgentAlias.AgentAliasName),
				AgentId: agentId,
			})
		}
		if token = out.NextToken; token == nil {
			return aliases, nil
		}
	}
}

func (a *AgentPlatform) AssociateCollaborator(ctx context.Context, agentId string, collaborator domain.Collaborator) error {
	_, err := a.client.AssociateAgentCollaborator(ctx, &bedrockagent.AssociateAgentCollaboratorInput{
		AgentId:                  aws.String(agentId),
		AgentVersion:             aws.String(draftVersion),
		CollaboratorName:         aws.String(collaborator.Name),
		CollaborationInstruction: aws.String(collaborator.Instruction),
		AgentDescriptor: &types.AgentDescriptor{
			AliasArn: aws.String(collaborator.AliasArn),
		},
		RelayConversationHistory: types.RelayConversationHistoryToCollaborator,
	})
	return classify("associate collaborator", collaborator.Name, err)
}

func asAgent(agent *types.Agent) domain.Agent {
	role := domain.RoleSpecialist
	if agent.AgentCollaboration == types.AgentCollaborationSupervisor {
		role = domain.RoleSupervisor
	}
	return domain.Agent{
		Id:              aws.ToString(agent.AgentId),
		Name:            aws.ToString(agent.AgentName),
		Status:          domain.AgentStatus(agent.AgentStatus),
		Role:            role,
		FoundationModel: aws.ToString(agent.FoundationModel),
		Instruction:     aws.ToString(agent.Instruction),
		Description:     aws.ToString(agent.Description),
	}
}
