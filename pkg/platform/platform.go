// Package platform declares the capability providers the provisioning
// workflow and the runtime depend on.
//
// Implementations adapt a concrete cloud vendor (or a local test
// double); nothing in this repository assumes a particular one beyond
// JSON payloads and the operation set below.
package platform

import (
	"context"

	"github.com/opsberry/deskfab/pkg/domain"
)

// Role is an execution role as seen by the policy service.
type Role struct {
	Name  string
	Arn   string
	Trust TrustPolicy
}

// TrustPolicy lists who may assume a role.
type TrustPolicy struct {
	Statements []TrustStatement
}

type TrustStatement struct {
	Effect   string
	Services []string
	Action   string
}

// AllowsService reports whether any Allow statement names the service
// principal.
func (t TrustPolicy) AllowsService(service string) bool {
	for _, st := range t.Statements {
		if st.Effect != "Allow" {
			continue
		}
		for _, s := range st.Services {
			if s == service {
				return true
			}
		}
	}
	return false
}

// PolicyService manages roles and their policies.
type PolicyService interface {
	GetRole(ctx context.Context, roleName string) (Role, error)

	UpdateTrustPolicy(ctx context.Context, roleName string, policy TrustPolicy) error

	// GetRolePolicy fetches an inline policy document by name.
	// Not-found is reported as an error of KindNotFound.
	GetRolePolicy(ctx context.Context, roleName string, policyName string) (string, error)

	// PutRolePolicy upserts an inline policy document (JSON).
	PutRolePolicy(ctx context.Context, roleName string, policyName string, document string) error
}

type SecurityPolicyType string

var (
	SecurityPolicyEncryption SecurityPolicyType = "encryption"
	SecurityPolicyNetwork    SecurityPolicyType = "network"
)

// CollectionDetail is the collection service's view of a collection.
type CollectionDetail struct {
	Id     string
	Name   string
	Arn    string
	Status domain.CollectionStatus
}

// CollectionService manages vector-search collections and the policy
// documents scoped to them.
type CollectionService interface {
	// CreateSecurityPolicy creates a named encryption or network policy.
	// policy is the document as JSON.
	CreateSecurityPolicy(ctx context.Context, name string, typ SecurityPolicyType, policy string) error

	// CreateAccessPolicy creates a named data-access policy (JSON).
	CreateAccessPolicy(ctx context.Context, name string, policy string) error

	// BatchGetCollection looks collections up by name. Names without a
	// matching collection are simply absent from the result.
	BatchGetCollection(ctx context.Context, names []string) ([]CollectionDetail, error)

	CreateCollection(ctx context.Context, name string) (CollectionDetail, error)
}

// IndexSchema describes the single vector index layout this workflow
// creates: one dense vector field with an approximate-nearest-neighbor
// method, one text field, one text metadata field.
type IndexSchema struct {
	VectorField   string
	Dimension     int
	Method        string
	Engine        string
	SpaceType     string
	TextField     string
	MetadataField string
}

// IndexService creates search indexes on a collection's data plane.
type IndexService interface {
	// CreateIndex is idempotent: creating an index which already exists
	// must be reported as KindConflict.
	CreateIndex(ctx context.Context, host string, name string, schema IndexSchema) error
}

type FieldMapping struct {
	VectorField   string
	TextField     string
	MetadataField string
}

type CreateKnowledgeBaseParams struct {
	Name              string
	Description       string
	RoleArn           string
	EmbeddingModelArn string
	CollectionArn     string
	IndexName         string
	FieldMapping      FieldMapping
}

type ChunkingPolicy struct {
	MaxTokens         int
	OverlapPercentage int
}

type CreateDataSourceParams struct {
	KnowledgeBaseId string
	Name            string
	Description     string
	Bucket          string
	Prefix          string
	Chunking        ChunkingPolicy
}

type CreateAgentParams struct {
	Name            string
	Description     string
	Instruction     string
	FoundationModel string
	RoleArn         string
	Collaboration   domain.CollaborationRole
}

type FunctionParameter struct {
	Name        string
	Description string
	Type        string
	Required    bool
}

type FunctionSchema struct {
	Name        string
	Description string
	Parameters  []FunctionParameter
}

type CreateActionGroupParams struct {
	AgentId     string
	Name        string
	Description string

	// Executor is the callable target handling the function calls.
	Executor string

	Function FunctionSchema

	// ClientToken makes the creation idempotent against double delivery.
	ClientToken string
}

// AgentPlatform manages knowledge bases, data sources, ingestion jobs,
// agents and everything attached to them.
type AgentPlatform interface {
	CreateKnowledgeBase(ctx context.Context, params CreateKnowledgeBaseParams) (domain.KnowledgeBase, error)
	GetKnowledgeBase(ctx context.Context, knowledgeBaseId string) (domain.KnowledgeBase, error)

	CreateDataSource(ctx context.Context, params CreateDataSourceParams) (domain.DataSource, error)
	ListDataSources(ctx context.Context, knowledgeBaseId string) ([]domain.DataSource, error)

	StartIngestionJob(ctx context.Context, knowledgeBaseId string, dataSourceId string) (domain.IngestionJob, error)
	GetIngestionJob(ctx context.Context, knowledgeBaseId string, dataSourceId string, jobId string) (domain.IngestionJob, error)

	CreateAgent(ctx context.Context, params CreateAgentParams) (domain.Agent, error)
	GetAgent(ctx context.Context, agentId string) (domain.Agent, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	DeleteAgent(ctx context.Context, agentId string) error
	PrepareAgent(ctx context.Context, agentId string) (domain.AgentStatus, error)

	CreateActionGroup(ctx context.Context, params CreateActionGroupParams) error
	AssociateKnowledgeBase(ctx context.Context, agentId string, knowledgeBaseId string, description string) error

	CreateAlias(ctx context.Context, agentId string, aliasName string, description string) (domain.Alias, error)
	ListAliases(ctx context.Context, agentId string) ([]domain.Alias, error)

	AssociateCollaborator(ctx context.Context, agentId string, collaborator domain.Collaborator) error
}

// BlobStore is where domain content lives, keyed "<folder>/<name>".
type BlobStore interface {
	Put(ctx context.Context, key string, contentType string, body []byte) error
}
