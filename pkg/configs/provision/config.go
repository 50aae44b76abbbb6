package provision

import (
	"strings"
	"time"

	"github.com/opsberry/deskfab/pkg/loop/poll"
)

// ProvisionConfig drives one provisioning run.
//
// Polling and settle budgets default to values tuned against the
// backends' observed propagation times; override them only when a
// deployment environment proves slower.
type ProvisionConfig struct {
	// AccountId is the cloud account owning every resource.
	AccountId string `yaml:"accountId"`

	// Region hosts the collection data plane.
	Region string `yaml:"region,omitempty"`

	// RoleArn is the execution role assumed by agents and knowledge bases.
	RoleArn string `yaml:"roleArn"`

	// Bucket holds the knowledge base source documents.
	Bucket string `yaml:"bucket"`

	// Suffix disambiguates resource names between deployments.
	// When empty, a fresh one is derived at the start of the run.
	Suffix string `yaml:"suffix,omitempty"`

	// SearchActionTarget is the callable endpoint backing the web search
	// action group. When empty, the search agent gets no action group.
	SearchActionTarget string `yaml:"searchActionTarget,omitempty"`

	FoundationModel string `yaml:"foundationModel,omitempty"`
	EmbeddingModel  string `yaml:"embeddingModel,omitempty"`

	Polling PollingConfig `yaml:"polling,omitempty"`
	Settle  SettleConfig  `yaml:"settle,omitempty"`
}

// RoleName is the last path element of RoleArn.
func (c *ProvisionConfig) RoleName() string {
	arn := c.RoleArn
	if i := strings.LastIndex(arn, "/"); 0 <= i {
		return arn[i+1:]
	}
	return arn
}

// PollingConfig bounds each wait or retry loop in the pipeline.
type PollingConfig struct {
	// Collection: collection status until it leaves CREATING.
	Collection poll.Spec `yaml:"collection,omitempty"`

	// Index: vector index creation attempts.
	Index poll.Spec `yaml:"index,omitempty"`

	// KnowledgeBaseCreate: knowledge base creation attempts.
	KnowledgeBaseCreate poll.Spec `yaml:"knowledgeBaseCreate,omitempty"`

	// KnowledgeBaseActive: knowledge base status until ACTIVE.
	KnowledgeBaseActive poll.Spec `yaml:"knowledgeBaseActive,omitempty"`

	// Ingestion: ingestion job status until terminal.
	Ingestion poll.Spec `yaml:"ingestion,omitempty"`

	// AgentReady: agent status until prepared.
	AgentReady poll.Spec `yaml:"agentReady,omitempty"`

	// AgentDeletion: agent lookup until not found.
	AgentDeletion poll.Spec `yaml:"agentDeletion,omitempty"`

	// ActionGroup: action group creation, exponential from Base.
	ActionGroup RetrySpec `yaml:"actionGroup,omitempty"`

	// Supervisor: whole supervisor composition attempts.
	Supervisor poll.Spec `yaml:"supervisor,omitempty"`
}

// RetrySpec bounds a retry loop whose wait doubles after each attempt.
type RetrySpec struct {
	Base        time.Duration `yaml:"base"`
	MaxAttempts int           `yaml:"maxAttempts"`
}

// SettleConfig holds the fixed waits after operations whose effects
// propagate without any observable readiness signal.
type SettleConfig struct {
	// Role: after repairing the execution role's trust policy.
	Role time.Duration `yaml:"role,omitempty"`

	// Policy: after upserting the execution role's permission policy.
	Policy time.Duration `yaml:"policy,omitempty"`

	// Collection: after the collection reaches a stable status.
	Collection time.Duration `yaml:"collection,omitempty"`

	// Index: after a vector index is created.
	Index time.Duration `yaml:"index,omitempty"`
}
