package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("unknown status")

// CollectionStatus is the lifecycle state of a vector-search collection.
type CollectionStatus string

var (
	CollectionCreating CollectionStatus = "CREATING"
	CollectionActive   CollectionStatus = "ACTIVE"
	CollectionFailed   CollectionStatus = "FAILED"
	CollectionDeleting CollectionStatus = "DELETING"
)

func (c CollectionStatus) String() string {
	return string(c)
}

// Transitional returns true while the collection is not yet usable.
func (c CollectionStatus) Transitional() bool {
	return c == CollectionCreating
}

// Collection is a named vector-search container.
//
// Host is the data-plane endpoint where indexes of this collection live.
type Collection struct {
	Name string
	Id   string
	Arn  string
	Host string
}

func (c Collection) Equal(o Collection) bool {
	return c == o
}

// KnowledgeBaseStatus is the lifecycle state of a knowledge base.
type KnowledgeBaseStatus string

var (
	KnowledgeBaseCreating KnowledgeBaseStatus = "CREATING"
	KnowledgeBaseActive   KnowledgeBaseStatus = "ACTIVE"
	KnowledgeBaseFailed   KnowledgeBaseStatus = "FAILED"
	KnowledgeBaseDeleting KnowledgeBaseStatus = "DELETING"
	KnowledgeBaseDeleted  KnowledgeBaseStatus = "DELETED"
)

func (k KnowledgeBaseStatus) String() string {
	return string(k)
}

// Broken returns true when the knowledge base can never become ACTIVE.
func (k KnowledgeBaseStatus) Broken() bool {
	switch k {
	case KnowledgeBaseFailed, KnowledgeBaseDeleting, KnowledgeBaseDeleted:
		return true
	}
	return false
}

// KnowledgeBase is one domain's indexed document corpus.
type KnowledgeBase struct {
	Id             string
	Name           string
	EmbeddingModel string
	IndexName      string
	Status         KnowledgeBaseStatus
}

// DataSource binds a knowledge base to a content-location prefix
// and a chunking policy.
type DataSource struct {
	Id              string
	Name            string
	KnowledgeBaseId string
	Prefix          string
}

// IngestionStatus is the state of one asynchronous indexing run.
type IngestionStatus string

var (
	IngestionStarting   IngestionStatus = "STARTING"
	IngestionInProgress IngestionStatus = "IN_PROGRESS"
	IngestionComplete   IngestionStatus = "COMPLETE"
	IngestionFailed     IngestionStatus = "FAILED"
	IngestionStopped    IngestionStatus = "STOPPED"
)

func (i IngestionStatus) String() string {
	return string(i)
}

// Terminal returns true when the job will not progress further.
func (i IngestionStatus) Terminal() bool {
	switch i {
	case IngestionComplete, IngestionFailed, IngestionStopped:
		return true
	}
	return false
}

// IngestionJob is an asynchronous unit of work which (re)indexes a
// data source's content into its knowledge base.
type IngestionJob struct {
	Id              string
	KnowledgeBaseId string
	DataSourceId    string
	Status          IngestionStatus
}

// AgentStatus is the lifecycle state of a conversational agent.
type AgentStatus string

var (
	AgentCreating    AgentStatus = "CREATING"
	AgentNotPrepared AgentStatus = "NOT_PREPARED"
	AgentPreparing   AgentStatus = "PREPARING"
	AgentPrepared    AgentStatus = "PREPARED"
	AgentFailed      AgentStatus = "FAILED"
	AgentDeleting    AgentStatus = "DELETING"
)

func (a AgentStatus) String() string {
	return string(a)
}

func AsAgentStatus(s string) (AgentStatus, error) {
	switch AgentStatus(s) {
	case AgentCreating, AgentNotPrepared, AgentPreparing, AgentPrepared, AgentFailed, AgentDeleting:
		return AgentStatus(s), nil
	default:
		return AgentStatus(s), fmt.Errorf("%w: %s", ErrUnknownStatus, s)
	}
}

// CollaborationRole tags an agent as a routing supervisor or a plain
// specialist.
type CollaborationRole string

var (
	RoleSpecialist CollaborationRole = ""
	RoleSupervisor CollaborationRole = "SUPERVISOR"
)

// Agent is a configured conversational entity.
type Agent struct {
	Id              string
	Name            string
	Status          AgentStatus
	Role            CollaborationRole
	FoundationModel string
	Instruction     string
	Description     string
}

// Alias is a stable pointer to a prepared agent configuration.
type Alias struct {
	Id      string
	Arn     string
	Name    string
	AgentId string
}

// Collaborator associates a supervisor with a specialist's alias,
// carrying free-text routing instructions.
type Collaborator struct {
	Name        string
	AliasArn    string
	Instruction string
}
