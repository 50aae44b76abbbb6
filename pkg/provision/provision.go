// Package provision sequences the whole bring-up: collection, knowledge
// bases, specialist agents, then the supervisor over them.
package provision

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	cfgs "github.com/opsberry/deskfab/pkg/configs/provision"
	"github.com/opsberry/deskfab/pkg/platform"
	"github.com/opsberry/deskfab/pkg/provision/agent"
	"github.com/opsberry/deskfab/pkg/provision/collection"
	"github.com/opsberry/deskfab/pkg/provision/knowledgebase"
	"github.com/opsberry/deskfab/pkg/provision/supervisor"
)

type Deps struct {
	Policy      platform.PolicyService
	Collections platform.CollectionService
	Indexes     platform.IndexService
	Agents      platform.AgentPlatform
}

const suffixLen = 5

// Suffix derives the deployment suffix: the last characters of the
// configured one, or of a fresh random id when none is configured.
// Resource names repeat between runs only when the suffix does.
func Suffix(configured string) string {
	s := configured
	if s == "" {
		s = uuid.NewString()
	}
	if suffixLen < len(s) {
		s = s[len(s)-suffixLen:]
	}
	return s
}

// Run provisions everything and reports the identifiers the runtime
// needs. conf.Suffix is normalized in place, so a saved config re-runs
// against the same resources.
func Run(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig) (*Outputs, error) {
	conf.Suffix = Suffix(conf.Suffix)
	logger.Printf("provisioning with suffix %s", conf.Suffix)

	col, err := collection.Ensure(ctx, logger, collection.Deps{
		Policy: deps.Policy, Collections: deps.Collections,
	}, conf)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	logger.Printf("collection %s is ready at %s", col.Name, col.Host)

	kbOutcomes, knowledgeBases := knowledgebase.EnsureAll(ctx, logger, knowledgebase.Deps{
		Indexes: deps.Indexes, Agents: deps.Agents,
	}, conf, col)
	for _, o := range kbOutcomes {
		if o.Succeeded() {
			logger.Printf("knowledge base for %s: %s (ingestion %s)", o.Area, o.KnowledgeBase.Id, o.IngestionStatus)
		}
	}

	specialists := agent.EnsureAll(ctx, logger, agent.Deps{Agents: deps.Agents}, conf, knowledgeBases)
	for _, o := range specialists {
		if o.Succeeded() {
			logger.Printf("agent for %s: %s (alias %s)", o.Area, o.Agent.Id, o.Alias.Id)
		}
	}

	sup, err := supervisor.Compose(ctx, logger, supervisor.Deps{Agents: deps.Agents}, conf, specialists)
	if err != nil {
		return nil, fmt.Errorf("supervisor: %w", err)
	}
	logger.Printf("supervisor %s is ready (alias %s)", sup.Agent.Id, sup.Alias.Id)

	kbIds := map[string]string{}
	for area, kb := range knowledgeBases {
		kbIds[area] = kb.Id
	}
	return &Outputs{
		Suffix:            conf.Suffix,
		CollectionId:      col.Id,
		CollectionArn:     col.Arn,
		CollectionHost:    col.Host,
		KnowledgeBases:    kbIds,
		SupervisorAgentId: sup.Agent.Id,
		SupervisorAliasId: sup.Alias.Id,
	}, nil
}
