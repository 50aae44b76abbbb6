// Package agent provisions the specialist agents, one per subject area
// plus the web-search agent.
//
// Like the knowledge base pipeline, agents are independent: a failing
// one is logged into its Outcome and its siblings continue, so that the
// supervisor can still be composed from whatever came up.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	cfgs "github.com/opsberry/deskfab/pkg/configs/provision"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/loop/poll"
	"github.com/opsberry/deskfab/pkg/platform"
	"github.com/opsberry/deskfab/pkg/utils/retry"
)

type Deps struct {
	Agents platform.AgentPlatform
}

// Outcome is what one specialist's pipeline ended with.
type Outcome struct {
	Area  string
	Agent domain.Agent
	Alias domain.Alias
	Err   error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// EnsureAll provisions every specialist and reports per-agent Outcomes.
// knowledgeBases binds each area's knowledge base to its agent; areas
// absent from the map (including "search") get no association.
func EnsureAll(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig, knowledgeBases map[string]domain.KnowledgeBase) []Outcome {
	outcomes := []Outcome{}
	for _, spec := range domain.AgentSpecs(conf.Suffix, conf.FoundationModel, conf.SearchActionTarget) {
		outcome := ensureOne(ctx, logger, deps, conf, spec, knowledgeBases)
		outcomes = append(outcomes, outcome)
		if !outcome.Succeeded() {
			logger.Printf("agent %s failed: %v. continue with the rest", spec.Name, outcome.Err)
		}
	}
	return outcomes
}

func ensureOne(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig, spec domain.AgentSpec, knowledgeBases map[string]domain.KnowledgeBase) Outcome {
	outcome := Outcome{Area: spec.Area}

	created, err := deps.Agents.CreateAgent(ctx, platform.CreateAgentParams{
		Name:            spec.Name,
		Description:     spec.Description,
		Instruction:     spec.Instruction,
		FoundationModel: spec.FoundationModel,
		RoleArn:         conf.RoleArn,
		Collaboration:   domain.RoleSpecialist,
	})
	if err != nil {
		outcome.Err = fmt.Errorf("create agent %s: %w", spec.Name, err)
		return outcome
	}

	agent, err := waitStatus(ctx, logger, deps.Agents, conf, created.Id, domain.AgentPrepared, domain.AgentNotPrepared)
	if err != nil {
		outcome.Err = fmt.Errorf("agent %s never settled: %w", spec.Name, err)
		return outcome
	}
	outcome.Agent = agent

	if spec.ActionGroup != nil {
		if err := createActionGroup(ctx, logger, deps.Agents, conf, agent.Id, spec.ActionGroup); err != nil {
			outcome.Err = fmt.Errorf("create action group for %s: %w", spec.Name, err)
			return outcome
		}
	}

	if kb, ok := knowledgeBases[spec.Area]; ok {
		description := domain.KnowledgeBaseBindingDescription(spec.Area, spec.Name)
		if err := deps.Agents.AssociateKnowledgeBase(ctx, agent.Id, kb.Id, description); err != nil {
			outcome.Err = fmt.Errorf("associate knowledge base with %s: %w", spec.Name, err)
			return outcome
		}
	}

	if _, err := deps.Agents.PrepareAgent(ctx, agent.Id); err != nil {
		outcome.Err = fmt.Errorf("prepare agent %s: %w", spec.Name, err)
		return outcome
	}
	agent, err = waitStatus(ctx, logger, deps.Agents, conf, agent.Id, domain.AgentPrepared)
	if err != nil {
		outcome.Err = fmt.Errorf("agent %s was not prepared: %w", spec.Name, err)
		return outcome
	}
	outcome.Agent = agent

	alias, err := deps.Agents.CreateAlias(
		ctx, agent.Id, domain.AliasName(spec.Name), "Alias of "+spec.Name,
	)
	if err != nil {
		outcome.Err = fmt.Errorf("create alias for %s: %w", spec.Name, err)
		return outcome
	}
	outcome.Alias = alias

	return outcome
}

// waitStatus polls the agent until it reaches one of the accepted
// statuses. FAILED is fatal; not-found is tolerated, since a freshly
// created agent may not be readable yet.
func waitStatus(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, conf *cfgs.ProvisionConfig, agentId string, accepted ...domain.AgentStatus) (domain.Agent, error) {
	return poll.WaitFor(ctx, conf.Polling.AgentReady, func(ctx context.Context) (domain.Agent, bool, error) {
		observed, err := agents.GetAgent(ctx, agentId)
		if err != nil {
			if platform.IsNotFound(err) {
				logger.Printf("agent %s is not visible yet. waiting", agentId)
				return domain.Agent{Id: agentId}, false, nil
			}
			return domain.Agent{Id: agentId}, false, err
		}
		if observed.Status == domain.AgentFailed {
			return observed, false, fmt.Errorf("agent %s is FAILED", agentId)
		}
		for _, status := range accepted {
			if observed.Status == status {
				return observed, true, nil
			}
		}
		logger.Printf("agent %s is %s. waiting", agentId, observed.Status)
		return observed, false, nil
	})
}

// createActionGroup retries only while the agent is settling; anything
// else is the caller's problem.
func createActionGroup(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, conf *cfgs.ProvisionConfig, agentId string, group *domain.ActionGroupSpec) error {
	params := platform.CreateActionGroupParams{
		AgentId:     agentId,
		Name:        group.Name,
		Description: "Action group calling " + group.FunctionName,
		Executor:    group.Target,
		Function: platform.FunctionSchema{
			Name:        group.FunctionName,
			Description: "Searches the web for the given query",
			Parameters:  functionParameters(group),
		},
		ClientToken: uuid.NewString(),
	}
	_, err := retry.Blocking(ctx, retry.ExponentialBackoff(conf.Polling.ActionGroup.Base, 2.0), conf.Polling.ActionGroup.MaxAttempts, func() (struct{}, error) {
		err := agents.CreateActionGroup(ctx, params)
		if err == nil {
			return struct{}{}, nil
		}
		if platform.IsTransient(err) {
			logger.Printf("create action group %s: %v. retrying", group.Name, err)
			return struct{}{}, errors.Join(retry.ErrRetry, err)
		}
		return struct{}{}, err
	})
	return err
}

func functionParameters(group *domain.ActionGroupSpec) []platform.FunctionParameter {
	parameters := []platform.FunctionParameter{}
	for _, p := range group.Parameters {
		parameters = append(parameters, platform.FunctionParameter{
			Name:        p.Name,
			Description: p.Description,
			Type:        "string",
			Required:    true,
		})
	}
	return parameters
}
