// Package supervisor composes the routing agent over the specialists.
//
// The supervisor is recreated on every run rather than patched: the
// existing one is deleted and a fresh one is created with the current
// set of collaborators. The whole composition is retried as a unit.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log"

	cfgs "github.com/opsberry/deskfab/pkg/configs/provision"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/loop/poll"
	"github.com/opsberry/deskfab/pkg/platform"
	"github.com/opsberry/deskfab/pkg/provision/agent"
	"github.com/opsberry/deskfab/pkg/utils/retry"
)

// ErrNoCollaborators means no specialist could be associated. A
// supervisor with nobody to route to is useless, so this aborts the
// composition before the agent is prepared.
var ErrNoCollaborators = errors.New("no collaborators could be associated")

type Deps struct {
	Agents platform.AgentPlatform
}

type Result struct {
	Agent domain.Agent
	Alias domain.Alias
}

// Compose builds the supervisor over the specialists which came up.
func Compose(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig, specialists []agent.Outcome) (Result, error) {
	return retry.Blocking(ctx, retry.StaticBackoff(conf.Polling.Supervisor.Interval), conf.Polling.Supervisor.MaxAttempts, func() (Result, error) {
		result, err := compose(ctx, logger, deps, conf, specialists)
		if err != nil {
			logger.Printf("supervisor composition failed: %v", err)
			return result, errors.Join(retry.ErrRetry, err)
		}
		return result, nil
	})
}

func compose(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig, specialists []agent.Outcome) (Result, error) {
	spec := domain.SupervisorSpec(conf.Suffix, conf.FoundationModel)

	if err := deleteExisting(ctx, logger, deps.Agents, conf, spec.Name); err != nil {
		return Result{}, err
	}

	created, err := deps.Agents.CreateAgent(ctx, platform.CreateAgentParams{
		Name:            spec.Name,
		Description:     spec.Description,
		Instruction:     spec.Instruction,
		FoundationModel: spec.FoundationModel,
		RoleArn:         conf.RoleArn,
		Collaboration:   domain.RoleSupervisor,
	})
	if err != nil {
		return Result{}, fmt.Errorf("create supervisor %s: %w", spec.Name, err)
	}

	supervisor, err := waitStatus(ctx, logger, deps.Agents, conf, created.Id, domain.AgentPrepared, domain.AgentNotPrepared)
	if err != nil {
		return Result{}, fmt.Errorf("supervisor %s never settled: %w", spec.Name, err)
	}

	associated := 0
	for _, specialist := range specialists {
		if !specialist.Succeeded() {
			continue
		}
		if err := associate(ctx, logger, deps.Agents, supervisor.Id, specialist); err != nil {
			logger.Printf("specialist %s could not be associated: %v. continue", specialist.Agent.Name, err)
			continue
		}
		associated += 1
	}
	if associated == 0 {
		return Result{}, ErrNoCollaborators
	}
	logger.Printf("supervisor %s has %d collaborators", spec.Name, associated)

	if _, err := deps.Agents.PrepareAgent(ctx, supervisor.Id); err != nil {
		return Result{}, fmt.Errorf("prepare supervisor %s: %w", spec.Name, err)
	}
	supervisor, err = waitStatus(ctx, logger, deps.Agents, conf, supervisor.Id, domain.AgentPrepared)
	if err != nil {
		return Result{}, fmt.Errorf("supervisor %s was not prepared: %w", spec.Name, err)
	}

	alias, err := deps.Agents.CreateAlias(
		ctx, supervisor.Id, domain.AliasName(spec.Name), "Alias of "+spec.Name,
	)
	if err != nil {
		return Result{}, fmt.Errorf("create alias for %s: %w", spec.Name, err)
	}

	return Result{Agent: supervisor, Alias: alias}, nil
}

// deleteExisting removes a supervisor left by an earlier run and waits
// for the deletion to be observable. A supervisor still wired into
// something is left alone; creation will then fail and the attempt is
// retried as a whole.
func deleteExisting(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, conf *cfgs.ProvisionConfig, name string) error {
	existing, err := findByName(ctx, agents, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	logger.Printf("deleting previous supervisor %s (%s)", name, existing.Id)
	if err := agents.DeleteAgent(ctx, existing.Id); err != nil {
		if platform.IsConflict(err) {
			logger.Printf("supervisor %s is busy. leaving it", existing.Id)
			return nil
		}
		return fmt.Errorf("delete supervisor %s: %w", existing.Id, err)
	}

	_, err = poll.WaitFor(ctx, conf.Polling.AgentDeletion, func(ctx context.Context) (struct{}, bool, error) {
		_, err := agents.GetAgent(ctx, existing.Id)
		if platform.IsNotFound(err) {
			return struct{}{}, true, nil
		}
		if err != nil {
			return struct{}{}, false, err
		}
		logger.Printf("supervisor %s is still deleting. waiting", existing.Id)
		return struct{}{}, false, nil
	})
	return err
}

func findByName(ctx context.Context, agents platform.AgentPlatform, name string) (*domain.Agent, error) {
	all, err := agents.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	for _, a := range all {
		if a.Name == name {
			return &a, nil
		}
	}
	return nil, nil
}

// associate resolves the specialist's alias ARN freshly by name, so the
// association never depends on state captured before a retry.
func associate(ctx context.Context, logger *log.Logger, agents platform.AgentPlatform, supervisorId string, specialist agent.Outcome) error {
	target, err := findByName(ctx, agents, specialist.Agent.Name)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("specialist %s is gone", specialist.Agent.Name)
	}

	aliases, err := agents.ListAliases(ctx, target.Id)
	if err != nil {
		return fmt.Errorf("list aliases of %s: %w", target.Id, err)
	}
	aliasName := domain.AliasName(specialist.Agent.Name)
	var aliasArn string
	for _, a := range aliases {
		if a.Name == aliasName {
			aliasArn = a.Arn
			break
		}
	}
	if aliasArn == "" {
		return fmt.Errorf("specialist %s has no alias %s", specialist.Agent.Name, aliasName)
	}

	return agents.AssociateCollaborator(ctx, supervisorId, domain.Collaborator{
		Name:        specialist.Agent.Name,
		AliasArn:    aliasArn,
		Instruction: domain.CollaborationInstruction(specialist.Area, specialist.Agent.Name),
	})
}

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
