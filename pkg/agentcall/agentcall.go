// Package agentcall turns one user message into one answered,
// persisted conversation turn via the supervisor agent.
package agentcall

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	cfgr "github.com/opsberry/deskfab/pkg/configs/runtime"
	ddb "github.com/opsberry/deskfab/pkg/db"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/platform"
	"github.com/opsberry/deskfab/pkg/utils/retry"
)

// ErrEmptyMessage rejects a request before anything is invoked.
var ErrEmptyMessage = errors.New("message is empty")

// Answer is the supervisor's reply to one message.
type Answer struct {
	Response      string
	ThinkingSteps []string
	SessionId     string
}

type Caller struct {
	runtime       platform.AgentRuntime
	conversations ddb.ConversationInterface
	agentId       string
	aliasId       string
	invoke        cfgr.InvokeConfig
	logger        *log.Logger

	now func() time.Time
}

func New(
	runtime platform.AgentRuntime,
	conversations ddb.ConversationInterface,
	agentId string, aliasId string,
	invoke cfgr.InvokeConfig,
	logger *log.Logger,
) *Caller {
	return &Caller{
		runtime:       runtime,
		conversations: conversations,
		agentId:       agentId,
		aliasId:       aliasId,
		invoke:        invoke,
		logger:        logger,
		now:           time.Now,
	}
}

// Ask sends message to the supervisor within sessionId (a fresh session
// is opened when it is empty), waits for the streamed answer and
// persists the exchange. The whole invocation is retried on failure;
// the turn is stored once, only after an invocation succeeded.
func (c *Caller) Ask(ctx context.Context, identity domain.Identity, sessionId string, message string) (Answer, error) {
	if strings.TrimSpace(message) == "" {
		return Answer{}, ErrEmptyMessage
	}
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	answer, err := retry.Blocking(ctx, retry.ExponentialBackoff(c.invoke.Base, 2.0), c.invoke.MaxAttempts, func() (Answer, error) {
		answer, err := c.invokeOnce(ctx, sessionId, message)
		if err != nil {
			c.logger.Printf("invocation in session %s failed: %v. retrying", sessionId, err)
			return answer, errors.Join(retry.ErrRetry, err)
		}
		return answer, nil
	})
	if err != nil {
		return Answer{}, err
	}

	turn := domain.Turn{
		UserId:        identity.UserId,
		Timestamp:     c.now(),
		MessageId:     uuid.NewString(),
		SessionId:     sessionId,
		Username:      identity.Username,
		Email:         identity.Email,
		UserQuery:     message,
		Response:      answer.Response,
		ThinkingSteps: answer.ThinkingSteps,
	}
	if err := c.conversations.PutTurn(ctx, turn); err != nil {
		return Answer{}, err
	}
	return answer, nil
}

func (c *Caller) invokeOnce(ctx context.Context, sessionId string, message string) (Answer, error) {
	stream, err := c.runtime.InvokeAgent(ctx, platform.InvokeAgentParams{
		AgentId:     c.agentId,
		AliasId:     c.aliasId,
		SessionId:   sessionId,
		InputText:   message,
		EnableTrace: true,
	})
	if err != nil {
		return Answer{}, err
	}
	defer stream.Close()

	var response strings.Builder
	steps := []string{}
	for {
		event, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Answer{}, err
		}
		response.Write(event.Chunk)
		if event.Rationale != "" {
			steps = append(steps, event.Rationale)
		}
	}

	return Answer{
		Response:      response.String(),
		ThinkingSteps: steps,
		SessionId:     sessionId,
	}, nil
}
