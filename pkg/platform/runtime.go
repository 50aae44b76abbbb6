package platform

import (
	"context"
)

type InvokeAgentParams struct {
	AgentId     string
	AliasId     string
	SessionId   string
	InputText   string
	EnableTrace bool
}

// StreamEvent is one element of an agent invocation's response stream.
// Exactly one of the fields is meaningful per event.
type StreamEvent struct {
	// Chunk is a fragment of the answer text.
	Chunk []byte

	// Rationale is a reasoning-trace step emitted while routing.
	Rationale string
}

// Stream yields StreamEvents until io.EOF.
type Stream interface {
	Recv() (StreamEvent, error)
	Close() error
}

// AgentRuntime invokes prepared agents through their aliases.
type AgentRuntime interface {
	InvokeAgent(ctx context.Context, params InvokeAgentParams) (Stream, error)
}
