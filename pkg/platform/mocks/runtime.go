package mocks

import (
	"context"
	"errors"
	"io"

	"github.com/opsberry/deskfab/pkg/platform"
)

type AgentRuntime struct {
	Impl struct {
		InvokeAgent func(context.Context, platform.InvokeAgentParams) (platform.Stream, error)
	}
	Calls struct {
		InvokeAgent CallLog[platform.InvokeAgentParams]
	}
}

func NewAgentRuntime() *AgentRuntime {
	return &AgentRuntime{}
}

var _ platform.AgentRuntime = &AgentRuntime{}

func (m *AgentRuntime) InvokeAgent(ctx context.Context, params platform.InvokeAgentParams) (platform.Stream, error) {
	m.Calls.InvokeAgent = append(m.Calls.InvokeAgent, params)
	if m.Impl.InvokeAgent != nil {
		return m.Impl.InvokeAgent(ctx, params)
	}
	panic(errors.New("it should not be called"))
}

// Stream replays a fixed sequence of events and then io.EOF.
type Stream struct {
	Events []platform.StreamEvent
	Err    error

	pos    int
	Closed bool
}

func NewStream(events ...platform.StreamEvent) *Stream {
	return &Stream{Events: events}
}

var _ platform.Stream = &Stream{}

func (s *Stream) Recv() (platform.StreamEvent, error) {
	if s.pos >= len(s.Events) {
		if s.Err != nil {
			return platform.StreamEvent{}, s.Err
		}
		return platform.StreamEvent{}, io.EOF
	}
	ev := s.Events[s.pos]
	s.pos += 1
	return ev, nil
}

func (s *Stream) Close() error {
	s.Closed = true
	return nil
}

type BlobStore struct {
	Impl struct {
		Put func(context.Context, string, string, []byte) error
	}
	Calls struct {
		Put CallLog[struct {
			Key         string
			ContentType string
			Body        []byte
		}]
	}
}

func NewBlobStore() *BlobStore {
	return &BlobStore{}
}

var _ platform.BlobStore = &BlobStore{}

func (m *BlobStore) Put(ctx context.Context, key string, contentType string, body []byte) error {
	m.Calls.Put = append(m.Calls.Put, struct {
		Key         string
		ContentType string
		Body        []byte
	}{Key: key, ContentType: contentType, Body: body})
	if m.Impl.Put != nil {
		return m.Impl.Put(ctx, key, contentType, body)
	}
	panic(errors.New("it should not be called"))
}
