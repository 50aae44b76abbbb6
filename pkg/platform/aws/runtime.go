package aws

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/opsberry/deskfab/pkg/platform"
)

type AgentRuntime struct {
	client *bedrockagentruntime.Client
}

func NewAgentRuntime(cfg aws.Config) *AgentRuntime {
	return &AgentRuntime{client: bedrockagentruntime.NewFromConfig(cfg)}
}

var _ platform.AgentRuntime = &AgentRuntime{}

func (r *AgentRuntime) InvokeAgent(ctx context.Context, params platform.InvokeAgentParams) (platform.Stream, error) {
	out, err := r.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(params.AgentId),
		AgentAliasId: aws.String(params.AliasId),
		SessionId:    aws.String(params.SessionId),
		InputText:    aws.String(params.InputText),
		EnableTrace:  aws.Bool(params.EnableTrace),
	})
	if err != nil {
		return nil, classify("invoke agent", params.AgentId, err)
	}

	es := out.GetStream()
	return &stream{events: es.Events(), stream: es}, nil
}

type stream struct {
	events <-chan runtimetypes.ResponseStream
	stream *bedrockagentruntime.InvokeAgentEventStream
}

var _ platform.Stream = &stream{}

// Recv yields answer chunks and routing rationales, skipping the trace
// parts the caller has no use for.
func (s *stream) Recv() (platform.StreamEvent, error) {
	for event := range s.events {
		switch e := event.(type) {
		case *runtimetypes.ResponseStreamMemberChunk:
			return platform.StreamEvent{Chunk: e.Value.Bytes}, nil
		case *runtimetypes.ResponseStreamMemberTrace:
			if text, ok := rationaleOf(e.Value); ok {
				return platform.StreamEvent{Rationale: text}, nil
			}
		}
	}

	if err := s.stream.Err(); err != nil {
		return platform.StreamEvent{}, err
	}
	return platform.StreamEvent{}, io.EOF
}

func (s *stream) Close() error {
	return s.stream.Close()
}

func rationaleOf(part runtimetypes.TracePart) (string, bool) {
	trace, ok := part.Trace.(*runtimetypes.TraceMemberOrchestrationTrace)
	if !ok {
		return "", false
	}
	rationale, ok := trace.Value.(*runtimetypes.OrchestrationTraceMemberRationale)
	if !ok {
		return "", false
	}
	text := aws.ToString(rationale.Value.Text)
	return text, text != ""
}

// BlobStore keeps domain content in an S3 bucket.
type BlobStore struct {
	client *s3.Client
	bucket string
}

func NewBlobStore(cfg aws.Config, bucket string) *BlobStore {
	return &BlobStore{client: s3.NewFromConfig(cfg), bucket: bucket}
}

var _ platform.BlobStore = &BlobStore{}

func (b *BlobStore) Put(ctx context.Context, key string, contentType string, body []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := b.client.PutObject(ctx, input)
	return classify("put object", key, err)
}
