// Package aws adapts the platform capability interfaces onto AWS:
// IAM for roles, OpenSearch Serverless for collections and indexes,
// Bedrock Agents for knowledge bases and agents, S3 for content.
package aws

import (
	"errors"

	"github.com/aws/smithy-go"
	"github.com/opsberry/deskfab/pkg/platform"
)

// classify wraps an SDK error as a platform.Error, mapping the service
// error code onto a Kind. Unrecognized codes fall through to the
// message-text classifier.
func classify(op string, resource string, err error) error {
	if err == nil {
		return nil
	}

	kind := platform.KindUnknown
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ConflictException", "ResourceAlreadyExistsException", "EntityAlreadyExists":
			kind = platform.KindConflict
		case "ResourceNotFoundException", "NoSuchEntity", "NotFoundException":
			kind = platform.KindNotFound
		case "ThrottlingException", "TooManyRequestsException", "ServiceQuotaExceededException":
			kind = platform.KindThrottled
		case "ValidationException":
			// the agent service reports "agent is busy" this way
			kind = platform.KindNotReady
		}
	}
	if kind == platform.KindUnknown {
		kind = platform.Classify(err)
	}

	return platform.NewError(kind, op, resource, err)
}
