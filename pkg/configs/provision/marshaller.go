package provision

import (
	"fmt"
	"os"
	"time"

	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/loop/poll"
	"gopkg.in/yaml.v3"
)

// load provisioning config from a file.
func LoadProvisionConfig(filepath string) (*ProvisionConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ProvisionConfig, error) {
	var out ProvisionConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}

	if out.AccountId == "" {
		return nil, fmt.Errorf("accountId is required")
	}
	if out.RoleArn == "" {
		return nil, fmt.Errorf("roleArn is required")
	}
	if out.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	if out.Region == "" {
		out.Region = "us-east-1"
	}
	if out.FoundationModel == "" {
		out.FoundationModel = domain.DefaultFoundationModel
	}
	if out.EmbeddingModel == "" {
		out.EmbeddingModel = domain.DefaultEmbeddingModel
	}

	defaultSpec(&out.Polling.Collection, 30*time.Second, 20)
	defaultSpec(&out.Polling.Index, 20*time.Second, 3)
	defaultSpec(&out.Polling.KnowledgeBaseCreate, 10*time.Second, 5)
	defaultSpec(&out.Polling.KnowledgeBaseActive, 30*time.Second, 10)
	defaultSpec(&out.Polling.Ingestion, 20*time.Second, 5)
	defaultSpec(&out.Polling.AgentReady, 5*time.Second, 30)
	defaultSpec(&out.Polling.AgentDeletion, 5*time.Second, 24)
	defaultSpec(&out.Polling.Supervisor, 10*time.Second, 3)
	if out.Polling.ActionGroup.Base <= 0 {
		out.Polling.ActionGroup.Base = 5 * time.Second
	}
	if out.Polling.ActionGroup.MaxAttempts <= 0 {
		out.Polling.ActionGroup.MaxAttempts = 5
	}

	defaultDuration(&out.Settle.Role, 30*time.Second)
	defaultDuration(&out.Settle.Policy, 40*time.Second)
	defaultDuration(&out.Settle.Collection, 20*time.Second)
	defaultDuration(&out.Settle.Index, 30*time.Second)

	return &out, nil
}

func defaultSpec(s *poll.Spec, interval time.Duration, maxAttempts int) {
	if s.Interval <= 0 {
		s.Interval = interval
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = maxAttempts
	}
}

func defaultDuration(d *time.Duration, fallback time.Duration) {
	if *d <= 0 {
		*d = fallback
	}
}
