package runtime

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig drives the chat API daemon.
type RuntimeConfig struct {
	// Database is the connection string of the conversation store.
	Database string `yaml:"database"`

	// Outputs is the path of the outputs record written by the
	// provisioning run. It names the supervisor agent and alias to invoke
	// and the knowledge bases serving the ingestion trigger.
	Outputs string `yaml:"outputs"`

	// ContentRoot is the directory mirrored into the document bucket.
	// Uploads land here and the watcher observes it.
	ContentRoot string `yaml:"contentRoot"`

	// Region the provisioned resources live in.
	Region string `yaml:"region,omitempty"`

	// Bucket is the document bucket the knowledge bases ingest from.
	// When set, uploads go there directly; otherwise they land under
	// ContentRoot for the watcher to pick up.
	Bucket string `yaml:"bucket,omitempty"`

	// Search configures the backend serving the web_search action group.
	// When Endpoint is empty the action API is not served.
	Search SearchConfig `yaml:"search,omitempty"`

	// Invoke bounds the supervisor invocation retry.
	Invoke InvokeConfig `yaml:"invoke,omitempty"`
}

type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	ApiKey   string `yaml:"apiKey"`
}

// InvokeConfig bounds the invocation retry loop, exponential from Base.
type InvokeConfig struct {
	Base        time.Duration `yaml:"base"`
	MaxAttempts int           `yaml:"maxAttempts"`
}

// load runtime config from a file.
func LoadRuntimeConfig(filepath string) (*RuntimeConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*RuntimeConfig, error) {
	var out RuntimeConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}

	if out.Database == "" {
		return nil, fmt.Errorf("database is required")
	}
	if out.Outputs == "" {
		return nil, fmt.Errorf("outputs is required")
	}

	if out.Region == "" {
		out.Region = "us-east-1"
	}
	if out.Invoke.Base <= 0 {
		out.Invoke.Base = 1 * time.Second
	}
	if out.Invoke.MaxAttempts <= 0 {
		out.Invoke.MaxAttempts = 5
	}

	return &out, nil
}
