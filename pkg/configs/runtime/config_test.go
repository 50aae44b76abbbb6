package runtime_test

import (
	"testing"
	"time"

	dcr "github.com/opsberry/deskfab/pkg/configs/runtime"
)

func TestLoadRuntimeConfig(t *testing.T) {

	t.Run("it can be created from a config file", func(t *testing.T) {
		result, err := dcr.LoadRuntimeConfig("./testdata/config.yaml")

		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}
		expectedURI := "postgres://deskfab-test-pgdb-svc:32555/deskfab"
		if result.Database != expectedURI {
			t.Errorf("unmatch database:%s, expected:%s", result.Database, expectedURI)
		}
		if result.Outputs != "/var/lib/deskfab/deskfab-outputs.yaml" {
			t.Errorf("unmatch outputs:%s", result.Outputs)
		}
		if result.ContentRoot != "/var/lib/deskfab/content" {
			t.Errorf("unmatch contentRoot:%s", result.ContentRoot)
		}
		if result.Invoke.Base != 100*time.Millisecond || result.Invoke.MaxAttempts != 2 {
			t.Errorf("unmatch invoke retry: %+v", result.Invoke)
		}
		if result.Region != "ap-northeast-1" {
			t.Errorf("unmatch region:%s", result.Region)
		}
		if result.Search.Endpoint != "https://search.example.com/search" || result.Search.ApiKey != "test-api-key" {
			t.Errorf("unmatch search: %+v", result.Search)
		}
	})

	t.Run("it defaults the invoke retry and region when unset", func(t *testing.T) {
		result, err := dcr.Unmarshal([]byte("database: postgres://h/d\noutputs: ./out.yaml\n"))

		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}
		if result.Invoke.Base != 1*time.Second || result.Invoke.MaxAttempts != 5 {
			t.Errorf("unmatch invoke retry: %+v", result.Invoke)
		}
		if result.Region != "us-east-1" {
			t.Errorf("unmatch region:%s", result.Region)
		}
	})

	t.Run("it rejects config without a database", func(t *testing.T) {
		if _, err := dcr.Unmarshal([]byte("outputs: ./out.yaml\n")); err == nil {
			t.Error("config without database is accepted")
		}
	})
}
