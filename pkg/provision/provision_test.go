package provision_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opsberry/deskfab/pkg/provision"
	"github.com/opsberry/deskfab/pkg/utils/try"
)

func TestSuffix(t *testing.T) {

	t.Run("it keeps the tail of a configured suffix", func(t *testing.T) {
		if s := provision.Suffix("0123456789"); s != "56789" {
			t.Errorf("unmatch suffix: %s, expected 56789", s)
		}
	})

	t.Run("it passes a short suffix through", func(t *testing.T) {
		if s := provision.Suffix("ab1"); s != "ab1" {
			t.Errorf("unmatch suffix: %s, expected ab1", s)
		}
	})

	t.Run("it generates a suffix when none is configured", func(t *testing.T) {
		s := provision.Suffix("")
		if len(s) != 5 {
			t.Errorf("unmatch suffix length: %q", s)
		}
		if s == provision.Suffix("") {
			t.Errorf("suffixes should not repeat: %s", s)
		}
	})
}

func TestOutputs(t *testing.T) {

	t.Run("it round-trips through a file", func(t *testing.T) {
		saved := &provision.Outputs{
			Suffix:         "t0001",
			CollectionId:   "col-0001",
			CollectionArn:  "arn:aws:aoss:us-east-1:123456789012:collection/col-0001",
			CollectionHost: "col-0001.us-east-1.aoss.amazonaws.com",
			KnowledgeBases: map[string]string{
				"hr": "kb-0001", "helpdesk": "kb-0002",
			},
			SupervisorAgentId: "agent-0001",
			SupervisorAliasId: "alias-0001",
		}
		path := filepath.Join(t.TempDir(), "deskfab-outputs.yaml")
		if err := saved.Save(path); err != nil {
			t.Fatal(err)
		}

		loaded := try.To(provision.LoadOutputs(path)).OrFatal(t)

		if loaded.Suffix != saved.Suffix ||
			loaded.CollectionHost != saved.CollectionHost ||
			loaded.SupervisorAgentId != saved.SupervisorAgentId ||
			loaded.SupervisorAliasId != saved.SupervisorAliasId {
			t.Errorf("unmatch outputs: %+v", loaded)
		}
		if len(loaded.KnowledgeBases) != 2 || loaded.KnowledgeBases["hr"] != "kb-0001" {
			t.Errorf("unmatch knowledge bases: %+v", loaded.KnowledgeBases)
		}
	})

	t.Run("it prints stable key=value lines", func(t *testing.T) {
		out := &provision.Outputs{
			Suffix: "t0001",
			KnowledgeBases: map[string]string{
				"payroll": "kb-0002", "hr": "kb-0001",
			},
			SupervisorAgentId: "agent-0001",
		}
		buffer := new(bytes.Buffer)
		out.Print(buffer)

		lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
		hrAt, payrollAt := -1, -1
		for i, line := range lines {
			switch {
			case strings.HasPrefix(line, "knowledgeBases.hr="):
				hrAt = i
			case strings.HasPrefix(line, "knowledgeBases.payroll="):
				payrollAt = i
			}
		}
		if hrAt < 0 || payrollAt < 0 || payrollAt < hrAt {
			t.Errorf("knowledge base lines missing or unsorted:\n%s", buffer.String())
		}
	})
}
