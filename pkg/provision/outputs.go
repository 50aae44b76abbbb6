package provision

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Outputs is the published record of one provisioning run: everything
// the runtime daemon and the watcher need to find their resources.
type Outputs struct {
	Suffix            string            `yaml:"suffix"`
	CollectionId      string            `yaml:"collectionId"`
	CollectionArn     string            `yaml:"collectionArn"`
	CollectionHost    string            `yaml:"collectionHost"`
	KnowledgeBases    map[string]string `yaml:"knowledgeBases"`
	SupervisorAgentId string            `yaml:"supervisorAgentId"`
	SupervisorAliasId string            `yaml:"supervisorAliasId"`
}

// Save writes the record where the runtime config points.
func (o *Outputs) Save(filepath string) error {
	content, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, content, 0644)
}

// Print writes the record as stable key=value lines.
func (o *Outputs) Print(w io.Writer) {
	fmt.Fprintf(w, "suffix=%s\n", o.Suffix)
	fmt.Fprintf(w, "collectionId=%s\n", o.CollectionId)
	fmt.Fprintf(w, "collectionArn=%s\n", o.CollectionArn)
	fmt.Fprintf(w, "collectionHost=%s\n", o.CollectionHost)
	areas := make([]string, 0, len(o.KnowledgeBases))
	for area := range o.KnowledgeBases {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	for _, area := range areas {
		fmt.Fprintf(w, "knowledgeBases.%s=%s\n", area, o.KnowledgeBases[area])
	}
	fmt.Fprintf(w, "supervisorAgentId=%s\n", o.SupervisorAgentId)
	fmt.Fprintf(w, "supervisorAliasId=%s\n", o.SupervisorAliasId)
}

// LoadOutputs reads a record saved by Save.
func LoadOutputs(filepath string) (*Outputs, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	var out Outputs
	if err := yaml.Unmarshal(content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
