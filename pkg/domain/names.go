package domain

import (
	"strings"
	"unicode"
)

// Resource names are deterministic functions of (area, deployment suffix)
// so that a second run of provisioning finds what the first run made.

const (
	// prefix for collection, security policies and vector indexes,
	// which only allow [a-z][a-z0-9-]* names.
	CollectionPrefix = "eva"

	// prefix for knowledge bases and agents.
	ResourcePrefix = "eva_"
)

const maxCollectionNameLen = 32

func CollectionName(suffix string) string {
	name := CollectionPrefix + "-collection-" + suffix
	if maxCollectionNameLen < len(name) {
		name = name[:maxCollectionNameLen]
	}
	return name
}

func EncryptionPolicyName(suffix string) string {
	return CollectionPrefix + "-encryption-policy-" + suffix
}

func NetworkPolicyName(suffix string) string {
	return CollectionPrefix + "-network-policy-" + suffix
}

func AccessPolicyName(suffix string) string {
	return CollectionPrefix + "-access-policy-" + suffix
}

// PermissionPolicyName names the inline policy upserted on the
// execution role.
func PermissionPolicyName(suffix string) string {
	return CollectionPrefix + "-permission-policy-" + suffix
}

func IndexName(area string, suffix string) string {
	return CollectionPrefix + "-" + strings.ReplaceAll(area, "_", "-") + "-index-" + suffix
}

func KnowledgeBaseName(area string, suffix string) string {
	return ResourcePrefix + area + "_kb_" + suffix
}

func AgentName(area string, suffix string) string {
	return ResourcePrefix + area + "_" + suffix
}

func AliasName(agentName string) string {
	return agentName + "_alias"
}

// DataSourceName builds a data source name from the deployment suffix
// and a content folder, sanitized to the allowed character set.
func DataSourceName(suffix string, folder string) string {
	return SanitizeResourceName("ds_" + suffix + "_" + strings.ReplaceAll(folder, "/", "_"))
}

// SanitizeResourceName replaces characters outside [A-Za-z0-9_-] with
// underscores and prefixes the result when it would not start with an
// alphanumeric.
func SanitizeResourceName(name string) string {
	var b strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	valid := b.String()
	if valid != "" {
		if c := rune(valid[0]); !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			valid = "ds" + valid
		}
	}
	return valid
}

// AreaOfFolder maps a content folder to its area key.
// The IT helpdesk content lives under "it_help_desk" (and uploads under
// "it_helpdesk") but its knowledge base is keyed "helpdesk".
func AreaOfFolder(folder string) string {
	area := strings.ToLower(folder)
	area = area[strings.LastIndex(area, "/")+1:]
	switch area {
	case "it_help_desk", "it_helpdesk":
		return "helpdesk"
	}
	return area
}
