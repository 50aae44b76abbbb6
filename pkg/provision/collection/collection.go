// Package collection brings up the vector-search collection every
// knowledge base indexes into, together with the policies giving the
// execution role access to it.
//
// Every step is idempotent: a second run finds what the first one made
// and moves on. "Already exists" answers are successes here.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"reflect"

	cfgs "github.com/opsberry/deskfab/pkg/configs/provision"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/loop/poll"
	"github.com/opsberry/deskfab/pkg/platform"
)

const bedrockService = "bedrock.amazonaws.com"

type Deps struct {
	Policy      platform.PolicyService
	Collections platform.CollectionService
}

// Ensure makes the collection and its policies exist and be usable.
//
// The returned Collection carries the data-plane host the index
// provisioner needs.
func Ensure(ctx context.Context, logger *log.Logger, deps Deps, conf *cfgs.ProvisionConfig) (domain.Collection, error) {
	if err := ensureRoleTrust(ctx, logger, deps.Policy, conf); err != nil {
		return domain.Collection{}, err
	}
	if err := ensureRolePermissions(ctx, logger, deps.Policy, conf); err != nil {
		return domain.Collection{}, err
	}
	if err := ensurePolicies(ctx, logger, deps.Collections, conf); err != nil {
		return domain.Collection{}, err
	}
	return ensureCollection(ctx, logger, deps.Collections, conf)
}

// ensureRoleTrust repairs the execution role's trust policy when it
// does not let the agent service assume the role.
func ensureRoleTrust(ctx context.Context, logger *log.Logger, policy platform.PolicyService, conf *cfgs.ProvisionConfig) error {
	role, err := policy.GetRole(ctx, conf.RoleName())
	if err != nil {
		return fmt.Errorf("get role %s: %w", conf.RoleName(), err)
	}
	if role.Trust.AllowsService(bedrockService) {
		return nil
	}

	logger.Printf("role %s does not trust %s. repairing", role.Name, bedrockService)
	trust := role.Trust
	trust.Statements = append(trust.Statements, platform.TrustStatement{
		Effect:   "Allow",
		Services: []string{bedrockService},
		Action:   "sts:AssumeRole",
	})
	if err := policy.UpdateTrustPolicy(ctx, role.Name, trust); err != nil {
		return fmt.Errorf("update trust policy of %s: %w", role.Name, err)
	}

	// trust changes propagate without a readiness signal
	return poll.Settle(ctx, conf.Settle.Role)
}

type permissionStatement struct {
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

type permissionDocument struct {
	Version   string                `json:"Version"`
	Statement []permissionStatement `json:"Statement"`
}

func desiredPermissions(conf *cfgs.ProvisionConfig) permissionDocument {
	return permissionDocument{
		Version: "2012-10-17",
		Statement: []permissionStatement{
			{
				Effect: "Allow",
				Action: []string{"aoss:APIAccessAll"},
				Resource: []string{
					fmt.Sprintf("arn:aws:aoss:%s:%s:collection/*", conf.Region, conf.AccountId),
				},
			},
			{
				Effect:   "Allow",
				Action:   []string{"bedrock:InvokeModel"},
				Resource: []string{"*"},
			},
			{
				Effect: "Allow",
				Action: []string{"s3:GetObject", "s3:ListBucket"},
				Resource: []string{
					"arn:aws:s3:::" + conf.Bucket,
					"arn:aws:s3:::" + conf.Bucket + "/*",
				},
			},
		},
	}
}

// ensureRolePermissions upserts the inline policy giving the execution
// role access to the collection, the models and the document bucket.
func ensureRolePermissions(ctx context.Context, logger *log.Logger, policy platform.PolicyService, conf *cfgs.ProvisionConfig) error {
	policyName := domain.PermissionPolicyName(conf.Suffix)
	desired, err := json.Marshal(desiredPermissions(conf))
	if err != nil {
		return err
	}

	current, err := policy.GetRolePolicy(ctx, conf.RoleName(), policyName)
	switch {
	case err == nil:
		if sameDocument(current, string(desired)) {
			return nil
		}
	case platform.IsNotFound(err):
		// first run
	default:
		return fmt.Errorf("get role policy %s: %w", policyName, err)
	}

	logger.Printf("upserting role policy %s on %s", policyName, conf.RoleName())
	if err := policy.PutRolePolicy(ctx, conf.RoleName(), policyName, string(desired)); err != nil {
		return fmt.Errorf("put role policy %s: %w", policyName, err)
	}
	return poll.Settle(ctx, conf.Settle.Policy)
}

// sameDocument compares two JSON documents structurally.
func sameDocument(a string, b string) bool {
	var va, vb any
	if err := json.Unmarshal([]byte(a), &va); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b), &vb); err != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

type accessRule struct {
	ResourceType string   `json:"ResourceType"`
	Resource     []string `json:"Resource"`
	Permission   []string `json:"Permission,omitempty"`
}

// ensurePolicies creates the encryption, network and data-access
// policies scoped to the collection.
func ensurePolicies(ctx context.Context, logger *log.Logger, collections platform.CollectionService, conf *cfgs.ProvisionConfig) error {
	name := domain.CollectionName(conf.Suffix)

	encryption, err := json.Marshal(map[string]any{
		"Rules": []accessRule{
			{ResourceType: "collection", Resource: []string{"collection/" + name}},
		},
		"AWSOwnedKey": true,
	})
	if err != nil {
		return err
	}
	if err := createTolerantly(
		logger, "encryption policy",
		collections.CreateSecurityPolicy(
			ctx, domain.EncryptionPolicyName(conf.Suffix),
			platform.SecurityPolicyEncryption, string(encryption),
		),
	); err != nil {
		return err
	}

	network, err := json.Marshal([]map[string]any{{
		"Rules": []accessRule{
			{ResourceType: "collection", Resource: []string{"collection/" + name}},
			{ResourceType: "dashboard", Resource: []string{"collection/" + name}},
		},
		"AllowFromPublic": true,
	}})
	if err != nil {
		return err
	}
	if err := createTolerantly(
		logger, "network policy",
		collections.CreateSecurityPolicy(
			ctx, domain.NetworkPolicyName(conf.Suffix),
			platform.SecurityPolicyNetwork, string(network),
		),
	); err != nil {
		return err
	}

	access, err := json.Marshal([]map[string]any{{
		"Rules": []accessRule{
			{
				ResourceType: "collection",
				Resource:     []string{"collection/" + name},
				Permission:   []string{"aoss:*"},
			},
			{
				ResourceType: "index",
				Resource:     []string{"index/" + name + "/*"},
				Permission:   []string{"aoss:*"},
			},
		},
		"Principal": []string{
			"arn:aws:iam::" + conf.AccountId + ":root",
			conf.RoleArn,
		},
	}})
	if err != nil {
		return err
	}
	return createTolerantly(
		logger, "access policy",
		collections.CreateAccessPolicy(
			ctx, domain.AccessPolicyName(conf.Suffix), string(access),
		),
	)
}

// createTolerantly treats "already exists" as success.
func createTolerantly(logger *log.Logger, what string, err error) error {
	if err == nil {
		return nil
	}
	if platform.IsConflict(err) {
		logger.Printf("%s already exists. continue", what)
		return nil
	}
	return fmt.Errorf("create %s: %w", what, err)
}

func ensureCollection(ctx context.Context, logger *log.Logger, collections platform.CollectionService, conf *cfgs.ProvisionConfig) (domain.Collection, error) {
	name := domain.CollectionName(conf.Suffix)

	detail, found, err := getCollection(ctx, collections, name)
	if err != nil {
		return domain.Collection{}, err
	}
	if !found {
		logger.Printf("creating collection %s", name)
		created, err := collections.CreateCollection(ctx, name)
		if err != nil && !platform.IsConflict(err) {
			return domain.Collection{}, fmt.Errorf("create collection %s: %w", name, err)
		}
		if err == nil {
			detail = created
		} else if detail, found, err = getCollection(ctx, collections, name); err != nil || !found {
			return domain.Collection{}, fmt.Errorf("collection %s exists but cannot be read: %w", name, err)
		}
	}

	detail, err = poll.WaitFor(ctx, conf.Polling.Collection, func(ctx context.Context) (platform.CollectionDetail, bool, error) {
		d, found, err := getCollection(ctx, collections, name)
		if err != nil {
			return d, false, err
		}
		if !found {
			return d, false, fmt.Errorf("collection %s disappeared while creating", name)
		}
		if d.Status.Transitional() {
			logger.Printf("collection %s is %s. waiting", name, d.Status)
			return d, false, nil
		}
		return d, true, nil
	})
	if err != nil {
		return domain.Collection{}, fmt.Errorf("wait for collection %s: %w", name, err)
	}
	if detail.Status != domain.CollectionActive {
		return domain.Collection{}, fmt.Errorf("collection %s ended up %s", name, detail.Status)
	}

	if err := poll.Settle(ctx, conf.Settle.Collection); err != nil {
		return domain.Collection{}, err
	}

	return domain.Collection{
		Name: detail.Name,
		Id:   detail.Id,
		Arn:  detail.Arn,
		Host: fmt.Sprintf("%s.%s.aoss.amazonaws.com", detail.Id, conf.Region),
	}, nil
}

func getCollection(ctx context.Context, collections platform.CollectionService, name string) (platform.CollectionDetail, bool, error) {
	details, err := collections.BatchGetCollection(ctx, []string{name})
	if err != nil {
		return platform.CollectionDetail{}, false, fmt.Errorf("get collection %s: %w", name, err)
	}
	for _, d := range details {
		if d.Name == name {
			return d, true, nil
		}
	}
	return platform.CollectionDetail{}, false, nil
}
