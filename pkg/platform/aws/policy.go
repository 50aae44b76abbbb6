package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/opsberry/deskfab/pkg/platform"
)

type PolicyService struct {
	client *iam.Client
}

func NewPolicyService(cfg aws.Config) *PolicyService {
	return &PolicyService{client: iam.NewFromConfig(cfg)}
}

var _ platform.PolicyService = &PolicyService{}

func (p *PolicyService) GetRole(ctx context.Context, roleName string) (platform.Role, error) {
	out, err := p.client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		return platform.Role{}, classify("get role", roleName, err)
	}

	trust, err := parseTrustDocument(aws.ToString(out.Role.AssumeRolePolicyDocument))
	if err != nil {
		return platform.Role{}, fmt.Errorf("trust policy of %s: %w", roleName, err)
	}

	return platform.Role{
		Name:  roleName,
		Arn:   aws.ToString(out.Role.Arn),
		Trust: trust,
	}, nil
}

func (p *PolicyService) UpdateTrustPolicy(ctx context.Context, roleName string, policy platform.TrustPolicy) error {
	doc, err := json.Marshal(renderTrustDocument(policy))
	if err != nil {
		return err
	}
	_, err = p.client.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyDocument: aws.String(string(doc)),
	})
	return classify("update trust policy", roleName, err)
}

func (p *PolicyService) GetRolePolicy(ctx context.Context, roleName string, policyName string) (string, error) {
	out, err := p.client.GetRolePolicy(ctx, &iam.GetRolePolicyInput{
		RoleName:   aws.String(roleName),
		PolicyName: aws.String(policyName),
	})
	if err != nil {
		return "", classify("get role policy", policyName, err)
	}

	// IAM hands documents back URL-encoded.
	doc, err := url.QueryUnescape(aws.ToString(out.PolicyDocument))
	if err != nil {
		return "", fmt.Errorf("policy document of %s: %w", policyName, err)
	}
	return doc, nil
}

func (p *PolicyService) PutRolePolicy(ctx context.Context, roleName string, policyName string, document string) error {
	_, err := p.client.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       aws.String(roleName),
		PolicyName:     aws.String(policyName),
		PolicyDocument: aws.String(document),
	})
	return classify("put role policy", policyName, err)
}

// stringList tolerates the policy grammar's "string or array" values.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = stringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = stringList(many)
	return nil
}

func (s stringList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

type trustPrincipal struct {
	Service stringList `json:"Service,omitempty"`
}

type trustStatement struct {
	Effect    string         `json:"Effect"`
	Principal trustPrincipal `json:"Principal"`
	Action    stringList     `json:"Action"`
}

type trustDocument struct {
	Version   string           `json:"Version"`
	Statement []trustStatement `json:"Statement"`
}

func parseTrustDocument(escaped string) (platform.TrustPolicy, error) {
	raw, err := url.QueryUnescape(escaped)
	if err != nil {
		return platform.TrustPolicy{}, err
	}

	doc := trustDocument{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return platform.TrustPolicy{}, err
	}

	policy := platform.TrustPolicy{}
	for _, st := range doc.Statement {
		action := ""
		if len(st.Action) != 0 {
			action = st.Action[0]
		}
		policy.Statements = append(policy.Statements, platform.TrustStatement{
			Effect:   st.Effect,
			Services: st.Principal.Service,
			Action:   action,
		})
	}
	return policy, nil
}

func renderTrustDocument(policy platform.TrustPolicy) trustDocument {
	doc := trustDocument{Version: "2012-10-17"}
	for _, st := range policy.Statements {
		doc.Statement = append(doc.Statement, trustStatement{
			Effect:    st.Effect,
			Principal: trustPrincipal{Service: stringList(st.Services)},
			Action:    stringList{st.Action},
		})
	}
	return doc
}
