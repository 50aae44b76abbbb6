package mocks

import (
	"context"
	"errors"

	"github.com/opsberry/deskfab/pkg/platform"
)

type PolicyService struct {
	Impl struct {
		GetRole           func(context.Context, string) (platform.Role, error)
		UpdateTrustPolicy func(context.Context, string, platform.TrustPolicy) error
		GetRolePolicy     func(context.Context, string, string) (string, error)
		PutRolePolicy     func(context.Context, string, string, string) error
	}
	Calls struct {
		GetRole           CallLog[struct{ RoleName string }]
		UpdateTrustPolicy CallLog[struct {
			RoleName string
			Policy   platform.TrustPolicy
		}]
		GetRolePolicy CallLog[struct {
			RoleName   string
			PolicyName string
		}]
		PutRolePolicy CallLog[struct {
			RoleName   string
			PolicyName string
			Document   string
		}]
	}
}

func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

var _ platform.PolicyService = &PolicyService{}

func (m *PolicyService) GetRole(ctx context.Context, roleName string) (platform.Role, error) {
	m.Calls.GetRole = append(m.Calls.GetRole, struct{ RoleName string }{RoleName: roleName})
	if m.Impl.GetRole != nil {
		return m.Impl.GetRole(ctx, roleName)
	}
	panic(errors.New("it should not be called"))
}

func (m *PolicyService) UpdateTrustPolicy(ctx context.Context, roleName string, policy platform.TrustPolicy) error {
	m.Calls.UpdateTrustPolicy = append(m.Calls.UpdateTrustPolicy, struct {
		RoleName string
		Policy   platform.TrustPolicy
	}{RoleName: roleName, Policy: policy})
	if m.Impl.UpdateTrustPolicy != nil {
		return m.Impl.UpdateTrustPolicy(ctx, roleName, policy)
	}
	panic(errors.New("it should not be called"))
}

func (m *PolicyService) GetRolePolicy(ctx context.Context, roleName string, policyName string) (string, error) {
	m.Calls.GetRolePolicy = append(m.Calls.GetRolePolicy, struct {
		RoleName   string
		PolicyName string
	}{RoleName: roleName, PolicyName: policyName})
	if m.Impl.GetRolePolicy != nil {
		return m.Impl.GetRolePolicy(ctx, roleName, policyName)
	}
	panic(errors.New("it should not be called"))
}

func (m *PolicyService) PutRolePolicy(ctx context.Context, roleName string, policyName string, document string) error {
	m.Calls.PutRolePolicy = append(m.Calls.PutRolePolicy, struct {
		RoleName   string
		PolicyName string
		Document   string
	}{RoleName: roleName, PolicyName: policyName, Document: document})
	if m.Impl.PutRolePolicy != nil {
		return m.Impl.PutRolePolicy(ctx, roleName, policyName, document)
	}
	panic(errors.New("it should not be called"))
}
