package mocks

import (
	"context"
	"errors"

	"github.com/opsberry/deskfab/pkg/platform"
)

type CollectionService struct {
	Impl struct {
		CreateSecurityPolicy func(context.Context, string, platform.SecurityPolicyType, string) error
		CreateAccessPolicy   func(context.Context, string, string) error
		BatchGetCollection   func(context.Context, []string) ([]platform.CollectionDetail, error)
		CreateCollection     func(context.Context, string) (platform.CollectionDetail, error)
	}
	Calls struct {
		CreateSecurityPolicy CallLog[struct {
			Name   string
			Type   platform.SecurityPolicyType
			Policy string
		}]
		CreateAccessPolicy CallLog[struct {
			Name   string
			Policy string
		}]
		BatchGetCollection CallLog[struct{ Names []string }]
		CreateCollection   CallLog[struct{ Name string }]
	}
}

func NewCollectionService() *CollectionService {
	return &CollectionService{}
}

var _ platform.CollectionService = &CollectionService{}

func (m *CollectionService) CreateSecurityPolicy(ctx context.Context, name string, typ platform.SecurityPolicyType, policy string) error {
	m.Calls.CreateSecurityPolicy = append(m.Calls.CreateSecurityPolicy, struct {
		Name   string
		Type   platform.SecurityPolicyType
		Policy string
	}{Name: name, Type: typ, Policy: policy})
	if m.Impl.CreateSecurityPolicy != nil {
		return m.Impl.CreateSecurityPolicy(ctx, name, typ, policy)
	}
	panic(errors.New("it should not be called"))
}

func (m *CollectionService) CreateAccessPolicy(ctx context.Context, name string, policy string) error {
	m.Calls.CreateAccessPolicy = append(m.Calls.CreateAccessPolicy, struct {
		Name   string
		Policy string
	}{Name: name, Policy: policy})
	if m.Impl.CreateAccessPolicy != nil {
		return m.Impl.CreateAccessPolicy(ctx, name, policy)
	}
	panic(errors.New("it should not be called"))
}

func (m *CollectionService) BatchGetCollection(ctx context.Context, names []string) ([]platform.CollectionDetail, error) {
	m.Calls.BatchGetCollection = append(m.Calls.BatchGetCollection, struct{ Names []string }{Names: names})
	if m.Impl.BatchGetCollection != nil {
		return m.Impl.BatchGetCollection(ctx, names)
	}
	panic(errors.New("it should not be called"))
}

func (m *CollectionService) CreateCollection(ctx context.Context, name string) (platform.CollectionDetail, error) {
	m.Calls.CreateCollection = append(m.Calls.CreateCollection, struct{ Name string }{Name: name})
	if m.Impl.CreateCollection != nil {
		return m.Impl.CreateCollection(ctx, name)
	}
	panic(errors.New("it should not be called"))
}

type IndexService struct {
	Impl struct {
		CreateIndex func(context.Context, string, string, platform.IndexSchema) error
	}
	Calls struct {
		CreateIndex CallLog[struct {
			Host   string
			Name   string
			Schema platform.IndexSchema
		}]
	}
}

func NewIndexService() *IndexService {
	return &IndexService{}
}

var _ platform.IndexService = &IndexService{}

func (m *IndexService) CreateIndex(ctx context.Context, host string, name string, schema platform.IndexSchema) error {
	m.Calls.CreateIndex = append(m.Calls.CreateIndex, struct {
		Host   string
		Name   string
		Schema platform.IndexSchema
	}{Host: host, Name: name, Schema: schema})
	if m.Impl.CreateIndex != nil {
		return m.Impl.CreateIndex(ctx, host, name, schema)
	}
	panic(errors.New("it should not be called"))
}
