package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/opensearchserverless"
	"github.com/aws/aws-sdk-go-v2/service/opensearchserverless/types"
	"github.com/opsberry/deskfab/pkg/domain"
	"github.com/opsberry/deskfab/pkg/platform"
)

type CollectionService struct {
	client *opensearchserverless.Client
}

func NewCollectionService(cfg aws.Config) *CollectionService {
	return &CollectionService{client: opensearchserverless.NewFromConfig(cfg)}
}

var _ platform.CollectionService = &CollectionService{}

func (c *CollectionService) CreateSecurityPolicy(ctx context.Context, name string, typ platform.SecurityPolicyType, policy string) error {
	_, err := c.client.CreateSecurityPolicy(ctx, &opensearchserverless.CreateSecurityPolicyInput{
		Name:   aws.String(name),
		Type:   types.SecurityPolicyType(typ),
		Policy: aws.String(policy),
	})
	return classify("create security policy", name, err)
}

func (c *CollectionService) CreateAccessPolicy(ctx context.Context, name string, policy string) error {
	_, err := c.client.CreateAccessPolicy(ctx, &opensearchserverless.CreateAccessPolicyInput{
		Name:   aws.String(name),
		Type:   types.AccessPolicyTypeData,
		Policy: aws.String(policy),
	})
	return classify("create access policy", name, err)
}

func (c *CollectionService) BatchGetCollection(ctx context.Context, names []string) ([]platform.CollectionDetail, error) {
	out, err := c.client.BatchGetCollection(ctx, &opensearchserverless.BatchGetCollectionInput{
		Names: names,
	})
	if err != nil {
		return nil, classify("batch get collection", "", err)
	}

	details := []platform.CollectionDetail{}
	for _, d := range out.CollectionDetails {
		details = append(details, platform.CollectionDetail{
			Id:     aws.ToString(d.Id),
			Name:   aws.ToString(d.Name),
			Arn:    aws.ToString(d.Arn),
			Status: domain.CollectionStatus(d.Status),
		})
	}
	return details, nil
}

func (c *CollectionService) CreateCollection(ctx context.Context, name string) (platform.CollectionDetail, error) {
	out, err := c.client.CreateCollection(ctx, &opensearchserverless.CreateCollectionInput{
		Name: aws.String(name),
		Type: types.CollectionTypeVectorsearch,
	})
	if err != nil {
		return platform.CollectionDetail{}, classify("create collection", name, err)
	}

	d := out.CreateCollectionDetail
	return platform.CollectionDetail{
		Id:     aws.ToString(d.Id),
		Name:   aws.ToString(d.Name),
		Arn:    aws.ToString(d.Arn),
		Status: domain.CollectionStatus(d.Status),
	}, nil
}
