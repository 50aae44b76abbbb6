package aws

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/opsberry/deskfab/pkg/platform"
)

// IndexService creates vector indexes by signed requests against the
// collection's data plane. There is no control-plane API for this.
type IndexService struct {
	region      string
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	httpClient  *http.Client
}

func NewIndexService(cfg aws.Config) *IndexService {
	return &IndexService{
		region:      cfg.Region,
		credentials: cfg.Credentials,
		signer:      v4.NewSigner(),
		httpClient:  http.DefaultClient,
	}
}

var _ platform.IndexService = &IndexService{}

func (i *IndexService) CreateIndex(ctx context.Context, host string, name string, schema platform.IndexSchema) error {
	body, err := json.Marshal(indexBody(schema))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, "https://"+host+"/"+name, bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	creds, err := i.credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("sign create index: %w", err)
	}
	hash := sha256.Sum256(body)
	if err := i.signer.SignHTTP(
		ctx, creds, req, hex.EncodeToString(hash[:]), "aoss", i.region, time.Now(),
	); err != nil {
		return fmt.Errorf("sign create index: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return classify("create index", name, err)
	}
	defer resp.Body.Close()

	if 200 <= resp.StatusCode && resp.StatusCode < 300 {
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return classify(
		"create index", name,
		fmt.Errorf("status %d: %s", resp.StatusCode, string(detail)),
	)
}

func indexBody(schema platform.IndexSchema) map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"index": map[string]any{"knn": true},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				schema.VectorField: map[string]any{
					"type":      "knn_vector",
					"dimension": schema.Dimension,
					"method": map[string]any{
						"name":       schema.Method,
						"engine":     schema.Engine,
						"space_type": schema.SpaceType,
					},
				},
				schema.TextField: map[string]any{"type": "text"},
				schema.MetadataField: map[string]any{
					"type": "text", "index": false,
				},
			},
		},
	}
}
