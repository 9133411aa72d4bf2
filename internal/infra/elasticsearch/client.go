// Package elasticsearch wraps the official v8 client behind the small
// document-store surface the search backend needs.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"product-catalog-service/internal/config"
)

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// Client talks to a single products index.
type Client struct {
	es     *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewClient builds the v8 client and ensures the products index exists.
// Index creation failure is not fatal: the cluster may be down at boot
// and the caller degrades to the fallback backend anyway.
func NewClient(cfg config.ElasticsearchConfig, logger *zap.Logger) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	c := &Client{
		es:     es,
		index:  cfg.Index,
		logger: logger,
	}

	if err := c.ensureIndex(context.Background()); err != nil {
		logger.Warn("could not ensure products index, continuing degraded", zap.Error(err))
	}

	return c, nil
}

// indexMapping defines the products index. Categories are nested so
// term filters on categories.id match per-category, and the identifier
// fields carry keyword sub-fields for exact filtering.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "integer"},
      "name":        {"type": "text"},
      "inn":         {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "barcode":     {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description": {"type": "text"},
      "categories": {
        "properties": {
          "id":   {"type": "integer"},
          "name": {"type": "text", "fields": {"keyword": {"type": "keyword"}}}
        }
      }
    }
  }
}`

func (c *Client) ensureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("create index: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Info("created products index", zap.String("index", c.index))

	return nil
}

// Ping reports whether the cluster answers.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer func() { _ = res.Body.Close() }()

	return !res.IsError()
}

// Search runs the given query DSL body and returns the raw response.
func (c *Client) Search(ctx context.Context, body []byte) ([]byte, error) {
	res, err := c.es.Search(
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search: %s", c.errorReason(res.Body, res.Status()))
	}

	return io.ReadAll(res.Body)
}

// Get fetches a document by id. The second return is false when the
// document does not exist.
func (c *Client) Get(ctx context.Context, id string) ([]byte, bool, error) {
	res, err := c.es.Get(c.index, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, false, fmt.Errorf("elasticsearch get: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return nil, false, nil
	}
	if res.IsError() {
		return nil, false, fmt.Errorf("elasticsearch get: %s", c.errorReason(res.Body, res.Status()))
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false, fmt.Errorf("elasticsearch get: read response: %w", err)
	}

	return raw, true, nil
}

// Index stores the document under the given id, replacing any previous
// version.
func (c *Client) Index(ctx context.Context, id string, doc []byte) error {
	res, err := c.es.Index(
		c.index,
		bytes.NewReader(doc),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Debug("indexed document", zap.String("id", id))

	return nil
}

// Delete removes a document. A 404 is not an error, the document may
// never have been indexed.
func (c *Client) Delete(ctx context.Context, id string) error {
	res, err := c.es.Delete(c.index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch delete: %s", c.errorReason(res.Body, res.Status()))
	}

	c.logger.Debug("deleted document", zap.String("id", id))

	return nil
}

func (c *Client) errorReason(body io.Reader, status string) string {
	var errResp esErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Error.Type != "" {
		return fmt.Sprintf("%s: %s", errResp.Error.Type, errResp.Error.Reason)
	}

	return fmt.Sprintf("unexpected status %s", status)
}
