package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchConfig addresses the cluster receiving activity documents.
type ElasticsearchConfig struct {
	Scheme     string
	Host       string
	Port       int
	User       string
	Password   string
	MaxRetries int
	Index      string
}

// ElasticsearchRecorder indexes each entry as a document keyed by its ID.
type ElasticsearchRecorder struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchRecorder(cfg ElasticsearchConfig) (*ElasticsearchRecorder, error) {
	esCfg := elasticsearch.Config{
		Addresses:  []string{fmt.Sprintf("%s://%s:%d", cfg.Scheme, cfg.Host, cfg.Port)},
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.User != "" {
		esCfg.Username = cfg.User
		esCfg.Password = cfg.Password
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &ElasticsearchRecorder{client: client, index: cfg.Index}, nil
}

func (r *ElasticsearchRecorder) Record(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(e.ID),
	)
	if err != nil {
		return fmt.Errorf("index activity: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index activity: %s", res.Status())
	}
	return nil
}

// TestConnection pings the cluster.
func (r *ElasticsearchRecorder) TestConnection(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.Status())
	}
	return nil
}
