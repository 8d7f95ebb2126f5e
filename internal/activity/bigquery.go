package activity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// BigQueryRecorder streams entries into a BigQuery table for reporting.
type BigQueryRecorder struct {
	client *bigquery.Client
	table  *bigquery.Table
}

func NewBigQueryRecorder(ctx context.Context, projectID, credentialsFile, dataset, table string) (*BigQueryRecorder, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	return &BigQueryRecorder{
		client: client,
		table:  client.Dataset(dataset).Table(table),
	}, nil
}

// EnsureTable creates the activity table from the Entry schema when it does
// not exist yet.
func (b *BigQueryRecorder) EnsureTable(ctx context.Context) error {
	_, err := b.table.Metadata(ctx)
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusNotFound {
		return fmt.Errorf("table metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(Entry{})
	if err != nil {
		return fmt.Errorf("infer schema: %w", err)
	}
	if err := b.table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	log.Info().Str("table", b.table.FullyQualifiedName()).Msg("activity table created")
	return nil
}

func (b *BigQueryRecorder) Record(ctx context.Context, e Entry) error {
	if err := b.table.Inserter().Put(ctx, &e); err != nil {
		return fmt.Errorf("insert activity row: %w", err)
	}
	return nil
}

// Close releases the BigQuery client.
func (b *BigQueryRecorder) Close() error {
	return b.client.Close()
}

// TestConnection reads the activity table metadata.
func (b *BigQueryRecorder) TestConnection(ctx context.Context) error {
	if _, err := b.table.Metadata(ctx); err != nil {
		return fmt.Errorf("table metadata: %w", err)
	}
	return nil
}
