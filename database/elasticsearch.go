package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ConnectElasticsearch builds a client for the denormalized store index and
// pings it. The index path is optional; when this fails the server runs
// relational-only.
func ConnectElasticsearch() (*elasticsearch.Client, error) {
	url := os.Getenv("ELASTICSEARCH_URL")
	if url == "" {
		url = "http://localhost:9200"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{url},
	}
	if username := os.Getenv("ELASTICSEARCH_USERNAME"); username != "" {
		cfg.Username = username
		cfg.Password = os.Getenv("ELASTICSEARCH_PASSWORD")
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return client, nil
}
