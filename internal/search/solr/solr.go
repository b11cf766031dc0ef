package solr

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/takatori/icoads/internal"
	"github.com/takatori/icoads/internal/infra"
)

type SolrSearcher struct {
	config     *internal.Config
	httpClient *infra.HttpClient
}

// NewSolrSearcher creates a new SolrSearcher with the given config
// and initializes the HTTP client
func NewSolrSearcher(config *internal.Config) *SolrSearcher {
	return &SolrSearcher{
		config:     config,
		httpClient: infra.NewHttpClient(config.SolrTimeout),
	}
}

// NewSolrSearcherWithClient creates a new SolrSearcher with the given config
// and HTTP client
func NewSolrSearcherWithClient(config *internal.Config, httpClient *infra.HttpClient) *SolrSearcher {
	return &SolrSearcher{
		config:     config,
		httpClient: httpClient,
	}
}

func (s *SolrSearcher) collection() string {
	if s.config.SolrCollection == "" {
		return "icoads"
	}
	return s.config.SolrCollection
}

// Search sends a translated query to the select handler and returns the
// response body untouched.
func (s *SolrSearcher) Search(ctx context.Context, query string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s/select?%s", s.config.SolrUrl, s.collection(), query)

	var raw json.RawMessage
	err := s.httpClient.Get(ctx, infra.Request{Url: url}, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to send select request: %w", err)
	}
	return raw, nil
}
