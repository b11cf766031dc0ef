package solr

import (
	"context"
	"fmt"

	"github.com/takatori/icoads/internal/infra"
)

// SchemaField is a field definition for the Solr Schema API.
type SchemaField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Stored      bool   `json:"stored"`
	Indexed     bool   `json:"indexed"`
	MultiValued bool   `json:"multiValued"`
}

var variables = []string{"sst", "sss", "wind"}

// SchemaFields returns the fields that translated queries filter, facet
// and compute stats on.
func SchemaFields() []SchemaField {
	fields := []SchemaField{
		{Name: "time", Type: "pdate", Stored: true, Indexed: true},
		{Name: "loc", Type: "location", Stored: true, Indexed: true},
		{Name: "depth", Type: "pdouble", Stored: true, Indexed: true},
		{Name: "pcode", Type: "string", Stored: true, Indexed: true},
		{Name: "device", Type: "string", Stored: true, Indexed: true},
	}
	for _, v := range variables {
		fields = append(fields,
			SchemaField{Name: v, Type: "pdouble", Stored: true, Indexed: true},
			SchemaField{Name: v + "_quality", Type: "pint", Stored: true, Indexed: true},
			SchemaField{Name: v + "_depth", Type: "pdouble", Stored: true, Indexed: true},
		)
	}
	return fields
}

// SetupSchema adds SchemaFields to the configured collection.
func (s *SolrSearcher) SetupSchema(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s/schema", s.config.SolrUrl, s.collection())

	var solrResp map[string]interface{}
	err := s.httpClient.Post(
		ctx,
		infra.PostRequest{
			Request: infra.Request{Url: url},
			Entity: map[string]interface{}{
				"add-field": SchemaFields(),
			},
		},
		&solrResp,
	)
	if err != nil {
		return fmt.Errorf("failed to update schema: %w", err)
	}
	return nil
}
