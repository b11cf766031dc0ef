package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/takatori/icoads/internal"
	"github.com/takatori/icoads/internal/infra"
	"github.com/takatori/icoads/internal/search"
	"github.com/takatori/icoads/internal/search/solr"
)

type fakeSearcher struct {
	queries []string
	result  json.RawMessage
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, query string) (json.RawMessage, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

type fakeInstaller struct {
	calls int
	err   error
}

func (f *fakeInstaller) SetupSchema(context.Context) error {
	f.calls++
	return f.err
}

func serve(t *testing.T, searcher *fakeSearcher, installer *fakeInstaller, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := newServer(searcher, installer, search.DefaultFacetConfig())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeSearcher{}, &fakeInstaller{}, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expected string
	}{
		{
			name:     "defaults",
			target:   "/search",
			expected: "q=*:*&wt=json&start=0&rows=10",
		},
		{
			name:     "pagination",
			target:   "/search?startIndex=30&itemsPerPage=15",
			expected: "q=*:*&wt=json&start=30&rows=15",
		},
		{
			name:     "repeated platform becomes a list",
			target:   "/search?platform=A&platform=B",
			expected: "q=*:*&wt=json&start=0&rows=10&fq=pcode:(A+OR+B)",
		},
		{
			name:     "canonical key order",
			target:   "/search?qualityFlag=2&variable=sst&keyword=ship",
			expected: "q=ship&wt=json&start=0&rows=10&fq=sst:[*%20TO%20*]+AND+(sst_quality:(2))",
		},
		{
			name:     "repeated keyword uses the first value",
			target:   "/search?keyword=a&keyword=b",
			expected: "q=a&wt=json&start=0&rows=10",
		},
		{
			name:     "facet",
			target:   "/search?facet=true",
			expected: "q=*:*&wt=json&start=0&rows=10&facet=true&facet.field=pcode&facet.field=device&facet.limit=-1&facet.mincount=1",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			searcher := &fakeSearcher{result: json.RawMessage(`{"response":{"numFound":0}}`)}
			rec := serve(t, searcher, &fakeInstaller{}, http.MethodGet, test.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"response":{"numFound":0}}`, rec.Body.String())
			assert.Equal(t, []string{test.expected}, searcher.queries)
		})
	}
}

func TestSearchBadRequest(t *testing.T) {
	targets := []string{
		"/search?startIndex=-1",
		"/search?itemsPerPage=0",
		"/search?itemsPerPage=abc",
		"/search?bbox=1,2,3",
		"/search?minDepth=deep",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			searcher := &fakeSearcher{}
			rec := serve(t, searcher, &fakeInstaller{}, http.MethodGet, target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, searcher.queries)
		})
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	searcher := &fakeSearcher{err: fmt.Errorf("connection refused")}
	rec := serve(t, searcher, &fakeInstaller{}, http.MethodGet, "/search")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSetupSchema(t *testing.T) {
	installer := &fakeInstaller{}
	rec := serve(t, &fakeSearcher{}, installer, http.MethodPost, "/solr/schema")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, installer.calls)

	installer = &fakeInstaller{err: fmt.Errorf("boom")}
	rec = serve(t, &fakeSearcher{}, installer, http.MethodPost, "/solr/schema")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSolrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	config := &internal.Config{SolrUrl: srv.URL, SolrCollection: "icoads"}
	searcher := solr.NewSolrSearcherWithClient(config, infra.NewHttpClient(time.Second))
	e := newServer(searcher, searcher, search.DefaultFacetConfig())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?platform=ABC", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to query Solr"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/solr/schema", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to update schema"}`, rec.Body.String())
}
