package search

import (
	"context"
	"encoding/json"
	"slices"
)

// Recognized parameter keys.
const (
	KeyKeyword     = "keyword"
	KeyStartTime   = "startTime"
	KeyEndTime     = "endTime"
	KeyBBox        = "bbox"
	KeyVariable    = "variable"
	KeyMinDepth    = "minDepth"
	KeyMaxDepth    = "maxDepth"
	KeyQualityFlag = "qualityFlag"
	KeyPlatform    = "platform"
	KeyStats       = "stats"
	KeyFacet       = "facet"
)

// Keys lists the recognized parameter keys in their canonical order.
var Keys = []string{
	KeyKeyword,
	KeyStartTime,
	KeyEndTime,
	KeyBBox,
	KeyVariable,
	KeyMinDepth,
	KeyMaxDepth,
	KeyQualityFlag,
	KeyPlatform,
	KeyStats,
	KeyFacet,
}

// Value is a parameter value: either a single string or a list of strings.
type Value struct {
	values []string
	multi  bool
}

func Scalar(s string) Value {
	return Value{values: []string{s}}
}

func Multi(values ...string) Value {
	return Value{values: slices.Clone(values), multi: true}
}

func (v Value) IsMulti() bool { return v.multi }

// String returns the scalar value, or the first element of a list.
func (v Value) String() string {
	if len(v.values) == 0 {
		return ""
	}
	return v.values[0]
}

func (v Value) Values() []string { return slices.Clone(v.values) }

// IsEmpty reports whether v is the empty scalar. Lists are never empty
// in this sense, even with no elements.
func (v Value) IsEmpty() bool {
	return !v.multi && v.String() == ""
}

// Parameters is an insertion-ordered mapping of parameter name to value.
// The zero value is ready to use.
type Parameters struct {
	keys   []string
	values map[string]Value
}

func NewParameters() Parameters {
	return Parameters{values: map[string]Value{}}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (p *Parameters) Set(key string, v Value) {
	if p.values == nil {
		p.values = map[string]Value{}
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

func (p Parameters) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p Parameters) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

func (p Parameters) Keys() []string { return slices.Clone(p.keys) }

func (p Parameters) Len() int { return len(p.keys) }

func (p Parameters) Clone() Parameters {
	c := Parameters{
		keys:   slices.Clone(p.keys),
		values: make(map[string]Value, len(p.values)),
	}
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}

// Pagination is the requested result window.
type Pagination struct {
	StartIndex     int `query:"startIndex" validate:"min=0"`
	EntriesPerPage int `query:"itemsPerPage" validate:"min=1,max=1000"`
}

// DepthRange holds the raw depth bounds taken from the parameters.
// Nil means the bound was not given.
type DepthRange struct {
	Min *string
	Max *string
}

// FacetConfig controls the facet block of a query.
type FacetConfig struct {
	Fields   []string
	Limit    int
	MinCount int
}

func DefaultFacetConfig() FacetConfig {
	return FacetConfig{
		Fields:   []string{"pcode", "device"},
		Limit:    -1,
		MinCount: 1,
	}
}

// Searcher runs a prepared query string and returns the raw engine payload.
type Searcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}
