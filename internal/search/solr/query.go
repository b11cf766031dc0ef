package solr

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/takatori/icoads/internal/errors"
	"github.com/takatori/icoads/internal/search"
)

const (
	matchAll = "*:*"

	// depth values in this interval mean "no depth recorded"
	missingDepth = "depth:[-99999.9%20TO%20-99998.1]"

	defaultQualityFlag = "1"
)

// keys whose value may be a list; every other key reads a single string
var listKeys = []string{search.KeyQualityFlag, search.KeyPlatform}

var statsFields = []string{"sss_depth", "sst_depth", "wind_depth"}

// Query is a translated Solr request.
type Query struct {
	Queries       []string
	FilterQueries []string
	// Sort is never set by any parameter yet.
	Sort  string
	Start int
	Rows  int
	Stats bool
	Facet *search.FacetConfig
}

// String assembles the query into Solr request parameters.
func (q Query) String() string {
	queries := q.Queries
	if len(queries) == 0 {
		queries = []string{matchAll}
	}

	var b strings.Builder
	b.WriteString("q=" + strings.Join(queries, "+AND+"))
	b.WriteString(fmt.Sprintf("&wt=json&start=%d&rows=%d", q.Start, q.Rows))

	if len(q.FilterQueries) > 0 {
		b.WriteString("&fq=" + strings.Join(q.FilterQueries, "+AND+"))
	}
	if q.Sort != "" {
		b.WriteString("&sort=" + q.Sort)
	}
	if q.Stats {
		b.WriteString("&stats=true")
		for _, f := range statsFields {
			b.WriteString("&stats.field={!min=true%20max=true}" + f)
		}
	}
	if q.Facet != nil {
		b.WriteString("&facet=true")
		for _, f := range q.Facet.Fields {
			b.WriteString("&facet.field=" + f)
		}
		b.WriteString(fmt.Sprintf("&facet.limit=%d&facet.mincount=%d", q.Facet.Limit, q.Facet.MinCount))
	}
	return b.String()
}

// Translate converts search parameters into a Solr query string.
func Translate(startIndex, entriesPerPage int, params search.Parameters, facets search.FacetConfig) (string, error) {
	q, err := NewQuery(startIndex, entriesPerPage, params, facets)
	if err != nil {
		return "", err
	}
	query := q.String()
	slog.Debug("solr query", "query", query)
	return query, nil
}

// NewQuery builds the Query for the given parameters without assembling it.
// An empty facets.Fields falls back to the default facet configuration.
func NewQuery(startIndex, entriesPerPage int, params search.Parameters, facets search.FacetConfig) (Query, error) {
	params = normalize(params)

	c, err := reduce(params)
	if err != nil {
		return Query{}, err
	}

	q := Query{
		Queries:       c.queries,
		FilterQueries: c.filterQueries,
		Start:         startIndex,
		Rows:          entriesPerPage,
		Stats:         isTrue(params, search.KeyStats),
	}
	if isTrue(params, search.KeyFacet) {
		if len(facets.Fields) == 0 {
			facets = search.DefaultFacetConfig()
		}
		q.Facet = &facets
	}
	return q, nil
}

// normalize returns a copy of params with the default quality flag applied.
func normalize(params search.Parameters) search.Parameters {
	params = params.Clone()
	if !params.Has(search.KeyQualityFlag) {
		params.Set(search.KeyQualityFlag, search.Scalar(defaultQualityFlag))
	}
	return params
}

type clauses struct {
	queries       []string
	filterQueries []string
}

// reduce folds params, in order, into query and filter clauses.
// Depth filters always come after every other filter.
func reduce(params search.Parameters) (clauses, error) {
	var c clauses
	var depth search.DepthRange

	variable, hasVariable := params.Get(search.KeyVariable)
	hasVariable = hasVariable && variable.String() != ""

	for _, key := range params.Keys() {
		v, _ := params.Get(key)
		if v.IsEmpty() || (v.String() == "" && !lo.Contains(listKeys, key)) {
			continue
		}

		switch key {
		case search.KeyKeyword:
			c.queries = append(c.queries, quote(v.String()))
		case search.KeyStartTime:
			c.filterQueries = append(c.filterQueries, "time:["+v.String()+"%20TO%20*]")
		case search.KeyEndTime:
			c.filterQueries = append(c.filterQueries, "time:[*%20TO%20"+v.String()+"]")
		case search.KeyBBox:
			fq, err := bboxFilter(v.String())
			if err != nil {
				return clauses{}, err
			}
			c.filterQueries = append(c.filterQueries, fq)
		case search.KeyVariable:
			c.filterQueries = append(c.filterQueries, strings.ToLower(v.String())+":[*%20TO%20*]")
		case search.KeyMinDepth:
			depth.Min = lo.ToPtr(v.String())
		case search.KeyMaxDepth:
			depth.Max = lo.ToPtr(v.String())
		case search.KeyQualityFlag:
			if hasVariable {
				field := strings.ToLower(variable.String()) + "_quality"
				c.filterQueries = append(c.filterQueries, "("+field+":("+orValues(v)+"))")
			}
		case search.KeyPlatform:
			if v.IsMulti() {
				c.filterQueries = append(c.filterQueries, "pcode:("+orValues(v)+")")
			} else {
				c.filterQueries = append(c.filterQueries, "pcode:"+v.String())
			}
		}
	}

	fqs, err := depthFilters(depth)
	if err != nil {
		return clauses{}, err
	}
	c.filterQueries = append(c.filterQueries, fqs...)

	return c, nil
}

func orValues(v search.Value) string {
	if v.IsMulti() {
		return strings.Join(v.Values(), "+OR+")
	}
	return v.String()
}

// bboxFilter turns "minLon,minLat,maxLon,maxLat" into a loc range in
// lat,lon order.
func bboxFilter(bbox string) (string, error) {
	c := strings.Split(bbox, ",")
	if len(c) != 4 {
		return "", failure.New(
			errors.ErrMalformedBoundingBox,
			failure.Field(failure.Message("bbox must have 4 comma separated coordinates")),
			failure.Context{
				"bbox": bbox,
			},
		)
	}
	return "loc:[" + c[1] + "," + c[0] + "%20TO%20" + c[3] + "," + c[2] + "]", nil
}

// includeMissingDepth reports whether records without a recorded depth
// should match. That is the case when the requested range contains zero.
func includeMissingDepth(lower, upper *float64) bool {
	switch {
	case lower != nil && upper != nil:
		return *lower <= 0 && 0 <= *upper
	case lower != nil:
		return *lower <= 0
	case upper != nil:
		return 0 <= *upper
	}
	return false
}

func depthFilters(depth search.DepthRange) ([]string, error) {
	lower, err := parseDepth(search.KeyMinDepth, depth.Min)
	if err != nil {
		return nil, err
	}
	upper, err := parseDepth(search.KeyMaxDepth, depth.Max)
	if err != nil {
		return nil, err
	}

	op := lo.Ternary(includeMissingDepth(lower, upper), "+OR+", "+AND+-")

	var fqs []string
	if depth.Min != nil {
		fqs = append(fqs, "(depth:["+*depth.Min+"%20TO%20*]"+op+missingDepth+")")
	}
	if depth.Max != nil {
		fqs = append(fqs, "(depth:[*%20TO%20"+*depth.Max+"]"+op+missingDepth+")")
	}
	return fqs, nil
}

func parseDepth(key string, raw *string) (*float64, error) {
	if raw == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return nil, failure.Translate(
			err,
			errors.ErrMalformedNumericInput,
			failure.Field(failure.Message("depth must be a decimal number")),
			failure.Context{
				"key":   key,
				"value": *raw,
			},
		)
	}
	return &f, nil
}

func isTrue(params search.Parameters, key string) bool {
	v, ok := params.Get(key)
	return ok && strings.EqualFold(v.String(), "true")
}

// quote percent-encodes s, leaving unreserved characters and '/' intact.
func quote(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
