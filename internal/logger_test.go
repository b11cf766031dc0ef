package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		env       RunEnv
		wantDebug bool
	}{
		{Development, true},
		{Production, false},
	}

	for _, test := range tests {
		t.Run(string(test.env), func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(&Config{Env: test.env, SolrCollection: "icoads"}, &buf)

			logger.Debug("solr query", "query", "q=*:*")

			if test.wantDebug {
				assert.Contains(t, buf.String(), `"query":"q=*:*"`)
				assert.Contains(t, buf.String(), `"collection":"icoads"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
