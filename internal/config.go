package internal

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type RunEnv string

const (
	Development RunEnv = "development"
	Production  RunEnv = "production"
)

type Config struct {
	Env            RunEnv        `envconfig:"ENV" default:"development"`
	EchoAddr       string        `envconfig:"ECHO_ADDR" default:":8080"`
	SolrUrl        string        `envconfig:"SOLR_URL" default:"http://solr:8983/solr"`
	SolrCollection string        `envconfig:"SOLR_COLLECTION" default:"icoads"`
	SolrTimeout    time.Duration `envconfig:"SOLR_TIMEOUT" default:"1s"`
	FacetFields    []string      `envconfig:"FACET_FIELDS" default:"pcode,device"`
	FacetLimit     int           `envconfig:"FACET_LIMIT" default:"-1"`
	FacetMinCount  int           `envconfig:"FACET_MIN_COUNT" default:"1"`
}

// LoadConfig reads the given .env files (missing ones are skipped) and then
// processes the environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
