package splunk

import (
	"os"

	"github.com/tagfilterdb/querydesk/pkg/env"
)

// Env configures the optional Splunk HTTP Event Collector audit sink.
// Without SPLUNK_ENDPOINT the sink stays disabled.
type Env struct {
	Index    string
	Endpoint string
	Token    string
	Host     string
}

func NewSplunkEnv() *Env {
	return &Env{}
}

func (s *Env) Enabled() bool {
	return s.Endpoint != ""
}

func (s *Env) Populate() error {
	endpoint := os.Getenv("SPLUNK_ENDPOINT")
	if endpoint == "" {
		return nil
	}
	s.Endpoint = endpoint

	index := os.Getenv("SPLUNK_INDEX")
	if index == "" {
		return &env.Error{Name: "SPLUNK_INDEX"}
	}
	s.Index = index

	token := os.Getenv("SPLUNK_TOKEN")
	if token == "" {
		return &env.Error{Name: "SPLUNK_TOKEN"}
	}
	s.Token = token

	s.Host = os.Getenv("HOST")

	return nil
}
