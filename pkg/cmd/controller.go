package cmd

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/tagfilterdb/querydesk/pkg/audit"
	"github.com/tagfilterdb/querydesk/pkg/client"
	"github.com/tagfilterdb/querydesk/pkg/env/endpoint"
	"github.com/tagfilterdb/querydesk/pkg/env/splunk"
	"github.com/tagfilterdb/querydesk/pkg/query"
)

const defaultEndpointHint = endpoint.DefaultURL

// newController wires a controller for the configured endpoint. Every
// submission is audited to the logger and, when configured, to Splunk.
func newController(o *options, logger *zap.SugaredLogger) (*query.Controller, *endpoint.Env, error) {
	ee := endpoint.NewEndpointEnv()
	if err := ee.Populate(); err != nil {
		return nil, nil, fmt.Errorf("unable to configure endpoint: %w", err)
	}

	if o.endpoint != "" {
		u, err := url.Parse(o.endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, nil, fmt.Errorf("unable to use endpoint: %s", o.endpoint)
		}
		ee.URL = o.endpoint
	}
	logger.Debugf("Using query endpoint: %s (timeout: %s)", ee.URL, ee.Timeout)

	a, err := newAudit(logger)
	if err != nil {
		return nil, nil, err
	}

	c := client.New(ee.URL, client.WithTimeout(ee.Timeout))

	controller := query.NewController(query.NewState(ee.Query), c, logger,
		query.WithAudit(a),
		query.WithOperator(ee.Operator),
	)

	return controller, ee, nil
}

// newAudit returns the logger audit, plus the Splunk one when SPLUNK_ENDPOINT
// is set.
func newAudit(logger *zap.SugaredLogger) (audit.Audit, error) {
	se := splunk.NewSplunkEnv()
	if err := se.Populate(); err != nil {
		return nil, fmt.Errorf("unable to configure Splunk: %w", err)
	}

	audits := []audit.Audit{audit.NewLoggerAudit(logger)}
	if se.Enabled() {
		logger.Infof("Sending audit to Splunk endpoint: %s", se.Endpoint)
		audits = append(audits, audit.NewSplunkAudit(se))
	}

	return audit.Multi(audits...), nil
}
