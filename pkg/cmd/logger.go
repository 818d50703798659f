package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
)

const defaultLogFile = "querydesk.log"

// NewLogger builds a development logger, or a production one when
// ENVIRONMENT=production. Output goes to stderr unless paths are given.
func NewLogger(level string, paths ...string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if querydesk.Production() {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("unable to parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(l)
	}

	if len(paths) > 0 {
		cfg.OutputPaths = paths
		cfg.ErrorOutputPaths = paths
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize Zap logger: %w", err)
	}

	return l, nil
}

func logFile(o *options) string {
	if o.logFile != "" {
		return o.logFile
	}
	if s := os.Getenv("QUERYDESK_LOG_FILE"); s != "" {
		return s
	}
	return defaultLogFile
}
