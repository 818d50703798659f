package querydesk

import (
	"database/sql"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tagfilterdb/querydesk/pkg/audit"
	"github.com/tagfilterdb/querydesk/pkg/env"
	"github.com/tagfilterdb/querydesk/pkg/env/db"
)

const defaultRequestTimeout = 2 * time.Minute

// Config is shared by the handlers and middleware of the compiler endpoint.
type Config struct {
	DB    *sql.DB
	DBEnv *db.Env
	Audit audit.Audit

	Logger *zap.SugaredLogger
}

func Production() bool {
	return os.Getenv("ENVIRONMENT") == "production"
}

// RequestTimeout is how long the compiler endpoint works on a single
// request. Unset or unparsable values fall back to two minutes.
func RequestTimeout() time.Duration {
	d, err := env.ParseDuration(os.Getenv("REQUEST_TIMEOUT"))
	if err != nil || d == 0 {
		return defaultRequestTimeout
	}
	return d
}
