package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etherlabsio/healthcheck/v2"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
)

func Healthcheck(cfg *querydesk.Config) http.Handler {
	return healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker(
			"database", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					if err := cfg.DB.PingContext(ctx); err != nil {
						cfg.Logger.Errorf("Unable to connect to the database: %s", err)
						return errors.New("Unable to connect to the database")
					}
					return nil
				},
			),
		),
	)
}
