package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
	"github.com/tagfilterdb/querydesk/pkg/env/db"
	"github.com/tagfilterdb/querydesk/pkg/handlers"
	"github.com/tagfilterdb/querydesk/pkg/middleware"
	"github.com/tagfilterdb/querydesk/pkg/version"
)

const (
	defaultPort = 8080

	readTimeout       = 1 * time.Minute
	readHeaderTimeout = 20 * time.Second
	writeTimeout      = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

func newServeCommand(o *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a compiler endpoint backed by a SQL database",
		Long: `Serve answers POST /compiler/plainText by running the request body against
the database configured with the DB_* environment variables and returning
the rows as JSON. Changes are rolled back unless DB_WRITE=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := NewLogger(o.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			return Serve(cmd.Context(), l.Sugar(), port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", defaultPort, "port to listen on")

	return cmd
}

// Serve runs the compiler endpoint until ctx is done.
func Serve(ctx context.Context, logger *zap.SugaredLogger, port int) error {
	production := querydesk.Production()
	logger.Infof("Starting querydesk compiler endpoint version: %s", version.Version())
	logger.Infof("Production: %t", production)

	dbe := db.NewDBEnv()
	err := dbe.Populate()
	if err != nil {
		return fmt.Errorf("unable to configure database: %w", err)
	}
	logger.Infof("Using database driver: %s (write access: %t)", dbe.Driver, dbe.AllowWrite)

	conn, err := sql.Open(dbe.Driver.Name(), dbe.ConnectionDSN())
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer func() { _ = conn.Close() }()
	logger.Debugf("Connecting to database host: %s (port: %d)", dbe.Host, dbe.Port)

	a, err := newAudit(logger)
	if err != nil {
		return err
	}

	cfg := &querydesk.Config{
		DB:     conn,
		DBEnv:  dbe,
		Audit:  a,
		Logger: logger,
	}

	logger.Infof("HTTP server starting on port: %d", port)

	server := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           NewRouter(cfg, querydesk.RequestTimeout(), production),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errs := make(chan error, 1)
	go func() { errs <- server.ListenAndServe() }()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to start HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down HTTP server: %w", err)
	}

	return nil
}

// NewRouter returns the compiler endpoint routes with access logging and
// permissive CORS so browser front ends can call it.
func NewRouter(cfg *querydesk.Config, timeout time.Duration, production bool) http.Handler {
	accessLogOutput := zap.NewStdLog(cfg.Logger.Desugar()).Writer()

	healthLogOutput := io.Discard
	if !production {
		healthLogOutput = accessLogOutput
	}
	logHandler := gorillaHandlers.LoggingHandler

	queryChain := alice.New(
		alice.Constructor(middleware.Recovery(cfg)),
		alice.Constructor(middleware.Timeout(cfg, timeout)),
		alice.Constructor(middleware.Audit(cfg)),
	).Then(handlers.PlainText(cfg))

	detailsChain := alice.New(
		alice.Constructor(middleware.Recovery(cfg)),
	).Then(handlers.Details(cfg))

	healthcheck := handlers.Healthcheck(cfg)

	r := mux.NewRouter()
	r.Handle("/healthcheck", logHandler(healthLogOutput, healthcheck)).Methods(http.MethodGet)
	r.Handle("/health", logHandler(healthLogOutput, healthcheck)).Methods(http.MethodGet)
	r.Handle("/compiler/plainText", logHandler(accessLogOutput, queryChain)).Methods(http.MethodPost)
	r.Handle("/compiler/details", logHandler(accessLogOutput, detailsChain)).Methods(http.MethodGet)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
	)

	return cors(r)
}
