package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
	"github.com/tagfilterdb/querydesk/pkg/middleware"
	"github.com/tagfilterdb/querydesk/pkg/models"
)

// PlainText executes the text/plain request body as a single statement and
// answers with the resulting rows as a JSON array of objects. The statement
// runs in a transaction that is only committed when writes are allowed.
func PlainText(cfg *querydesk.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query, ok := ctx.Value(middleware.ContextKeyQuery).(string)
		if !ok {
			var b bytes.Buffer
			if _, err := io.Copy(&b, r.Body); err != nil {
				cfg.Logger.Errorf("Unable to read request body: %s", err)
				writeError(w, http.StatusBadRequest, "Unable to read request body")
				return
			}
			query = b.String()
		}

		if strings.TrimSpace(query) == "" {
			writeError(w, http.StatusBadRequest, "Request without query")
			return
		}

		if err := cfg.DB.PingContext(ctx); err != nil {
			cfg.Logger.Errorf("Unable to connect to database: %s", err)
			writeError(w, http.StatusServiceUnavailable, "Unable to connect to the database")
			return
		}

		tx, err := cfg.DB.BeginTx(ctx, nil)
		if err != nil {
			cfg.Logger.Errorf("Unable to start database transaction: %s", err)
			writeError(w, http.StatusInternalServerError, "An internal error has occurred")
			return
		}
		defer func() { _ = tx.Rollback() }()

		result, err := queryRows(ctx, tx, query)
		if err != nil {
			cfg.Logger.Errorf("Unable to query database: %s", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if cfg.DBEnv != nil && cfg.DBEnv.AllowWrite {
			if err := tx.Commit(); err != nil {
				cfg.Logger.Errorf("Unable to commit database changes: %s", err)
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		} else {
			if err := tx.Rollback(); err != nil {
				cfg.Logger.Errorf("Unable to rollback database changes: %s", err)
				writeError(w, http.StatusInternalServerError, "An internal error has occurred")
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})
}

func queryRows(ctx context.Context, tx *sql.Tx, query string) ([]models.Row, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	vals := make([]any, len(cols))
	for i := range cols {
		vals[i] = new(sql.RawBytes)
	}

	result := make([]models.Row, 0)

	for rows.Next() {
		if err := rows.Scan(vals...); err != nil {
			return nil, err
		}

		row := make(models.Row, len(cols))
		for i, col := range cols {
			content := *(vals[i].(*sql.RawBytes))
			if content == nil {
				row[col] = nil
				continue
			}
			row[col] = string(content)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
