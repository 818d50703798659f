package handlers

import (
	"encoding/json"
	"net/http"

	querydesk "github.com/tagfilterdb/querydesk/pkg"
	"github.com/tagfilterdb/querydesk/pkg/models"
	"github.com/tagfilterdb/querydesk/pkg/version"
)

func Details(cfg *querydesk.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := models.DetailsResponse{Version: version.Version()}

		if cfg.DBEnv != nil {
			response.Driver = cfg.DBEnv.Driver.String()
			response.Database = cfg.DBEnv.Name
			response.Write = cfg.DBEnv.AllowWrite
		}

		if response.Write {
			cfg.Logger.Debugf("Database write mode is enabled")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})
}
