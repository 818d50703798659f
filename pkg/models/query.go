package models

// Row is a single result row keyed by column name. NULL columns hold nil.
type Row map[string]any

type ErrorResponse struct {
	Error string `json:"error"`
}
