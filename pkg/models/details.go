package models

type DetailsResponse struct {
	Driver   string `json:"driver"`
	Database string `json:"database"`
	Write    bool   `json:"write"`
	Version  string `json:"version"`
}
