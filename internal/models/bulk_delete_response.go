package models

type BulkDeleteResponse struct {
	DeletedCount int64    `json:"deleted_count"`
	Errors       []string `json:"errors"`
}
