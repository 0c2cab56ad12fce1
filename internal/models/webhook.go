package models

// WebhookQuery is the JSON body the relay accepts.
type WebhookQuery struct {
	Query    string `json:"query"`
	UniqueID string `json:"uniqueId"`
}
