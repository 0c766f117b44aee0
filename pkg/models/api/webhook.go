package api

import (
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
)

// WebhookRequest is what the chat workflow posts. Older clients send
// chatInput and farm_id instead of message and farmID.
type WebhookRequest struct {
	SessionID string        `json:"sessionId"`
	Message   string        `json:"message"`
	ChatInput string        `json:"chatInput"`
	FarmID    domain.FarmID `json:"farmID"`
	FarmIDAlt domain.FarmID `json:"farm_id"`
}

func (r WebhookRequest) Farm() domain.FarmID {
	if r.FarmID.Valid() {
		return r.FarmID
	}
	return r.FarmIDAlt
}

// Text returns the message as sent, before lower-casing.
func (r WebhookRequest) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.ChatInput
}

func (r WebhookRequest) Normalized() string {
	return strings.ToLower(r.Text())
}

type WebhookMetadata struct {
	domain.Metadata
	FarmID          domain.FarmID `json:"farmId,omitempty"`
	UserMessage     string        `json:"userMessage"`
	OriginalMessage string        `json:"originalMessage"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type WebhookResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	TableID     string          `json:"tableId"`
	WidgetCode  string          `json:"widgetCode"`
	TempDataURL string          `json:"tempDataUrl"`
	Metadata    WebhookMetadata `json:"metadata"`
	RequestID   string          `json:"requestId,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type DatasourceStatus struct {
	Connected bool   `json:"connected"`
	Driver    string `json:"driver,omitempty"`
}

type Health struct {
	Status      string           `json:"status"`
	Service     string           `json:"service"`
	Version     string           `json:"version"`
	Environment string           `json:"environment"`
	Timestamp   time.Time        `json:"timestamp"`
	Datasource  DatasourceStatus `json:"datasource"`
	Features    []string         `json:"features"`
	DataSources []string         `json:"dataSources"`
	Endpoints   []string         `json:"endpoints"`
}

type Diagnostic struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type TowerData struct {
	Success   bool          `json:"success"`
	FarmID    domain.FarmID `json:"farmId"`
	Data      []store.Row   `json:"data"`
	Count     int           `json:"count"`
	Timestamp time.Time     `json:"timestamp"`
}

type TempRow struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type TempData struct {
	TableID   string    `json:"tableId"`
	Data      []TempRow `json:"data"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}
