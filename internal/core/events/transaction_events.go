package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTransactionStatusChanged = "transaction.status_changed"
)

// TransactionStatusChangedEvent is published after a transaction is created
// or its status is written. Services are ordered by line item.
type TransactionStatusChangedEvent struct {
	BaseEvent
	TransactionID int64    `json:"transaction_id"`
	TrackingCode  string   `json:"tracking_code"`
	Status        string   `json:"status"`
	CustomerName  string   `json:"customer_name,omitempty"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	Services      []string `json:"services"`
	Total         int64    `json:"total"`
}

func NewTransactionStatusChangedEvent(transactionID int64, trackingCode, status, customerName, customerPhone string, services []string, total int64) *TransactionStatusChangedEvent {
	return &TransactionStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransactionStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"tracking_code":  trackingCode,
				"status":         status,
				"customer_name":  customerName,
				"customer_phone": customerPhone,
				"services":       services,
				"total":          total,
			},
		},
		TransactionID: transactionID,
		TrackingCode:  trackingCode,
		Status:        status,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Services:      services,
		Total:         total,
	}
}
