package model

import "time"

// Audit entry types
const (
	AuditTypeInventory      = "inventory_changes"
	AuditTypeFinancial      = "financial_transactions"
	AuditTypeOrder          = "order_management"
	AuditTypeAdministrative = "administrative_actions"
	AuditTypeAddress        = "address_management"
	AuditTypeStatus         = "status_change"
)

// AuditEntry is an administrative log line. Data always carries a unix timestamp.
type AuditEntry struct {
	ID        int64          `json:"id" db:"id"`
	Type      string         `json:"type" db:"type"`
	Action    string         `json:"action" db:"action"`
	Data      map[string]any `json:"data" db:"data"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}
