package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one persisted store snapshot, keyed by store name.
type Document struct {
	Key       string         `gorm:"primaryKey;size:100" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Document) TableName() string {
	return "documents"
}

// Persisted document keys.
const (
	DocProgress    = "gate-progress-storage"
	DocPyq         = "gate-pyq-storage"
	DocSettings    = "gate-settings-storage"
	DocTelemetryID = "telemetry-id"
)
