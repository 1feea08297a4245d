package telemetry

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/storage"
)

// KVTrackingID keeps the anonymous tracking ID in the document store next to
// the settings, so it survives restarts and is removed with the data dir.
type KVTrackingID struct {
	kv storage.KV
}

// NewKVTrackingID returns a provider backed by kv.
func NewKVTrackingID(kv storage.KV) *KVTrackingID {
	return &KVTrackingID{kv: kv}
}

// GetOrCreateTrackingID returns the stored ID, creating one on first use.
// Storage failures yield an unsaved per-run ID.
func (p *KVTrackingID) GetOrCreateTrackingID() string {
	data, ok, err := p.kv.Get(models.DocTelemetryID)
	if err == nil && ok {
		var id string
		if json.Unmarshal(data, &id) == nil && id != "" {
			return id
		}
	}

	id := uuid.New().String()
	if data, err := json.Marshal(id); err == nil {
		_ = p.kv.Put(models.DocTelemetryID, data)
	}
	return id
}
