package messaging

import (
	"encoding/json"
	"os"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

// Spool is the durable holding area for envelopes that could not be
// delivered live. The on-disk format is a single JSON array rewritten
// wholesale on every mutation so the file is always valid JSON. The Spool
// itself does no locking; the owning Publisher serializes all access.
type Spool struct {
	path string
}

func NewSpool(path string) *Spool {
	return &Spool{path: path}
}

// Load reads all pending envelopes in FIFO order. A missing file is an empty
// spool, not an error.
func (s *Spool) Load() ([]domain.LogEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var entries []domain.LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Spool) Save(entries []domain.LogEntry) error {
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
