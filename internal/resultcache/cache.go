// Package resultcache keeps the last successful scan result of each browser
// session so that a reload of, or a direct link to, the result route can
// recover it. Each session owns one slot: the submission workflow is its
// only writer and the result workflow reads it. Writes overwrite; nothing is
// ever deleted or expired.
package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raysh454/vulnscan-web/internal/model"
)

// ErrEmpty is returned when a slot has never been written.
var ErrEmpty = errors.New("no cached result")

// Store persists raw result payloads keyed by session id.
type Store interface {
	Put(ctx context.Context, sessionID string, payload []byte) error
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Close() error
}

// Writer is the submission workflow's view of a slot.
type Writer interface {
	Put(ctx context.Context, r *model.ScanResult) error
}

// Reader is the result workflow's view of a slot.
type Reader interface {
	Get(ctx context.Context) (*model.ScanResult, error)
}

// Slot binds a Store to one session.
type Slot struct {
	store     Store
	sessionID string
}

// NewSlot returns the slot for sessionID.
func NewSlot(store Store, sessionID string) *Slot {
	return &Slot{store: store, sessionID: sessionID}
}

// Put serialises r (its original payload when it has one) and overwrites the slot.
func (s *Slot) Put(ctx context.Context, r *model.ScanResult) error {
	if r == nil {
		return errors.New("nil scan result")
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding scan result: %w", err)
	}
	if err := s.store.Put(ctx, s.sessionID, payload); err != nil {
		return fmt.Errorf("storing scan result: %w", err)
	}
	return nil
}

// Get decodes the slot's payload. It returns ErrEmpty if nothing was stored.
func (s *Slot) Get(ctx context.Context) (*model.ScanResult, error) {
	payload, err := s.store.Get(ctx, s.sessionID)
	if err != nil {
		return nil, err
	}
	r, err := model.DecodeScanResult(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding cached result: %w", err)
	}
	return r, nil
}
