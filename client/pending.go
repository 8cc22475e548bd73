package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"skillrise/api/config"
)

// PendingSlot is a single durable slot holding at most one unflushed sample
// across an abrupt shutdown. Writes replace whatever was there.
type PendingSlot struct {
	path string
}

func NewPendingSlot(path string) *PendingSlot {
	return &PendingSlot{path: path}
}

// DefaultSlotPath returns the slot location under the XDG data directory.
func DefaultSlotPath() string {
	return filepath.Join(config.DataHome(), "skillrise", "pending_time_session.json")
}

func (p *PendingSlot) Path() string {
	return p.path
}

// Save atomically writes sample to the slot.
func (p *PendingSlot) Save(sample Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode pending sample: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create slot directory: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write pending sample: %w", err)
	}
	return os.Rename(tmp, p.path)
}

// Take reads and clears the slot. An empty slot returns nil. Unparseable
// content is discarded and also returns nil.
func (p *PendingSlot) Take() (*Sample, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pending slot: %w", err)
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("clear pending slot: %w", err)
	}

	var sample Sample
	if err := json.Unmarshal(data, &sample); err != nil {
		log.Printf("discarding corrupted pending slot %s: %v", p.path, err)
		return nil, nil
	}
	return &sample, nil
}
