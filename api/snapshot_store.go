package api

import (
	"sync"

	"weather-panel/models"
)

// SnapshotStore holds the most recent accepted snapshot for readers outside
// the event loop
type SnapshotStore struct {
	current *models.WeatherSnapshot
	updates int
	mutex   sync.RWMutex
}

// NewSnapshotStore creates an empty store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// UpdateSnapshot replaces the stored snapshot
func (s *SnapshotStore) UpdateSnapshot(snapshot models.WeatherSnapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.current = &snapshot
	s.updates++
}

// Current returns the stored snapshot, false until the first update
func (s *SnapshotStore) Current() (models.WeatherSnapshot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.current == nil {
		return models.WeatherSnapshot{}, false
	}
	return *s.current, true
}

// Updates returns how many snapshots have been stored
func (s *SnapshotStore) Updates() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.updates
}
