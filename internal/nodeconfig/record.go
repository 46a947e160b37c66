package nodeconfig

import (
	"sync"
)

// Record holds the configuration of a single simulated node.
//
// Field values are stored in native integer types; the textual big-endian
// renderings exist only at the codec boundary (Get/Set and the record file).
type Record struct {
	// Addressing
	DeviceID uint8  // Node address within the group
	GroupID  uint16 // Group the node belongs to

	// Gateway selection
	GwMask uint32 // Bitmask of gateways the node may use (bit N = gateway N)

	// Radio parameters
	RchanID      uint8  // Radio channel identifier
	RSF          uint8  // Radio spreading factor
	PreambleTime uint16 // Preamble duration in milliseconds

	// Security
	EncKey [16]byte // 128-bit payload encryption key
}

// NewRecord returns a zeroed record.
func NewRecord() *Record {
	return &Record{}
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Store owns one record and the path it persists to, and serializes all
// access. Concurrent console sessions and the snapshot endpoint go through
// the same Store, so field reads never observe a half-applied batch.
type Store struct {
	mu   sync.RWMutex
	rec  *Record
	path string
}

// NewStore wraps a record and its backing file path.
func NewStore(rec *Record, path string) *Store {
	if rec == nil {
		rec = NewRecord()
	}
	return &Store{rec: rec, path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get renders the named field under a read lock.
func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Get(key)
}

// Set parses and stores one field under the write lock.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Set(key, value)
}

// Apply applies an update batch all-or-nothing under the write lock.
func (s *Store) Apply(u *Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return u.Apply(s.rec)
}

// Snapshot returns an independent copy of the current record.
func (s *Store) Snapshot() *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Clone()
}

// Save persists the current record to the backing path.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Save(s.path)
}

var (
	// Process-wide store for the running node (installed once at startup)
	currentStore *Store
	currentOnce  sync.Once
)

// Install sets the process-wide store for the running node. The node
// process calls this exactly once after resolving and loading its record;
// later calls are ignored. Everything after startup mutates the record only
// through the installed Store's accessors.
func Install(s *Store) {
	currentOnce.Do(func() {
		currentStore = s
	})
}

// Current returns the process-wide store, or nil before Install.
func Current() *Store {
	return currentStore
}
