// Package history keeps the append-only list of project versions for one session.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

// DefaultSchemaVersion is stamped on versions when the store is not told otherwise.
const DefaultSchemaVersion = "1.0"

var (
	// ErrOutOfRange means a version index does not exist.
	ErrOutOfRange = errors.New("version index out of range")
	// ErrEmptyHistory means no version has been created yet.
	ErrEmptyHistory = errors.New("no versions in history")
)

// Version binds one input snapshot to the analysis computed from it.
// Values handed out by Store are deep copies; the stored version never changes.
type Version struct {
	Number        int              `json:"versionNumber"`
	Timestamp     time.Time        `json:"timestamp"`
	SchemaVersion string           `json:"schemaVersion"`
	Inputs        *project.Inputs  `json:"inputs"`
	Analysis      *analysis.Result `json:"analysis"`
}

func (v *Version) clone() Version {
	return Version{
		Number:        v.Number,
		Timestamp:     v.Timestamp,
		SchemaVersion: v.SchemaVersion,
		Inputs:        v.Inputs.Clone(),
		Analysis:      v.Analysis.Clone(),
	}
}

// Summary is the list view of a version.
type Summary struct {
	Number        int       `json:"versionNumber"`
	Timestamp     time.Time `json:"timestamp"`
	SchemaVersion string    `json:"schemaVersion"`
	Current       bool      `json:"current"`
}

// Store is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	versions      []*Version
	current       int
	schemaVersion string
	now           func() time.Time
}

// NewStore returns an empty history. An empty schemaVersion uses DefaultSchemaVersion.
func NewStore(schemaVersion string) *Store {
	if schemaVersion == "" {
		schemaVersion = DefaultSchemaVersion
	}
	return &Store{current: -1, schemaVersion: schemaVersion, now: time.Now}
}

// Append stores a deep copy of in bound to res as the next version, makes it
// current, and returns its index. Versions are numbered 1..N in append order.
func (s *Store) Append(in *project.Inputs, res *analysis.Result) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &Version{
		Number:        len(s.versions) + 1,
		Timestamp:     s.now(),
		SchemaVersion: s.schemaVersion,
		Inputs:        in.Clone(),
		Analysis:      res.Clone(),
	}
	s.versions = append(s.versions, v)
	s.current = len(s.versions) - 1
	return s.current
}

// Load returns a fresh copy of the inputs bound to version index and makes it current.
func (s *Store) Load(index int) (*project.Inputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(index); err != nil {
		return nil, err
	}
	s.current = index
	return s.versions[index].Inputs.Clone(), nil
}

// Current returns the current version, or false when history is empty.
func (s *Store) Current() (Version, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current < 0 {
		return Version{}, false
	}
	return s.versions[s.current].clone(), true
}

// CurrentAnalysis returns the analysis bound to the current version, or nil.
func (s *Store) CurrentAnalysis() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current < 0 {
		return nil
	}
	return s.versions[s.current].Analysis.Clone()
}

// Get returns the version at index without changing the current pointer.
func (s *Store) Get(index int) (Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(index); err != nil {
		return Version{}, err
	}
	return s.versions[index].clone(), nil
}

// List summarizes all versions in order.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, len(s.versions))
	for i, v := range s.versions {
		out[i] = Summary{
			Number:        v.Number,
			Timestamp:     v.Timestamp,
			SchemaVersion: v.SchemaVersion,
			Current:       i == s.current,
		}
	}
	return out
}

// Len returns the number of versions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.versions)
}

// CurrentIndex returns the current index, or -1 when history is empty.
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// check must be called with s.mu held. On an empty history the error matches
// both ErrEmptyHistory and ErrOutOfRange.
func (s *Store) check(index int) error {
	if len(s.versions) == 0 {
		return fmt.Errorf("%w: %w: index %d", ErrEmptyHistory, ErrOutOfRange, index)
	}
	if index < 0 || index >= len(s.versions) {
		return fmt.Errorf("%w: index %d, have %d versions", ErrOutOfRange, index, len(s.versions))
	}
	return nil
}
