package main

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LandmarkType tags a perceived feature with its role on the track.
type LandmarkType int

const (
	LeftLine LandmarkType = iota
	RightLine
	Obstacle
	ArrowLeft
	ArrowRight
)

var landmarkTypeNames = map[LandmarkType]string{
	LeftLine:   "left-line",
	RightLine:  "right-line",
	Obstacle:   "obstacle",
	ArrowLeft:  "arrow-left",
	ArrowRight: "arrow-right",
}

func (t LandmarkType) String() string {
	if name, ok := landmarkTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("landmark-type-%d", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t LandmarkType) MarshalText() ([]byte, error) {
	name, ok := landmarkTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown landmark type %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LandmarkType) UnmarshalText(text []byte) error {
	for typ, name := range landmarkTypeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown landmark type %q", string(text))
}

// Landmark is one perceived feature. The ID is assigned by the upstream
// perception system, not by the store. Landmarks are immutable once stored;
// they are only ever removed, never updated in place.
type Landmark struct {
	ID         uint64
	Pos        orb.Point
	Type       LandmarkType
	Confidence float64
	ExpireAt   time.Time // zero value never expires
}

// Expired reports whether the landmark's expiry has passed at time now.
func (l *Landmark) Expired(now time.Time) bool {
	return !l.ExpireAt.IsZero() && now.After(l.ExpireAt)
}

// LandmarkStore is the data boundary between perception and planning.
// Implementations are not safe for concurrent use; callers must not mutate
// the store while a planning call is running.
type LandmarkStore interface {
	// QueryRadius returns every landmark strictly closer than maxDist to
	// center, in store iteration order. Order carries no meaning.
	QueryRadius(center orb.Point, maxDist float64) []*Landmark
	// InsertBatch appends landmarks. IDs are caller-assigned; no dedup.
	InsertBatch(landmarks []Landmark)
	// RemoveWhere removes every landmark satisfying pred and records each
	// removed landmark's ID for the next drain.
	RemoveWhere(pred func(*Landmark) bool)
	// DrainRemovedIDs returns the IDs removed since the last drain, in
	// removal order, and clears the buffer.
	DrainRemovedIDs() []uint64
	// All returns every stored landmark, in store iteration order.
	All() []*Landmark
	// Len returns the number of stored landmarks.
	Len() int
}

// SimpleLandmarkStore is the brute-force LandmarkStore: a flat slice scanned
// linearly on every query.
type SimpleLandmarkStore struct {
	landmarks  []*Landmark
	removedIDs []uint64
}

// NewSimpleLandmarkStore creates an empty linear-scan store.
func NewSimpleLandmarkStore() *SimpleLandmarkStore {
	return &SimpleLandmarkStore{}
}

func (s *SimpleLandmarkStore) QueryRadius(center orb.Point, maxDist float64) []*Landmark {
	var result []*Landmark
	for _, lm := range s.landmarks {
		if planar.Distance(lm.Pos, center) < maxDist {
			result = append(result, lm)
		}
	}
	return result
}

func (s *SimpleLandmarkStore) InsertBatch(landmarks []Landmark) {
	for i := range landmarks {
		lm := landmarks[i]
		s.landmarks = append(s.landmarks, &lm)
	}
}

func (s *SimpleLandmarkStore) RemoveWhere(pred func(*Landmark) bool) {
	kept := s.landmarks[:0]
	for _, lm := range s.landmarks {
		if pred(lm) {
			s.removedIDs = append(s.removedIDs, lm.ID)
			continue
		}
		kept = append(kept, lm)
	}
	for i := len(kept); i < len(s.landmarks); i++ {
		s.landmarks[i] = nil
	}
	s.landmarks = kept
}

func (s *SimpleLandmarkStore) DrainRemovedIDs() []uint64 {
	ids := s.removedIDs
	s.removedIDs = nil
	return ids
}

func (s *SimpleLandmarkStore) All() []*Landmark {
	result := make([]*Landmark, len(s.landmarks))
	copy(result, s.landmarks)
	return result
}

func (s *SimpleLandmarkStore) Len() int {
	return len(s.landmarks)
}
