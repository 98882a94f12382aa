package main

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// pointExtent is the edge length of the degenerate rectangle used to store
// point landmarks in the R-tree (rtreego rejects zero-size rects).
const pointExtent = 1e-9

// landmarkEntry wraps a landmark for R-tree storage.
type landmarkEntry struct {
	landmark *Landmark
	bbox     rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *landmarkEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// RTreeLandmarkStore is a LandmarkStore accelerated by an R-tree. Queries
// search the bounding box of the radius first and then filter by exact
// distance, so the result set matches SimpleLandmarkStore exactly.
type RTreeLandmarkStore struct {
	tree       *rtreego.Rtree
	entries    []*landmarkEntry
	removedIDs []uint64
}

// NewRTreeLandmarkStore creates an empty R-tree backed store.
func NewRTreeLandmarkStore() *RTreeLandmarkStore {
	return &RTreeLandmarkStore{
		tree: rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
	}
}

func (s *RTreeLandmarkStore) QueryRadius(center orb.Point, maxDist float64) []*Landmark {
	bbox, err := rtreego.NewRect(
		rtreego.Point{center.X() - maxDist, center.Y() - maxDist},
		[]float64{2 * maxDist, 2 * maxDist},
	)
	if err != nil {
		return nil
	}

	var result []*Landmark
	for _, item := range s.tree.SearchIntersect(bbox) {
		lm := item.(*landmarkEntry).landmark
		if planar.Distance(lm.Pos, center) < maxDist {
			result = append(result, lm)
		}
	}
	return result
}

func (s *RTreeLandmarkStore) InsertBatch(landmarks []Landmark) {
	for i := range landmarks {
		lm := landmarks[i]
		bbox, err := rtreego.NewRect(
			rtreego.Point{lm.Pos.X() - pointExtent/2, lm.Pos.Y() - pointExtent/2},
			[]float64{pointExtent, pointExtent},
		)
		if err != nil {
			continue
		}
		entry := &landmarkEntry{landmark: &lm, bbox: bbox}
		s.tree.Insert(entry)
		s.entries = append(s.entries, entry)
	}
}

func (s *RTreeLandmarkStore) RemoveWhere(pred func(*Landmark) bool) {
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if pred(entry.landmark) {
			s.tree.Delete(entry)
			s.removedIDs = append(s.removedIDs, entry.landmark.ID)
			continue
		}
		kept = append(kept, entry)
	}
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = kept
}

func (s *RTreeLandmarkStore) DrainRemovedIDs() []uint64 {
	ids := s.removedIDs
	s.removedIDs = nil
	return ids
}

func (s *RTreeLandmarkStore) All() []*Landmark {
	result := make([]*Landmark, len(s.entries))
	for i, entry := range s.entries {
		result[i] = entry.landmark
	}
	return result
}

func (s *RTreeLandmarkStore) Len() int {
	return len(s.entries)
}
