package main

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPathEmptyStoreReachesHorizon(t *testing.T) {
	p := NewPlanner(DefaultPlannerConfig())
	start := DriveState{Pos: orb.Point{0.5, -0.25}, Angle: 0.1, Speed: 1}

	path, err := p.FindPath(start, NewSimpleLandmarkStore())
	require.NoError(t, err)

	// Root plus one position per expansion step.
	require.Len(t, path.Points, p.planSteps()+1)
	assert.Equal(t, start.Pos, path.Points[0])
}

func TestFindPathEmptyStoreGoesStraight(t *testing.T) {
	// With no landmarks every curved branch costs strictly more than the
	// straight one, so the straight chain is popped all the way down.
	p := NewPlanner(DefaultPlannerConfig())
	start := DriveState{Angle: 0, Speed: 1}

	path, err := p.FindPath(start, NewSimpleLandmarkStore())
	require.NoError(t, err)
	require.Len(t, path.Points, 31)

	for i, pt := range path.Points {
		assert.InDelta(t, 0.1*float64(i), pt.X(), 1e-9, "point %d", i)
		assert.InDelta(t, 0, pt.Y(), 1e-9, "point %d", i)
	}
}

func TestFindPathNonFiniteStart(t *testing.T) {
	p := NewPlanner(DefaultPlannerConfig())

	for _, start := range []DriveState{
		{Angle: math.NaN()},
		{Speed: math.Inf(1)},
		{Pos: orb.Point{math.NaN(), 0}},
	} {
		path, err := p.FindPath(start, NewSimpleLandmarkStore())
		assert.ErrorIs(t, err, ErrNonFiniteStart)
		assert.Empty(t, path.Points)
	}
}

func TestFindPathAvoidsObstacleCorridor(t *testing.T) {
	cfg := DefaultPlannerConfig()
	p := NewPlanner(cfg)

	// A wall of obstacles straight ahead along the x axis. Driving through
	// it pays a heavy proximity toll at nearly every step; swerving costs a
	// few curvature penalties once.
	store := NewRTreeLandmarkStore()
	var obstacles []Landmark
	id := uint64(1)
	for x := 0.4; x <= 3.2+1e-9; x += 0.2 {
		obstacles = append(obstacles, Landmark{ID: id, Pos: orb.Point{x, 0}, Type: Obstacle})
		id++
	}
	store.InsertBatch(obstacles)

	start := DriveState{Angle: 0, Speed: 1}
	path, err := p.FindPath(start, store)
	require.NoError(t, err)
	require.Len(t, path.Points, 31)
	assert.Equal(t, start.Pos, path.Points[0])

	// The returned path must keep clear of the corridor rather than drive
	// down it the way the empty-store plan does.
	minDist := math.Inf(1)
	for _, pt := range path.Points {
		for i := range obstacles {
			if d := planar.Distance(pt, obstacles[i].Pos); d < minDist {
				minDist = d
			}
		}
	}
	assert.Greater(t, minDist, 0.15)

	offAxis := false
	for _, pt := range path.Points {
		if math.Abs(pt.Y()) > 0.2 {
			offAxis = true
			break
		}
	}
	assert.True(t, offAxis, "path never left the obstacle corridor")
}

func TestReconstructPathOrder(t *testing.T) {
	root := &pathNode{state: DriveState{Pos: orb.Point{0, 0}}}
	mid := &pathNode{state: DriveState{Pos: orb.Point{1, 0}}, parent: root, steps: 1}
	leaf := &pathNode{state: DriveState{Pos: orb.Point{2, 0}}, parent: mid, steps: 2}

	path := reconstructPath(leaf)
	require.Len(t, path.Points, 3)
	assert.Equal(t, orb.Point{0, 0}, path.Points[0])
	assert.Equal(t, orb.Point{1, 0}, path.Points[1])
	assert.Equal(t, orb.Point{2, 0}, path.Points[2])
}

func TestNextStatesSampling(t *testing.T) {
	cfg := DefaultPlannerConfig()
	p := NewPlanner(cfg)

	states := p.nextStates(DriveState{Speed: 1})
	require.Len(t, states, 2*cfg.TurnSamplesPerSide+1)

	// Curvatures are evenly spaced across the admissible range and symmetric
	// around zero.
	k := cfg.TurnSamplesPerSide
	for i, st := range states {
		want := cfg.MaxCurvature * float64(i-k) / float64(k)
		assert.InDelta(t, want, st.Curvature, 1e-12, "state %d", i)
	}
}

func TestPlanStepsDerivedFromConfig(t *testing.T) {
	cfg := DefaultPlannerConfig()
	assert.Equal(t, 30, NewPlanner(cfg).planSteps())

	cfg.PlanLengthSeconds = 1.0
	assert.Equal(t, 10, NewPlanner(cfg).planSteps())
}
