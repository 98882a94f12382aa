package main

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestStepDistanceStraight(t *testing.T) {
	s := DriveState{Pos: orb.Point{1, 2}, Angle: math.Pi / 6, Speed: 2}

	for _, dist := range []float64{0.5, 0, -1.25, 10} {
		next := s.StepDistance(dist)
		assert.InDelta(t, 1+dist*math.Cos(math.Pi/6), next.Pos.X(), 1e-12)
		assert.InDelta(t, 2+dist*math.Sin(math.Pi/6), next.Pos.Y(), 1e-12)
		assert.Equal(t, s.Angle, next.Angle)
		assert.Equal(t, s.Curvature, next.Curvature)
		assert.Equal(t, s.Speed, next.Speed)
	}
}

func TestStepDistanceQuarterCircle(t *testing.T) {
	// Unit curvature from the origin heading +x: a quarter arc ends at (1, 1)
	// heading +y.
	s := DriveState{Curvature: 1, Speed: 1}
	next := s.StepDistance(math.Pi / 2)

	assert.InDelta(t, 1, next.Pos.X(), 1e-12)
	assert.InDelta(t, 1, next.Pos.Y(), 1e-12)
	assert.InDelta(t, math.Pi/2, next.Angle, 1e-12)
	assert.Equal(t, 1.0, next.Curvature)
	assert.Equal(t, 1.0, next.Speed)
}

func TestStepDistanceArcMatchesStraightInLimit(t *testing.T) {
	base := DriveState{Pos: orb.Point{0.5, -0.5}, Angle: 0.3, Speed: 1}

	straight := base
	straight.Curvature = 0

	arc := base
	arc.Curvature = straightThreshold // smallest curvature that still takes the arc branch

	const d = 0.01
	sp := straight.StepDistance(d).Pos
	ap := arc.StepDistance(d).Pos

	assert.InDelta(t, sp.X(), ap.X(), 1e-6)
	assert.InDelta(t, sp.Y(), ap.Y(), 1e-6)
}

func TestStepUsesSpeed(t *testing.T) {
	s := DriveState{Speed: 2}
	next := s.Step(0.1)

	assert.InDelta(t, 0.2, next.Pos.X(), 1e-12)
	assert.InDelta(t, 0, next.Pos.Y(), 1e-12)
}

func TestFinite(t *testing.T) {
	assert.True(t, DriveState{}.finite())
	assert.False(t, DriveState{Angle: math.NaN()}.finite())
	assert.False(t, DriveState{Speed: math.Inf(1)}.finite())
	assert.False(t, DriveState{Pos: orb.Point{math.Inf(-1), 0}}.finite())
}
