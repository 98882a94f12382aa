package main

import (
	"math"

	"github.com/paulmach/orb"
)

// straightThreshold is the curvature magnitude below which motion is treated
// as straight-line travel rather than an arc.
const straightThreshold = 1e-3

// DriveState is the instantaneous kinematic description of the vehicle.
// Positions are in meters, Angle in radians, Curvature in 1/m (signed,
// 0 = straight), Speed in m/s. States are values: every transition produces
// a new DriveState and never mutates the old one.
type DriveState struct {
	Pos       orb.Point
	Angle     float64
	Curvature float64
	Speed     float64
}

// StepDistance advances the state dist meters along its current curvature.
// For |curvature| below straightThreshold the motion is a straight line;
// otherwise it follows a circular arc of radius 1/curvature. The two cases
// agree in the limit curvature -> 0. Inputs are not guarded against NaN.
func (s DriveState) StepDistance(dist float64) DriveState {
	if math.Abs(s.Curvature) < straightThreshold {
		return DriveState{
			Pos: orb.Point{
				s.Pos.X() + dist*math.Cos(s.Angle),
				s.Pos.Y() + dist*math.Sin(s.Angle),
			},
			Angle:     s.Angle,
			Curvature: s.Curvature,
			Speed:     s.Speed,
		}
	}

	// Arc-length parameterized offset in the vehicle frame, rotated into the
	// world frame by the current heading.
	turned := s.Curvature * dist
	localX := math.Sin(turned) / s.Curvature
	localY := (1 - math.Cos(turned)) / s.Curvature
	sin, cos := math.Sincos(s.Angle)

	return DriveState{
		Pos: orb.Point{
			s.Pos.X() + localX*cos - localY*sin,
			s.Pos.Y() + localX*sin + localY*cos,
		},
		Angle:     s.Angle + turned,
		Curvature: s.Curvature,
		Speed:     s.Speed,
	}
}

// Step advances the state by dt seconds at its current speed.
func (s DriveState) Step(dt float64) DriveState {
	return s.StepDistance(dt * s.Speed)
}

// finite reports whether every field of the state is a finite number.
func (s DriveState) finite() bool {
	for _, v := range [...]float64{s.Pos.X(), s.Pos.Y(), s.Angle, s.Curvature, s.Speed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
