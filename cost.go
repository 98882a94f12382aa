package main

import (
	"math"

	"github.com/paulmach/orb/planar"
)

// landmarkScorer scores one landmark's contribution to the local cost of a
// candidate state.
type landmarkScorer func(state DriveState, lm *Landmark, cfg *PlannerConfig) float64

// travelDirectionScorers maps each landmark type to its travel-direction
// penalty: driving the wrong angular sense around an arrow marker is meant to
// cost extra, while obstacles and lane lines contribute nothing. Every entry
// currently scores zero; adding a weighting rule for one type does not touch
// the others.
var travelDirectionScorers = map[LandmarkType]landmarkScorer{
	LeftLine:   noTravelDirectionPenalty,
	RightLine:  noTravelDirectionPenalty,
	Obstacle:   noTravelDirectionPenalty,
	ArrowLeft:  noTravelDirectionPenalty,
	ArrowRight: noTravelDirectionPenalty,
}

func noTravelDirectionPenalty(DriveState, *Landmark, *PlannerConfig) float64 {
	return 0
}

// proximityPenalty ramps linearly from cfg.ProximityMaxWeight at distance 0
// down to 0 at cfg.ProximityStartDist, and stays 0 beyond it.
func proximityPenalty(state DriveState, lm *Landmark, cfg *PlannerConfig) float64 {
	d := planar.Distance(state.Pos, lm.Pos)
	weight := (cfg.ProximityStartDist - d) / cfg.ProximityStartDist * cfg.ProximityMaxWeight
	if weight < 0 {
		return 0
	}
	return weight
}

// curvaturePenalty grows quadratically with curvature so sharp turns are
// increasingly discouraged and smoother lines win.
func curvaturePenalty(state DriveState, cfg *PlannerConfig) float64 {
	return cfg.CurvatureWeight * math.Pow(math.Abs(state.Curvature), 2)
}

// localCost combines the per-landmark and per-state cost terms for one
// candidate state, starting from the step bias. Finite inputs always produce
// a finite result.
func localCost(state DriveState, nearby []*Landmark, cfg *PlannerConfig) float64 {
	total := cfg.StepBias
	for _, lm := range nearby {
		total += proximityPenalty(state, lm, cfg)
		if scorer, ok := travelDirectionScorers[lm.Type]; ok {
			total += scorer(state, lm, cfg)
		}
	}
	total += curvaturePenalty(state, cfg)
	return total
}
