package main

import (
	"container/heap"
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrNonFiniteStart is returned by FindPath when the start state carries a
// NaN or infinite value.
var ErrNonFiniteStart = errors.New("start state contains a non-finite value")

// Path is the ordered sequence of positions from the start state to the
// planning horizon. An empty Path means no plan was found this cycle.
type Path struct {
	Points []orb.Point
}

// pathNode is one explored state in the search tree. Nodes are immutable
// after creation; parent links are shared read-only among children, so the
// explored set forms a tree grown backward from the root and abandoned
// branches are reclaimed by the garbage collector once no frontier entry
// references them.
type pathNode struct {
	state  DriveState
	cost   float64 // accumulated cost from the root
	parent *pathNode
	steps  int
	index  int // position in the heap
}

// frontier implements heap.Interface, ordered by accumulated cost ascending.
// Float ties break arbitrarily; cost is continuous, so exact collisions do
// not matter in practice.
type frontier []*pathNode

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	return f[i].cost < f[j].cost
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x interface{}) {
	n := len(*f)
	node := x.(*pathNode)
	node.index = n
	*f = append(*f, node)
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*f = old[0 : n-1]
	return node
}

// Planner runs fixed-horizon, cost-ordered searches over the continuous
// drive-state space. It holds no state between calls.
type Planner struct {
	cfg PlannerConfig
}

// NewPlanner creates a planner with the given tuning options.
func NewPlanner(cfg PlannerConfig) *Planner {
	return &Planner{cfg: cfg}
}

// planSteps returns the expansion horizon in steps.
func (p *Planner) planSteps() int {
	return int(math.Round(p.cfg.PlanLengthSeconds / p.cfg.StepSizeSeconds))
}

// nextStates samples 2k+1 curvatures evenly spaced across the admissible
// range, holding position, heading and speed, and advances each by one time
// step.
func (p *Planner) nextStates(state DriveState) []DriveState {
	k := p.cfg.TurnSamplesPerSide
	out := make([]DriveState, 0, 2*k+1)
	for i := -k; i <= k; i++ {
		next := state
		next.Curvature = p.cfg.MaxCurvature * float64(i) / float64(k)
		out = append(out, next.Step(p.cfg.StepSizeSeconds))
	}
	return out
}

// FindPath expands the lowest-accumulated-cost partial path until one reaches
// the planning horizon, then returns its position sequence. Ordering is pure
// accumulated cost with no goal heuristic: this is a fixed-depth local
// planner, not a goal-directed search, and the step bias means accumulated
// cost can decrease along a branch, so the first node to reach the horizon is
// only the best known at that moment. Landmarks are queried once per expanded
// node and the result is reused for every branch. An exhausted frontier
// returns an empty Path and no error.
func (p *Planner) FindPath(start DriveState, landmarks LandmarkStore) (Path, error) {
	if !start.finite() {
		return Path{}, ErrNonFiniteStart
	}

	horizon := p.planSteps()
	open := &frontier{}
	heap.Init(open)
	heap.Push(open, &pathNode{state: start})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)

		if current.steps >= horizon {
			return reconstructPath(current), nil
		}

		searchNodesExpanded.Inc()
		nearby := landmarks.QueryRadius(current.state.Pos, p.cfg.LandmarkQueryRadius)

		for _, next := range p.nextStates(current.state) {
			heap.Push(open, &pathNode{
				state:  next,
				cost:   current.cost + localCost(next, nearby, &p.cfg),
				parent: current,
				steps:  current.steps + 1,
			})
		}
	}

	return Path{}, nil
}

// reconstructPath walks the parent chain back to the root and reverses it so
// the path reads start to horizon.
func reconstructPath(terminal *pathNode) Path {
	points := make([]orb.Point, 0, terminal.steps+1)
	for node := terminal; node != nil; node = node.parent {
		points = append(points, node.state.Pos)
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return Path{Points: points}
}
