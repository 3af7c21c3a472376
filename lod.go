package lodmesh

import (
	"fmt"
	"math"
)

// Selector maps viewing distance and a device performance score to a LOD
// level and target vertex count. The zero value is not useful; start from
// DefaultSelector. All methods are pure.
type Selector struct {
	// MaxLOD is the coarsest level the selector may pick. Levels run from
	// 0 (full detail) to MaxLOD.
	MaxLOD int `yaml:"max_lod"`
	// Ratios maps LOD level to the fraction of vertices retained.
	Ratios []float64 `yaml:"ratios"`
	// OverflowRatio is used for levels past the end of Ratios.
	OverflowRatio float64 `yaml:"overflow_ratio"`
}

// DefaultSelector returns the selector used when no configuration is given.
func DefaultSelector() Selector {
	return Selector{
		MaxLOD:        3,
		Ratios:        []float64{1.0, 0.7, 0.4, 0.2},
		OverflowRatio: 0.1,
	}
}

// Level picks a LOD level in [0, MaxLOD] for a mesh viewed at the given
// distance on a device with performanceScore in [0,1] (1 being fastest).
// Distances of 100 and beyond saturate to the coarsest level. A negative
// distance is a contract violation reported as ErrInvalidInput, never
// silently clamped.
func (s Selector) Level(distance, performanceScore float64) (int, error) {
	if distance < 0 {
		return 0, fmt.Errorf("%w: negative distance %v", ErrInvalidInput, distance)
	}
	perfFactor := 0.4
	switch {
	case performanceScore > 0.8:
		perfFactor = 1.0
	case performanceScore > 0.5:
		perfFactor = 0.7
	}
	distFactor := math.Min(distance/100, 1)
	level := int(math.Floor(float64(s.MaxLOD) * perfFactor * (1 - distFactor)))
	if level < 0 {
		level = 0
	} else if level > s.MaxLOD {
		level = s.MaxLOD
	}
	return level, nil
}

// Ratio returns the vertex retention ratio for a LOD level.
func (s Selector) Ratio(level int) float64 {
	if level < 0 || level >= len(s.Ratios) {
		return s.OverflowRatio
	}
	return s.Ratios[level]
}

// TargetVertexCount combines Level and Ratio into the vertex count a mesh of
// originalVertexCount vertices should be simplified to.
func (s Selector) TargetVertexCount(distance, performanceScore float64, originalVertexCount int) (int, error) {
	level, err := s.Level(distance, performanceScore)
	if err != nil {
		return 0, err
	}
	return int(float64(originalVertexCount) * s.Ratio(level)), nil
}
