package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels       int           // Output pixels
	TotalSamples      int           // Rays cast (pixels × supersampling)
	HitSamples        int           // Rays that hit a shape
	IntersectionTests int           // Ray/shape tests performed
	Tiles             int           // Tiles rendered
	Elapsed           time.Duration // Wall time of the render
}

// HitRatio returns the fraction of rays that hit a shape
func (s RenderStats) HitRatio() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.HitSamples) / float64(s.TotalSamples)
}

// merge adds the counters of a tile into the totals
func (s *RenderStats) merge(tile RenderStats) {
	s.TotalSamples += tile.TotalSamples
	s.HitSamples += tile.HitSamples
	s.IntersectionTests += tile.IntersectionTests
	s.Tiles++
}
