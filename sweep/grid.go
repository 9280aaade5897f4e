package sweep

import (
	"fmt"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
)

// Grid spans the cases of a sweep. Every empty axis keeps the value of the
// base configuration.
type Grid struct {
	Topologies   []array.Topology
	ComputeModes []bool
	ShareFactors []float64
	Resolutions  []int
	Sizes        []int

	// Mapping is attached to every case when set.
	Mapping *cost.WorkloadMapping
}

// Cases expands the grid over base. Digital crossbar combinations are
// skipped because a digital read needs an access device.
func (g Grid) Cases(base *array.HardwareConfig) []Case {
	topologies := g.Topologies
	if len(topologies) == 0 {
		topologies = []array.Topology{base.Topology}
	}
	modes := g.ComputeModes
	if len(modes) == 0 {
		modes = []bool{base.IsAnalogCompute}
	}
	shares := g.ShareFactors
	if len(shares) == 0 {
		shares = []float64{base.ADCShareFactor}
	}
	resolutions := g.Resolutions
	if len(resolutions) == 0 {
		resolutions = []int{base.ADCResolution}
	}
	sizes := g.Sizes
	if len(sizes) == 0 {
		sizes = []int{base.WordlineCount}
	}

	var cases []Case
	for _, t := range topologies {
		for _, analog := range modes {
			if t.IsCrossbar() && !analog {
				continue
			}
			for _, size := range sizes {
				for _, share := range shares {
					for _, res := range resolutions {
						cfg := base.Clone()
						cfg.Topology = t
						cfg.IsAnalogCompute = analog
						cfg.WordlineCount = size
						cfg.BitlineCount = size
						cfg.ADCShareFactor = share
						cfg.ADCResolution = res
						cfg.Name = fmt.Sprintf("%s_%s_%dx%d_share%g_adc%d",
							t, mode(analog), size, size, share, res)

						cases = append(cases, Case{
							Name:    cfg.Name,
							Config:  cfg,
							Mapping: g.Mapping,
						})
					}
				}
			}
		}
	}

	return cases
}
