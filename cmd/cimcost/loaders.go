package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/rramcim/array"
	"github.com/sarchlab/rramcim/cost"
	"github.com/sarchlab/rramcim/perf"
)

// loadHardwareConfig reads a configuration file, or returns the defaults
// when path is empty.
func loadHardwareConfig(path string) (*array.HardwareConfig, error) {
	if path == "" {
		return array.DefaultHardwareConfig(), nil
	}
	return array.LoadConfig(path)
}

// loadMapping reads a workload mapping file. Fields missing from the file
// keep the values of base.
func loadMapping(path string, base cost.WorkloadMapping) (cost.WorkloadMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read mapping file: %w", err)
	}

	mapping := base
	if err := json.Unmarshal(data, &mapping); err != nil {
		return base, fmt.Errorf("failed to parse mapping file: %w", err)
	}

	return mapping, nil
}

func loadReference(path string) (*perf.Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}

	ref := &perf.Reference{}
	if err := json.Unmarshal(data, ref); err != nil {
		return nil, fmt.Errorf("failed to parse reference file: %w", err)
	}

	return ref, nil
}

func parseTopologies(names []string) ([]array.Topology, error) {
	topologies := make([]array.Topology, 0, len(names))
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), "all") {
			return array.Topologies(), nil
		}
		t, err := array.ParseTopology(n)
		if err != nil {
			return nil, err
		}
		topologies = append(topologies, t)
	}
	return topologies, nil
}

// parseModes turns compute mode names into IsAnalogCompute values.
func parseModes(names []string) ([]bool, error) {
	modes := make([]bool, 0, len(names))
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "aimc", "analog":
			modes = append(modes, true)
		case "dimc", "digital":
			modes = append(modes, false)
		default:
			return nil, fmt.Errorf("unknown compute mode %q", n)
		}
	}
	return modes, nil
}
