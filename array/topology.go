package array

import "strings"

// Topology identifies how storage devices, access transistors and the
// summation lines are arranged in the macro.
type Topology int

// The supported array topologies. The zero value is not a valid topology.
const (
	TopologyUnknown Topology = iota
	Crossbar
	OneTOneR
	OneTOneRPseudoCrossbar
	TwoTTwoR
	TwoTTwoRPseudoCrossbar
)

var topologyNames = map[Topology]string{
	Crossbar:               "crossbar",
	OneTOneR:               "1t1r",
	OneTOneRPseudoCrossbar: "1t1r_pseudo_crossbar",
	TwoTTwoR:               "2t2r",
	TwoTTwoRPseudoCrossbar: "2t2r_pseudo_crossbar",
}

// Topologies lists every valid topology in declaration order.
func Topologies() []Topology {
	return []Topology{
		Crossbar,
		OneTOneR,
		OneTOneRPseudoCrossbar,
		TwoTTwoR,
		TwoTTwoRPseudoCrossbar,
	}
}

// ParseTopology converts a topology tag into a Topology.
func ParseTopology(tag string) (Topology, error) {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	for t, name := range topologyNames {
		if name == normalized {
			return t, nil
		}
	}

	return TopologyUnknown, &ConfigurationError{
		Field:  "topology",
		Reason: "unknown topology tag " + `"` + tag + `"`,
	}
}

// String returns the topology tag.
func (t Topology) String() string {
	if name, ok := topologyNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is one of the supported topologies.
func (t Topology) Valid() bool {
	_, ok := topologyNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, &ConfigurationError{
			Field:  "topology",
			Reason: "cannot encode an unknown topology",
		}
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	parsed, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsCrossbar reports whether the array has no access devices at all.
func (t Topology) IsCrossbar() bool {
	return t == Crossbar
}

// IsPseudoCrossbar reports whether the summation line runs parallel to the
// word line.
func (t Topology) IsPseudoCrossbar() bool {
	return t == OneTOneRPseudoCrossbar || t == TwoTTwoRPseudoCrossbar
}

// IsTwoDevice reports whether one cell holds a differential device pair.
func (t Topology) IsTwoDevice() bool {
	return t == TwoTTwoR || t == TwoTTwoRPseudoCrossbar
}

// DevicesPerCell is the number of resistive devices in one cell.
func (t Topology) DevicesPerCell() int {
	if t.IsTwoDevice() {
		return 2
	}
	return 1
}

// AccessTransistorsPerCell is the number of access transistors in one cell.
func (t Topology) AccessTransistorsPerCell() int {
	switch t {
	case OneTOneR, OneTOneRPseudoCrossbar:
		return 1
	case TwoTTwoR, TwoTTwoRPseudoCrossbar:
		return 2
	default:
		return 0
	}
}

// LinesPerColumn is the number of driven bit/source lines per physical
// column. A crossbar still needs one bit line driver per column.
func (t Topology) LinesPerColumn() int {
	if t.IsTwoDevice() {
		return 2
	}
	return 1
}
