// Package worldgen generates star systems: a star, its orbital bodies, and the
// moon systems of gas giants, with physical detail gated by exploration status.
package worldgen

import "math"

// Status is how much is known about a body.
type Status int

// Exploration statuses in increasing order of knowledge.
const (
	Undiscovered Status = iota
	Detected
	Surveyed
	Explored
)

var statusNames = [...]string{"undiscovered", "detected", "surveyed", "explored"}

func (s Status) String() string {
	if s < Undiscovered || s > Explored {
		return "unknown"
	}
	return statusNames[s]
}

// Score maps the status onto [0, 1] for exploration percentages.
func (s Status) Score() float64 {
	return float64(s) / float64(Explored)
}

// StatusFromRoll maps a 2d6 total onto a status.
func StatusFromRoll(total int) Status {
	switch {
	case total >= 11:
		return Explored
	case total >= 9:
		return Surveyed
	case total >= 6:
		return Detected
	default:
		return Undiscovered
	}
}

// BodyType classifies an orbital body.
type BodyType int

// Body types.
const (
	Terrestrial BodyType = iota
	Ice
	GasGiant
	AsteroidBelt
)

// AllBodyTypes lists every body type in table order.
var AllBodyTypes = []BodyType{Terrestrial, Ice, GasGiant, AsteroidBelt}

func (t BodyType) String() string {
	switch t {
	case Terrestrial:
		return "terrestrial"
	case Ice:
		return "ice"
	case GasGiant:
		return "gas giant"
	case AsteroidBelt:
		return "asteroid belt"
	}
	return "unknown"
}

// Code is the catalogue abbreviation used in body names.
func (t BodyType) Code() string {
	switch t {
	case Terrestrial:
		return "TER"
	case Ice:
		return "ICE"
	case GasGiant:
		return "GG"
	case AsteroidBelt:
		return "AB"
	}
	return "UNK"
}

// MaxStatus is the best status a body of this type can reach.
func (t BodyType) MaxStatus() Status {
	if t == GasGiant || t == AsteroidBelt {
		return Surveyed
	}
	return Explored
}

// Star is the primary of a system.
type Star struct {
	Type       string
	Brightness string
	Spectral   string
}

// Size is the physical extent of a body, visible once it is detected.
type Size struct {
	DiameterKm int
	Gravity    float64
}

// Surface describes a body's surface, visible once it is surveyed.
type Surface struct {
	Atmosphere  string
	Temperature string
	Geosphere   string
	Terrain     string
}

// Colony is a settlement on a terrestrial or ice body.
type Colony struct {
	Name       string
	Size       string
	Mission    string
	Orbit      string
	Factions   []string
	Allegiance string
}

// Body is one orbital body. Physical data is always generated but only
// exposed through the status-gated accessors.
type Body struct {
	Name   string
	Type   BodyType
	Orbit  float64 // AU for planets, km from the parent for moons
	Status Status
	Moons  *System // gas giants only

	size    Size
	surface Surface
	colony  *Colony
}

// Size returns the body's size when it is at least detected.
func (b *Body) Size() (Size, bool) {
	if b.Status < Detected {
		return Size{}, false
	}
	return b.size, true
}

// Surface returns the body's surface when it is at least surveyed.
func (b *Body) Surface() (Surface, bool) {
	if b.Status < Surveyed {
		return Surface{}, false
	}
	return b.surface, true
}

// Colony returns the body's colony when there is one and the body is at least detected.
func (b *Body) Colony() (*Colony, bool) {
	if b.colony == nil || b.Status < Detected {
		return nil, false
	}
	return b.colony, true
}

// hasColony reports whether the body or any of its moons is settled.
func (b *Body) hasColony() bool {
	if b.colony != nil {
		return true
	}
	if b.Moons != nil {
		for _, m := range b.Moons.Bodies {
			if m.colony != nil {
				return true
			}
		}
	}
	return false
}

// System is a star or gas giant with the bodies orbiting it. Moon systems
// have no Star.
type System struct {
	Name   string
	Star   *Star
	Bodies []*Body
}

// ExploredPercent is the mean status score of the system's bodies times 100.
func (s *System) ExploredPercent() float64 {
	if len(s.Bodies) == 0 {
		return 0
	}
	var sum float64
	for _, b := range s.Bodies {
		sum += b.Status.Score()
	}
	return sum / float64(len(s.Bodies)) * 100
}

// giantExploredPercent averages a gas giant's own score with its moons'.
func giantExploredPercent(b *Body) float64 {
	sum := b.Status.Score()
	n := 1
	if b.Moons != nil {
		for _, m := range b.Moons.Bodies {
			sum += m.Status.Score()
			n++
		}
	}
	return sum / float64(n) * 100
}

const (
	gravitationalConstant = 6.674e-11 // m³ kg⁻¹ s⁻²
	earthGravity          = 9.80665   // m s⁻²
	defaultDensity        = 4500.0    // kg m⁻³
	minGravity            = 0.01
)

// Gravity returns surface gravity in g for a body of the given diameter,
// assuming the default density. The result is at least 0.01 and rounded to
// two decimals.
func Gravity(diameterKm float64) float64 {
	r := diameterKm * 1000 / 2
	g := 4.0 / 3.0 * math.Pi * gravitationalConstant * defaultDensity * r / earthGravity
	g = math.Round(g*100) / 100
	return math.Max(g, minGravity)
}

// HillRadius approximates the Hill sphere of a moon at distance a whose
// mass ratio to its parent is taken as the cube of the diameter ratio.
func HillRadius(a, moonDiameter, parentDiameter float64) float64 {
	ratio := moonDiameter / parentDiameter
	return a * math.Cbrt(ratio*ratio*ratio/3)
}

// HillSeparation is the minimum distance two moons must keep.
func HillSeparation(h1, h2 float64) float64 {
	return 5 * (h1 + h2)
}
