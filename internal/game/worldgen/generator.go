package worldgen

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/game/dice"
)

const (
	minBodies             = 3
	maxBodies             = 8
	maxMoons              = 6
	maxMoonRatio          = 0.25
	minMoonRatio          = 0.01
	moonPlacementAttempts = 100
	colonyChance          = 30 // percent
	namedSystemPercent    = 50
	namedGiantPercent     = 90
)

var twoD6 = dice.MustParse("2d6")

// Generator builds random star systems. A Generator is not safe for
// concurrent use unless its Source is.
type Generator struct {
	src      dice.Source
	factions []string
	logger   *zap.Logger
}

// New creates a Generator drawing randomness from src and colony factions
// from factions.
//
// Precondition: src must not be nil.
func New(src dice.Source, factions []string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{src: src, factions: append([]string(nil), factions...), logger: logger}
}

// Generate builds one system.
//
// Postcondition: the system has 3 to 8 bodies sorted by orbit; every gas
// giant carries a moon system whose moons keep Hill separation.
func (g *Generator) Generate() *System {
	sys := &System{Star: g.star()}
	n := minBodies + g.src.Intn(maxBodies-minBodies+1)
	orbits := make([]float64, n)
	for i := range orbits {
		u := g.float()
		orbits[i] = round2(0.2 + 39.8*u*u)
	}
	sort.Float64s(orbits)

	for _, a := range orbits {
		t := AllBodyTypes[g.src.Intn(len(AllBodyTypes))]
		b := g.body(t, a, g.diameter(t))
		if t == GasGiant {
			b.Moons = g.moons(b)
		}
		sys.Bodies = append(sys.Bodies, b)
	}
	g.name(sys)
	g.logger.Debug("system generated",
		zap.String("system", sys.Name),
		zap.Int("bodies", len(sys.Bodies)),
		zap.Float64("explored_percent", sys.ExploredPercent()),
	)
	return sys
}

func (g *Generator) star() *Star {
	return &Star{
		Type:       g.pick(starTypes),
		Brightness: g.pick(brightness),
		Spectral:   fmt.Sprintf("%s%d", g.pick(spectral), g.src.Intn(10)),
	}
}

// body rolls status, size, surface, and colony for a body of type t.
func (g *Generator) body(t BodyType, orbit, diameter float64) *Body {
	status := StatusFromRoll(dice.Roll(twoD6, g.src).Total())
	if ceiling := t.MaxStatus(); status > ceiling {
		status = ceiling
	}
	b := &Body{
		Type:    t,
		Orbit:   orbit,
		Status:  status,
		size:    Size{DiameterKm: int(math.Round(diameter)), Gravity: Gravity(diameter)},
		surface: g.surface(t),
	}
	if colonyEligible(b) && g.src.Intn(100) < colonyChance {
		b.colony = g.colony()
	}
	return b
}

func (g *Generator) diameter(t BodyType) float64 {
	switch t {
	case Terrestrial:
		return float64(2000 + g.src.Intn(18001))
	case Ice:
		return float64(1000 + g.src.Intn(15001))
	case GasGiant:
		return float64(40000 + g.src.Intn(110001))
	default:
		return float64(100 + g.src.Intn(901))
	}
}

func (g *Generator) surface(t BodyType) Surface {
	switch t {
	case GasGiant:
		return Surface{Atmosphere: "Dense", Temperature: g.pick(temperature), Geosphere: "Gaseous", Terrain: "Cloud bands"}
	case AsteroidBelt:
		return Surface{Atmosphere: "None", Temperature: g.pick(temperature[:2]), Geosphere: "Rocky", Terrain: g.pick([]string{"Craters", "Rare mineral deposits"})}
	case Ice:
		return Surface{Atmosphere: g.pick(atmospheres), Temperature: g.pick(temperature[:2]), Geosphere: g.pick(geospheres), Terrain: g.pick(terrains)}
	default:
		return Surface{Atmosphere: g.pick(atmospheres), Temperature: g.pick(temperature), Geosphere: g.pick(geospheres), Terrain: g.pick(terrains)}
	}
}

// colonyEligible applies the gravity window, or for ice bodies the
// habitability tally. Size and surface are unknown on undiscovered bodies, so
// those never hold a colony.
func colonyEligible(b *Body) bool {
	if b.Status < Detected {
		return false
	}
	if b.Type != Terrestrial && b.Type != Ice {
		return false
	}
	if b.size.Gravity >= 0.6 && b.size.Gravity <= 1.5 {
		return true
	}
	return b.Type == Ice && iceTally(b) >= 2
}

func iceTally(b *Body) int {
	s := b.surface
	n := 0
	for _, ok := range []bool{
		s.Geosphere == "Volcanic",
		s.Geosphere == "Subsurface ocean",
		s.Atmosphere == "Breathable" || s.Atmosphere == "Thin",
		s.Terrain == "Rare mineral deposits",
		b.size.Gravity < 0.6,
	} {
		if ok {
			n++
		}
	}
	return n
}

func (g *Generator) colony() *Colony {
	c := &Colony{
		Name:       fmt.Sprintf("%s's %s", g.pick(founders), g.pick(settlements)),
		Size:       g.pick(colonySizes),
		Mission:    g.pick(colonyMissions),
		Orbit:      g.pick(colonyOrbits),
		Allegiance: g.pick(allegiances),
	}
	if len(g.factions) > 0 {
		first := g.src.Intn(len(g.factions))
		c.Factions = []string{g.factions[first]}
		if len(g.factions) > 1 && g.src.Intn(2) == 0 {
			second := (first + 1 + g.src.Intn(len(g.factions)-1)) % len(g.factions)
			c.Factions = append(c.Factions, g.factions[second])
		}
	}
	return c
}

// moons places up to six moons around a gas giant by rejection sampling.
// A moon that cannot be placed clear of every placed moon's Hill sphere is
// dropped.
func (g *Generator) moons(parent *Body) *System {
	pd := float64(parent.size.DiameterKm)
	radius := pd / 2
	want := 1 + g.src.Intn(maxMoons)

	type placed struct{ a, hill float64 }
	var (
		kept   []placed
		bodies []*Body
	)
	for i := 0; i < want; i++ {
		for attempt := 0; attempt < moonPlacementAttempts; attempt++ {
			u := g.float()
			ratio := minMoonRatio + (maxMoonRatio-minMoonRatio)*u*u*u
			d := math.Min(pd*ratio, pd*maxMoonRatio)
			a := math.Round(radius * (2 + 198*g.float()))
			h := HillRadius(a, d, pd)
			free := true
			for _, p := range kept {
				if math.Abs(a-p.a) < HillSeparation(h, p.hill) {
					free = false
					break
				}
			}
			if !free {
				continue
			}
			kept = append(kept, placed{a: a, hill: h})
			t := Terrestrial
			if g.src.Intn(2) == 0 {
				t = Ice
			}
			bodies = append(bodies, g.body(t, a, d))
			break
		}
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Orbit < bodies[j].Orbit })
	if dropped := want - len(bodies); dropped > 0 {
		g.logger.Debug("moons dropped", zap.Int("wanted", want), zap.Int("dropped", dropped))
	}
	return &System{Bodies: bodies}
}

// name assigns system, body, and moon names once exploration is known.
func (g *Generator) name(sys *System) {
	pool := g.shuffled(mythNames)
	myth := func() (string, bool) {
		if len(pool) == 0 {
			return "", false
		}
		n := pool[0]
		pool = pool[1:]
		return n, true
	}
	catalogue := func() string { return fmt.Sprintf("UCS-%04d", g.src.Intn(10000)) }

	sys.Name = catalogue()
	if sys.ExploredPercent() >= namedSystemPercent {
		if n, ok := myth(); ok {
			sys.Name = n
		}
	}

	discovered, hidden := 0, 0
	for _, b := range sys.Bodies {
		if b.Status == Undiscovered {
			hidden++
			b.Name = fmt.Sprintf("%s-uex*-%d", sys.Name, hidden)
		} else {
			discovered++
			b.Name = fmt.Sprintf("%s-%s-%d", sys.Name, b.Type.Code(), discovered)
			if b.Type == GasGiant && (giantExploredPercent(b) >= namedGiantPercent || b.hasColony()) {
				if n, ok := myth(); ok {
					b.Name = n
				}
			}
		}
		if b.Moons != nil {
			nameMoons(b)
		}
	}
}

func nameMoons(giant *Body) {
	giant.Moons.Name = giant.Name
	letter, hidden := 0, 0
	for _, m := range giant.Moons.Bodies {
		if m.Status == Undiscovered {
			hidden++
			m.Name = fmt.Sprintf("%s-uex*-%d", giant.Name, hidden)
			continue
		}
		m.Name = fmt.Sprintf("%s-%c", giant.Name, 'a'+letter)
		letter++
	}
}

func (g *Generator) pick(list []string) string {
	return list[g.src.Intn(len(list))]
}

// float returns a value in [0, 1).
func (g *Generator) float() float64 {
	return float64(g.src.Intn(1_000_000)) / 1_000_000
}

func (g *Generator) shuffled(list []string) []string {
	out := append([]string(nil), list...)
	for i := len(out) - 1; i > 0; i-- {
		j := g.src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
