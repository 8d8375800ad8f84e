package worldgen

import (
	"fmt"
	"strings"
)

// Render draws sys as a monospace tree. Only details the exploration status
// permits are shown.
func Render(sys *System) string {
	var b strings.Builder
	fmt.Fprintf(&b, "System %s (%.0f%% explored)\n", sys.Name, sys.ExploredPercent())
	if sys.Star != nil {
		fmt.Fprintf(&b, "Star: %s %s, %s\n", sys.Star.Type, sys.Star.Spectral, sys.Star.Brightness)
	}
	renderBodies(&b, sys.Bodies, "", "AU")
	return strings.TrimRight(b.String(), "\n")
}

func renderBodies(b *strings.Builder, bodies []*Body, indent, unit string) {
	for i, body := range bodies {
		branch, stem := "├── ", "│   "
		if i == len(bodies)-1 {
			branch, stem = "└── ", "    "
		}
		orbit := fmt.Sprintf("%.2f %s", body.Orbit, unit)
		if unit == "km" {
			orbit = fmt.Sprintf("%.0f km", body.Orbit)
		}
		fmt.Fprintf(b, "%s%s%s  %s  %s  %s\n", indent, branch, body.Name, body.Type, orbit, body.Status)
		detail := indent + stem
		if size, ok := body.Size(); ok {
			fmt.Fprintf(b, "%s  diameter %d km, gravity %.2f g\n", detail, size.DiameterKm, size.Gravity)
		}
		if s, ok := body.Surface(); ok {
			fmt.Fprintf(b, "%s  atmosphere %s, temperature %s, geosphere %s, terrain %s\n",
				detail, s.Atmosphere, s.Temperature, s.Geosphere, s.Terrain)
		}
		if c, ok := body.Colony(); ok {
			fmt.Fprintf(b, "%s  colony %s: %s %s, orbit %s, allegiance %s", detail, c.Name, c.Size, c.Mission, c.Orbit, c.Allegiance)
			if len(c.Factions) > 0 {
				fmt.Fprintf(b, ", factions %s", strings.Join(c.Factions, ", "))
			}
			b.WriteString("\n")
		}
		if body.Moons != nil && len(body.Moons.Bodies) > 0 {
			renderBodies(b, body.Moons.Bodies, detail, "km")
		}
	}
}
