package worldgen

var (
	starTypes   = []string{"Main sequence", "Main sequence", "Main sequence", "Red dwarf", "White dwarf", "Giant", "Supergiant", "Binary"}
	brightness  = []string{"dim", "average", "average", "bright"}
	spectral    = []string{"O", "B", "A", "F", "G", "K", "M"}
	atmospheres = []string{"None", "Thin", "Breathable", "Toxic", "Corrosive", "Dense"}
	temperature = []string{"Frozen", "Cold", "Temperate", "Hot", "Burning"}
	geospheres  = []string{"Desert", "Rocky", "Volcanic", "Oceanic", "Subsurface ocean", "Glaciated"}
	terrains    = []string{"Mountains", "Plains", "Canyons", "Craters", "Ice sheets", "Rare mineral deposits"}

	colonySizes    = []string{"Start-up", "Young", "Established"}
	colonyMissions = []string{"Terraforming", "Mining", "Research", "Military", "Agricultural", "Corporate outpost", "Penal colony"}
	colonyOrbits   = []string{"Nothing", "Orbital station", "Spaceport", "Derelict hulk", "Defence platform"}
	allegiances    = []string{"United Americas", "Three World Empire", "Union of Progressive Peoples", "Independent"}
	founders       = []string{"Hadley", "Bishop", "Dallas", "Lambert", "Parker", "Kane", "Hicks", "Gorman", "Apone", "Burke", "Morse", "Clemens"}
	settlements    = []string{"Hope", "Landing", "Reach", "Rest", "Folly", "Station", "Haven", "Gate"}
)

// mythNames supplies names for well-explored systems and notable gas giants.
var mythNames = []string{
	"Acheron", "Aether", "Amphitrite", "Anubis", "Ares", "Artemis", "Astraea", "Atlas",
	"Baldur", "Bragi", "Calypso", "Ceres", "Charon", "Chronos", "Demeter", "Dione",
	"Eos", "Erebus", "Freya", "Frigg", "Gaia", "Heimdall", "Helios", "Hermes",
	"Hyperion", "Idun", "Janus", "Juno", "Loki", "Minerva", "Mimir", "Nemesis",
	"Nereus", "Njord", "Nyx", "Oceanus", "Odin", "Orpheus", "Osiris", "Pandora",
	"Perseus", "Phoebe", "Prometheus", "Proteus", "Rhea", "Selene", "Sif", "Styx",
	"Tethys", "Thanatos", "Theia", "Thoth", "Triton", "Tyr", "Vesta", "Vidar",
	"Ymir", "Zephyrus",
}
