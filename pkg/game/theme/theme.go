// Package theme gives each depth of the dungeon an identity: a theme that
// cycles with depth, its room name pools and a flavour line for floor
// descriptions.
package theme

import (
	"github.com/leonelquinteros/gotext"
)

// Theme is the character of a floor
type Theme int

const (
	Halls       Theme = iota // Keeps, barracks, great halls
	Catacombs                // Tombs, ossuaries, shrines
	Mines                    // Shafts, workings, forges
	Sewers                   // Cisterns, drains, sluices
	FungalCaves              // Grottos, spore beds, pools
	Abyss                    // Old temples, pits, altars
)

// themeCount is the number of themes (for cycling).
const themeCount = 6

// ForDepth returns the theme for the given depth (1-based). Themes cycle so
// every floor has an identity; depths below 1 read as the first theme.
func ForDepth(depth int) Theme {
	if depth <= 0 {
		return Halls
	}
	return Theme((depth - 1) % themeCount)
}

// String returns the theme name
func (t Theme) String() string {
	switch t {
	case Halls:
		return "halls"
	case Catacombs:
		return "catacombs"
	case Mines:
		return "mines"
	case Sewers:
		return "sewers"
	case FungalCaves:
		return "fungal caves"
	case Abyss:
		return "abyss"
	default:
		return "unknown"
	}
}

// FlavourKey returns the gettext message key for the floor flavour line.
// Deeper floors use darker lines.
func FlavourKey(depth int) string {
	switch {
	case depth <= 3:
		return "FLOOR_FLAVOUR_SHALLOW"
	case depth <= 6:
		return "FLOOR_FLAVOUR_MIDDLE"
	case depth <= 9:
		return "FLOOR_FLAVOUR_DEEP"
	default:
		return "FLOOR_FLAVOUR_ABYSS"
	}
}

// FlavourText returns the translated flavour line for the given depth
func FlavourText(depth int) string {
	switch FlavourKey(depth) {
	case "FLOOR_FLAVOUR_MIDDLE":
		return gotext.Get("FLOOR_FLAVOUR_MIDDLE")
	case "FLOOR_FLAVOUR_DEEP":
		return gotext.Get("FLOOR_FLAVOUR_DEEP")
	case "FLOOR_FLAVOUR_ABYSS":
		return gotext.Get("FLOOR_FLAVOUR_ABYSS")
	default:
		return gotext.Get("FLOOR_FLAVOUR_SHALLOW")
	}
}

// RoomNames returns room base names and adjectives for the given theme
func RoomNames(t Theme) (bases []string, adjectives []string) {
	adjectives = []string{
		"Abandoned", "Collapsed", "Damp", "Dusty", "Flooded",
		"Forgotten", "Gloomy", "Ruined", "Sealed", "Silent",
	}
	switch t {
	case Halls:
		bases = []string{
			"Great Hall", "Barracks", "Armory", "Guardroom", "Kitchen",
			"Larder", "Gallery", "Kennel", "Library", "Storeroom",
		}
	case Catacombs:
		bases = []string{
			"Ossuary", "Crypt", "Burial Niche", "Shrine", "Embalming Room",
			"Charnel House", "Mourning Hall", "Reliquary", "Tomb", "Chapel",
		}
	case Mines:
		bases = []string{
			"Shaft", "Ore Chamber", "Forge", "Smelter", "Tool Store",
			"Cart Depot", "Collapsed Working", "Pump Room", "Assay Office", "Vein",
		}
	case Sewers:
		bases = []string{
			"Cistern", "Sluice", "Drain", "Overflow Chamber", "Well Room",
			"Settling Pool", "Culvert", "Pipe Gallery", "Valve Room", "Outfall",
		}
	case FungalCaves:
		bases = []string{
			"Grotto", "Spore Bed", "Mushroom Garden", "Dripping Hollow", "Mossy Den",
			"Glow Pool", "Root Chamber", "Mould Nest", "Sinkhole", "Hollow",
		}
	case Abyss:
		bases = []string{
			"Altar Room", "Black Temple", "Sacrifice Pit", "Throne Room", "Bone Pit",
			"Obsidian Hall", "Void Chapel", "Idol Chamber", "Summoning Circle", "Sanctum",
		}
	default:
		bases = []string{"Chamber", "Room", "Hall"}
	}
	return bases, adjectives
}
