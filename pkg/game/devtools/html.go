package devtools

import (
	"fmt"
	"html"
	"io"
	"strings"

	"dungeonforge/pkg/engine/world"
	gameworld "dungeonforge/pkg/game/world"
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Dungeon %d</title>
    <style>
        body {
            background-color: #1a1a2e;
            color: #eee;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header {
            color: #bb86fc;
            font-size: 18px;
            margin-bottom: 10px;
        }
        .floor-info {
            color: #888;
            margin-bottom: 10px;
        }
        .map-container {
            background-color: #0f0f1a;
            padding: 20px;
            border-radius: 8px;
            display: inline-block;
            margin: 20px 0;
        }
        .map-row {
            white-space: pre;
            line-height: 1.2;
            font-size: 16px;
        }
        .entity { color: #00ff00; font-weight: bold; }
    </style>
</head>
<body>
`

// WriteWorldHTML renders every floor of the world as an HTML page, one map
// per floor in tree order
func WriteWorldHTML(w io.Writer, gw *gameworld.World, palette world.Palette) error {
	if gw == nil {
		return fmt.Errorf("no world")
	}
	if palette == nil {
		palette = world.DefaultPalette()
	}

	var page strings.Builder
	page.WriteString(fmt.Sprintf(htmlHeader, gw.Seed))
	for _, f := range gw.Floors() {
		writeFloorHTML(&page, f, palette)
	}
	page.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, page.String())
	return err
}

func writeFloorHTML(page *strings.Builder, f *gameworld.Floor, palette world.Palette) {
	page.WriteString(fmt.Sprintf(`    <div class="header">Floor %s</div>`+"\n", html.EscapeString(f.Label())))
	page.WriteString(fmt.Sprintf(`    <div class="floor-info">depth %d, %s, %s</div>`+"\n",
		f.Depth, html.EscapeString(f.Generator), html.EscapeString(f.Theme.String())))
	page.WriteString(`    <div class="map-container">` + "\n")
	for y := 0; y < f.Grid.Height(); y++ {
		page.WriteString(`        <div class="map-row">`)
		for x := 0; x < f.Grid.Width(); x++ {
			icon, style := cellHTML(f, world.Pt(x, y), palette)
			page.WriteString(fmt.Sprintf(`<span %s>%s</span>`, style, html.EscapeString(icon)))
		}
		page.WriteString("</div>\n")
	}
	page.WriteString("    </div>\n")
}

// cellHTML returns the icon and style attribute of one tile
func cellHTML(f *gameworld.Floor, p world.Point, palette world.Palette) (string, string) {
	if e := f.EntityAt(p); e != nil {
		return string(entityGlyph(e)), `class="entity"`
	}
	tile := f.Grid.At(p)
	icon := string(palette.Glyph(tile.Kind))
	if tile.Kind == world.LockedDoor && tile.LockColor != "" {
		return icon, fmt.Sprintf(`style="color: %s; font-weight: bold"`, html.EscapeString(tile.LockColor))
	}
	if a, ok := palette[tile.Kind]; ok {
		return icon, fmt.Sprintf(`style="color: %s"`, a.Light)
	}
	return icon, ""
}
