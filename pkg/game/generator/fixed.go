package generator

import (
	"fmt"

	"go.uber.org/zap"

	"dungeonforge/pkg/engine/world"
)

// FixedGenerator stamps a hand-authored whole-floor template. Stairs come
// from the template's '<' and '>' glyphs; the requested entry is ignored.
type FixedGenerator struct {
	Template *Template
}

// Name returns the name of this generator
func (f *FixedGenerator) Name() string {
	return "fixed:" + f.Template.Name
}

// Generate stamps the template centred on a grid of the requested size, or
// on a grid just large enough when the template is bigger.
func (f *FixedGenerator) Generate(ctx *Context, req Request) (*Layout, error) {
	ctx.Depth = req.Depth
	t := f.Template
	width := max(req.Width, t.Width()+2)
	height := max(req.Height, t.Height()+2)
	grid := world.NewGrid(width, height)
	origin := world.Pt((width-t.Width())/2, (height-t.Height())/2)
	stamped := t.Stamp(grid, origin)

	if len(stamped.Upstairs) == 0 {
		return nil, fmt.Errorf("floor template %q has no up stairs", t.Name)
	}
	upstairs := stamped.Upstairs[0]
	for _, p := range stamped.Upstairs[1:] {
		grid.SetKind(p, world.Floor)
	}

	var downstairs []world.Point
	for _, p := range stamped.Downstairs {
		if len(downstairs) < req.Exits {
			downstairs = append(downstairs, p)
			continue
		}
		grid.SetKind(p, world.Floor)
	}
	if len(downstairs) < req.Exits {
		return nil, fmt.Errorf("floor template %q has %d of %d exits", t.Name, len(downstairs), req.Exits)
	}

	if _, err := Validate(grid, upstairs, downstairs); err != nil {
		return nil, err
	}
	SealUnreachable(grid, upstairs)

	layout := newLayout(f.Name(), grid)
	layout.Upstairs = upstairs
	layout.Downstairs = downstairs
	room := newTemplateRoom(t, origin)
	room.setInterior(reachableTiles(grid, stamped.Interior))
	nameRoom(room, ctx)
	layout.addRoom(room.Center(), room.Interior(), RoomInfo{Name: room.Name, Description: room.Description, Shape: room.Shape})

	ctx.Log().Debug("generated floor", zap.String("generator", f.Name()), zap.Int("exits", len(downstairs)))
	return layout, nil
}
