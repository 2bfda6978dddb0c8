package generator

import (
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
)

// Context carries the state shared by every generation call of one world:
// the random stream, the label of the floor being built, the logger and the
// registry of unique templates already placed.
type Context struct {
	RNG         *rng.RNG
	FloorLabel  string
	Depth       int // Depth of the floor being built, for naming
	Logger      *zap.Logger
	UsedUniques mapset.Set[string]
}

// NewContext creates a context with an empty unique registry. A nil logger is
// replaced with a no-op logger.
func NewContext(g *rng.RNG, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		RNG:         g,
		Logger:      logger,
		UsedUniques: mapset.New[string](),
	}
}

// Log returns the logger tagged with the current floor label
func (c *Context) Log() *zap.Logger {
	if c.FloorLabel == "" {
		return c.Logger
	}
	return c.Logger.With(zap.String("floor", c.FloorLabel))
}

// ResetUniques empties the unique registry. Called once at the start of each world.
func (c *Context) ResetUniques() {
	c.UsedUniques = mapset.New[string]()
}

// UniqueUsed reports whether the named unique template was already placed in this world
func (c *Context) UniqueUsed(name string) bool {
	return c.UsedUniques.Has(name)
}

// ClaimUnique records the named unique template as placed. Returns false if it
// was already claimed.
func (c *Context) ClaimUnique(name string) bool {
	if c.UsedUniques.Has(name) {
		return false
	}
	c.UsedUniques.Put(name)
	return true
}

// ReleaseUnique forgets a claim, used when the floor that placed it is discarded
func (c *Context) ReleaseUnique(name string) {
	c.UsedUniques.Remove(name)
}
