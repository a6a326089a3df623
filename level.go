package stratum

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel is returned for level configs that cannot be built.
var ErrInvalidLevel = errors.New("stratum: invalid level")

// Wall sides. A wall sits on the named edge of its tile.
const (
	SideNorth = "north"
	SideSouth = "south"
	SideEast  = "east"
	SideWest  = "west"
)

// LevelConfig describes a grid of floor tiles and walls.
type LevelConfig struct {
	TileSize float64     `yaml:"tileSize"`
	Floors   []FloorTile `yaml:"floors"`
	Walls    []WallTile  `yaml:"walls"`
}

// FloorTile is a floor quad covering tile (X, Y) raised by Height.
// Cell is the tile index in the texture sheet.
type FloorTile struct {
	X      int     `yaml:"x"`
	Y      int     `yaml:"y"`
	Height float64 `yaml:"height"`
	Cell   int     `yaml:"cell"`
}

// WallTile is a wall on one side of tile (X, Y), Height pixels tall.
type WallTile struct {
	X      int     `yaml:"x"`
	Y      int     `yaml:"y"`
	Side   string  `yaml:"side"`
	Height float64 `yaml:"height"`
	Cell   int     `yaml:"cell"`
}

// LoadLevelConfig parses and validates a YAML level description.
func LoadLevelConfig(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the tile size and wall sides. An empty side means north.
func (c *LevelConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %v must be positive", ErrInvalidLevel, c.TileSize)
	}
	for i, w := range c.Walls {
		if _, ok := wallBases[sideOrDefault(w.Side)]; !ok {
			return fmt.Errorf("%w: wall %d at (%d,%d) has unknown side %q", ErrInvalidLevel, i, w.X, w.Y, w.Side)
		}
	}
	return nil
}

func sideOrDefault(side string) string {
	if side == "" {
		return SideNorth
	}
	return side
}

// wallBases holds the base edge of a wall on each side of a unit tile, in
// travel order. Only north walls face the camera.
var wallBases = map[string][2]Vec2{
	SideNorth: {{0, 0}, {1, 0}},
	SideSouth: {{1, 1}, {0, 1}},
	SideEast:  {{1, 0}, {1, 1}},
	SideWest:  {{0, 1}, {0, 0}},
}

// Level is the transform tree and quads built from a LevelConfig.
type Level struct {
	root     *Transform
	tileSize float64
	tiles    map[[2]int]*Transform
	floors   []*Quad
	walls    []*Quad
	cells    map[*Quad]int
}

// BuildLevel builds cfg under parent (Root if nil). Each tile gets a
// transform at (x, y) * tileSize; a wall's top edge sits on a child
// transform raised by the wall height.
func BuildLevel(cfg *LevelConfig, parent *Transform) (*Level, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Level{
		tileSize: cfg.TileSize,
		tiles:    make(map[[2]int]*Transform),
		cells:    make(map[*Quad]int),
	}
	l.root = NewTransform(l, parent)
	l.root.Name = "level"

	ts := cfg.TileSize
	for _, f := range cfg.Floors {
		t := l.tile(f.X, f.Y)
		t.SetHeight(f.Height)
		q := NewQuad(
			NewVertex(Vec2{0, 0}, t),
			NewVertex(Vec2{ts, 0}, t),
			NewVertex(Vec2{ts, ts}, t),
			NewVertex(Vec2{0, ts}, t),
		)
		l.floors = append(l.floors, q)
		l.cells[q] = f.Cell
	}

	for _, w := range cfg.Walls {
		base := l.tile(w.X, w.Y)
		top := NewTransform(l, base)
		top.Name = "wall-top"
		top.SetHeight(-w.Height)

		edge := wallBases[sideOrDefault(w.Side)]
		start, end := edge[0].Scale(ts), edge[1].Scale(ts)
		q := NewQuad(
			NewVertex(start, base),
			NewVertex(end, base),
			NewVertex(end, top),
			NewVertex(start, top),
		)
		q.SetIsVertical(q.Edges()[0])
		l.walls = append(l.walls, q)
		l.cells[q] = w.Cell
	}

	logger.Info("level built",
		zap.Int("tiles", len(l.tiles)),
		zap.Int("floors", len(l.floors)),
		zap.Int("walls", len(l.walls)),
	)
	return l, nil
}

// tile returns the transform for tile (x, y), creating it on first use.
func (l *Level) tile(x, y int) *Transform {
	key := [2]int{x, y}
	if t, ok := l.tiles[key]; ok {
		return t
	}
	t := NewTransform(l, l.root)
	t.Name = fmt.Sprintf("tile(%d,%d)", x, y)
	t.SetPosition(Vec2{float64(x) * l.tileSize, float64(y) * l.tileSize})
	l.tiles[key] = t
	return t
}

// Root returns the transform every tile hangs from. Moving it moves the level.
func (l *Level) Root() *Transform { return l.root }

// Tile returns the transform of tile (x, y), or nil if the tile is empty.
func (l *Level) Tile(x, y int) *Transform { return l.tiles[[2]int{x, y}] }

// Floors returns the floor quads in config order.
func (l *Level) Floors() []*Quad { return l.floors }

// Walls returns the wall quads in config order.
func (l *Level) Walls() []*Quad { return l.walls }

// Renderables returns every quad, floors first.
func (l *Level) Renderables() []Renderable {
	out := make([]Renderable, 0, len(l.floors)+len(l.walls))
	for _, q := range l.floors {
		out = append(out, q)
	}
	for _, q := range l.walls {
		out = append(out, q)
	}
	return out
}

// AddTo adds every quad to s.
func (l *Level) AddTo(s *Scene) {
	for _, r := range l.Renderables() {
		s.Add(r)
	}
}

// ApplyTexture binds tex to every quad. The texture is a sheet of
// tileSize-pixel cells, columns wide; each quad samples the cell from its
// config entry.
func (l *Level) ApplyTexture(tex Texture, columns int) {
	if columns <= 0 {
		columns = 1
	}
	ts := l.tileSize
	for q, cell := range l.cells {
		q.SetTexture(tex)
		q.SetUVScale(Vec2{ts, ts})
		q.SetUVOffset(Vec2{float64(cell%columns) * ts, float64(cell/columns) * ts})
	}
}

// Destroy detaches the level's transforms from the graph.
func (l *Level) Destroy() {
	for _, t := range l.tiles {
		for _, c := range t.Children() {
			c.Destroy()
		}
		t.Destroy()
	}
	l.root.Destroy()
}
