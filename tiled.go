package stratum

import (
	"fmt"
	"io/fs"

	"github.com/lafriks/go-tiled"
)

// TMX layer names read by LoadTiledLevel.
const (
	TiledFloorLayer = "floor"
	TiledWallLayer  = "walls"
)

// LoadTiledLevel reads a Tiled TMX map from fsys into a LevelConfig. Tiles on
// the "floor" layer become floors and tiles on the "walls" layer become
// walls. The tileset tile properties "side" (string) and "height" (int) set
// the wall side and the floor or wall height. The cell is the tile's index
// in its tileset.
func LoadTiledLevel(fsys fs.FS, tmxPath string) (*LevelConfig, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	cfg := &LevelConfig{TileSize: float64(m.TileWidth)}
	for _, layer := range m.Layers {
		if layer.Name != TiledFloorLayer && layer.Name != TiledWallLayer {
			continue
		}
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				i := y*m.Width + x
				if i >= len(layer.Tiles) {
					continue
				}
				tile := layer.Tiles[i]
				if tile == nil || tile.IsNil() {
					continue
				}

				var side string
				var height float64
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					side = tilesetTile.Properties.GetString("side")
					height = float64(tilesetTile.Properties.GetInt("height"))
				}

				if layer.Name == TiledFloorLayer {
					cfg.Floors = append(cfg.Floors, FloorTile{X: x, Y: y, Height: height, Cell: int(tile.ID)})
				} else {
					cfg.Walls = append(cfg.Walls, WallTile{X: x, Y: y, Side: side, Height: height, Cell: int(tile.ID)})
				}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	return cfg, nil
}
