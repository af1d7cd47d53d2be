package leveldata

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/lafriks/go-tiled"
)

// Object group names read from the TMX file.
const (
	ObstacleGroup = "Obstacles"
	SpawnGroup    = "PlayerSpawn"
)

// LoadArena parses a TMX file and returns its obstacles and spawn points. It
// takes an fs.FS so callers can pass embed.FS or os.DirFS.
func LoadArena(fsys fs.FS, tmxPath string) (*ArenaLayout, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &ArenaLayout{
		MapWidth:  levelMap.Width * levelMap.TileWidth,
		MapHeight: levelMap.Height * levelMap.TileHeight,
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case ObstacleGroup:
			for _, o := range og.Objects {
				if o.Width <= 0 || o.Height <= 0 {
					continue
				}
				data.Obstacles = append(data.Obstacles, ObstacleRect{
					X:         o.X,
					Y:         o.Y,
					W:         o.Width,
					H:         o.Height,
					HitPoints: o.Properties.GetInt("hitPoints"),
				})
			}
		case SpawnGroup:
			for _, o := range og.Objects {
				data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
					X:     o.X,
					Y:     o.Y,
					Index: o.Properties.GetInt("spawnIndex"),
				})
			}
		}
	}

	// Stable slot ids: order obstacles top-to-bottom, left-to-right
	sort.SliceStable(data.Obstacles, func(i, j int) bool {
		a, b := data.Obstacles[i], data.Obstacles[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	sort.SliceStable(data.SpawnPoints, func(i, j int) bool {
		return data.SpawnPoints[i].Index < data.SpawnPoints[j].Index
	})

	return data, nil
}
