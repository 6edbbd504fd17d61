package spatial

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/collider/collision"
	"github.com/milk9111/collider/geom"
	"github.com/milk9111/collider/prefabs"
)

const (
	tileSolid      = '#'
	tileImpassable = '~'
)

type wall struct {
	box   geom.AABB
	flags collision.WallFlags
}

// Terrain is the static wall geometry of a tile grid. Runs of equal tiles are
// merged into as few boxes as possible and the grid is closed off by four
// solid borders.
type Terrain struct {
	space  *cp.Space
	walls  []wall
	width  int
	height int
	tile   float32
	top    float32
}

var _ collision.WallTester = (*Terrain)(nil)

// NewTerrain builds the wall boxes of spec. An empty grid has no walls and
// no borders.
func NewTerrain(spec prefabs.TerrainSpec) (*Terrain, error) {
	t := &Terrain{space: cp.NewSpace(), tile: spec.TileSize, top: spec.Height}
	if len(spec.Rows) == 0 {
		return t, nil
	}
	if spec.TileSize <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("spatial: terrain tile size %v and height %v must be positive", spec.TileSize, spec.Height)
	}

	t.height = len(spec.Rows)
	t.width = len(spec.Rows[0])
	for y, row := range spec.Rows {
		if len(row) != t.width {
			return nil, fmt.Errorf("spatial: terrain row %d has %d tiles, want %d", y, len(row), t.width)
		}
	}

	tiles := make([]collision.WallFlags, t.width*t.height)
	for y, row := range spec.Rows {
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case tileSolid:
				tiles[y*t.width+x] = collision.WallSolid
			case tileImpassable:
				tiles[y*t.width+x] = collision.WallImpassable
			}
		}
	}
	t.processTiles(tiles)
	t.addBorders()
	return t, nil
}

func (t *Terrain) processTiles(tiles []collision.WallFlags) {
	processed := make([]bool, t.width*t.height)
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			idx := y*t.width + x
			if processed[idx] {
				continue
			}
			flags := tiles[idx]
			if flags == 0 {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < t.width {
				idx2 := y*t.width + (x + w)
				if processed[idx2] || tiles[idx2] != flags {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < t.height {
				for xi := x; xi < x+w; xi++ {
					idx2 := (y+h)*t.width + xi
					if processed[idx2] || tiles[idx2] != flags {
						break heightLoop
					}
				}
				h++
			}

			x0 := float32(x) * t.tile
			y0 := float32(y) * t.tile
			t.add(geom.NewAABB(
				mgl32.Vec3{x0, y0, 0},
				mgl32.Vec3{x0 + float32(w)*t.tile, y0 + float32(h)*t.tile, t.top},
			), flags)

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*t.width+xx] = true
				}
			}
		}
	}
}

func (t *Terrain) addBorders() {
	worldW := float32(t.width) * t.tile
	worldH := float32(t.height) * t.tile
	thickness := t.tile
	borders := []struct {
		min mgl32.Vec3
		max mgl32.Vec3
	}{
		{min: mgl32.Vec3{-thickness, -thickness, 0}, max: mgl32.Vec3{worldW + thickness, 0, t.top}},
		{min: mgl32.Vec3{-thickness, worldH, 0}, max: mgl32.Vec3{worldW + thickness, worldH + thickness, t.top}},
		{min: mgl32.Vec3{-thickness, 0, 0}, max: mgl32.Vec3{0, worldH, t.top}},
		{min: mgl32.Vec3{worldW, 0, 0}, max: mgl32.Vec3{worldW + thickness, worldH, t.top}},
	}
	for _, b := range borders {
		t.add(geom.NewAABB(b.min, b.max), collision.WallSolid)
	}
}

func (t *Terrain) add(box geom.AABB, flags collision.WallFlags) {
	shape := cp.NewBox2(t.space.StaticBody, bbOf(box), 0)
	shape.UserData = len(t.walls)
	t.space.AddShape(shape)
	t.walls = append(t.walls, wall{box: box, flags: flags})
}

// TestWall returns the union of the flags of every wall box overlaps.
func (t *Terrain) TestWall(box geom.AABB) collision.WallFlags {
	if t == nil || len(t.walls) == 0 {
		return 0
	}
	var flags collision.WallFlags
	t.space.BBQuery(bbOf(box), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		i, ok := shape.UserData.(int)
		if !ok || i < 0 || i >= len(t.walls) {
			return
		}
		if w := t.walls[i]; w.box.Overlaps(box) {
			flags |= w.flags
		}
	}, nil)
	return flags
}

// Walls is the number of merged wall boxes, borders included.
func (t *Terrain) Walls() int {
	if t == nil {
		return 0
	}
	return len(t.walls)
}
