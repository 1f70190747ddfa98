package octree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/geometry"
	"github.com/pkg/errors"
)

// Key addresses a node of the octree: its depth plus its integer cell coordinates at that depth.
// Depth d has 2^d cells per axis.
type Key struct {
	Depth uint32
	X     uint32
	Y     uint32
	Z     uint32
}

var ErrInvalidKey = errors.New("invalid octree key")

// MaxDepth is the deepest level whose cell coordinates still fit in a uint32
const MaxDepth = 31

func RootKey() Key {
	return Key{}
}

func NewKey(depth, x, y, z uint32) Key {
	return Key{Depth: depth, X: x, Y: y, Z: z}
}

// Children returns the eight keys one level deeper. The order matches the octant index used
// by geometry.NewBoundingBoxFromParent: bit 0 is x, bit 1 is y, bit 2 is z.
func (k Key) Children() [8]Key {
	var children [8]Key
	for octant := uint32(0); octant < 8; octant++ {
		children[octant] = Key{
			Depth: k.Depth + 1,
			X:     k.X*2 + octant&1,
			Y:     k.Y*2 + (octant>>1)&1,
			Z:     k.Z*2 + (octant>>2)&1,
		}
	}
	return children
}

// Parent of the root is the root itself
func (k Key) Parent() Key {
	if k.IsRoot() {
		return k
	}
	return Key{Depth: k.Depth - 1, X: k.X / 2, Y: k.Y / 2, Z: k.Z / 2}
}

func (k Key) IsRoot() bool {
	return k.Depth == 0
}

// Octant returns the index of k among the children of its parent
func (k Key) Octant() uint8 {
	return uint8(k.X&1 | (k.Y&1)<<1 | (k.Z&1)<<2)
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", k.Depth, k.X, k.Y, k.Z)
}

// ParseKey reads the "depth-x-y-z" form produced by String.
func ParseKey(value string) (Key, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 4 {
		return Key{}, errors.Wrapf(ErrInvalidKey, "%q, expected depth-x-y-z", value)
	}

	var fields [4]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Key{}, errors.Wrapf(ErrInvalidKey, "%q: %v", value, err)
		}
		fields[i] = uint32(n)
	}

	key := NewKey(fields[0], fields[1], fields[2], fields[3])
	if key.Depth > MaxDepth {
		return Key{}, errors.Wrapf(ErrInvalidKey, "%q, depth above %d", value, MaxDepth)
	}
	cells := uint32(1) << key.Depth
	if key.X >= cells || key.Y >= cells || key.Z >= cells {
		return Key{}, errors.Wrapf(ErrInvalidKey, "%q, coordinates out of range for depth %d", value, key.Depth)
	}
	return key, nil
}

// Bounds returns the cell of k inside the root box, halving the root once per level along
// the octants of k's ancestors
func (k Key) Bounds(root *geometry.BoundingBox) *geometry.BoundingBox {
	if k.IsRoot() {
		return root
	}
	octant := k.Octant()
	return geometry.NewBoundingBoxFromParent(k.Parent().Bounds(root), &octant)
}
