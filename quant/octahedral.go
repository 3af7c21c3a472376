package quant

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Octahedral normal encoding: the unit sphere is projected onto the unit
// octahedron by L1 normalization, the lower hemisphere is folded into the
// upper square, and the resulting [-1,1]² point is stored as two unsigned
// 16-bit integers.

const snormScale = 65535

// OctEncode maps a unit (or zero) normal to its 16-bit octahedral pair.
// The zero vector has no L1 projection and encodes as the octahedron
// center, which decodes to +Z.
func OctEncode(n r3.Vec) (u, v uint16) {
	l1 := math.Abs(n.X) + math.Abs(n.Y) + math.Abs(n.Z)
	if l1 == 0 {
		return packSnorm(0), packSnorm(0)
	}
	nx, ny := n.X/l1, n.Y/l1
	ox, oy := nx, ny
	if n.Z < 0 {
		// Fold the lower hemisphere into the square.
		ox = math.Copysign(1-math.Abs(ny), nx)
		oy = math.Copysign(1-math.Abs(nx), ny)
	}
	return packSnorm(ox), packSnorm(oy)
}

// OctDecode recovers the unit normal from its octahedral pair.
func OctDecode(u, v uint16) r3.Vec {
	px := 2*float64(u)/snormScale - 1
	py := 2*float64(v)/snormScale - 1
	z := 1 - math.Abs(px) - math.Abs(py)
	x, y := px, py
	if z < 0 {
		x = math.Copysign(1-math.Abs(py), px)
		y = math.Copysign(1-math.Abs(px), py)
	}
	return r3.Unit(r3.Vec{X: x, Y: y, Z: z})
}

// packSnorm maps s in [-1,1] to [0, 65535].
func packSnorm(s float64) uint16 {
	return clampRound((s*0.5+0.5)*snormScale, snormScale)
}
