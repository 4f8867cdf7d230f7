package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SphericalUV maps a point on the unit sphere to texture coordinates. U follows longitude
// and V follows latitude, both flipped so the texture reads upright from outside.
//
// Parameters:
//   - p: a unit-length position
//
// Returns:
//   - mgl32.Vec2: (U, V) in [0, 1]
func SphericalUV(p mgl32.Vec3) mgl32.Vec2 {
	u := math32.Atan2(p.Z(), p.X())/(2*math32.Pi) + 0.5
	v := math32.Atan2(p.Y(), math32.Sqrt(p.X()*p.X()+p.Z()*p.Z()))/math32.Pi + 0.5
	return mgl32.Vec2{1 - u, 1 - v}
}

// crossesSeam reports whether two U coordinates sit on opposite sides of the wrap.
func crossesSeam(a, b float32) bool {
	return math32.Abs(a-b) > 0.5
}

// seamVertices lists, in first-seen order, the low-U vertex of every triangle edge that
// crosses the U wrap. A vertex appears at most once.
func seamVertices(uvs []mgl32.Vec2, indices []uint32) []uint32 {
	var marked []uint32
	seen := make(map[uint32]struct{})
	mark := func(i uint32) {
		if _, ok := seen[i]; ok {
			return
		}
		seen[i] = struct{}{}
		marked = append(marked, i)
	}

	for t := 0; t < len(indices); t += 3 {
		c0, c1, c2 := indices[t], indices[t+1], indices[t+2]
		u0, u1, u2 := uvs[c0].X(), uvs[c1].X(), uvs[c2].X()

		if crossesSeam(u2, u0) {
			if u0 < 0.5 {
				mark(c0)
			} else {
				mark(c2)
			}
		}
		if crossesSeam(u1, u0) {
			if u0 < 0.5 {
				mark(c0)
			} else {
				mark(c1)
			}
		}
		if crossesSeam(u2, u1) {
			if u1 < 0.5 {
				mark(c1)
			} else {
				mark(c2)
			}
		}
	}
	return marked
}

// resolveSeams moves every low-U seam vertex one full U period (+1) in the triangles that
// also hold a high-U vertex (U > 0.5). A vertex used on both sides of the wrap is duplicated
// and only the high-side corners are pointed at the copy; a vertex used only on the high side
// is shifted in place so no unreferenced vertex is left behind. indices is rewritten in
// place and its length never changes.
//
// Returns the extended position and UV lists, the number of duplicates appended and the
// number of vertices shifted in place.
func resolveSeams(positions []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) ([]mgl32.Vec3, []mgl32.Vec2, int, int) {
	duplicates, shifted := 0, 0
	wrap := mgl32.Vec2{1, 0}

	marked := seamVertices(uvs, indices)
	corners := make(map[uint32][]int, len(marked))
	for _, i := range marked {
		corners[i] = nil
	}
	for c, idx := range indices {
		if list, ok := corners[idx]; ok {
			corners[idx] = append(list, c)
		}
	}

	// Only this loop rewrites indices and it never writes a marked vertex back, so the
	// corner lists gathered above stay exact.
	for _, i := range marked {
		var high, low []int
		for _, c := range corners[i] {
			t := c - c%3
			k := c % 3
			a := indices[t+(k+1)%3]
			b := indices[t+(k+2)%3]
			if uvs[a].X() > 0.5 || uvs[b].X() > 0.5 {
				high = append(high, c)
			} else {
				low = append(low, c)
			}
		}

		switch {
		case len(high) == 0:
		case len(low) == 0:
			uvs[i] = uvs[i].Add(wrap)
			shifted++
		default:
			dup := uint32(len(positions))
			positions = append(positions, positions[i])
			uvs = append(uvs, uvs[i].Add(wrap))
			for _, corner := range high {
				indices[corner] = dup
			}
			duplicates++
		}
	}
	return positions, uvs, duplicates, shifted
}

// SeamCrossings counts the triangles that still have an edge spanning more than half the
// U range. A resolved sphere reports zero.
//
// Parameters:
//   - uvs: texture coordinates
//   - indices: triangle list into uvs
//
// Returns:
//   - int: number of triangles with a wrapping edge
func SeamCrossings(uvs []mgl32.Vec2, indices []uint32) int {
	count := 0
	for t := 0; t+2 < len(indices); t += 3 {
		u0, u1, u2 := uvs[indices[t]].X(), uvs[indices[t+1]].X(), uvs[indices[t+2]].X()
		if crossesSeam(u0, u1) || crossesSeam(u1, u2) || crossesSeam(u0, u2) {
			count++
		}
	}
	return count
}
