package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
)

// BoxObstacles is a Raycaster over axis-aligned boxes for worlds without a
// physics space. Every box belongs to ecs.CategoryObstacle.
type BoxObstacles []cp.BB

func (b BoxObstacles) Raycast(origin, dir cp.Vector, maxDistance float64, mask uint) bool {
	if maxDistance <= 0 || dir.LengthSq() == 0 || mask&ecs.CategoryObstacle == 0 {
		return false
	}
	d := dir.Normalize().Mult(maxDistance)
	for _, bb := range b {
		if hit, _ := segmentAABBHit(origin.X, origin.Y, d.X, d.Y, bb.L, bb.B, bb.R, bb.T); hit {
			return true
		}
	}
	return false
}

// segmentAABBHit is a slab test of the segment origin + t*(dx, dy), t in
// [0, 1], against a box. It returns the entry parameter on a hit.
func segmentAABBHit(x0, y0, dx, dy, minX, minY, maxX, maxY float64) (bool, float64) {
	tmin := 0.0
	tmax := 1.0

	if dx != 0 {
		invD := 1.0 / dx
		t1 := (minX - x0) * invD
		t2 := (maxX - x0) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if x0 < minX || x0 > maxX {
		return false, 0
	}

	if dy != 0 {
		invD := 1.0 / dy
		t1 := (minY - y0) * invD
		t2 := (maxY - y0) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	} else if y0 < minY || y0 > maxY {
		return false, 0
	}

	if tmax >= tmin {
		return true, tmin
	}
	return false, 0
}
