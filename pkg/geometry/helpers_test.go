package geometry

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/df07/go-csg-raytracer/pkg/core"
)

const tolerance = 1e-4

func floatClose(a, b float32) bool {
	return math32.Abs(a-b) <= tolerance
}

func vecClose(a, b core.Vec3) bool {
	return a.Subtract(b).Length() <= tolerance
}

// randomUnitVec returns a uniformly distributed direction
func randomUnitVec(random *rand.Rand) core.Vec3 {
	for {
		v := core.NewVec3(
			float32(random.Float64()*2-1),
			float32(random.Float64()*2-1),
			float32(random.Float64()*2-1),
		)
		if l := v.LengthSquared(); l > 0.01 && l <= 1 {
			return v.Normalize()
		}
	}
}
