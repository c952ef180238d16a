package cpu

import (
	"math/rand"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// The Target interface is implemented by anything that can resolve the
// nearest ray hit. Both *scene.Scene and *bvh.Tree satisfy it.
type Target interface {
	Trace(types.Ray) (scene.RayHit, bool)
}

// Estimate the radiance carried back along r by following a single random
// path of at most maxDepth bounces.
//
// Each hit adds its emission scaled by the attenuation accumulated so far
// before the path is scattered. Paths that leave the scene pick up the sky
// color scaled by the residual attenuation while paths that run out of
// bounces or get absorbed contribute nothing further.
func RayColor(r types.Ray, target Target, maxDepth uint32, rng *rand.Rand) types.Vec3 {
	var color types.Vec3
	throughput := types.Uniform(1)

	for depth := uint32(0); depth < maxDepth; depth++ {
		hit, ok := target.Trace(r)
		if !ok {
			return color.Add(throughput.MulVec(scene.SkyColor(r.Dir)))
		}

		color = color.Add(throughput.MulVec(hit.Material.EmissionColor()))

		scattered, ok := hit.Material.Scatter(r, &hit, rng)
		if !ok {
			return color
		}

		throughput = throughput.MulVec(scattered.Attenuation)
		r = scattered.Ray
	}

	return color
}
