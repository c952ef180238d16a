package presets

import (
	"fmt"
	"math/rand"
	"sort"

	assetScene "github.com/achilleasa/lumen/asset/scene"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// The number of spheres generated by the "spheres" preset.
const DefaultSphereCount = 1000

// A built-in scene generator.
type Preset struct {
	Name        string
	Description string

	build func(rng *rand.Rand) *assetScene.Scene
}

// Generate the preset scene. Random placement is driven by seed so the
// same seed always yields the same scene.
func (p Preset) Build(seed int64) *assetScene.Scene {
	return p.build(rand.New(rand.NewSource(seed)))
}

var registry = map[string]Preset{
	"simple": {
		Name:        "simple",
		Description: "a handful of metallic spheres and a glowing red ball on a gray ground",
		build:       simpleScene,
	},
	"glass": {
		Name:        "glass",
		Description: "hollow glass spheres in front of a row of glass cubes",
		build:       glassScene,
	},
	"metallic": {
		Name:        "metallic",
		Description: "ten metallic spheres with increasing fuzz",
		build:       metallicScene,
	},
	"sample": {
		Name:        "sample",
		Description: "random field of diffuse, metallic and glass spheres and cubes",
		build:       sampleScene,
	},
	"spheres": {
		Name:        "spheres",
		Description: fmt.Sprintf("%d randomly placed unit spheres", DefaultSphereCount),
		build: func(rng *rand.Rand) *assetScene.Scene {
			return randomSpheres(DefaultSphereCount, rng)
		},
	},
}

// Get the list of presets sorted by name.
func List() []Preset {
	list := make([]Preset, 0, len(registry))
	for _, p := range registry {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Lookup a preset by name.
func Get(name string) (Preset, error) {
	p, exists := registry[name]
	if !exists {
		return Preset{}, fmt.Errorf("presets: unknown scene %q", name)
	}
	return p, nil
}

// Generate count unit spheres scattered inside a 1000 unit cube around the
// origin.
func RandomSpheres(count int, seed int64) *assetScene.Scene {
	return randomSpheres(count, rand.New(rand.NewSource(seed)))
}

func randomSpheres(count int, rng *rand.Rand) *assetScene.Scene {
	sc := assetScene.New("spheres")
	sc.Camera = scene.CameraParams{
		Position:  types.XYZ(0, 0, 1200),
		LookDir:   types.XYZ(0, 0, -1),
		FOV:       60,
		FocusDist: 1200,
	}
	sun(sc, types.XYZ(10000, 5000, 10000), 5000, 15)

	for i := 0; i < count; i++ {
		center := types.RandomVec3(-500, 500, rng)
		var mat scene.Material
		switch pick := rng.Float64(); {
		case pick < 0.6:
			mat = scene.Lambertian(types.RandomVec3(0, 1, rng), 0)
		case pick < 0.9:
			mat = scene.Metallic(types.RandomVec3(0.5, 1, rng), types.RandomRange(0, 0.3, rng))
		default:
			mat = scene.Dielectric(1.5)
		}
		sc.Objects = append(sc.Objects, scene.NewSphere(center, 1, mat))
	}
	return sc
}

func simpleScene(_ *rand.Rand) *assetScene.Scene {
	sc := assetScene.New("simple")
	sc.Objects = append(sc.Objects,
		scene.NewSphere(types.XYZ(0, 1, -2), 0.5, scene.Lambertian(types.XYZ(1, 0, 0), 0.5)),
		scene.NewSphere(types.XYZ(1, 0.5, -3), 0.8, scene.Metallic(types.Uniform(0.75), 0.05)),
		scene.NewSphere(types.XYZ(-1, -0.5, -4), 1, scene.Metallic(types.Uniform(0.75), 0.1)),
		scene.NewSphere(types.XYZ(-1, 1, -4), 0.4, scene.Metallic(types.Uniform(0.75), 0.4)),
	)
	sun(sc, types.XYZ(10000, 5000, 10000), 5000, 15)
	ground(sc, -100002)
	return sc
}

func glassScene(_ *rand.Rand) *assetScene.Scene {
	sc := assetScene.New("glass")
	glass := scene.Dielectric(1.5)
	for i := 0; i < 5; i++ {
		center := types.XYZ(float64(i)-2, -1, -3)
		sc.Objects = append(sc.Objects,
			scene.NewSphere(center, 0.5, glass),
			scene.NewSphere(center, -0.49, glass),
		)
	}
	for i := 0; i < 5; i++ {
		sc.Objects = append(sc.Objects,
			scene.NewCube(types.XYZ(1.5*float64(i)-3, -1, -6), types.Uniform(0.5), glass),
		)
	}
	sun(sc, types.XYZ(10000, 5000, 10000), 5000, 15)
	ground(sc, -100002)
	return sc
}

func metallicScene(_ *rand.Rand) *assetScene.Scene {
	sc := assetScene.New("metallic")
	sc.Camera.Position = types.XYZ(0, 0, 4)
	sc.Camera.FOV = 70
	sc.Objects = append(sc.Objects,
		scene.NewSphere(types.XYZ(0, 1, -2), 1.5, scene.Lambertian(types.XYZ(1, 0, 0), 0.5)),
	)
	for i := 0; i < 10; i++ {
		sc.Objects = append(sc.Objects,
			scene.NewSphere(types.XYZ(float64(i)-5, -1, -3), 0.5, scene.Metallic(types.Uniform(0.75), float64(i)/10)),
		)
	}
	sun(sc, types.XYZ(10000, 10000, 10000), 2500, 30)
	ground(sc, -100002)
	return sc
}

func sampleScene(rng *rand.Rand) *assetScene.Scene {
	sc := assetScene.New("sample")
	sc.Camera = scene.CameraParams{
		Position:     types.XYZ(13, 1.5, 3),
		LookDir:      types.XYZ(-13, -1.5, -3),
		FOV:          20,
		FocusDist:    10,
		DefocusAngle: 0.6,
	}
	ground(sc, -100000)

	glass := scene.Dielectric(1.5)
	glowing := scene.Lambertian(types.XYZ(0.4, 0.2, 0.1), 3)
	sc.Objects = append(sc.Objects,
		scene.NewSphere(types.XYZ(0, 1, 0), 1, glass),
		scene.NewSphere(types.XYZ(0, 1, 0), -0.98, glass),
		scene.NewSphere(types.XYZ(4, 1, 0), 1, glowing),
		scene.NewSphere(types.XYZ(-4, 1, 0), 1, scene.Metallic(types.XYZ(0.7, 0.6, 0.5), 0)),
		scene.NewCube(types.XYZ(-4, 0.5, 2.5), types.Uniform(0.8), glowing),
	)
	sun(sc, types.XYZ(10000, 5000, 10000), 7500, 15)

	for a := -6; a < 6; a++ {
		for b := -6; b < 6; b++ {
			pick := rng.Float64()
			center := types.XYZ(2*float64(a)+0.9*rng.Float64(), 0.4, 2*float64(b)+0.9*rng.Float64())
			if center.Sub(types.XYZ(4, 0.2, 0)).Len() <= 0.9 {
				continue
			}

			var mat scene.Material
			var hollow bool
			switch {
			case pick < 0.35:
				albedo := types.RandomVec3(0, 1, rng).MulVec(types.RandomVec3(0, 1, rng))
				mat = scene.Lambertian(albedo, pick)
			case pick < 0.85:
				mat = scene.Metallic(types.RandomVec3(0.5, 1, rng), types.RandomRange(0, 0.3, rng))
			default:
				mat, hollow = glass, true
			}

			if rng.Float64() > 0.5 {
				sc.Objects = append(sc.Objects, scene.NewSphere(center, 0.4, mat))
				if hollow {
					sc.Objects = append(sc.Objects, scene.NewSphere(center, -0.38, mat))
				}
				continue
			}
			sc.Objects = append(sc.Objects, scene.NewCube(center, types.Uniform(0.4), mat))
			if hollow {
				sc.Objects = append(sc.Objects, scene.NewCube(center, types.Uniform(-0.38), mat))
			}
		}
	}
	return sc
}

// Add a distant emissive sphere.
func sun(sc *assetScene.Scene, center types.Vec3, radius, emission float64) {
	sc.Objects = append(sc.Objects, scene.NewSphere(center, radius, scene.Lambertian(types.XYZ(0.8, 0.4, 0.2), emission)))
}

// Add a huge gray cube whose top face sits at centerY + 100000.
func ground(sc *assetScene.Scene, centerY float64) {
	sc.Objects = append(sc.Objects, scene.NewCube(types.XYZ(0, centerY, 0), types.Uniform(100000), scene.Lambertian(types.Uniform(0.5), 0)))
}
