package scene

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/bvh"
	"github.com/olekukonko/tablewriter"
)

// A scene asset as produced by the scene readers. It bundles the scene
// objects with the camera setup they should be viewed from.
type Scene struct {
	// A descriptive name, usually the source file name.
	Name string

	// The scene camera.
	Camera scene.CameraParams

	// Scene objects. Materials are stored inline.
	Objects []scene.Object
}

// Create an empty scene asset with a default camera.
func New(name string) *Scene {
	return &Scene{
		Name:   name,
		Camera: scene.DefaultCameraParams(),
	}
}

// Build a renderable scene validating each object.
func (sc *Scene) World() (*scene.Scene, error) {
	world := scene.NewScene()
	for idx, obj := range sc.Objects {
		if err := world.Add(obj); err != nil {
			return nil, fmt.Errorf("scene asset %q: object %d: %s", sc.Name, idx, err.Error())
		}
	}
	return world, nil
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var spheres, cubes int
	materials := make(map[scene.MaterialKind]int)
	emissive := 0
	for _, obj := range sc.Objects {
		switch obj.Kind {
		case scene.SphereObject:
			spheres++
		case scene.CubeObject:
			cubes++
		}
		materials[obj.Material.Kind]++
		if obj.Material.Kind == scene.LambertianMaterial && obj.Material.Emission > 0 {
			emissive++
		}
	}

	var treeStats bvh.Stats
	bounds := "-"
	if world, err := sc.World(); err == nil {
		tree := bvh.Build(world)
		treeStats = tree.Stats()
		if box, ok := tree.Bound(); ok {
			bounds = fmt.Sprintf("%.2f .. %.2f", box.Min, box.Max)
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(sc.Objects))})
	table.Append([]string{"", "Spheres", fmt.Sprint(spheres)})
	table.Append([]string{"", "Cubes", fmt.Sprint(cubes)})
	table.Append([]string{"", "Bounds", bounds})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprint(len(sc.Objects))})
	table.Append([]string{"", "Lambertian", fmt.Sprint(materials[scene.LambertianMaterial])})
	table.Append([]string{"", "Emissive", fmt.Sprint(emissive)})
	table.Append([]string{"", "Metallic", fmt.Sprint(materials[scene.MetallicMaterial])})
	table.Append([]string{"", "Dielectric", fmt.Sprint(materials[scene.DielectricMaterial])})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"BVH", "---", fmt.Sprint(treeStats.Nodes)})
	table.Append([]string{"", "Leafs", fmt.Sprint(treeStats.Leafs)})
	table.Append([]string{"", "Max depth", fmt.Sprint(treeStats.MaxDepth)})
	table.SetFooter([]string{"Scene", strings.TrimSpace(sc.Name), " "})

	table.Render()
	return buf.String()
}
