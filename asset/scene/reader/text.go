package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/lumen/asset"
	assetScene "github.com/achilleasa/lumen/asset/scene"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Guards against include cycles.
const maxIncludeDepth = 16

// Parses the line based text scene format:
//
//	# comment
//	camera position <x> <y> <z>
//	camera look <x> <y> <z>
//	camera fov <degrees>
//	camera focus <distance>
//	camera defocus <degrees>
//	material <name> lambertian <r> <g> <b> [emission]
//	material <name> metallic <r> <g> <b> <fuzz>
//	material <name> dielectric <ior>
//	sphere <x> <y> <z> <radius> <material>
//	cube <x> <y> <z> <hx> <hy> <hz> <material>
//	include <path>
//
// Materials must be defined before use and are visible to included files.
type textSceneReader struct {
	logger log.Logger

	// The parsed scene.
	scene *assetScene.Scene

	// Defined materials by name.
	materials map[string]scene.Material

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string
}

// Create a new text scene reader.
func newTextSceneReader() *textSceneReader {
	return &textSceneReader{
		logger:    log.New("text scene reader"),
		materials: make(map[string]scene.Material),
	}
}

// Read scene definition.
func (r *textSceneReader) Read(sceneRes *asset.Resource) (*assetScene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	r.scene = assetScene.New(sceneRes.Name())
	if err := r.parse(sceneRes); err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d objects in %d ms", len(r.scene.Objects), time.Since(start).Nanoseconds()/1e6)
	return r.scene, nil
}

func (r *textSceneReader) parse(res *asset.Resource) error {
	if len(r.errStack) >= maxIncludeDepth {
		return r.emitError(res.Path(), 0, "max include depth %d exceeded", maxIncludeDepth)
	}

	lineNum := 0
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "include":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "include"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			err = r.include(res, lineNum, lineTokens[1])
			if err != nil {
				return err
			}
			continue
		case "camera":
			err = r.parseCamera(lineTokens[1:])
		case "material":
			err = r.parseMaterial(lineTokens[1:])
		case "sphere":
			err = r.parseSphere(lineTokens[1:])
		case "cube":
			err = r.parseCube(lineTokens[1:])
		default:
			err = fmt.Errorf("unknown directive %q", lineTokens[0])
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

func (r *textSceneReader) include(parent *asset.Resource, lineNum int, location string) error {
	incRes, err := asset.NewResource(location, parent)
	if err != nil {
		return r.emitError(parent.Path(), lineNum, "%s", err.Error())
	}
	defer incRes.Close()

	r.pushFrame(fmt.Sprintf("referenced from %s:%d [include]", parent.Path(), lineNum))
	defer r.popFrame()

	return r.parse(incRes)
}

func (r *textSceneReader) parseCamera(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(`unsupported syntax for "camera"; expected a property name`)
	}

	cam := &r.scene.Camera
	var err error
	switch args[0] {
	case "position":
		cam.Position, err = parseVec3(args[1:])
	case "look":
		cam.LookDir, err = parseVec3(args[1:])
		if err == nil && cam.LookDir.NearZero() {
			err = fmt.Errorf("camera look direction must not be zero")
		}
	case "fov":
		cam.FOV, err = parseFloat(args[1:])
		if err == nil && (cam.FOV <= 0 || cam.FOV >= 180) {
			err = fmt.Errorf("camera fov must be in (0, 180); got %v", cam.FOV)
		}
	case "focus":
		cam.FocusDist, err = parseFloat(args[1:])
		if err == nil && cam.FocusDist <= 0 {
			err = fmt.Errorf("camera focus distance must be positive; got %v", cam.FocusDist)
		}
	case "defocus":
		cam.DefocusAngle, err = parseFloat(args[1:])
		if err == nil && cam.DefocusAngle < 0 {
			err = fmt.Errorf("camera defocus angle must not be negative; got %v", cam.DefocusAngle)
		}
	default:
		err = fmt.Errorf("unknown camera property %q", args[0])
	}
	return err
}

func (r *textSceneReader) parseMaterial(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf(`unsupported syntax for "material"; expected a name and a type`)
	}

	name, kind, params := args[0], args[1], args[2:]
	var mat scene.Material
	switch kind {
	case "lambertian":
		if len(params) != 3 && len(params) != 4 {
			return fmt.Errorf("lambertian material expects 3 or 4 arguments; got %d", len(params))
		}
		v, err := parseFloatList(params)
		if err != nil {
			return err
		}
		emission := 0.0
		if len(v) == 4 {
			emission = v[3]
		}
		mat = scene.Lambertian(types.XYZ(v[0], v[1], v[2]), emission)
	case "metallic":
		v, err := parseFloatList(params)
		if err != nil {
			return err
		}
		if len(v) != 4 {
			return fmt.Errorf("metallic material expects 4 arguments; got %d", len(v))
		}
		mat = scene.Metallic(types.XYZ(v[0], v[1], v[2]), v[3])
	case "dielectric":
		v, err := parseFloatList(params)
		if err != nil {
			return err
		}
		if len(v) != 1 || v[0] <= 0 {
			return fmt.Errorf("dielectric material expects a single positive index of refraction")
		}
		mat = scene.Dielectric(v[0])
	default:
		return fmt.Errorf("unknown material type %q", kind)
	}

	if _, exists := r.materials[name]; exists {
		r.logger.Warningf("material %q redefined", name)
	}
	r.materials[name] = mat
	return nil
}

func (r *textSceneReader) parseSphere(args []string) error {
	if len(args) != 5 {
		return fmt.Errorf(`unsupported syntax for "sphere"; expected 5 arguments; got %d`, len(args))
	}
	v, err := parseFloatList(args[:4])
	if err != nil {
		return err
	}
	mat, err := r.material(args[4])
	if err != nil {
		return err
	}

	return r.addObject(scene.NewSphere(types.XYZ(v[0], v[1], v[2]), v[3], mat))
}

func (r *textSceneReader) parseCube(args []string) error {
	if len(args) != 7 {
		return fmt.Errorf(`unsupported syntax for "cube"; expected 7 arguments; got %d`, len(args))
	}
	v, err := parseFloatList(args[:6])
	if err != nil {
		return err
	}
	mat, err := r.material(args[6])
	if err != nil {
		return err
	}

	return r.addObject(scene.NewCube(types.XYZ(v[0], v[1], v[2]), types.XYZ(v[3], v[4], v[5]), mat))
}

// Validate and append an object.
func (r *textSceneReader) addObject(obj scene.Object) error {
	if err := scene.NewScene().Add(obj); err != nil {
		return err
	}
	r.scene.Objects = append(r.scene.Objects, obj)
	return nil
}

func (r *textSceneReader) material(name string) (scene.Material, error) {
	mat, exists := r.materials[name]
	if !exists {
		return scene.Material{}, fmt.Errorf("undefined material %q", name)
	}
	return mat, nil
}

// Generate an error that includes the include stack.
func (r *textSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("%s", strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

// Push a frame to the error stack.
func (r *textSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *textSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse a list of floats.
func parseFloatList(tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for idx, tok := range tokens {
		val, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", tok)
		}
		out[idx] = val
	}
	return out, nil
}

// Parse a single float argument.
func parseFloat(tokens []string) (float64, error) {
	if len(tokens) != 1 {
		return 0, fmt.Errorf("expected 1 argument; got %d", len(tokens))
	}
	v, err := parseFloatList(tokens)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Parse a Vec3 row.
func parseVec3(tokens []string) (types.Vec3, error) {
	if len(tokens) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 arguments; got %d", len(tokens))
	}
	v, err := parseFloatList(tokens)
	if err != nil {
		return types.Vec3{}, err
	}
	return types.XYZ(v[0], v[1], v[2]), nil
}
