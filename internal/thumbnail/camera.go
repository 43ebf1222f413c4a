package thumbnail

import (
	"math"

	"github.com/meshvault/meshvault/internal/geometry"
)

// camera is a fixed perspective camera auto-framed around a bounding
// box, orbited to a three-quarter view so thumbnails read as 3D.
type camera struct {
	position geometry.Vector3
	target   geometry.Vector3
	up       geometry.Vector3
	fov      float64
}

const (
	orbitPitch = 0.45 // radians above the horizon
	orbitYaw   = 0.65 // radians around the vertical axis
)

func newCamera(bounds geometry.BoundingBox) camera {
	center := bounds.Center()
	distance := bounds.MaxExtent() * 2.0
	if distance <= 0 {
		distance = 1
	}

	// Spherical orbit position relative to the model center.
	x := distance * math.Cos(orbitPitch) * math.Sin(orbitYaw)
	y := distance * math.Sin(orbitPitch)
	z := distance * math.Cos(orbitPitch) * math.Cos(orbitYaw)

	return camera{
		position: center.Add(geometry.NewVector3(x, y, z)),
		target:   center,
		up:       geometry.NewVector3(0, 1, 0),
		fov:      math.Pi / 4,
	}
}

// project maps a model-space point to screen coordinates plus depth.
func (c camera) project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.target.Sub(c.position).Normalize()
	right := forward.Cross(c.up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)
	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.fov / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + width/2
	screenY := (-y/(z*fovScale))*(height/2) + height/2
	return screenX, screenY, z
}

// viewDirection is the unit vector from the target toward the camera,
// used as the shading light direction (headlight model).
func (c camera) viewDirection() geometry.Vector3 {
	return c.position.Sub(c.target).Normalize()
}
