package renderer

import (
	"fmt"
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/scene"
)

// CameraPose is the user-controllable view state. The interactive layer
// sends a new pose on every mouse drag; the render session turns the
// latest settled pose into a Camera.
type CameraPose struct {
	Eye    core.Vec3 `json:"eye"`
	LookAt core.Vec3 `json:"look_at"`
	Up     core.Vec3 `json:"up"`
	VFov   float64   `json:"vfov"` // Vertical field of view, degrees
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// DefaultPose returns a view suitable for the built-in demo scenes
func DefaultPose(width, height int) CameraPose {
	return CameraPose{
		Eye:    core.NewVec3(0, 2, 8),
		LookAt: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
		Width:  width,
		Height: height,
	}
}

// FramingPose derives a view from a built scene's bounds: the camera
// looks at the center of the bounding sphere from just far enough away
// that the whole sphere fits the vertical field of view. Useful for
// scenes with no hand-tuned pose.
func FramingPose(sc *scene.Scene, width, height int) CameraPose {
	const vfov = 40.0

	center := sc.WorldCenter()
	radius := sc.WorldRadius()
	if radius <= 0 {
		radius = 1
	}

	// A sphere of radius r fits a cone of half-angle θ at distance r/sin θ
	distance := radius / math.Sin(vfov*math.Pi/360)
	offset := core.NewVec3(0, 0.25, -1).Normalize().Multiply(distance)

	return CameraPose{
		Eye:    center.Add(offset),
		LookAt: center,
		Up:     core.NewVec3(0, 1, 0),
		VFov:   vfov,
		Width:  width,
		Height: height,
	}
}

// Validate rejects poses that cannot form a view basis
func (p CameraPose) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", p.Width, p.Height)
	}
	if p.VFov <= 0 || p.VFov >= 180 {
		return fmt.Errorf("vertical fov %v out of range (0, 180)", p.VFov)
	}
	if p.Eye.Subtract(p.LookAt).LengthSquared() < 1e-12 {
		return fmt.Errorf("eye and look-at coincide")
	}
	forward := p.LookAt.Subtract(p.Eye).Normalize()
	if p.Up.Cross(forward).LengthSquared() < 1e-12 {
		return fmt.Errorf("up vector is parallel to view direction")
	}
	if !p.Eye.IsFinite() || !p.LookAt.IsFinite() || !p.Up.IsFinite() {
		return fmt.Errorf("pose contains non-finite components")
	}
	return nil
}

// Camera generates primary rays for a fixed pose
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	width           int
	height          int
}

// NewCamera builds a camera from a validated pose
func NewCamera(pose CameraPose) (*Camera, error) {
	if err := pose.Validate(); err != nil {
		return nil, fmt.Errorf("camera pose: %w", err)
	}

	aspect := float64(pose.Width) / float64(pose.Height)
	theta := pose.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := aspect * viewportHeight

	w := pose.Eye.Subtract(pose.LookAt).Normalize()
	u := pose.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeft := pose.Eye.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          pose.Eye,
		lowerLeftCorner: lowerLeft,
		horizontal:      horizontal,
		vertical:        vertical,
		width:           pose.Width,
		height:          pose.Height,
	}, nil
}

// GetRay returns a jittered primary ray through pixel (i, j), with j
// increasing downward as in image space
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(i) + jitter.X) / float64(c.width)
	t := 1.0 - (float64(j)+jitter.Y)/float64(c.height)

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)
	return core.NewRay(c.origin, direction.Normalize())
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }
