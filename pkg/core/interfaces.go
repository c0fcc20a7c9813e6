package core

// Logger is the logging interface used throughout the renderer
type Logger interface {
	Printf(format string, args ...interface{})
}

// Validator is implemented by shapes and materials that can detect
// degenerate configurations. Validation runs at scene-build time so that
// degenerate geometry never surfaces as a runtime failure during a render.
type Validator interface {
	Validate() error
}

// Shape is the interface for geometry that can be intersected by rays.
// Implementations must be immutable after scene construction so they can
// be shared across worker goroutines without synchronization.
type Shape interface {
	// Hit returns the closest intersection with t in (tMin, tMax), if any.
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}

// HitRecord contains information about a ray-shape intersection.
// Records are produced transiently per query and never persisted.
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Surface normal at intersection, facing the ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether the ray hit the front face
	Material  Material // Material of the hit shape
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray     // The scattered ray
	Attenuation Vec3    // BRDF value for the sampled direction
	PDF         float64 // Probability density of the sampled direction (0 for delta BRDFs)
}

// IsSpecular reports whether this is a delta (specular) scattering event.
// Delta events carry no PDF: the integrator treats the sampled direction
// as having implicit density 1 and must not combine it with light sampling.
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// Material is the reflectance model attached to a shape
type Material interface {
	// Scatter samples an outgoing direction for the given hit.
	// Returns false if the ray is absorbed.
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)

	// EvaluateBRDF evaluates the BRDF for a specific direction pair.
	// Delta BRDFs evaluate to zero for any explicitly chosen direction.
	EvaluateBRDF(incomingDir, outgoingDir, normal Vec3) Vec3

	// PDF returns the density with which Scatter would have sampled
	// outgoingDir, or 0 for delta BRDFs.
	PDF(incomingDir, outgoingDir, normal Vec3) float64
}

// Emitter is implemented by materials that emit light. A material with
// non-zero emission marks its owning shape as a light source.
type Emitter interface {
	Emit() Vec3
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     Vec3    // Point on the light source
	Normal    Vec3    // Surface normal at the sample point
	Direction Vec3    // Unit direction from the shading point to the light
	Distance  float64 // Distance from the shading point to the light
	Emission  Vec3    // Emitted radiance toward the shading point
	PDF       float64 // Solid-angle density of this sample given the light
}

// Light is a sampling view over an emissive shape used for direct
// lighting (next-event estimation).
type Light interface {
	// Sample draws a point on the light as seen from the shading point
	Sample(point Vec3, sample Vec2) LightSample

	// PDF returns the solid-angle density of sampling the given
	// direction from the shading point toward this light
	PDF(point, direction Vec3) float64

	// Power returns the total emitted power, used to weight light selection
	Power() float64
}
