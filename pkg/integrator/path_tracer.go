package integrator

import (
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/scene"
)

// Config controls path termination and intersection epsilons
type Config struct {
	MaxDepth        int // Hard cap on path length
	RussianRoulette bool
	RRMinBounces    int // Bounces before roulette may terminate a path
	TMin            float64
	TMax            float64
}

// DefaultConfig returns the standard interactive-quality configuration
func DefaultConfig() Config {
	return Config{
		MaxDepth:        10,
		RussianRoulette: true,
		RRMinBounces:    3,
		TMin:            0.001,
		TMax:            100000.0,
	}
}

// PathTracer estimates radiance along camera rays with next-event
// estimation and multiple importance sampling. It holds no per-ray
// state, so a single instance is shared across workers.
type PathTracer struct {
	config Config
}

// NewPathTracer creates a path tracer with the given configuration
func NewPathTracer(config Config) *PathTracer {
	return &PathTracer{config: config}
}

// NewDefault creates a path tracer with DefaultConfig
func NewDefault() *PathTracer {
	return NewPathTracer(DefaultConfig())
}

// RayColor returns one unbiased radiance sample along the ray.
//
// Direct light at each diffuse vertex is estimated twice, once by
// sampling the lights and once by sampling the material, and the two
// estimates are combined with the power heuristic. Specular vertices
// have no density to weight against, so emission found through them
// counts in full. Samples that go non-finite are dropped as zero rather
// than poisoning the accumulation buffer.
func (pt *PathTracer) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	result := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	// A camera ray behaves like a specular bounce: there is no light
	// sampling density to weight its emission hits against.
	specularBounce := true
	prevPDF := 0.0

	for depth := 0; depth < pt.config.MaxDepth; depth++ {
		hit, ok := s.Hit(ray, pt.config.TMin, pt.config.TMax)
		if !ok {
			result = result.Add(throughput.MultiplyVec(s.Background))
			break
		}

		if emitter, isEmitter := hit.Material.(core.Emitter); isEmitter {
			emission := emitter.Emit()
			if !emission.IsZero() {
				weight := 1.0
				if !specularBounce {
					lightPDF := s.LightSampler.PDF(ray.Origin, ray.Direction)
					weight = core.PowerHeuristic(1, prevPDF, 1, lightPDF)
				}
				result = result.Add(throughput.MultiplyVec(emission).Multiply(weight))
			}
		}

		scatter, scattered := hit.Material.Scatter(ray, *hit, sampler)
		if !scattered {
			break
		}

		if scatter.IsSpecular() {
			throughput = throughput.MultiplyVec(scatter.Attenuation)
			ray = scatter.Scattered
			specularBounce = true
		} else {
			direct := pt.sampleLight(s, hit, ray.Direction, sampler)
			result = result.Add(throughput.MultiplyVec(direct))

			cosTheta := scatter.Scattered.Direction.Dot(hit.Normal)
			if cosTheta <= 0 || scatter.PDF <= 0 {
				break
			}
			throughput = throughput.MultiplyVec(scatter.Attenuation).Multiply(cosTheta / scatter.PDF)
			ray = scatter.Scattered
			specularBounce = false
			prevPDF = scatter.PDF
		}

		if throughput.IsZero() {
			break
		}

		if pt.config.RussianRoulette && depth >= pt.config.RRMinBounces {
			survival := math.Min(math.Max(throughput.Luminance(), 0.1), 0.95)
			if sampler.Get1D() >= survival {
				break
			}
			throughput = throughput.Multiply(1.0 / survival)
		}
	}

	if !result.IsFinite() {
		return core.Vec3{}
	}
	return result
}

// sampleLight estimates direct illumination at the hit point by drawing
// one light sample, testing visibility, and weighting against the
// material's density for the same direction.
func (pt *PathTracer) sampleLight(s *scene.Scene, hit *core.HitRecord, incoming core.Vec3, sampler core.Sampler) core.Vec3 {
	sample, _, ok := s.LightSampler.Sample(hit.Point, sampler)
	if !ok || sample.PDF <= 0 {
		return core.Vec3{}
	}

	cosTheta := sample.Direction.Dot(hit.Normal)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	// Shadow ray stops just short of the light surface
	shadowRay := core.NewRay(hit.Point, sample.Direction)
	if _, blocked := s.Hit(shadowRay, pt.config.TMin, sample.Distance-pt.config.TMin); blocked {
		return core.Vec3{}
	}

	brdf := hit.Material.EvaluateBRDF(incoming, sample.Direction, hit.Normal)
	if brdf.IsZero() {
		return core.Vec3{}
	}

	// Density of drawing this direction through the light sampler as a
	// whole, so the weight here and the weight applied when a scattered
	// ray finds the light sum to one for any direction.
	lightPDF := s.LightSampler.PDF(hit.Point, sample.Direction)
	if lightPDF <= 0 {
		return core.Vec3{}
	}
	bsdfPDF := hit.Material.PDF(incoming, sample.Direction, hit.Normal)
	weight := core.PowerHeuristic(1, lightPDF, 1, bsdfPDF)

	return brdf.MultiplyVec(sample.Emission).Multiply(weight * cosTheta / lightPDF)
}
