package renderer

import (
	"image"
	"math"
	"testing"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

type fixedSampler struct{}

func (fixedSampler) Get1D() float64   { return 0.5 }
func (fixedSampler) Get2D() core.Vec2 { return core.Vec2{X: 0.5, Y: 0.5} }

func TestTileGridCoversImageExactly(t *testing.T) {
	tests := []struct {
		width, height, tileSize int
	}{
		{64, 64, 32},   // even split
		{100, 70, 32},  // ragged right and bottom edges
		{31, 31, 32},   // single undersized tile
		{1, 1, 32},     // degenerate image
		{65, 33, 32},   // one-pixel slivers
		{640, 480, 32}, // typical viewer resolution
	}

	for _, tt := range tests {
		tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
		img := image.Rect(0, 0, tt.width, tt.height)

		covered := make(map[image.Point]int)
		area := 0
		for _, tile := range tiles {
			if !tile.Bounds.In(img) {
				t.Errorf("%dx%d/%d: tile %d bounds %v leave the image", tt.width, tt.height, tt.tileSize, tile.ID, tile.Bounds)
			}
			if tile.Bounds.Empty() {
				t.Errorf("%dx%d/%d: tile %d is empty", tt.width, tt.height, tt.tileSize, tile.ID)
			}
			area += tile.Bounds.Dx() * tile.Bounds.Dy()
			for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
				for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
					covered[image.Pt(x, y)]++
				}
			}
		}

		if area != tt.width*tt.height {
			t.Errorf("%dx%d/%d: tiles cover %d pixels, want %d", tt.width, tt.height, tt.tileSize, area, tt.width*tt.height)
		}
		for pt, n := range covered {
			if n != 1 {
				t.Fatalf("%dx%d/%d: pixel %v covered %d times", tt.width, tt.height, tt.tileSize, pt, n)
			}
		}
	}
}

func TestTileGridRejectsBadInput(t *testing.T) {
	if tiles := NewTileGrid(0, 10, 32); tiles != nil {
		t.Error("expected nil grid for zero width")
	}
	if tiles := NewTileGrid(10, 10, 0); tiles != nil {
		t.Error("expected nil grid for zero tile size")
	}
}

func TestTileSeedVariesPerTileAndPass(t *testing.T) {
	seen := make(map[int64]bool)
	for tile := 0; tile < 50; tile++ {
		for pass := 0; pass < 50; pass++ {
			s := tileSeed(99, tile, pass)
			if seen[s] {
				t.Fatalf("duplicate seed %d at tile %d pass %d", s, tile, pass)
			}
			seen[s] = true
		}
	}
	if tileSeed(1, 0, 0) == tileSeed(2, 0, 0) {
		t.Error("different global seeds should produce different tile seeds")
	}
}

func TestAccumBufferMean(t *testing.T) {
	b := NewAccumBuffer(4, 4)
	b.AddSample(1, 2, core.NewVec3(1, 0, 0))
	b.AddSample(1, 2, core.NewVec3(0, 1, 0))

	got := b.Pixel(1, 2)
	if got.Count != 2 {
		t.Fatalf("expected 2 samples, got %d", got.Count)
	}
	mean := got.Color()
	want := core.NewVec3(0.5, 0.5, 0)
	if mean != want {
		t.Errorf("mean = %v, want %v", mean, want)
	}

	if c := b.Pixel(0, 0).Color(); !c.IsZero() {
		t.Errorf("untouched pixel should be black, got %v", c)
	}

	if b.TotalSamples() != 2 {
		t.Errorf("total samples = %d, want 2", b.TotalSamples())
	}

	b.Reset()
	if b.TotalSamples() != 0 || b.Pixel(1, 2).Count != 0 {
		t.Error("reset did not clear the buffer")
	}
}

func TestAccumBufferToImageGamma(t *testing.T) {
	b := NewAccumBuffer(1, 1)
	b.AddSample(0, 0, core.NewVec3(0.25, 1.0, 4.0))

	img := b.ToImage()
	px := img.RGBAAt(0, 0)

	// 0.25 -> sqrt -> 0.5; 1.0 stays 1.0; 4.0 clamps to 1.0 before gamma
	if px.R != uint8(math.Round(0.5*255)) {
		t.Errorf("R = %d, want %d", px.R, uint8(math.Round(0.5*255)))
	}
	if px.G != 255 || px.B != 255 {
		t.Errorf("G,B = %d,%d, want 255,255", px.G, px.B)
	}
	if px.A != 255 {
		t.Errorf("A = %d, want 255", px.A)
	}
}

func TestCameraPoseValidation(t *testing.T) {
	valid := DefaultPose(640, 480)
	if err := valid.Validate(); err != nil {
		t.Fatalf("default pose should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CameraPose)
	}{
		{"zero width", func(p *CameraPose) { p.Width = 0 }},
		{"negative height", func(p *CameraPose) { p.Height = -1 }},
		{"zero fov", func(p *CameraPose) { p.VFov = 0 }},
		{"fov too wide", func(p *CameraPose) { p.VFov = 180 }},
		{"eye equals look-at", func(p *CameraPose) { p.LookAt = p.Eye }},
		{"up parallel to view", func(p *CameraPose) {
			p.Eye = core.NewVec3(0, 5, 0)
			p.LookAt = core.NewVec3(0, 0, 0)
			p.Up = core.NewVec3(0, 1, 0)
		}},
		{"nan eye", func(p *CameraPose) { p.Eye.X = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pose := valid
			tt.mutate(&pose)
			if err := pose.Validate(); err == nil {
				t.Error("expected validation error")
			}
			if _, err := NewCamera(pose); err == nil {
				t.Error("NewCamera should reject the pose")
			}
		})
	}
}

func TestCameraCenterRay(t *testing.T) {
	pose := CameraPose{
		Eye:    core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90,
		Width:  1,
		Height: 1,
	}
	cam, err := NewCamera(pose)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	ray := cam.GetRay(0, 0, fixedSampler{})
	want := core.NewVec3(0, 0, -1)
	if ray.Direction.Subtract(want).Length() > 1e-12 {
		t.Errorf("center ray direction = %v, want %v", ray.Direction, want)
	}
	if ray.Origin != pose.Eye {
		t.Errorf("ray origin = %v, want %v", ray.Origin, pose.Eye)
	}
}

func TestCameraImageOrientation(t *testing.T) {
	pose := CameraPose{
		Eye:    core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   60,
		Width:  4,
		Height: 4,
	}
	cam, err := NewCamera(pose)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	top := cam.GetRay(1, 0, fixedSampler{})
	bottom := cam.GetRay(1, 3, fixedSampler{})
	if top.Direction.Y <= bottom.Direction.Y {
		t.Error("smaller j (top of image) should look higher in world space")
	}

	left := cam.GetRay(0, 1, fixedSampler{})
	right := cam.GetRay(3, 1, fixedSampler{})
	if left.Direction.X >= right.Direction.X {
		t.Error("larger i should look further right")
	}
}
