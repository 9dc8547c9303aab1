package walker

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestEpisodesResetRestoresBody(t *testing.T) {
	b := newFakeBody()
	for s := range b.parts {
		b.parts[s].GroundContact = true
		b.parts[s].Velocity = mgl64.Vec3{1, 2, 3}
		b.parts[s].Strength = 3
	}
	b.moveHips(mgl64.Vec3{4, 0.1, 4})

	e := NewEpisodes(EpisodeStarter(1), nil)
	cfg := DefaultConfig()
	target := mgl64.Vec3{0, 1, 10}
	frame, start, err := e.Reset(b, &cfg, target)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range Slots() {
		p, _ := b.Part(s)
		if p.GroundContact {
			t.Errorf("%v still touches the ground after reset", s)
		}
		if p.Velocity != (mgl64.Vec3{}) {
			t.Errorf("%v still moves after reset: %v", s, p.Velocity)
		}
		if p.Strength != fakeMaxForce {
			t.Errorf("%v strength = %v, want %v", s, p.Strength, fakeMaxForce)
		}
	}
	if b.yaw != start.Yaw {
		t.Errorf("body yaw = %v, want sampled %v", b.yaw, start.Yaw)
	}

	// The frame faces the target from the fresh hips position
	hips, _ := b.Part(Hips)
	if frame.Origin != hips.Position {
		t.Errorf("frame origin = %v, want %v", frame.Origin, hips.Position)
	}
	want := OrientationCube{}.Update(hips.Position, target)
	if !quatNear(frame.Rotation, want.Rotation) {
		t.Errorf("frame rotation = %v, want %v", frame.Rotation, want.Rotation)
	}
}

func TestEpisodesYawUniform(t *testing.T) {
	const (
		bins    = 360
		samples = 36000
	)

	b := newFakeBody()
	e := NewEpisodes(EpisodeStarter(42), nil)
	cfg := DefaultConfig()

	observed := make([]float64, bins)
	for i := 0; i < samples; i++ {
		if _, _, err := e.Reset(b, &cfg, mgl64.Vec3{0, 1, 10}); err != nil {
			t.Fatal(err)
		}
		if b.yaw < YawBounds.Min || b.yaw >= YawBounds.Max {
			t.Fatalf("yaw %v outside [%v, %v)", b.yaw, YawBounds.Min,
				YawBounds.Max)
		}
		bin := int(b.yaw / YawBounds.Max * bins)
		if bin == bins {
			bin--
		}
		observed[bin]++
	}

	expected := make([]float64, bins)
	for i := range expected {
		expected[i] = samples / bins
	}
	x := stat.ChiSquare(observed, expected)
	p := 1 - distuv.ChiSquared{K: bins - 1}.CDF(x)
	if p < 1e-4 {
		t.Errorf("yaw not uniform: chi-square %v, p-value %v", x, p)
	}
}

func TestEpisodesWalkingSpeed(t *testing.T) {
	b := newFakeBody()
	e := NewEpisodes(EpisodeStarter(3), nil)

	t.Run("randomized", func(t *testing.T) {
		cfg := DefaultConfig()
		seen := map[float64]bool{}
		for i := 0; i < 100; i++ {
			if _, start, err := e.Reset(b, &cfg, mgl64.Vec3{}); err != nil {
				t.Fatal(err)
			} else if cfg.TargetWalkingSpeed != start.Speed {
				t.Fatalf("speed = %v, want sampled %v",
					cfg.TargetWalkingSpeed, start.Speed)
			}
			if v := cfg.TargetWalkingSpeed; v < SpeedBounds.Min ||
				v > SpeedBounds.Max {
				t.Fatalf("speed %v outside %v", cfg.TargetWalkingSpeed,
					SpeedBounds)
			}
			seen[cfg.TargetWalkingSpeed] = true
		}
		if len(seen) < 90 {
			t.Errorf("only %v distinct speeds in 100 resets", len(seen))
		}
	})

	t.Run("fixed", func(t *testing.T) {
		for _, test := range []struct{ speed, want float64 }{
			{3, 3},
			{50, MaxWalkingSpeed},
			{0, MinWalkingSpeed},
			{-2, MinWalkingSpeed},
		} {
			cfg := DefaultConfig()
			cfg.RandomizeWalkSpeed = false
			cfg.TargetWalkingSpeed = test.speed
			for i := 0; i < 3; i++ {
				if _, _, err := e.Reset(b, &cfg, mgl64.Vec3{}); err != nil {
					t.Fatal(err)
				}
				if cfg.TargetWalkingSpeed != test.want {
					t.Errorf("speed %v reset to %v, want %v", test.speed,
						cfg.TargetWalkingSpeed, test.want)
				}
			}
		}
	})
}

func TestEpisodesIdempotent(t *testing.T) {
	// Two controllers with the same seed produce the same episodes
	b1, b2 := newFakeBody(), newFakeBody()
	e1 := NewEpisodes(EpisodeStarter(9), nil)
	e2 := NewEpisodes(EpisodeStarter(9), nil)
	cfg1, cfg2 := DefaultConfig(), DefaultConfig()
	target := mgl64.Vec3{2, 1, 7}

	for i := 0; i < 20; i++ {
		f1, s1, err1 := e1.Reset(b1, &cfg1, target)
		f2, s2, err2 := e2.Reset(b2, &cfg2, target)
		if err1 != nil || err2 != nil {
			t.Fatal(err1, err2)
		}
		if s1 != s2 || f1 != f2 || cfg1 != cfg2 {
			t.Fatalf("reset %v diverged: %+v %+v", i, s1, s2)
		}
		p1, _ := Capture(b1)
		p2, _ := Capture(b2)
		if p1 != p2 {
			t.Fatalf("reset %v left different poses", i)
		}
	}
}

func TestEpisodesErrors(t *testing.T) {
	e := NewEpisodes(EpisodeStarter(1), nil)
	cfg := DefaultConfig()

	if _, _, err := e.Reset(nil, &cfg, mgl64.Vec3{}); !errors.Is(err, ErrNilBody) {
		t.Errorf("nil body: err = %v, want ErrNilBody", err)
	}

	b := newFakeBody()
	b.missing[Hips] = true
	if _, _, err := e.Reset(b, &cfg, mgl64.Vec3{}); !errors.Is(err,
		ErrMissingBodyPart) {
		t.Errorf("missing hips: err = %v, want ErrMissingBodyPart", err)
	}
}

func TestCaptureMissingPart(t *testing.T) {
	b := newFakeBody()
	b.missing[ForearmR] = true
	if _, err := Capture(b); !errors.Is(err, ErrMissingBodyPart) {
		t.Errorf("err = %v, want ErrMissingBodyPart", err)
	}
	if _, err := Capture(nil); !errors.Is(err, ErrNilBody) {
		t.Errorf("err = %v, want ErrNilBody", err)
	}
}

func TestYawBoundsFullTurn(t *testing.T) {
	if YawBounds.Min != 0 || math.Abs(YawBounds.Max-2*math.Pi) > tol {
		t.Errorf("yaw bounds = %v, want [0, 2π)", YawBounds)
	}
}
