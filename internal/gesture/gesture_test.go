package gesture

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// tangents returns the four signed unit axes lying in face f's plane.
func tangents(f cube.Face) []cube.Vec {
	var out []cube.Vec
	for _, g := range cube.Faces {
		if g.Axis() != f.Axis() {
			out = append(out, g.Normal())
		}
	}
	return out
}

// stickerPoint returns the world point at the centre of sticker i of f.
func stickerPoint(f cube.Face, i int, spacing float64) mgl64.Vec3 {
	idx := cube.StickerIndex(f, i)
	return idx.Position(spacing).Add(f.Normal().Float().Mul(0.5))
}

func TestTouchedStickerFollowsSwipe(t *testing.T) {
	for _, rule := range []TargetRule{RuleCross, RuleLayer} {
		cfg := DefaultConfig()
		cfg.Rule = rule
		for _, f := range cube.Faces {
			for _, s := range tangents(f) {
				for i := 0; i < 9; i++ {
					point := stickerPoint(f, i, cfg.Spacing)
					disp := s.Float().Mul(0.4)
					cmd, reason := Resolve(cfg, f, point, disp)
					if rule == RuleLayer && reason == MiddleLayer {
						continue
					}
					if reason != Accepted {
						t.Fatalf("%s: touch %s[%d] swipe %v: %s", rule, f, i, s, reason)
					}
					if cmd.Face.Axis() == f.Axis() {
						t.Errorf("%s: touch %s swipe %v turned the touched axis (%s)", rule, f, s, cmd)
					}
					rot := cube.TurnRotation(cmd.Face, cmd.Direction)
					if got := rot.Apply(f.Normal()); got != s {
						t.Errorf("%s: touch %s[%d] swipe %v -> %s moves the sticker toward %v", rule, f, i, s, cmd, got)
					}
					if rule == RuleLayer && !cube.InSlice(cmd.Face, cube.StickerIndex(f, i)) {
						t.Errorf("layer: touch %s[%d] swipe %v -> %s does not turn the touched cubie", f, i, s, cmd)
					}
				}
			}
		}
	}
}

func TestLayerRuleMiddleIsDegenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rule = RuleLayer
	// Centre sticker of F, swipe up: rotation axis is X and the touch is
	// on the middle X layer.
	_, reason := Resolve(cfg, cube.F, stickerPoint(cube.F, 4, cfg.Spacing), mgl64.Vec3{0, 0.5, 0})
	if reason != MiddleLayer {
		t.Errorf("reason = %s, want middle layer", reason)
	}
}

func TestCrossRuleExamples(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		touched cube.Face
		disp    mgl64.Vec3
		want    string
	}{
		{cube.F, mgl64.Vec3{0, 1, 0}, "R"},
		{cube.F, mgl64.Vec3{0, -1, 0}, "L"},
		{cube.F, mgl64.Vec3{1, 0, 0}, "D"},
		{cube.F, mgl64.Vec3{-1, 0, 0}, "U"},
		{cube.U, mgl64.Vec3{0, 0, -1}, "R"},
		{cube.R, mgl64.Vec3{0, 1, 0}, "B"},
	}
	for _, tt := range tests {
		cmd, reason := Resolve(cfg, tt.touched, mgl64.Vec3{}, tt.disp)
		if reason != Accepted {
			t.Errorf("%s %v: %s", tt.touched, tt.disp, reason)
			continue
		}
		if cmd.String() != tt.want {
			t.Errorf("%s %v = %s, want %s", tt.touched, tt.disp, cmd, tt.want)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rule = RuleLayer
	point := mgl64.Vec3{1.02, 1.2, 1.53}
	disp := mgl64.Vec3{0.1, 0.45, 0.02}
	first, r1 := Resolve(cfg, cube.F, point, disp)
	for i := 0; i < 100; i++ {
		cmd, r := Resolve(cfg, cube.F, point, disp)
		if cmd != first || r != r1 {
			t.Fatalf("iteration %d: got %s/%s, want %s/%s", i, cmd, r, first, r1)
		}
	}
}

func TestInvertFlipsDirection(t *testing.T) {
	cfg := DefaultConfig()
	plain, _ := Resolve(cfg, cube.U, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	cfg.Invert = true
	inv, _ := Resolve(cfg, cube.U, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	if plain.Face != inv.Face || plain.Direction != inv.Direction.Inverse() {
		t.Errorf("invert: %s vs %s", plain, inv)
	}
}

func TestTapIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	if _, reason := Resolve(cfg, cube.F, mgl64.Vec3{}, mgl64.Vec3{0.1, 0, 0}); reason != Tap {
		t.Errorf("reason = %s, want tap", reason)
	}
	// Motion along the normal does not count.
	if _, reason := Resolve(cfg, cube.F, mgl64.Vec3{}, mgl64.Vec3{0.05, 0, 3}); reason != Tap {
		t.Errorf("normal motion: reason = %s, want tap", reason)
	}
}

func TestZeroSwipeIsTapWithoutThreshold(t *testing.T) {
	for _, rule := range []TargetRule{RuleCross, RuleLayer} {
		cfg := DefaultConfig()
		cfg.MinSwipe = 0
		cfg.Rule = rule
		point := mgl64.Vec3{1.02, 0, 1.53}

		if cmd, reason := Resolve(cfg, cube.F, point, mgl64.Vec3{}); reason != Tap {
			t.Errorf("%s: zero swipe gave %s %s, want tap", rule, cmd, reason)
		}
		// Pure normal motion projects to zero.
		if cmd, reason := Resolve(cfg, cube.F, point, mgl64.Vec3{0, 0, 2}); reason != Tap {
			t.Errorf("%s: normal-only swipe gave %s %s, want tap", rule, cmd, reason)
		}
		if cmd, reason := Resolve(cfg, cube.F, point, mgl64.Vec3{math.Inf(1), 0, 0}); reason != Tap {
			t.Errorf("%s: infinite swipe gave %s %s, want tap", rule, cmd, reason)
		}
		if cmd, reason := Resolve(cfg, cube.F, point, mgl64.Vec3{math.NaN(), 0, 0}); reason != Tap {
			t.Errorf("%s: NaN swipe gave %s %s, want tap", rule, cmd, reason)
		}
	}
}

func TestFaceFromNormal(t *testing.T) {
	tests := []struct {
		n    mgl64.Vec3
		want cube.Face
		ok   bool
	}{
		{mgl64.Vec3{0, 0, 1}, cube.F, true},
		{mgl64.Vec3{0, -2, 0}, cube.D, true},
		{mgl64.Vec3{-0.95, 0.1, 0.1}, cube.L, true},
		{mgl64.Vec3{0.7, 0.7, 0}, 0, false},
		{mgl64.Vec3{}, 0, false},
		{mgl64.Vec3{math.NaN(), 0, 1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := FaceFromNormal(tt.n, 0.8)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("FaceFromNormal(%v) = %s, %v; want %s, %v", tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func frontHit() *Hit {
	return &Hit{Point: mgl64.Vec3{1.02, 0.5, 1.53}, Normal: mgl64.Vec3{0, 0, 1}}
}

func TestInterpreterSwipe(t *testing.T) {
	in := New(DefaultConfig(), nil, nil)
	in.Down(1, frontHit())
	if in.State() != Tracking {
		t.Fatal("should be tracking after a hit")
	}
	// Drag up on screen: y decreases.
	in.Move(1, 2, -15)
	in.Move(1, 0, -15)
	cmd, ok := in.Up(1)
	if !ok {
		t.Fatalf("swipe discarded: %s", in.LastReason())
	}
	if cmd.Face != cube.R || cmd.Direction != cube.CW {
		t.Errorf("cmd = %s, want R", cmd)
	}
	if in.State() != Idle {
		t.Error("should be idle after release")
	}
}

func TestInterpreterDegenerate(t *testing.T) {
	t.Run("no hit", func(t *testing.T) {
		in := New(DefaultConfig(), nil, nil)
		in.Down(1, nil)
		in.Move(1, 0, -50)
		if _, ok := in.Up(1); ok {
			t.Error("no-hit gesture should not emit")
		}
		if in.LastReason() != NoHit {
			t.Errorf("reason = %s", in.LastReason())
		}
	})
	t.Run("grazing", func(t *testing.T) {
		in := New(DefaultConfig(), nil, nil)
		in.Down(1, &Hit{Normal: mgl64.Vec3{0.6, 0, 0.6}})
		in.Move(1, 0, -50)
		if _, ok := in.Up(1); ok {
			t.Error("grazing gesture should not emit")
		}
	})
	t.Run("tap", func(t *testing.T) {
		in := New(DefaultConfig(), nil, nil)
		in.Down(1, frontHit())
		in.Move(1, 3, 2)
		if _, ok := in.Up(1); ok {
			t.Error("tap should not emit")
		}
		if in.LastReason() != Tap {
			t.Errorf("reason = %s", in.LastReason())
		}
	})
	t.Run("second pointer", func(t *testing.T) {
		in := New(DefaultConfig(), nil, nil)
		in.Down(1, frontHit())
		in.Move(1, 0, -50)
		in.Down(2, frontHit())
		if in.State() != Idle {
			t.Error("second pointer should disengage")
		}
		if _, ok := in.Up(1); ok {
			t.Error("multi-touch gesture should not emit")
		}
		if _, ok := in.Up(2); ok {
			t.Error("second pointer should not emit")
		}
		// Fully released: a fresh gesture works again.
		in.Down(3, frontHit())
		in.Move(3, 0, -50)
		if _, ok := in.Up(3); !ok {
			t.Error("interpreter should recover after all pointers lift")
		}
	})
	t.Run("cancel", func(t *testing.T) {
		in := New(DefaultConfig(), nil, nil)
		in.Down(1, frontHit())
		in.Move(1, 0, -50)
		in.Cancel()
		if _, ok := in.Up(1); ok {
			t.Error("cancelled gesture should not emit")
		}
	})
}

func TestInterpreterUsesCamera(t *testing.T) {
	in := New(DefaultConfig(), nil, nil)
	// Looking at U from above: screen right is +X, screen up is -Z.
	in.SetCamera(FixedCamera{Right: mgl64.Vec3{1, 0, 0}, Up: mgl64.Vec3{0, 0, -1}})
	in.Down(1, &Hit{Point: mgl64.Vec3{1.02, 1.53, 0}, Normal: mgl64.Vec3{0, 1, 0}})
	in.Move(1, 0, -40)
	cmd, ok := in.Up(1)
	if !ok {
		t.Fatalf("discarded: %s", in.LastReason())
	}
	if cmd.Face != cube.R || cmd.Direction != cube.CW {
		t.Errorf("cmd = %s, want R", cmd)
	}
}

func TestParseTargetRule(t *testing.T) {
	for in, want := range map[string]TargetRule{"cross": RuleCross, "layer": RuleLayer, "": RuleCross} {
		got, err := ParseTargetRule(in)
		if err != nil || got != want {
			t.Errorf("ParseTargetRule(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseTargetRule("table"); err == nil {
		t.Error("unknown rule should fail")
	}
}
