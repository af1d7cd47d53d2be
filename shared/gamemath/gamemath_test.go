package gamemath

import (
	"math"
	"testing"
	"time"
)

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 100, Y: 100, W: 30, H: 30}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"identical", base, true},
		{"partial", Rect{X: 115, Y: 110, W: 30, H: 30}, true},
		{"contained", Rect{X: 110, Y: 110, W: 5, H: 5}, true},
		{"touching right edge", Rect{X: 130, Y: 100, W: 10, H: 10}, false},
		{"touching bottom edge", Rect{X: 100, Y: 130, W: 10, H: 10}, false},
		{"disjoint", Rect{X: 500, Y: 500, W: 10, H: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Fatalf("Overlaps(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Fatalf("overlap is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestRectInsideAndClamp(t *testing.T) {
	r := Rect{X: 1990, Y: -5, W: 30, H: 30}
	if r.Inside(2000) {
		t.Fatal("rect crossing the arena edge reported inside")
	}
	c := r.ClampInto(2000)
	if c.X != 1970 || c.Y != 0 {
		t.Fatalf("ClampInto = (%v, %v), want (1970, 0)", c.X, c.Y)
	}
	if !c.Inside(2000) {
		t.Fatal("clamped rect not inside arena")
	}
}

func TestNormalize(t *testing.T) {
	x, y, ok := Normalize(3, 4)
	if !ok || math.Abs(x-0.6) > 1e-9 || math.Abs(y-0.8) > 1e-9 {
		t.Fatalf("Normalize(3,4) = (%v, %v, %v)", x, y, ok)
	}
	if _, _, ok := Normalize(0, 0); ok {
		t.Fatal("zero vector normalised")
	}
	if _, _, ok := Normalize(math.NaN(), 1); ok {
		t.Fatal("NaN vector normalised")
	}
}

func TestCalculateHomingVelocity(t *testing.T) {
	vx, vy := CalculateHomingVelocity(0, 0, 10, 0, 2)
	if vx != 2 || vy != 0 {
		t.Fatalf("homing velocity = (%v, %v), want (2, 0)", vx, vy)
	}
	vx, vy = CalculateHomingVelocity(5, 5, 5, 5, 2)
	if vx != 0 || vy != 0 {
		t.Fatalf("homing onto own position = (%v, %v), want zero", vx, vy)
	}
}

func TestCalculateFireCooldown(t *testing.T) {
	base := 600 * time.Millisecond
	step := 50 * time.Millisecond
	floor := 150 * time.Millisecond
	tests := []struct {
		level int
		want  time.Duration
	}{
		{0, 600 * time.Millisecond},
		{2, 500 * time.Millisecond},
		{9, 150 * time.Millisecond},
		{20, 150 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := CalculateFireCooldown(base, step, tt.level, floor); got != tt.want {
			t.Errorf("level %d: got %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestUpgradeFormulas(t *testing.T) {
	if got := CalculateDamage(20, 5, 3); got != 35 {
		t.Errorf("CalculateDamage = %d, want 35", got)
	}
	if got := CalculateRange(800, 100, 2); got != 1000 {
		t.Errorf("CalculateRange = %v, want 1000", got)
	}
	if got := CalculateSpeed(4, 0.5, 2); got != 5 {
		t.Errorf("CalculateSpeed = %v, want 5", got)
	}
}
