package leveldata

import (
	"os"
	"testing"
)

func TestLoadArena(t *testing.T) {
	layout, err := LoadArena(os.DirFS("testdata"), "arena.tmx")
	if err != nil {
		t.Fatalf("LoadArena: %v", err)
	}

	if layout.MapWidth != 2000 || layout.MapHeight != 2000 {
		t.Fatalf("map size = %dx%d, want 2000x2000", layout.MapWidth, layout.MapHeight)
	}

	if len(layout.Obstacles) != 2 {
		t.Fatalf("obstacles = %d, want 2 (zero-size objects skipped)", len(layout.Obstacles))
	}
	first := layout.Obstacles[0]
	if first.X != 200 || first.Y != 200 || first.W != 80 || first.H != 40 {
		t.Fatalf("first obstacle = %+v, want the one at (200,200)", first)
	}
	if first.HitPoints != 5 {
		t.Fatalf("first obstacle hit points = %d, want 5", first.HitPoints)
	}
	if layout.Obstacles[1].HitPoints != 0 {
		t.Fatalf("obstacle without property should report 0 hit points, got %d", layout.Obstacles[1].HitPoints)
	}

	if len(layout.SpawnPoints) != 2 {
		t.Fatalf("spawn points = %d, want 2", len(layout.SpawnPoints))
	}
	if layout.SpawnPoints[0].Index != 0 || layout.SpawnPoints[0].X != 100 {
		t.Fatalf("spawn points not ordered by index: %+v", layout.SpawnPoints)
	}
}

func TestLoadArenaMissingFile(t *testing.T) {
	if _, err := LoadArena(os.DirFS("testdata"), "nope.tmx"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
