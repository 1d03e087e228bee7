package storage

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/telemetry"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	samples := []telemetry.Sample{
		{Frame: 100, Steps: 100, Cells: 40, Black: 20},
		{Frame: 200, Steps: 200, Cells: 81, Black: 47},
	}
	cfg := config.GetPreset("ant", "backdrop")
	runID, err := st.Save(RunMetadata{
		Simulation: "ant",
		Seed:       42,
		Width:      800,
		Height:     600,
		Frames:     200,
		Config:     cfg,
	}, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Simulation != "ant" {
		t.Errorf("expected simulation 'ant', got '%s'", meta.Simulation)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Final.Black != 47 {
		t.Errorf("expected final black 47, got %d", meta.Final.Black)
	}
	if meta.Config == nil || *meta.Config != *cfg {
		t.Errorf("config not round-tripped: %+v", meta.Config)
	}

	got, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(got) != 2 || got[1] != samples[1] {
		t.Errorf("unexpected samples %+v", got)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	base := time.Unix(1700000000, 0)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick%2) * time.Second)
	}

	for _, sim := range []string{"flow", "flow", "ant"} {
		if _, err := st.Save(RunMetadata{Simulation: sim}, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	seen := map[string]bool{}
	for i, r := range runs {
		if seen[r.ID] {
			t.Errorf("duplicate run id %s", r.ID)
		}
		seen[r.ID] = true
		if i > 0 && r.Timestamp.Before(runs[i-1].Timestamp) {
			t.Error("runs not sorted by time")
		}
	}
}

func TestStoreList_Empty(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected no runs, got %v, %v", runs, err)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSamples: expected ErrRunNotFound, got %v", err)
	}
	if err := st.SaveSnapshot("nope", image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("SaveSnapshot: expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{Simulation: "flow"}, []telemetry.Sample{{Frame: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SaveSnapshot(runID, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"metadata.json", "samples.csv", "final.png"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestStoreSave_FailureLeavesNoRun(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	_, err := st.Save(RunMetadata{
		Simulation: "flow",
		Metrics:    map[string]float64{"ticks_per_second": math.NaN()},
	}, []telemetry.Sample{{Frame: 1}})
	if err == nil {
		t.Fatal("expected an encode error for a NaN metric")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("half-written run left behind: %s", entries[0].Name())
	}
	if runs, err := st.List(); err != nil || len(runs) != 0 {
		t.Errorf("expected no runs, got %v, %v", runs, err)
	}
}

func TestStoreSaveSnapshot_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{Simulation: "ant"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SaveSnapshot(runID, image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("expected an error encoding an empty frame")
	}
	if _, err := os.Stat(filepath.Join(dir, runID, "final.png")); !os.IsNotExist(err) {
		t.Errorf("partial snapshot left behind: %v", err)
	}
	if _, err := st.Load(runID); err != nil {
		t.Errorf("run should survive a failed snapshot: %v", err)
	}
}
