package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dayplan/internal/planner"
	"dayplan/internal/render"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("DAYPLAN_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != DefaultServer || cfg.Timeout != DefaultTimeout || cfg.Format != "text" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `server: http://planner.lan:5050
timeout: 3s
targets:
  protein: 120
  water: 2500
tui:
  glyphs: ascii
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://planner.lan:5050" || cfg.Timeout != 3*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Targets.Protein != 120 || cfg.Targets.WaterML != 2500 {
		t.Fatalf("unexpected targets: %+v", cfg.Targets)
	}
	if cfg.TUI == nil || cfg.TUI.Glyphs != "ascii" {
		t.Fatalf("unexpected tui: %+v", cfg.TUI)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultConfig()
	want.Server = "https://example.test"
	want.Targets = render.Targets{Fat: 70}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Server != want.Server || got.Targets.Fat != 70 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}

func TestTUIState_BestEffort(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	st, err := s.LoadTUIState()
	if err != nil || st.Version != 1 {
		t.Fatalf("missing state: %+v %v", st, err)
	}
	st.LastMeal = "Lunch"
	st.LastWater = 300
	if err := s.SaveTUIState(st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadTUIState()
	if err != nil || got.LastMeal != "Lunch" || got.LastWater != 300 {
		t.Fatalf("reload: %+v %v", got, err)
	}

	if err := os.WriteFile(filepath.Join(s.Dir, tuiStateFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	got, err = s.LoadTUIState()
	if err != nil || got.LastMeal != "" {
		t.Fatalf("expected corrupted state to read as empty: %+v %v", got, err)
	}
}

func TestJournal_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	j, err := s.OpenJournal(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	actions := []planner.Action{
		{At: base, Kind: planner.ActionAddWater, Date: "2025-06-10", Params: map[string]string{"amount": "250"}},
		{At: base.Add(time.Minute), Kind: planner.ActionToggleTask, Date: "2025-06-09", Params: map[string]string{"part": "morning"}},
		{At: base.Add(2 * time.Minute), Kind: planner.ActionAddFood, Date: "2025-06-10", Err: "api: /add_food: unexpected status 500"},
	}
	for _, a := range actions {
		if err := j.Record(ctx, a); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := j.Recent(ctx, Query{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 3 || all[0].Kind != planner.ActionAddFood || all[0].Err == "" {
		t.Fatalf("unexpected order: %+v", all)
	}

	day, err := j.Recent(ctx, Query{Date: "2025-06-10", Limit: 1})
	if err != nil {
		t.Fatalf("recent by date: %v", err)
	}
	if len(day) != 1 || day[0].Kind != planner.ActionAddFood {
		t.Fatalf("unexpected filtered: %+v", day)
	}

	last, _ := j.Recent(ctx, Query{Date: "2025-06-10", Limit: 5})
	if got := last[1].Params["amount"]; got != "250" {
		t.Fatalf("expected params to round-trip, got %q", got)
	}
}
