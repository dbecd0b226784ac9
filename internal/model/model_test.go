package model

import (
	"encoding/json"
	"strings"
	"testing"
)

const sampleDay = `{
  "tasks": {"Morning": ["stretch", "water plants"], "evening": ["read"]},
  "done": {"morning": [true, false], "Evening": [false]},
  "plan": {"09": "standup", "07": "gym", "13": "lunch walk"},
  "goals": {"focus": [{"text": "ship", "done": false}], "todo": []},
  "food": {"breakfast": [{"name": "oats", "weight": 80}, "banana"], "lunch": []},
  "water": 750
}`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	d, err := DecodeDocument(strings.NewReader(sampleDay))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return d
}

func TestKeyed_PreservesInsertionOrder(t *testing.T) {
	d := decodeSample(t)
	got := strings.Join(d.Plan.Keys(), ",")
	if got != "09,07,13" {
		t.Fatalf("expected backend order, got %s", got)
	}
}

func TestKeyed_ResolveIsCaseInsensitive(t *testing.T) {
	d := decodeSample(t)
	key, ok := d.Tasks.Resolve("morning")
	if !ok || key != "Morning" {
		t.Fatalf("expected stored key Morning, got %q ok=%v", key, ok)
	}
	if _, ok := d.Tasks.Resolve("afternoon"); ok {
		t.Fatalf("expected afternoon to be absent")
	}
}

func TestKeyed_ExactMatchWins(t *testing.T) {
	var k Keyed[int]
	if err := json.Unmarshal([]byte(`{"Focus": 1, "focus": 2}`), &k); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, _ := k.Lookup("focus"); v != 2 {
		t.Fatalf("expected exact key to win, got %d", v)
	}
	if v, _ := k.Lookup("FOCUS"); v != 1 {
		t.Fatalf("expected first folded key, got %d", v)
	}
}

func TestKeyed_MarshalRoundTripKeepsOrder(t *testing.T) {
	d := decodeSample(t)
	b, err := json.Marshal(d.Plan)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"09":"standup","07":"gym","13":"lunch walk"}` {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestDocument_RoutineResolvesDoneAcrossCasing(t *testing.T) {
	d := decodeSample(t)
	key, tasks, done, ok := d.Routine("evening")
	if !ok || key != "evening" {
		t.Fatalf("expected evening, got %q ok=%v", key, ok)
	}
	if len(tasks) != 1 || len(done) != 1 || done[0] {
		t.Fatalf("unexpected evening: %v %v", tasks, done)
	}
	if DoneAt(done, 5) {
		t.Fatalf("out of range flag must read false")
	}
}

func TestDocument_AbsentSectionsStayNil(t *testing.T) {
	d, err := DecodeDocument(strings.NewReader(`{"tasks": {}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Food != nil || d.Goals != nil || d.Plan != nil {
		t.Fatalf("expected absent sections to be nil")
	}
	if d.Tasks == nil || d.Tasks.Len() != 0 {
		t.Fatalf("expected present empty tasks")
	}
	if d.HasWater() {
		t.Fatalf("expected no water")
	}
}

func TestFoodEntry_AcceptsLegacyString(t *testing.T) {
	d := decodeSample(t)
	foods, _ := d.Food.Get("breakfast")
	if len(foods) != 2 || foods[1].Name != "banana" || foods[1].Weight != 0 {
		t.Fatalf("unexpected foods: %+v", foods)
	}
}

func TestDocument_ErrorShape(t *testing.T) {
	d, err := DecodeDocument(strings.NewReader(`{"error": "No date provided"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Error != "No date provided" {
		t.Fatalf("expected error field, got %q", d.Error)
	}
}

func TestDates(t *testing.T) {
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatalf("expected invalid month to fail")
	}
	got, err := AddDays("2024-02-28", 2)
	if err != nil || got != "2024-03-01" {
		t.Fatalf("AddDays: %q %v", got, err)
	}
	if FormatAmount(1500) != "1500" || FormatAmount(80.5) != "80.5" {
		t.Fatalf("FormatAmount mismatch")
	}
}
