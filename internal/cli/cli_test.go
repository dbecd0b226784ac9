package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dayplan/internal/api"
	"dayplan/internal/api/apitest"
	"dayplan/internal/model"
	"dayplan/internal/store"
)

const today = "2025-06-10"

const todayDoc = `{
  "tasks": {"Morning": ["stretch", "journal"], "evening": ["read"]},
  "done": {"Morning": [false, true], "evening": [false]},
  "goals": {"focus": [{"text": "ship", "done": false}], "todo": []},
  "food": {"breakfast": [], "lunch": [{"name": "rice", "weight": 80, "protein": 2, "fat": 0.5, "carbon": 22}], "dinner": []},
  "water": 500
}`

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func setup(t *testing.T) *apitest.Backend {
	t.Helper()
	t.Setenv("DAYPLAN_CONFIG_DIR", t.TempDir())
	t.Setenv("DAYPLAN_SERVER", "")
	t.Setenv("DAYPLAN_FORMAT", "")
	be := apitest.New(t, today)
	be.SetDay(today, todayDoc)
	be.SetDay("2025-06-01", `{"tasks": {"morning": ["walk"]}, "done": {"morning": [true]}}`)
	return be
}

func mustRun(t *testing.T, be *apitest.Backend, args ...string) []byte {
	t.Helper()
	stdout, stderr, err := runCLI(t, append([]string{"--server", be.URL()}, args...))
	if err != nil {
		t.Fatalf("command failed: dayplan %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	return stdout
}

func decodeData(t *testing.T, stdout []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got %#v", env)
	}
	return data
}

func TestShow_TextRendersToday(t *testing.T) {
	be := setup(t)
	out := string(mustRun(t, be, "show"))

	for _, want := range []string{
		today + " (today)",
		"[Routine] Morning\n  [ ] stretch\n  [x] journal\n",
		"[Goals] focus\n  [ ] ship\n",
		"[Hydration]\n  Water: 500 ml\n",
		"[Food] lunch\n  rice (80g)\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow_JSONForDate(t *testing.T) {
	be := setup(t)
	data := decodeData(t, mustRun(t, be, "--format", "json", "show", "--date", "2025-06-01"))

	if data["date"] != "2025-06-01" || data["today"] != false {
		t.Fatalf("unexpected header: %#v", data)
	}
	boxes, _ := data["boxes"].([]any)
	if len(boxes) != 1 {
		t.Fatalf("expected one box; got %d", len(boxes))
	}
	if got := strings.Join(be.Paths(), " "); got != "/get_day" {
		t.Fatalf("expected a single get_day; got %q", got)
	}
}

func TestShow_LoadFailureExitsNonZero(t *testing.T) {
	be := setup(t)
	be.Fail(api.PathReload, http.StatusInternalServerError)

	_, stderr, err := runCLI(t, []string{"--server", be.URL(), "show"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(string(stderr), "Failed to fetch today's plan.") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestShow_InvalidDate(t *testing.T) {
	be := setup(t)
	_, _, err := runCLI(t, []string{"--server", be.URL(), "show", "--date", "June 1"})
	if err == nil {
		t.Fatalf("expected invalid date error")
	}
	if n := len(be.Requests()); n != 0 {
		t.Fatalf("expected no requests; got %d", n)
	}
}

func TestToday(t *testing.T) {
	be := setup(t)
	if got := string(mustRun(t, be, "today")); got != today+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTaskDone_ResolvesCasingAndReloads(t *testing.T) {
	be := setup(t)
	mustRun(t, be, "task", "done", "morning", "0")

	var update *apitest.Request
	for _, r := range be.Requests() {
		if r.Path == api.PathUpdateTask {
			r := r
			update = &r
		}
	}
	if update == nil {
		t.Fatalf("expected update_task; got %v", be.Paths())
	}
	v := update.Values
	if v.Get("part") != "Morning" || v.Get("index") != "0" || v.Get("done") != "true" || v.Get("date") != today {
		t.Fatalf("unexpected form: %v", v)
	}
	if be.Count(api.PathUpdateTask) != 1 {
		t.Fatalf("expected exactly one update")
	}
	paths := be.Paths()
	if paths[len(paths)-1] != api.PathReload {
		t.Fatalf("expected a reload after the update; got %v", paths)
	}
}

func TestTaskUndo_OnSelectedDate(t *testing.T) {
	be := setup(t)
	mustRun(t, be, "task", "undo", "Morning", "0", "--date", "2025-06-01")

	reqs := be.Requests()
	var found bool
	for _, r := range reqs {
		if r.Path == api.PathUpdateTask {
			found = true
			if r.Values.Get("part") != "morning" || r.Values.Get("done") != "false" || r.Values.Get("date") != "2025-06-01" {
				t.Fatalf("unexpected form: %v", r.Values)
			}
		}
	}
	if !found {
		t.Fatalf("expected update_task")
	}
	if last := reqs[len(reqs)-1]; last.Path != api.PathGetDay || last.Values.Get("date") != "2025-06-01" {
		t.Fatalf("expected reload of the selected date; got %+v", last)
	}
}

func TestTaskDone_UnknownSectionAndIndex(t *testing.T) {
	be := setup(t)

	_, _, err := runCLI(t, []string{"--server", be.URL(), "task", "done", "noon", "0"})
	var use unknownSectionError
	if !errors.As(err, &use) {
		t.Fatalf("expected unknown section error; got %v", err)
	}

	_, _, err = runCLI(t, []string{"--server", be.URL(), "task", "done", "evening", "5"})
	var ue usageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected usage error; got %v", err)
	}
	if be.Count(api.PathUpdateTask) != 0 {
		t.Fatalf("expected no update requests")
	}
}

func TestGoalDone(t *testing.T) {
	be := setup(t)
	mustRun(t, be, "goal", "done", "FOCUS", "0")
	for _, r := range be.Requests() {
		if r.Path == api.PathUpdateGoal {
			if r.Values.Get("section") != "focus" || r.Values.Get("done") != "true" {
				t.Fatalf("unexpected form: %v", r.Values)
			}
			return
		}
	}
	t.Fatalf("expected update_goal; got %v", be.Paths())
}

func TestTaskAdd_UsesStoredCasing(t *testing.T) {
	be := setup(t)
	mustRun(t, be, "task", "add", "morning", "drink", "water")
	for _, r := range be.Requests() {
		if r.Path == api.PathAddTask {
			if r.Values.Get("section") != "Morning" || r.Values.Get("text") != "drink water" {
				t.Fatalf("unexpected form: %v", r.Values)
			}
			return
		}
	}
	t.Fatalf("expected add_task; got %v", be.Paths())
}

func TestMutationFailure_ReloadsThenExitsNonZero(t *testing.T) {
	be := setup(t)
	be.Fail(api.PathAddGoal, http.StatusInternalServerError)

	stdout, stderr, err := runCLI(t, []string{"--server", be.URL(), "goal", "add", "todo", "taxes"})
	var me mutationError
	if !errors.As(err, &me) {
		t.Fatalf("expected mutation error; got %v", err)
	}
	var se *api.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped status error; got %v", err)
	}
	paths := be.Paths()
	if paths[len(paths)-1] != api.PathReload {
		t.Fatalf("expected the reload to still run; got %v", paths)
	}
	if !strings.Contains(string(stdout), "[Goals] focus") {
		t.Fatalf("expected reloaded day on stdout:\n%s", stdout)
	}
	if !strings.Contains(string(stderr), "goal add failed") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestFoodAdd(t *testing.T) {
	be := setup(t)
	mustRun(t, be, "food", "add", "Lunch", "apple", "150")
	for _, r := range be.Requests() {
		if r.Path == api.PathAddFood {
			if r.Values.Get("meal") != "lunch" || r.Values.Get("name") != "apple" || r.Values.Get("weight") != "150" {
				t.Fatalf("unexpected form: %v", r.Values)
			}
			return
		}
	}
	t.Fatalf("expected add_food; got %v", be.Paths())
}

func TestFoodAdd_BadWeightSendsNothing(t *testing.T) {
	be := setup(t)
	if _, _, err := runCLI(t, []string{"--server", be.URL(), "food", "add", "lunch", "apple", "lots"}); err == nil {
		t.Fatalf("expected error")
	}
	if n := len(be.Requests()); n != 0 {
		t.Fatalf("expected no requests; got %d", n)
	}
}

func TestFoodSearch(t *testing.T) {
	be := setup(t)
	be.SetFoods([]model.FoodMatch{{Name: "Rice", Protein: 2.7}, {Name: "Bread"}})

	out := string(mustRun(t, be, "food", "search", "ri"))
	if !strings.Contains(out, "Rice") || strings.Contains(out, "Bread") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"--server", be.URL(), "food", "search", "r"}); err == nil {
		t.Fatalf("expected short query error")
	}
	if be.Count(api.PathSearchFood) != 1 {
		t.Fatalf("short query must not reach the backend")
	}
}

func TestWaterAdd(t *testing.T) {
	be := setup(t)
	mustRun(t, be, "water", "add", "100")
	if got := strings.Join(be.Paths(), " "); got != "/add_water /get_today_str /reload_today" {
		t.Fatalf("unexpected paths %q", got)
	}
	if v := be.Requests()[0].Values.Get("amount"); v != "100" {
		t.Fatalf("expected amount=100; got %q", v)
	}
}

func TestWaterAdd_NegativeSendsNothing(t *testing.T) {
	be := setup(t)
	_, _, err := runCLI(t, []string{"--server", be.URL(), "water", "add", "--", "-100"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := len(be.Requests()); n != 0 {
		t.Fatalf("expected no requests; got %d", n)
	}
}

func TestSummary_JSON(t *testing.T) {
	be := setup(t)
	data := decodeData(t, mustRun(t, be, "--format", "json", "summary"))
	total, _ := data["total"].(map[string]any)
	if total["carbon"] != float64(22) {
		t.Fatalf("unexpected totals: %#v", total)
	}
	if data["water"] != float64(500) {
		t.Fatalf("unexpected water: %#v", data["water"])
	}
}

func TestExport_WritesFile(t *testing.T) {
	be := setup(t)
	out := filepath.Join(t.TempDir(), "day.xlsx")
	mustRun(t, be, "export", "--out", out)
	fi, err := os.Stat(out)
	if err != nil || fi.Size() == 0 {
		t.Fatalf("expected xlsx written: %v", err)
	}
}

func TestExport_MarkdownRefusesOverwrite(t *testing.T) {
	be := setup(t)
	out := filepath.Join(t.TempDir(), "day.md")
	mustRun(t, be, "export", "--out", out)
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "## Routine Morning") {
		t.Fatalf("expected routine section; got:\n%s", b)
	}
	if _, _, err := runCLI(t, []string{"--server", be.URL(), "export", "--out", out}); err == nil {
		t.Fatalf("expected existing file to be refused")
	}
	mustRun(t, be, "export", "--out", out, "--overwrite")
}

func TestExport_UnknownExtension(t *testing.T) {
	be := setup(t)
	out := filepath.Join(t.TempDir(), "day.csv")
	if _, _, err := runCLI(t, []string{"--server", be.URL(), "export", "--out", out}); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestHistory_ListsJournaledActions(t *testing.T) {
	be := setup(t)
	be.Fail(api.PathAddWater, http.StatusBadGateway)
	mustRun(t, be, "task", "done", "morning", "0")
	_, _, _ = runCLI(t, []string{"--server", be.URL(), "water", "add", "250"})

	data := decodeData(t, mustRun(t, be, "--format", "json", "history"))
	actions, _ := data["actions"].([]any)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions; got %d", len(actions))
	}
	newest := actions[0].(map[string]any)
	if newest["kind"] != "add_water" || newest["error"] == nil {
		t.Fatalf("expected failed add_water first; got %#v", newest)
	}
}

func TestConfig_ServerFromFileAndFlagPrecedence(t *testing.T) {
	be := setup(t)
	dir := os.Getenv("DAYPLAN_CONFIG_DIR")

	if _, _, err := runCLI(t, []string{"--server", be.URL(), "config", "init"}); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := store.LoadConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server != be.URL() {
		t.Fatalf("expected server in config; got %q", cfg.Server)
	}

	// No --server: the config file supplies it.
	stdout, _, err := runCLI(t, []string{"today"})
	if err != nil || string(stdout) != today+"\n" {
		t.Fatalf("expected config server to be used; out=%q err=%v", stdout, err)
	}

	// Init refuses to overwrite without --force.
	if _, _, err := runCLI(t, []string{"config", "init"}); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
}

func TestDocs(t *testing.T) {
	be := setup(t)
	out := string(mustRun(t, be, "docs"))
	if !strings.Contains(out, "keys") {
		t.Fatalf("expected topic list; got %q", out)
	}
	raw := string(mustRun(t, be, "docs", "keys", "--raw"))
	if !strings.HasPrefix(strings.TrimSpace(raw), "#") {
		t.Fatalf("expected raw markdown; got %q", raw)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
