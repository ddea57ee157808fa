package athlete

import (
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStoreInMemory()
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "athlete.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Close()
}

func TestLoadProfileEmpty(t *testing.T) {
	store := testStore(t)

	profile, err := store.LoadProfile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "" || len(profile.Sports) != 0 {
		t.Errorf("expected zero profile, got %+v", profile)
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	store := testStore(t)

	saved := Profile{
		Name:   "Marco",
		Sports: []string{"running", "cycling"},
		Goal:   Goal{Event: "marathon", TargetDate: "2026-09-27"},
		Constraints: Constraints{
			TrainingDaysPerWeek: 4,
			MaxSessionMinutes:   90,
		},
	}
	if err := store.SaveProfile(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadProfile()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "Marco" || loaded.Goal.Event != "marathon" {
		t.Errorf("unexpected profile: %+v", loaded)
	}
	if loaded.Constraints.TrainingDaysPerWeek != 4 {
		t.Errorf("expected 4 training days, got %d", loaded.Constraints.TrainingDaysPerWeek)
	}

	// Saving again overwrites the single row.
	saved.Name = "Marco R."
	if err := store.SaveProfile(saved); err != nil {
		t.Fatalf("second save: %v", err)
	}
	loaded, err = store.LoadProfile()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if loaded.Name != "Marco R." {
		t.Errorf("expected overwritten name, got %q", loaded.Name)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	store := testStore(t)

	v, err := store.GetMeta("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty value for missing key, got %q", v)
	}

	if err := store.SetMeta("flag", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetMeta("flag", "false"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, err = store.GetMeta("flag")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "false" {
		t.Errorf("expected overwritten value, got %q", v)
	}
}

func TestAddAndListBeliefs(t *testing.T) {
	store := testStore(t)

	b, err := store.AddBelief("prefers morning workouts", "preference", 0.9)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if b.ID == "" || b.CreatedAt == "" {
		t.Errorf("expected ID and timestamp assigned, got %+v", b)
	}
	if _, err := store.AddBelief("knee pain after long runs", "physical", 0.8); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := store.ListBeliefs("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 beliefs, got %d", len(all))
	}

	physical, err := store.ListBeliefs("physical")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(physical) != 1 || physical[0].Statement != "knee pain after long runs" {
		t.Errorf("unexpected filtered beliefs: %+v", physical)
	}
}

func TestAddActivityDefaultsStartTime(t *testing.T) {
	store := testStore(t)

	id, err := store.AddActivity(Activity{Sport: "running", DurationMinutes: 45})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive row ID, got %d", id)
	}

	activities, err := store.ListActivities(0, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	if activities[0].StartTime == "" {
		t.Error("expected start time to default to now")
	}
}

func TestListActivitiesFilters(t *testing.T) {
	store := testStore(t)

	daysAgo := func(n int) string {
		return time.Now().AddDate(0, 0, -n).Format("2006-01-02T15:04:05")
	}
	seed := []Activity{
		{Sport: "running", StartTime: daysAgo(1), DurationMinutes: 60, DistanceKM: 12},
		{Sport: "Running", StartTime: daysAgo(4), DurationMinutes: 40},
		{Sport: "cycling", StartTime: daysAgo(2), DurationMinutes: 90, AvgHR: 135},
		{Sport: "running", StartTime: daysAgo(400), DurationMinutes: 30},
	}
	for _, a := range seed {
		if _, err := store.AddActivity(a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// Sport filter is case-insensitive.
	running, err := store.ListActivities(0, "RUNNING", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(running) != 3 {
		t.Errorf("expected 3 running activities, got %d", len(running))
	}

	// Days cutoff drops the 2020 entry.
	recent, err := store.ListActivities(0, "running", 30)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("expected 2 recent running activities, got %d", len(recent))
	}

	// Limit caps after ordering, most recent first.
	capped, err := store.ListActivities(2, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(capped))
	}
	if capped[0].Sport != "running" || capped[0].DurationMinutes != 60 {
		t.Errorf("expected most recent first, got %+v", capped[0])
	}

	// Optional columns come back as zero values, not scan errors.
	if capped[0].DistanceKM != 12 {
		t.Errorf("expected distance 12, got %v", capped[0].DistanceKM)
	}
}
