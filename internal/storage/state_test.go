package storage

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/selection"
)

func openTestStore(t *testing.T) *StateStore {
	t.Helper()
	store, err := OpenStateStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenStateStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStateStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	st := ViewState{
		Expanded:  []model.Key{"fruit", "citrus"},
		Selection: selection.AllExcept("lemon"),
		Current:   "apple",
		Filter:    "tag:todo",
	}
	if err := store.Save("/tmp/list.json", st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load("/tmp/list.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(got.Expanded, st.Expanded) {
		t.Errorf("expanded = %v, want %v", got.Expanded, st.Expanded)
	}
	if !got.Selection.Equal(st.Selection) {
		t.Errorf("selection = %v, want %v", got.Selection, st.Selection)
	}
	if got.Current != "apple" || got.Filter != "tag:todo" {
		t.Errorf("got current %q filter %q", got.Current, got.Filter)
	}
	if got.Saved.IsZero() {
		t.Error("save time not recorded")
	}
}

func TestStateStoreMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load("nothing")
	if !errors.Is(err, ErrNoState) {
		t.Fatalf("err = %v, want ErrNoState", err)
	}
}

func TestStateStoreListsAndDelete(t *testing.T) {
	store := openTestStore(t)
	for _, name := range []string{"b.json", "a.json"} {
		if err := store.Save(name, ViewState{Selection: selection.Of("x")}); err != nil {
			t.Fatal(err)
		}
	}

	names, err := store.Lists()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"a.json", "b.json"}) {
		t.Errorf("lists = %v", names)
	}

	if err := store.Delete("a.json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("a.json"); !errors.Is(err, ErrNoState) {
		t.Errorf("deleted state still loads: %v", err)
	}
}

func TestStateStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := OpenStateStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("list", ViewState{Expanded: []model.Key{"n"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = OpenStateStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	got, err := store.Load("list")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Expanded, []model.Key{"n"}) {
		t.Errorf("expanded = %v", got.Expanded)
	}
}
