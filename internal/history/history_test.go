package history

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/philipobrien-sdm/StratOS/internal/analysis"
	"github.com/philipobrien-sdm/StratOS/internal/project"
)

func result(summary string) *analysis.Result {
	return &analysis.Result{ExecutiveSummary: summary, Deltas: []string{}}
}

func TestAppendNumbersVersionsInOrder(t *testing.T) {
	s := NewStore("")
	for i := 0; i < 5; i++ {
		if idx := s.Append(project.New(), result("r")); idx != i {
			t.Fatalf("Append #%d returned index %d", i, idx)
		}
	}
	for i, sum := range s.List() {
		if sum.Number != i+1 {
			t.Errorf("version %d has number %d", i, sum.Number)
		}
		if sum.SchemaVersion != DefaultSchemaVersion {
			t.Errorf("schema version = %q", sum.SchemaVersion)
		}
		if sum.Current != (i == 4) {
			t.Errorf("version %d current = %v", i+1, sum.Current)
		}
	}
}

func TestConcurrentAppendsAreDistinct(t *testing.T) {
	s := NewStore("1.0")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(project.New(), result("r"))
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, sum := range s.List() {
		if seen[sum.Number] {
			t.Fatalf("duplicate version number %d", sum.Number)
		}
		seen[sum.Number] = true
	}
	if len(seen) != 20 {
		t.Errorf("got %d versions, want 20", len(seen))
	}
}

func TestFirstRunOnEmptySnapshot(t *testing.T) {
	s := NewStore("")
	s.Append(project.New(), result("first"))

	if s.Len() != 1 || s.CurrentIndex() != 0 {
		t.Fatalf("len = %d, current = %d", s.Len(), s.CurrentIndex())
	}
	v, ok := s.Current()
	if !ok || v.Number != 1 {
		t.Errorf("current = %+v, %v", v, ok)
	}
}

func TestAppendCopiesInputs(t *testing.T) {
	s := NewStore("")
	in := project.Sample()
	s.Append(in, result("r"))

	in.Goals[0].Description = "edited after append"
	v, _ := s.Get(0)
	if v.Inputs.Goals[0].Description == "edited after append" {
		t.Error("stored inputs share memory with the caller's snapshot")
	}
}

func TestLoadReturnsIndependentCopy(t *testing.T) {
	s := NewStore("")
	s.Append(project.Sample(), result("v1"))

	loaded, err := s.Load(0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.KnownRisks[0].CurrentMitigations = loaded.KnownRisks[0].CurrentMitigations.Append("scribble")
	loaded.Organization = "changed"

	again, _ := s.Load(0)
	if again.Organization == "changed" || len(again.KnownRisks[0].CurrentMitigations) != 0 {
		t.Error("mutating a loaded copy changed the stored version")
	}
}

func TestLoadMiddleOfThree(t *testing.T) {
	s := NewStore("")
	for _, org := range []string{"one", "two", "three"} {
		in := project.Sample()
		in.Organization = org
		s.Append(in, result(org))
	}

	loaded, err := s.Load(1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Organization != "two" || s.CurrentIndex() != 1 {
		t.Fatalf("loaded %q, current %d", loaded.Organization, s.CurrentIndex())
	}
	if cur, _ := s.Current(); cur.Analysis.ExecutiveSummary != "two" {
		t.Errorf("current analysis = %q", cur.Analysis.ExecutiveSummary)
	}

	loaded.Organization = "edited"
	loaded.Goals = append(loaded.Goals, project.Goal{ID: "g9"})
	for i, want := range []string{"two", "three"} {
		v, _ := s.Get(i + 1)
		if v.Inputs.Organization != want || len(v.Inputs.Goals) != 2 {
			t.Errorf("version %d changed: %q, %d goals", i+2, v.Inputs.Organization, len(v.Inputs.Goals))
		}
	}
}

func TestLoadErrors(t *testing.T) {
	s := NewStore("")
	if _, err := s.Load(0); !errors.Is(err, ErrEmptyHistory) || !errors.Is(err, ErrOutOfRange) {
		t.Errorf("empty history: err = %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("Current on empty history should report false")
	}
	if s.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex = %d", s.CurrentIndex())
	}

	s.Append(project.New(), result("r"))
	for _, idx := range []int{-1, 1, 7} {
		if _, err := s.Load(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Load(%d) err = %v", idx, err)
		}
	}
	if s.CurrentIndex() != 0 {
		t.Error("failed Load moved the current index")
	}
}

func TestGetDoesNotExposeStoredAnalysis(t *testing.T) {
	s := NewStore("")
	s.Append(project.New(), &analysis.Result{Deltas: []string{"a"}})

	v, _ := s.Get(0)
	v.Analysis.Deltas[0] = "mutated"
	if s.CurrentAnalysis().Deltas[0] != "a" {
		t.Error("stored analysis mutated through Get")
	}
}

func TestDiff(t *testing.T) {
	s := NewStore("")
	a := project.Sample()
	s.Append(a, result("a"))
	b := a.Clone()
	b.KnownRisks[0].Likelihood = 0.9
	s.Append(b, result("b"))

	v1, _ := s.Get(0)
	v2, _ := s.Get(1)
	d, err := Diff(v1, v2)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !strings.Contains(d, "--- v1") || !strings.Contains(d, "+++ v2") {
		t.Errorf("diff headers missing:\n%s", d)
	}
	var added, removed bool
	for _, line := range strings.Split(d, "\n") {
		if strings.HasPrefix(line, "+") && strings.Contains(line, "likelihood: 0.9") {
			added = true
		}
		if strings.HasPrefix(line, "-") && strings.Contains(line, "likelihood: 0.7") {
			removed = true
		}
	}
	if !added || !removed {
		t.Errorf("diff does not show the changed likelihood:\n%s", d)
	}

	same, err := Diff(v1, v1)
	if err != nil || same != "" {
		t.Errorf("identical diff = %q, %v", same, err)
	}
}
