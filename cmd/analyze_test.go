package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/philipobrien-sdm/StratOS/internal/project"
)

func TestReadInputsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	data := `organization: Harbour Board
goals:
  - id: g1
    description: Dredge the east channel
    type: Primary
known_risks:
  - id: r1
    description: Silt returns within a year
    likelihood: 0.4
    impact: 7
    current_mitigations: |
      • Annual survey
      • Silt trap
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := readInputs(path)
	if err != nil {
		t.Fatalf("readInputs: %v", err)
	}
	if in.Organization != "Harbour Board" || len(in.Goals) != 1 {
		t.Errorf("inputs = %+v", in)
	}
	if in.Stakeholders == nil {
		t.Error("absent lists should stay empty, not nil")
	}
	if len(in.KnownRisks) != 1 || in.KnownRisks[0].Impact != 7 {
		t.Fatalf("risks = %+v", in.KnownRisks)
	}
	if got := in.KnownRisks[0].CurrentMitigations.Entries(); len(got) != 2 || got[1] != "Silt trap" {
		t.Errorf("mitigations = %v", got)
	}
}

func TestReadInputsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	data := `{"organization":"Harbour Board","stakeholders":[{"id":"s1","name":"Fishermen","influence":"High","interest":"High","baseSupport":"Detractor"}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := readInputs(path)
	if err != nil {
		t.Fatalf("readInputs: %v", err)
	}
	if len(in.Stakeholders) != 1 || in.Stakeholders[0].Name != "Fishermen" {
		t.Errorf("stakeholders = %+v", in.Stakeholders)
	}
}

func TestReadInputsErrors(t *testing.T) {
	if _, err := readInputs(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readInputs(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestReadInputsRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	data := `known_risks:
  - id: r1
    description: Silt returns
  - id: r1
    description: Dredger breaks down
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := readInputs(path)
	if !errors.Is(err, project.ErrInvalidInputs) {
		t.Errorf("expected ErrInvalidInputs, got %v", err)
	}
}

func TestReadInputsSampleFile(t *testing.T) {
	in, err := readInputs(filepath.Join("..", "testdata", "swift-crossing.yaml"))
	if err != nil {
		t.Fatalf("readInputs: %v", err)
	}
	if !reflect.DeepEqual(in, project.Sample()) {
		t.Errorf("testdata/swift-crossing.yaml drifted from project.Sample():\n got %+v\nwant %+v", in, project.Sample())
	}
}
