package puzzle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `# capture puzzles
# name / position / shortest solution

single
Rk6/8/8/8 b
1

  sweep
k1R1k3/8/8/8 b
2
`

func TestLoadReader(t *testing.T) {
	cases, err := LoadReader(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	want := []Case{
		{Name: "single", FEN: "Rk6/8/8/8 b", Expected: 1},
		{Name: "sweep", FEN: "k1R1k3/8/8/8 b", Expected: 2},
	}
	if len(cases) != len(want) {
		t.Fatalf("got %d cases, want %d", len(cases), len(want))
	}
	for i := range want {
		if cases[i] != want[i] {
			t.Errorf("case %d = %+v, want %+v", i, cases[i], want[i])
		}
	}
}

func TestLoadReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad count", "a\nRk6/8/8/8 b\none\n"},
		{"incomplete", "a\nRk6/8/8/8 b\n1\nb\nR7/8/8/8 b\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadReader(strings.NewReader(tc.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadReaderEmpty(t *testing.T) {
	cases, err := LoadReader(strings.NewReader("# nothing here\n\n"))
	if err != nil || len(cases) != 0 {
		t.Errorf("got %v, %v; want no cases", cases, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testcases")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	cases, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cases) != 2 {
		t.Errorf("got %d cases, want 2", len(cases))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
