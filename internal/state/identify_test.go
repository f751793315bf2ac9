package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	long := strings.Repeat("x", 2*FingerprintSize)
	writeFile(t, a, long)
	writeFile(t, b, long[:FingerprintSize]+strings.Repeat("y", FingerprintSize))

	tests := []struct {
		name      string
		limitA    int64
		limitB    int64
		wantEqual bool
	}{
		{"same prefix small limit", 10, 10, true},
		{"limits capped at fingerprint size", 5000, 4000, true},
		{"different lengths", 10, 11, false},
		{"empty", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa, err := Fingerprint(a, tt.limitA)
			if err != nil {
				t.Fatal(err)
			}
			fb, err := Fingerprint(b, tt.limitB)
			if err != nil {
				t.Fatal(err)
			}
			if (fa == fb) != tt.wantEqual {
				t.Errorf("expected equal=%v, got %s vs %s", tt.wantEqual, fa, fb)
			}
			if len(fa) != fingerprintHexLen {
				t.Errorf("unexpected fingerprint length %d", len(fa))
			}
		})
	}
}

func TestIdentifyOpen_MatchesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "abc")

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	byPath, err := Identify(path)
	if err != nil {
		t.Fatal(err)
	}
	byHandle, err := IdentifyOpen(file)
	if err != nil {
		t.Fatal(err)
	}
	if byPath != byHandle {
		t.Errorf("expected identical ids, got %+v and %+v", byPath, byHandle)
	}
	if byPath.Size != 3 {
		t.Errorf("expected size 3, got %d", byPath.Size)
	}
}

func TestIdentify_Missing(t *testing.T) {
	if _, err := Identify(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
