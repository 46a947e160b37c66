package identity

import (
	"os"
	"path/filepath"
	"testing"
)

const testUUID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func writeRecordFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("deviceId:2A\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestResolveExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.cfg")
	writeRecordFile(t, path)

	res, err := Resolve(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Path != path {
		t.Errorf("Resolve().Path = %v, want %v", res.Path, path)
	}
	if res.HasIdentity {
		t.Error("Resolve() with explicit path should not carry an identity")
	}
}

func TestResolveExplicitPathRelativeToDirectory(t *testing.T) {
	dir := t.TempDir()
	writeRecordFile(t, filepath.Join(dir, "node.cfg"))

	res, err := Resolve(Options{ConfigPath: "node.cfg", BaseDir: dir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := filepath.Join(dir, "node.cfg"); res.Path != want {
		t.Errorf("Resolve().Path = %v, want %v", res.Path, want)
	}
}

func TestResolveExplicitPathNotFound(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no directory", Options{ConfigPath: "missing.cfg"}},
		{"with directory", Options{ConfigPath: "missing.cfg", BaseDir: t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.opts)
			if !IsPathNotFound(err) {
				t.Errorf("Resolve() error = %v, want path-not-found", err)
			}
		})
	}
}

func TestResolveExplicitPathWins(t *testing.T) {
	// When both a config path and an identifier are supplied the path is
	// used and the identifier is never even validated.
	dir := t.TempDir()
	path := filepath.Join(dir, "node.cfg")
	writeRecordFile(t, path)

	res, err := Resolve(Options{
		ConfigPath: path,
		Identifier: "definitely-not-a-uuid",
		BaseDir:    dir,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Path != path {
		t.Errorf("Resolve().Path = %v, want %v", res.Path, path)
	}
}

func TestResolveIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, NodesSubdir, testUUID)
	writeRecordFile(t, path)

	res, err := Resolve(Options{Identifier: testUUID, BaseDir: dir})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Path != path {
		t.Errorf("Resolve().Path = %v, want %v", res.Path, path)
	}
	if !res.HasIdentity || res.Identity.String() != testUUID {
		t.Errorf("Resolve().Identity = %v, want %v", res.Identity, testUUID)
	}
}

func TestResolveIdentifierCaseInsensitive(t *testing.T) {
	// Records are named by the canonical lowercase rendering; an uppercase
	// identifier must still find them.
	dir := t.TempDir()
	writeRecordFile(t, filepath.Join(dir, NodesSubdir, testUUID))

	res, err := Resolve(Options{
		Identifier: "6BA7B810-9DAD-11D1-80B4-00C04FD430C8",
		BaseDir:    dir,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Identity.String() != testUUID {
		t.Errorf("Resolve().Identity = %v, want %v", res.Identity, testUUID)
	}
}

func TestResolveIdentifierInvalid(t *testing.T) {
	_, err := Resolve(Options{Identifier: "not-a-uuid", BaseDir: t.TempDir()})
	if !IsInvalidIdentifier(err) {
		t.Errorf("Resolve() error = %v, want invalid-identifier", err)
	}
}

func TestResolveIdentifierRecordMissing(t *testing.T) {
	_, err := Resolve(Options{Identifier: testUUID, BaseDir: t.TempDir()})
	if !IsPathNotFound(err) {
		t.Errorf("Resolve() error = %v, want path-not-found", err)
	}
}

func TestResolveInsufficientArguments(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"nothing", Options{}},
		{"identifier without directory", Options{Identifier: testUUID}},
		{"directory alone", Options{BaseDir: "/tmp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.opts)
			if !IsInsufficientArguments(err) {
				t.Errorf("Resolve() error = %v, want insufficient-arguments", err)
			}
		})
	}
}

func TestNewNodePathGenerates(t *testing.T) {
	dir := t.TempDir()

	res, err := NewNodePath(dir, "")
	if err != nil {
		t.Fatalf("NewNodePath() error = %v", err)
	}
	if !res.HasIdentity {
		t.Fatal("NewNodePath() should always carry an identity")
	}
	if want := filepath.Join(dir, NodesSubdir, res.Identity.String()); res.Path != want {
		t.Errorf("NewNodePath().Path = %v, want %v", res.Path, want)
	}
	if _, err := Parse(res.Identity.String()); err != nil {
		t.Errorf("NewNodePath() identity should be canonical, got %v", err)
	}

	// The destination is for creation and must not be required to exist
	if _, err := os.Stat(res.Path); !os.IsNotExist(err) {
		t.Errorf("NewNodePath() destination unexpectedly exists: %v", err)
	}
}

func TestNewNodePathExplicitIdentifier(t *testing.T) {
	res, err := NewNodePath("", testUUID)
	if err != nil {
		t.Fatalf("NewNodePath() error = %v", err)
	}
	if res.Identity.String() != testUUID {
		t.Errorf("NewNodePath().Identity = %v, want %v", res.Identity, testUUID)
	}
	if want := filepath.Join(NodesSubdir, testUUID); res.Path != want {
		t.Errorf("NewNodePath().Path = %v, want %v", res.Path, want)
	}
}

func TestNewNodePathExplicitIdentifierInvalid(t *testing.T) {
	_, err := NewNodePath("", "not-a-uuid")
	if !IsInvalidIdentifier(err) {
		t.Errorf("NewNodePath() error = %v, want invalid-identifier", err)
	}
}

func TestNewNodePathDistinctIdentities(t *testing.T) {
	a, err := NewNodePath("", "")
	if err != nil {
		t.Fatalf("NewNodePath() error = %v", err)
	}
	b, err := NewNodePath("", "")
	if err != nil {
		t.Fatalf("NewNodePath() error = %v", err)
	}
	if a.Path == b.Path {
		t.Error("NewNodePath() composed the same destination twice")
	}
}
