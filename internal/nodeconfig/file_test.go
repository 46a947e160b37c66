package nodeconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	rec := NewRecord()
	rec.DeviceID = 0x2A
	rec.GroupID = 0x00FF
	rec.GwMask = 0x0A0B0C0D
	rec.RchanID = 0x01
	rec.RSF = 0x07
	rec.PreambleTime = 200
	copy(rec.EncKey[:], []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})

	path := filepath.Join(t.TempDir(), "record")
	if err := rec.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *rec {
		t.Errorf("Load() = %+v, want %+v", loaded, rec)
	}
}

func TestSaveWritesCanonicalOrder(t *testing.T) {
	rec := NewRecord()
	rec.DeviceID = 0x2A
	rec.PreambleTime = 200

	path := filepath.Join(t.TempDir(), "record")
	if err := rec.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	want := strings.Join([]string{
		"deviceId:2A",
		"groupId:0000",
		"gwMask:00000000",
		"rchanId:00",
		"rsf:00",
		"preambleTime:200",
		"encKey:00000000000000000000000000000000",
	}, "\n") + "\n"

	if string(data) != want {
		t.Errorf("Save() wrote:\n%s\nwant:\n%s", data, want)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "record")

	if err := NewRecord().Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Save() left temporary file behind: %s", e.Name())
		}
	}
}

func TestLoadSkipsUnparseableLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(*testing.T, *Record)
	}{
		{
			name:    "line without separator",
			content: "deviceId:2A\nthis line has no separator\nrsf:07\n",
			check: func(t *testing.T, r *Record) {
				if r.DeviceID != 0x2A {
					t.Errorf("DeviceID = %02X, want 2A", r.DeviceID)
				}
				if r.RSF != 0x07 {
					t.Errorf("RSF = %02X, want 07", r.RSF)
				}
			},
		},
		{
			name:    "unknown key skipped",
			content: "nodeColour:blue\ndeviceId:2A\n",
			check: func(t *testing.T, r *Record) {
				if r.DeviceID != 0x2A {
					t.Errorf("DeviceID = %02X, want 2A", r.DeviceID)
				}
			},
		},
		{
			name:    "malformed value skipped",
			content: "gwMask:0A0B\ndeviceId:2A\n",
			check: func(t *testing.T, r *Record) {
				if r.GwMask != 0 {
					t.Errorf("GwMask = %08X, want 0", r.GwMask)
				}
				if r.DeviceID != 0x2A {
					t.Errorf("DeviceID = %02X, want 2A", r.DeviceID)
				}
			},
		},
		{
			name:    "blank lines ignored",
			content: "\n\ndeviceId:2A\n\n",
			check: func(t *testing.T, r *Record) {
				if r.DeviceID != 0x2A {
					t.Errorf("DeviceID = %02X, want 2A", r.DeviceID)
				}
			},
		},
		{
			name:    "whitespace around key and value",
			content: "deviceId : 2A \r\npreambleTime:200\r\n",
			check: func(t *testing.T, r *Record) {
				if r.DeviceID != 0x2A {
					t.Errorf("DeviceID = %02X, want 2A", r.DeviceID)
				}
				if r.PreambleTime != 200 {
					t.Errorf("PreambleTime = %d, want 200", r.PreambleTime)
				}
			},
		},
		{
			name:    "later line wins",
			content: "deviceId:11\ndeviceId:22\n",
			check: func(t *testing.T, r *Record) {
				if r.DeviceID != 0x22 {
					t.Errorf("DeviceID = %02X, want 22", r.DeviceID)
				}
			},
		},
		{
			name:    "value with extra separator is malformed",
			content: "groupId:00:FF\ndeviceId:2A\n",
			check: func(t *testing.T, r *Record) {
				if r.GroupID != 0 {
					t.Errorf("GroupID = %04X, want 0", r.GroupID)
				}
				if r.DeviceID != 0x2A {
					t.Errorf("DeviceID = %02X, want 2A", r.DeviceID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "record")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			rec, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, rec)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}
