package registry

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const testID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "nodesim") {
		t.Errorf("GetConfigDir() = %v, should contain 'nodesim'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetRegistryPath(t *testing.T) {
	registryPath, err := GetRegistryPath()
	if err != nil {
		t.Fatalf("GetRegistryPath() error = %v", err)
	}

	if filepath.Base(registryPath) != "registry.yaml" {
		t.Errorf("GetRegistryPath() should end with 'registry.yaml', got: %v", registryPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Nodes == nil {
		t.Error("NewRegistry().Nodes should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.ConsoleListen == "" {
		t.Error("NewRegistry().Preferences.ConsoleListen should have a default")
	}

	if reg.Preferences.ScanTimeout != 5 {
		t.Errorf("NewRegistry().Preferences.ScanTimeout = %v, want 5", reg.Preferences.ScanTimeout)
	}
}

func TestRegistryEnsureNode(t *testing.T) {
	reg := NewRegistry()

	// First call should create the node
	node1 := reg.EnsureNode(testID)
	if node1 == nil {
		t.Fatal("EnsureNode() returned nil")
	}

	// Second call should return same node
	node2 := reg.EnsureNode(testID)
	if node1 != node2 {
		t.Error("EnsureNode() should return same instance for same identity")
	}

	// Different identity should create a new node
	node3 := reg.EnsureNode("00000000-0000-4000-8000-000000000001")
	if node1 == node3 {
		t.Error("EnsureNode() should create new instance for different identity")
	}
}

func TestRegistryRecordNodePath(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.RecordNodePath(testID, "/sim/Nodes/"+testID, SourceCreated)
	after := time.Now()

	node := reg.GetNode(testID)
	if node == nil {
		t.Fatal("Node should exist after RecordNodePath()")
	}

	if node.LastPath != "/sim/Nodes/"+testID {
		t.Errorf("LastPath = %v, want /sim/Nodes/%v", node.LastPath, testID)
	}
	if node.Source != SourceCreated {
		t.Errorf("Source = %v, want %v", node.Source, SourceCreated)
	}
	if node.LastSeen.Before(before) || node.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", node.LastSeen, before, after)
	}
}

func TestRegistryUpdateNodeLastSeen(t *testing.T) {
	reg := NewRegistry()

	reg.UpdateNodeLastSeen(testID, "192.168.1.40:8473")

	node := reg.GetNode(testID)
	if node == nil {
		t.Fatal("Node should exist after UpdateNodeLastSeen()")
	}

	if node.LastAddr != "192.168.1.40:8473" {
		t.Errorf("LastAddr = %v, want 192.168.1.40:8473", node.LastAddr)
	}
	if node.Source != SourceScan {
		t.Errorf("Source = %v, want %v", node.Source, SourceScan)
	}
}

func TestRegistrySetNodeNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetNodeNickname(testID, "bench node 3")

	node := reg.GetNode(testID)
	if node == nil {
		t.Fatal("Node should exist after SetNodeNickname()")
	}

	if node.Nickname != "bench node 3" {
		t.Errorf("Nickname = %v, want 'bench node 3'", node.Nickname)
	}
}

func TestParseRegistry(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(*testing.T, *Registry)
	}{
		{
			name: "full registry",
			yaml: `version: 1
nodes:
  "` + testID + `":
    nickname: "bench node 3"
    last_path: "/sim/Nodes/` + testID + `"
    source: "created"
preferences:
  nodes_dir: "/sim"
  console_listen: ":8473"
  scan_timeout: 5
`,
			check: func(t *testing.T, reg *Registry) {
				node := reg.GetNode(testID)
				if node == nil {
					t.Fatal("node missing after parse")
				}
				if node.Nickname != "bench node 3" {
					t.Errorf("Nickname = %v, want 'bench node 3'", node.Nickname)
				}
				if reg.Preferences.NodesDir != "/sim" {
					t.Errorf("NodesDir = %v, want /sim", reg.Preferences.NodesDir)
				}
			},
		},
		{
			name: "missing sections get defaults",
			yaml: "version: 1\n",
			check: func(t *testing.T, reg *Registry) {
				if reg.Nodes == nil {
					t.Error("Nodes should be initialized")
				}
				if reg.Preferences == nil {
					t.Error("Preferences should be initialized")
				}
			},
		},
		{
			name:    "unsupported version",
			yaml:    "version: 7\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			yaml:    "version: [oops\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := parseRegistry([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseRegistry() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && tt.check != nil {
				tt.check(t, reg)
			}
		})
	}
}

// Benchmark tests

func BenchmarkEnsureNode(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureNode(testID)
	}
}
