package hopx

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadBuildSpec_DockerfilePath(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "Dockerfile", "FROM node:22\n")
	config := writeTempFile(t, dir, "hopx.toml", `
name = "node-app"
dockerfile = "Dockerfile"
start_cmd = "npm start"
cpu_count = 2
memory_mb = 1024

[build_args]
NODE_ENV = "production"
`)

	spec, err := LoadBuildSpec(config)
	if err != nil {
		t.Fatalf("LoadBuildSpec() error = %v", err)
	}

	if spec.Name != "node-app" {
		t.Errorf("Name = %q, want node-app", spec.Name)
	}
	if spec.Dockerfile != "FROM node:22\n" {
		t.Errorf("Dockerfile = %q, want file contents", spec.Dockerfile)
	}
	if spec.StartCmd != "npm start" {
		t.Errorf("StartCmd = %q, want npm start", spec.StartCmd)
	}
	if spec.CPUCount != 2 || spec.MemoryMB != 1024 {
		t.Errorf("resources = %d cpu, %d mb, want 2, 1024", spec.CPUCount, spec.MemoryMB)
	}
	if spec.BuildArgs["NODE_ENV"] != "production" {
		t.Errorf("BuildArgs = %v, want NODE_ENV=production", spec.BuildArgs)
	}
}

func TestLoadBuildSpec_InlineDockerfile(t *testing.T) {
	config := writeTempFile(t, t.TempDir(), "hopx.toml", `
name = "inline"
dockerfile_inline = "FROM alpine"
`)

	spec, err := LoadBuildSpec(config)
	if err != nil {
		t.Fatalf("LoadBuildSpec() error = %v", err)
	}
	if spec.Dockerfile != "FROM alpine" {
		t.Errorf("Dockerfile = %q, want FROM alpine", spec.Dockerfile)
	}
}

func TestLoadBuildSpec_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", `dockerfile_inline = "FROM alpine"`},
		{"missing dockerfile", `name = "x"`},
		{"both dockerfile forms", "name = \"x\"\ndockerfile = \"Dockerfile\"\ndockerfile_inline = \"FROM alpine\""},
		{"dockerfile path missing", "name = \"x\"\ndockerfile = \"nope/Dockerfile\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := writeTempFile(t, dir, "hopx-"+tt.name+".toml", tt.content)
			if _, err := LoadBuildSpec(config); err == nil {
				t.Errorf("LoadBuildSpec() = nil error, want failure")
			}
		})
	}
}
