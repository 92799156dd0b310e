package fetch

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/scanforge/artifact-fetch/internal/domain"
)

// copyRunner answers inspect with the given JSON and simulates copy by
// writing archiveContent at the docker-archive target path.
func copyRunner(t *testing.T, inspectOutput, archiveContent string) *mockRunner {
	t.Helper()
	return &mockRunner{run: func(_ string, args ...string) ([]byte, error) {
		switch args[0] {
		case "inspect":
			return []byte(inspectOutput), nil
		case "copy":
			target := args[len(args)-1]
			path := strings.TrimPrefix(target, "docker-archive:")
			if path == target {
				t.Fatalf("copy target %q is not a docker-archive", target)
			}
			if err := os.WriteFile(path, []byte(archiveContent), 0o644); err != nil {
				t.Fatalf("writing fake archive: %v", err)
			}
			return []byte("Copying blob done"), nil
		default:
			t.Fatalf("unexpected subcommand %q", args[0])
			return nil, nil
		}
	}}
}

func (m *mockRunner) callWith(subcommand string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if len(call) > 1 && call[1] == subcommand {
			return call
		}
	}
	return nil
}

func TestFetchRegistryImage(t *testing.T) {
	runner := copyRunner(t, multiPlatformInspect, "fake archive bytes")
	binDir := t.TempDir()
	dir := t.TempDir()
	svc := newTestService(t, &Config{DestinationDir: dir}, runner, &mockLocations{dir: binDir}, nil)

	reference := "docker://index.docker.io/library/busybox:latest"
	d, err := svc.FetchRegistryImage(context.Background(), reference, dir)
	if err != nil {
		t.Fatalf("FetchRegistryImage() error = %v", err)
	}

	if d.URI != reference {
		t.Errorf("URI = %q, want the original reference", d.URI)
	}
	if d.Filename != "index_docker_io_library_busybox_latest.tar" {
		t.Errorf("Filename = %q", d.Filename)
	}
	if d.Size != int64(len("fake archive bytes")) {
		t.Errorf("Size = %d, want on-disk size %d", d.Size, len("fake archive bytes"))
	}
	assertDownloadVerifies(t, d)

	copyCall := runner.callWith("copy")
	if copyCall == nil {
		t.Fatal("copy subcommand was never invoked")
	}
	joined := strings.Join(copyCall, " ")
	if !strings.HasSuffix(copyCall[0], "/skopeo") {
		t.Errorf("executable = %q, want path ending in /skopeo", copyCall[0])
	}
	for _, flag := range []string{"--insecure-policy", "--override-os=windows", "--override-arch=amd64", reference} {
		if !strings.Contains(joined, flag) {
			t.Errorf("copy command %q missing %q", joined, flag)
		}
	}
	// The first manifest entry has no variant, so no variant flag.
	if strings.Contains(joined, "--override-variant") {
		t.Errorf("copy command %q carries an unexpected variant override", joined)
	}
}

func TestFetchRegistryImageSinglePlatformHasNoOverrides(t *testing.T) {
	runner := copyRunner(t, `{"schemaVersion": 2}`, "archive")
	svc := newTestService(t, nil, runner, &mockLocations{dir: t.TempDir()}, nil)

	if _, err := svc.FetchRegistryImage(context.Background(), "docker://alpine:3.20", t.TempDir()); err != nil {
		t.Fatalf("FetchRegistryImage() error = %v", err)
	}

	joined := strings.Join(runner.callWith("copy"), " ")
	if strings.Contains(joined, "--override-") {
		t.Errorf("copy command %q carries override flags for a single-platform image", joined)
	}
}

func TestFetchRegistryImageCopyFailure(t *testing.T) {
	runner := &mockRunner{run: func(_ string, args ...string) ([]byte, error) {
		if args[0] == "inspect" {
			return []byte(`{"schemaVersion": 2}`), nil
		}
		return []byte("FATA[0010] writing blob: no space left"), errors.New("exit status 1")
	}}
	svc := newTestService(t, nil, runner, &mockLocations{dir: t.TempDir()}, nil)

	_, err := svc.FetchRegistryImage(context.Background(), "docker://alpine:3.20", t.TempDir())
	var copyErr *domain.RegistryCopyError
	if !errors.As(err, &copyErr) {
		t.Fatalf("FetchRegistryImage() error = %v, want RegistryCopyError", err)
	}
	if !strings.Contains(copyErr.Output, "no space left") {
		t.Errorf("Output = %q, want diagnostic payload preserved", copyErr.Output)
	}
}

func TestFetchRegistryImageInspectFailureAborts(t *testing.T) {
	runner := &mockRunner{run: func(_ string, args ...string) ([]byte, error) {
		if args[0] == "inspect" {
			return []byte("manifest unknown"), errors.New("exit status 1")
		}
		t.Fatal("copy must not run after a failed inspect")
		return nil, nil
	}}
	svc := newTestService(t, nil, runner, &mockLocations{dir: t.TempDir()}, nil)

	_, err := svc.FetchRegistryImage(context.Background(), "docker://alpine:3.20", t.TempDir())
	var inspectErr *domain.RegistryInspectError
	if !errors.As(err, &inspectErr) {
		t.Fatalf("FetchRegistryImage() error = %v, want RegistryInspectError", err)
	}
}

func TestFetchRegistryImageRejectsOtherSchemes(t *testing.T) {
	svc := newTestService(t, nil, nil, &mockLocations{dir: t.TempDir()}, nil)

	if _, err := svc.FetchRegistryImage(context.Background(), "https://example.com/a.tar", t.TempDir()); err == nil {
		t.Fatal("FetchRegistryImage() accepted a non-registry reference")
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"index.docker.io/library/busybox:latest", "index_docker_io_library_busybox_latest"},
		{"Alpine:3.20", "alpine_3_20"},
		{"a//b::c", "a_b_c"},
		{"___", ""},
	}
	for _, tt := range tests {
		if got := safeName(tt.in); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
