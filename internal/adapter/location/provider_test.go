package location

import "testing"

func TestLocateFromMap(t *testing.T) {
	p := New(map[string]string{"container.skopeo.bindir": "/opt/skopeo/bin"})

	dir, err := p.Locate("container.skopeo.bindir")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if dir != "/opt/skopeo/bin" {
		t.Errorf("Locate() = %q, want /opt/skopeo/bin", dir)
	}
}

func TestLocateFromEnvironment(t *testing.T) {
	t.Setenv("CONTAINER_SKOPEO_BINDIR", "/usr/local/bin")

	p := New(nil)
	dir, err := p.Locate("container.skopeo.bindir")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if dir != "/usr/local/bin" {
		t.Errorf("Locate() = %q, want /usr/local/bin", dir)
	}
}

func TestLocateUnknownKey(t *testing.T) {
	p := New(map[string]string{})

	if _, err := p.Locate("container.unknown.bindir"); err == nil {
		t.Fatal("Locate() returned nil error for unknown key")
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("container.skopeo.bindir"); got != "CONTAINER_SKOPEO_BINDIR" {
		t.Errorf("EnvName() = %q", got)
	}
}
