package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })

	i := Get()
	if i.Version != "v9.9.9" {
		t.Errorf("Get().Version = %q, want v9.9.9", i.Version)
	}
	if !strings.HasPrefix(i.Go, "go") {
		t.Errorf("Get().Go = %q, want go prefix", i.Go)
	}
	if !strings.Contains(Template(), "v9.9.9") {
		t.Errorf("Template() = %q, want version", Template())
	}
}
