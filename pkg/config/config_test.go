package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func TestLoad_KeepsDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")
	path := filepath.Join(t.TempDir(), "c.yaml")
	_ = os.WriteFile(path, []byte("name: ${SAMPLE_NAME}\n"), 0o644)

	s := &sample{Count: 7}
	if err := Load(path, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "from-env" || s.Count != 7 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "none.yaml"), &sample{})
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("err = %v", err)
	}
}

func TestDecode_Validation(t *testing.T) {
	err := Decode([]byte("count: -1\n"), &sample{})
	if err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("err = %v", err)
	}
	if err := Decode([]byte("count: [\n"), &sample{}); err == nil {
		t.Error("expected parse error")
	}
}
