package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atikulmunna/gastroguard/internal/model"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "profile.json"))
	if err != nil {
		t.Fatal(err)
	}
	p := s.Get()
	if p.Created == "" || p.LastUpdated == "" {
		t.Errorf("expected fresh profile to be stamped, got %+v", p)
	}
	if p.Name != "" {
		t.Errorf("expected empty name, got %q", p.Name)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "profile.json")

	s1, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s1.now = func() time.Time { return time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC) }
	s1.Update(func(p *model.Profile) {
		p.Name = "Sam"
		p.KnownConditions = []string{"gerd", "ibs"}
		p.Allergies = SplitList("penicillin, , peanuts")
	})
	if err := s1.Save(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected temp file to be renamed away")
	}

	s2, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	p := s2.Get()
	if p.Name != "Sam" {
		t.Errorf("expected name Sam, got %q", p.Name)
	}
	if len(p.KnownConditions) != 2 || p.KnownConditions[1] != "ibs" {
		t.Errorf("unexpected conditions %v", p.KnownConditions)
	}
	if len(p.Allergies) != 2 || p.Allergies[1] != "peanuts" {
		t.Errorf("unexpected allergies %v", p.Allergies)
	}
	if p.LastUpdated != "2026-02-18 09:00:00" {
		t.Errorf("expected last_updated stamp, got %q", p.LastUpdated)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt profile")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := Load(filepath.Join(t.TempDir(), "p.json"))
	s.Update(func(p *model.Profile) { p.Allergies = []string{"gluten"} })

	p := s.Get()
	p.Allergies[0] = "changed"
	if s.Get().Allergies[0] != "gluten" {
		t.Error("expected Get to return an independent copy")
	}
}

func TestClear(t *testing.T) {
	s, _ := Load(filepath.Join(t.TempDir(), "p.json"))
	created := s.Get().Created
	s.Update(func(p *model.Profile) { p.Name = "Sam" })
	s.Clear()
	if p := s.Get(); p.Name != "" || p.Created != created {
		t.Errorf("unexpected profile after clear: %+v", p)
	}
}
