package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func snapshotThemeState() ([]Theme, string) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return append([]Theme(nil), registry.all...), registry.all[registry.active].Name
}

func restoreThemeState(saved []Theme, active string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.reset(saved, active)
}

func writeThemeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("write theme file: %v", err)
	}
}

func externalThemeJSON(name, accent string) string {
	return `{
  "name": "` + name + `",
  "base": "#111111",
  "surface": "#303030",
  "text": "#E8E8E8",
  "subtext": "#BDBDBD",
  "dim": "#7F7F7F",
  "accent": "` + accent + `",
  "blue": "#CFCFCF",
  "teal": "#B3B3B3",
  "green": "#ABABAB",
  "yellow": "#9A9A9A",
  "peach": "#DCDCDC",
  "red": "#878787"
}`
}

func TestDefaultThemeIsCalmNight(t *testing.T) {
	saved, idx := snapshotThemeState()
	defer restoreThemeState(saved, idx)

	if got := builtinThemes()[indexOfTheme(builtinThemes(), defaultThemeName)].Name; got != defaultThemeName {
		t.Fatalf("default theme = %q, want %q", got, defaultThemeName)
	}
	for _, th := range builtinThemes() {
		if err := th.validate(); err != nil {
			t.Errorf("builtin %q invalid: %v", th.Name, err)
		}
	}
}

func TestLoadThemes_MergesExternalAndSkipsInvalid(t *testing.T) {
	saved, idx := snapshotThemeState()
	defer restoreThemeState(saved, idx)

	configDir := t.TempDir()
	themeDir := filepath.Join(configDir, "themes")
	writeThemeFile(t, themeDir, "a.json", externalThemeJSON("Mono", "#FFFFFF"))
	writeThemeFile(t, themeDir, "b.json", externalThemeJSON("Forest", "#00FF00"))
	writeThemeFile(t, themeDir, "broken.json", `{"name": "Broken"}`)
	writeThemeFile(t, themeDir, "notes.txt", "ignored")
	t.Setenv(themeDirEnvVar, "")

	err := LoadThemes(configDir)
	if err == nil || !strings.Contains(err.Error(), "is missing colors") {
		t.Fatalf("LoadThemes() error = %v, want validation error for broken.json", err)
	}

	all, _ := snapshotThemeState()
	if len(all) != len(builtinThemes())+1 {
		t.Fatalf("themes = %d, want builtins plus Mono", len(all))
	}
	if !SetThemeByName("forest") {
		t.Fatal("SetThemeByName(forest) = false")
	}
	if got := ActiveTheme().Accent; got != lipgloss.Color("#00FF00") {
		t.Fatalf("Forest accent = %q, want external override", got)
	}
	if ActiveTheme().Icon != "🎨" {
		t.Fatalf("missing icon should default, got %q", ActiveTheme().Icon)
	}
}

func TestCycleThemeAppliesPalette(t *testing.T) {
	saved, idx := snapshotThemeState()
	defer restoreThemeState(saved, idx)

	SetThemeByName(defaultThemeName)
	name := CycleTheme()
	if name == defaultThemeName {
		t.Fatal("CycleTheme did not advance")
	}
	if colorAccent != ActiveTheme().Accent {
		t.Fatalf("colorAccent = %q, want %q", colorAccent, ActiveTheme().Accent)
	}
	if SetThemeByName("does-not-exist") {
		t.Fatal("SetThemeByName(unknown) = true")
	}
}

func TestThemeDirsDedupesAndSplitsEnv(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "extra")
	t.Setenv(themeDirEnvVar, extra+string(os.PathListSeparator)+" "+string(os.PathListSeparator)+extra)

	got := themeDirs("/cfg")
	want := []string{filepath.Join("/cfg", "themes"), filepath.Clean(extra)}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("themeDirs() = %v, want %v", got, want)
	}
}

func TestValidateListsMissingColors(t *testing.T) {
	th := Theme{Name: "Half", Base: "#000000"}.tidy()
	err := th.validate()
	if err == nil || !strings.Contains(err.Error(), "accent, blue") {
		t.Fatalf("validate() = %v, want sorted missing colors", err)
	}
}
