package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// themeDirEnvVar names extra theme directories, separated like PATH.
const themeDirEnvVar = "MOODBOARD_THEME_DIR"

const defaultThemeName = "Calm Night"

// Theme is the dashboard palette. Theme files are JSON objects using the
// lower-case field names, e.g. {"name":"Dusk","base":"#101010",...}.
type Theme struct {
	Name string `json:"name"`
	Icon string `json:"icon"`

	Base    lipgloss.Color `json:"base"`
	Surface lipgloss.Color `json:"surface"`
	Text    lipgloss.Color `json:"text"`
	Subtext lipgloss.Color `json:"subtext"`
	Dim     lipgloss.Color `json:"dim"`

	// Accent drives the brand and spinner; the rest form the mood ramp.
	Accent lipgloss.Color `json:"accent"`
	Blue   lipgloss.Color `json:"blue"`
	Teal   lipgloss.Color `json:"teal"`
	Green  lipgloss.Color `json:"green"`
	Yellow lipgloss.Color `json:"yellow"`
	Peach  lipgloss.Color `json:"peach"`
	Red    lipgloss.Color `json:"red"`
}

func builtinThemes() []Theme {
	return []Theme{
		{
			Name: "Calm Night", Icon: "🌙",
			Base: "#1E1E2E", Surface: "#45475A",
			Text: "#CDD6F4", Subtext: "#A6ADC8", Dim: "#585B70",
			Accent: "#CBA6F7", Blue: "#89B4FA", Teal: "#94E2D5",
			Green: "#A6E3A1", Yellow: "#F9E2AF", Peach: "#FAB387", Red: "#F38BA8",
		},
		{
			Name: "Forest", Icon: "🌲",
			Base: "#232A2E", Surface: "#3D484D",
			Text: "#D3C6AA", Subtext: "#A7C080", Dim: "#5C6A72",
			Accent: "#83C092", Blue: "#7FBBB3", Teal: "#83C092",
			Green: "#A7C080", Yellow: "#DBBC7F", Peach: "#E69875", Red: "#E67E80",
		},
		{
			Name: "Sunrise", Icon: "🌅",
			Base: "#FAF4ED", Surface: "#DFDAD9",
			Text: "#575279", Subtext: "#797593", Dim: "#9893A5",
			Accent: "#907AA9", Blue: "#286983", Teal: "#56949F",
			Green: "#3E8F5A", Yellow: "#EA9D34", Peach: "#D7827E", Red: "#B4637A",
		},
		{
			Name: "Nord", Icon: "❄",
			Base: "#2E3440", Surface: "#434C5E",
			Text: "#ECEFF4", Subtext: "#D8DEE9", Dim: "#4C566A",
			Accent: "#B48EAD", Blue: "#81A1C1", Teal: "#8FBCBB",
			Green: "#A3BE8C", Yellow: "#EBCB8B", Peach: "#D08770", Red: "#BF616A",
		},
	}
}

func (t *Theme) palette() map[string]*lipgloss.Color {
	return map[string]*lipgloss.Color{
		"base": &t.Base, "surface": &t.Surface,
		"text": &t.Text, "subtext": &t.Subtext, "dim": &t.Dim,
		"accent": &t.Accent, "blue": &t.Blue, "teal": &t.Teal,
		"green": &t.Green, "yellow": &t.Yellow, "peach": &t.Peach, "red": &t.Red,
	}
}

// tidy trims every field and fills in the fallback icon.
func (t Theme) tidy() Theme {
	t.Name = strings.TrimSpace(t.Name)
	t.Icon = strings.TrimSpace(t.Icon)
	if t.Icon == "" {
		t.Icon = "🎨"
	}
	for _, c := range t.palette() {
		*c = lipgloss.Color(strings.TrimSpace(string(*c)))
	}
	return t
}

func (t Theme) validate() error {
	if t.Name == "" {
		return errors.New("theme has no name")
	}
	var missing []string
	for name, c := range t.palette() {
		if *c == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("theme %q is missing colors: %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

// themeDirs lists <configDir>/themes followed by MOODBOARD_THEME_DIR entries,
// without duplicates.
func themeDirs(configDir string) []string {
	var dirs []string
	if strings.TrimSpace(configDir) != "" {
		dirs = append(dirs, filepath.Join(configDir, "themes"))
	}
	dirs = append(dirs, filepath.SplitList(os.Getenv(themeDirEnvVar))...)
	dirs = lo.Map(dirs, func(d string, _ int) string {
		if d = strings.TrimSpace(d); d == "" {
			return ""
		}
		return filepath.Clean(d)
	})
	return lo.Uniq(lo.Compact(dirs))
}

// readThemeDir parses every *.json file in dir. Bad files are reported and
// skipped; a missing dir is not an error.
func readThemeDir(dir string) ([]Theme, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("theme dir %s: %w", dir, err)
	}
	var (
		out  []Theme
		errs []error
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		var t Theme
		if err := json.Unmarshal(data, &t); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		t = t.tidy()
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		out = append(out, t)
	}
	return out, errors.Join(errs...)
}

func indexOfTheme(all []Theme, name string) int {
	_, i, ok := lo.FindIndexOf(all, func(t Theme) bool {
		return strings.EqualFold(t.Name, strings.TrimSpace(name))
	})
	if !ok {
		return -1
	}
	return i
}

// overlay replaces same-named themes in base and appends the rest.
func overlay(base, extra []Theme) []Theme {
	out := append([]Theme(nil), base...)
	for _, t := range extra {
		if i := indexOfTheme(out, t.Name); i >= 0 {
			out[i] = t
		} else {
			out = append(out, t)
		}
	}
	return out
}

// themeSet is the process-wide list of themes and the active one.
type themeSet struct {
	mu     sync.RWMutex
	all    []Theme
	active int
}

var registry = &themeSet{}

func init() {
	registry.reset(builtinThemes(), defaultThemeName)
}

// reset installs all and activates name, falling back to the default theme.
// Callers must hold mu or be the only user.
func (s *themeSet) reset(all []Theme, name string) {
	s.all = all
	s.active = indexOfTheme(all, name)
	if s.active < 0 {
		s.active = max(indexOfTheme(all, defaultThemeName), 0)
	}
	applyTheme(s.all[s.active])
}

// LoadThemes rebuilds the theme list from the built-ins plus theme files in
// <configDir>/themes and MOODBOARD_THEME_DIR, keeping the active theme when it
// still exists.
func LoadThemes(configDir string) error {
	all := builtinThemes()
	var errs []error
	for _, dir := range themeDirs(configDir) {
		loaded, err := readThemeDir(dir)
		if err != nil {
			errs = append(errs, err)
		}
		all = overlay(all, loaded)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.reset(all, registry.all[registry.active].Name)
	return errors.Join(errs...)
}

func ActiveTheme() Theme {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.all[registry.active]
}

// CycleTheme activates the next theme and returns its name.
func CycleTheme() string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.active = (registry.active + 1) % len(registry.all)
	applyTheme(registry.all[registry.active])
	return registry.all[registry.active].Name
}

// SetThemeByName activates the named theme (case-insensitive). It reports
// false and leaves the palette alone when there is no such theme.
func SetThemeByName(name string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	i := indexOfTheme(registry.all, name)
	if i < 0 {
		return false
	}
	registry.active = i
	applyTheme(registry.all[i])
	return true
}
