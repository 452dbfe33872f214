// Package appupdate checks GitHub releases for a newer moodboard build and
// suggests an upgrade command that matches how the binary was installed.
package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	binaryName = "moodboard"
	repoPath   = "mindwell/moodboard"

	releasesAPI   = "https://api.github.com/repos/" + repoPath + "/releases/latest"
	installScript = "https://github.com/" + repoPath + "/releases/latest/download/install.sh"
	lookupTimeout = 1500 * time.Millisecond

	// TokenEnv holds an optional GitHub token used to lift API rate limits.
	TokenEnv = "MOODBOARD_GITHUB_TOKEN"
)

// Channel is how the running binary got onto the machine.
type Channel string

const (
	ChannelUnknown Channel = "unknown"
	ChannelBrew    Channel = "homebrew"
	ChannelGo      Channel = "go_install"
	ChannelScript  Channel = "install_script"
	ChannelScoop   Channel = "scoop"
)

// Options tunes Check. Zero values pick the running binary, the public
// releases API and a short timeout.
type Options struct {
	Version    string
	Executable string
	ReleaseURL string
	Timeout    time.Duration
	Client     *http.Client
}

// Report is what Check found. Current is empty for development builds.
type Report struct {
	Current    string
	Latest     string
	Newer      bool
	Channel    Channel
	Hint       string
	Executable string
}

// Summary renders the report as a single line for the version command.
func (r Report) Summary() string {
	switch {
	case r.Current == "":
		return "development build; update check skipped"
	case r.Newer:
		return fmt.Sprintf("update available: %s -> %s (run: %s)", r.Current, r.Latest, r.Hint)
	default:
		return fmt.Sprintf("%s is the latest release", r.Current)
	}
}

// Check compares the running version with the newest published release.
// Versions that are not plain semver releases are never compared.
func Check(ctx context.Context, opts Options) (Report, error) {
	exe := executablePath(opts.Executable)
	ch := channelFor(exe)
	rep := Report{
		Current:    releaseTag(opts.Version),
		Channel:    ch,
		Hint:       ch.hint(),
		Executable: exe,
	}
	if rep.Current == "" {
		return rep, nil
	}

	latest, err := latestRelease(ctx, opts, rep.Current)
	if err != nil {
		return rep, err
	}
	rep.Latest = latest
	rep.Newer = semver.Compare(latest, rep.Current) > 0
	return rep, nil
}

func latestRelease(ctx context.Context, opts Options, current string) (string, error) {
	target := strings.TrimSpace(opts.ReleaseURL)
	if target == "" {
		target = releasesAPI
	}
	timeout := lookupTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	httpClient := opts.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("release lookup: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", binaryName+"/"+current)
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" && githubAPI(target) {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("release lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: %s answered HTTP %d", target, resp.StatusCode)
	}

	var release struct {
		Tag string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("release lookup: bad payload: %w", err)
	}
	tag := releaseTag(release.Tag)
	if tag == "" {
		return "", fmt.Errorf("release lookup: %q is not a final release tag", release.Tag)
	}
	return tag, nil
}

// releaseTag canonicalizes "1.2.3" or "v1.2.3" and returns "" for anything
// else, including pre-releases and build metadata.
func releaseTag(raw string) string {
	tag := strings.TrimSpace(raw)
	if tag == "" {
		return ""
	}
	tag = "v" + strings.TrimPrefix(tag, "v")
	if !semver.IsValid(tag) || semver.Prerelease(tag) != "" || semver.Build(tag) != "" {
		return ""
	}
	return semver.Canonical(tag)
}

func executablePath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return cleanPath(p)
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil && resolved != "" {
		exe = resolved
	}
	return cleanPath(exe)
}

// cleanPath lower-cases and slash-separates p so Windows and Unix paths
// compare alike.
func cleanPath(p string) string {
	if p = strings.TrimSpace(p); p == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(p)))
}

func channelFor(exe string) Channel {
	p := cleanPath(exe)
	switch {
	case p == "":
		return ChannelUnknown
	case strings.Contains(p, "/cellar/"+binaryName+"/"), p == "/opt/homebrew/bin/"+binaryName:
		return ChannelBrew
	case strings.Contains(p, "/scoop/apps/"+binaryName+"/"):
		return ChannelScoop
	case isBinaryIn(p, "/go/bin"), inAnyDir(p, goBinDirs()):
		return ChannelGo
	case inAnyDir(p, scriptBinDirs()):
		return ChannelScript
	default:
		return ChannelUnknown
	}
}

// isBinaryIn reports whether p is the moodboard binary directly under a
// directory ending in suffix.
func isBinaryIn(p, suffix string) bool {
	return strings.HasSuffix(p, suffix+"/"+binaryName) || strings.HasSuffix(p, suffix+"/"+binaryName+".exe")
}

func inAnyDir(p string, dirs []string) bool {
	for _, dir := range dirs {
		if dir = cleanPath(dir); dir != "" && (p == dir+"/"+binaryName || p == dir+"/"+binaryName+".exe") {
			return true
		}
	}
	return false
}

func goBinDirs() []string {
	var dirs []string
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		dirs = append(dirs, gobin)
	}
	for _, root := range filepath.SplitList(os.Getenv("GOPATH")) {
		if root != "" {
			dirs = append(dirs, filepath.Join(root, "bin"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}
	return dirs
}

func scriptBinDirs() []string {
	dirs := []string{"/usr/local/bin", "/usr/bin"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"), filepath.Join(home, "bin"))
	}
	return dirs
}

func (c Channel) hint() string {
	switch c {
	case ChannelBrew:
		return "brew upgrade " + repoPath + "/" + binaryName
	case ChannelGo:
		return "go install github.com/" + repoPath + "/cmd/" + binaryName + "@latest"
	case ChannelScoop:
		return "scoop update " + binaryName
	default:
		return "curl -fsSL " + installScript + " | bash"
	}
}

func githubAPI(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && strings.EqualFold(u.Scheme, "https") && strings.EqualFold(u.Hostname(), "api.github.com")
}
