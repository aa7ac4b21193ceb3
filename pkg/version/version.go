package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pterm/pterm"
)

const (
	devVersion  = "0.0.0-dev"
	installPath = "github.com/diillson/cloud-exit-assessment/cmd/cloudexit@latest"
)

// ReleasesURL is where the latest published release is looked up.
var ReleasesURL = "https://api.github.com/repos/diillson/cloud-exit-assessment/releases/latest"

// Set with -ldflags "-X .../pkg/version.Version=1.2.3". Empty values are
// filled from the module build info at start-up.
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	Dirty     bool
}

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		info := fromBuildInfo(Current(), bi)
		Version, Commit, BuildTime = info.Version, info.Commit, info.BuildTime
	}
}

// Current returns the version variables as an Info.
func Current() Info {
	return Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
}

// fromBuildInfo completes info with the VCS stamps of bi. A version given
// through ldflags is never replaced.
func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if bi == nil {
		return info
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; info.Commit == "" && len(rev) >= 7 {
		info.Commit = rev[:7]
	}
	if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); info.BuildTime == "" && err == nil {
		info.BuildTime = ts.UTC().Format(time.RFC3339)
	}
	info.Dirty = settings["vcs.modified"] == "true"

	if (info.Version == "" || info.Version == devVersion) && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
		if info.Dirty {
			info.Version += "-dirty"
		}
	}
	return info
}

// String returns e.g. "1.2.3 (commit: abc1234, built at: 2026-01-02T10:20:30Z)".
func (i Info) String() string {
	ver := i.Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case i.Commit == "" && i.BuildTime == "":
		return ver + " (development)"
	case i.Commit == "":
		return fmt.Sprintf("%s (built at: %s)", ver, i.BuildTime)
	case i.BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, i.Commit)
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, i.Commit, i.BuildTime)
}

// FormatVersion describes the running binary.
func FormatVersion() string {
	return Current().String()
}

// LatestRelease returns the tag of the newest published release, without
// its "v" prefix.
func LatestRelease(ctx context.Context, url string) (string, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.HTTPClient.Timeout = 3 * time.Second
	client.Logger = nil

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("release lookup: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release lookup: empty tag")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// CheckLatestVersion warns when a newer release than current is published.
// Development builds and lookup failures are silent.
func CheckLatestVersion(ctx context.Context, current string) {
	if strings.HasSuffix(current, "-dev") || strings.HasSuffix(current, "-dirty") {
		return
	}

	latest, err := LatestRelease(ctx, ReleasesURL)
	if err != nil || !IsNewer(latest, current) {
		return
	}

	pterm.Warning.Println(fmt.Sprintf("A new version of cloudexit is available: %s (running %s)", latest, current))
	pterm.Info.Println("Update with: go install " + installPath)
}

// IsNewer reports whether latest is a higher release than current. Versions
// compare numerically per dotted component; a pre-release sorts before its
// release. Unparsable versions are never newer.
func IsNewer(latest, current string) bool {
	l, lpre, ok := parseVersion(latest)
	if !ok {
		return false
	}
	c, cpre, ok := parseVersion(current)
	if !ok {
		return false
	}

	for i := 0; i < len(l) || i < len(c); i++ {
		var a, b int
		if i < len(l) {
			a = l[i]
		}
		if i < len(c) {
			b = c[i]
		}
		if a != b {
			return a > b
		}
	}
	return cpre != "" && lpre == ""
}

// parseVersion splits "v1.2.3-rc.1+meta" into [1 2 3] and "rc.1".
func parseVersion(v string) ([]int, string, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexByte(v, '+'); i >= 0 {
		v = v[:i]
	}

	var pre string
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v, pre = v[:i], v[i+1:]
	}
	if v == "" {
		return nil, "", false
	}

	parts := strings.Split(v, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, "", false
		}
		nums[i] = n
	}
	return nums, pre, true
}
