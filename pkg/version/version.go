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

	"github.com/pterm/pterm"
)

// Sobrescritos por ldflags; quando vazios, vêm do build info.
var (
	Version   = "0.0.0-dev"
	Commit    = ""
	BuildTime = ""
)

// ReleasesURL aponta para a última release publicada.
var ReleasesURL = "https://api.github.com/repos/diillson/aws-anomaly-rca-go/releases/latest"

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(bi.Settings)
	}
}

// applyBuildInfo preenche os campos ainda não definidos a partir das
// configurações vcs.* embutidas pelo toolchain.
func applyBuildInfo(settings []debug.BuildSetting) {
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}

	if Commit == "" && len(values["vcs.revision"]) >= 7 {
		Commit = values["vcs.revision"][:7]
	}
	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, values["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	if Version == "0.0.0-dev" && values["vcs.tag"] != "" {
		Version = strings.TrimPrefix(values["vcs.tag"], "v")
		if strings.EqualFold(values["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

// LatestRelease consulta a versão da última release, sem o prefixo "v".
func LatestRelease(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from release endpoint", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("error decoding release: %w", err)
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// CheckLatestVersion avisa quando existe uma release mais nova. Falhas de rede
// são ignoradas.
func CheckLatestVersion(ctx context.Context, currentVersion string) {
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	latest, err := LatestRelease(ctx, http.DefaultClient, ReleasesURL)
	if err != nil || !Newer(latest, currentVersion) {
		return
	}
	pterm.Warning.Printfln("A new version of AWS Anomaly RCA is available: %s", latest)
	pterm.Info.Println("Please update using: go install github.com/diillson/aws-anomaly-rca-go/cmd/cadri@latest")
}

// Newer compara versões "major.minor.patch" numericamente; sufixos como
// "-dirty" são ignorados.
func Newer(candidate, current string) bool {
	a, b := parts(candidate), parts(current)
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func parts(v string) [3]int {
	var out [3]int
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	for i, p := range strings.SplitN(v, ".", 3) {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case Commit == "":
		return fmt.Sprintf("%s (commit: development, built at: %s)", ver, BuildTime)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}
}
