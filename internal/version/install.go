package version

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// InstallMethod represents how notehub was installed.
type InstallMethod string

const (
	InstallMethodHomebrew InstallMethod = "homebrew"
	InstallMethodGo       InstallMethod = "go"
	InstallMethodBinary   InstallMethod = "binary"
)

var (
	detectedMethod     InstallMethod
	detectedMethodOnce sync.Once
)

// DetectInstallMethod reports how the running binary was installed. The
// result is cached for the lifetime of the process.
func DetectInstallMethod() InstallMethod {
	detectedMethodOnce.Do(func() {
		exe, err := os.Executable()
		if err == nil {
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}
		}
		home, _ := os.UserHomeDir()
		detectedMethod = classify(exe, home, os.Getenv, isHomebrewInstall)
	})
	return detectedMethod
}

// classify decides the install method for the binary at exe.
func classify(exe, home string, getenv func(string) string, homebrew func() bool) InstallMethod {
	if homebrew() {
		return InstallMethodHomebrew
	}
	if exe != "" && inGoBin(exe, home, getenv) {
		return InstallMethodGo
	}
	return InstallMethodBinary
}

// inGoBin reports whether exe lives in GOBIN, GOPATH/bin or ~/go/bin.
func inGoBin(exe, home string, getenv func(string) string) bool {
	dir := filepath.Dir(exe)

	var candidates []string
	if gobin := getenv("GOBIN"); gobin != "" {
		candidates = append(candidates, gobin)
	}
	if gopath := getenv("GOPATH"); gopath != "" {
		candidates = append(candidates, filepath.Join(gopath, "bin"))
	}
	if home != "" {
		candidates = append(candidates, filepath.Join(home, "go", "bin"))
	}
	for _, c := range candidates {
		if dir == filepath.Clean(c) {
			return true
		}
	}

	sep := string(filepath.Separator)
	return strings.Contains(exe, sep+"go"+sep+"bin"+sep)
}

func isHomebrewInstall() bool {
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" {
		return false
	}
	if _, err := exec.LookPath("brew"); err != nil {
		return false
	}
	out, err := exec.Command("brew", "list", "--formula", "marcus/tap/notehub").CombinedOutput()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(out))) > 0
}
