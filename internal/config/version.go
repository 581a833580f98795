package config

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Version is stamped at build time:
//
//	go build -ldflags "-X homedash/internal/config.Version=1.4.0"
var Version string

// GetVersion returns the stamped version, APP_VERSION, or a version derived
// from the VERSION file and git history, in that order.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	baseVersion := getBaseVersion()
	if commitCount := getGitCommitCount(); commitCount > 0 {
		return baseVersion + "." + strconv.Itoa(commitCount)
	}
	return baseVersion
}

func getBaseVersion() string {
	for _, path := range []string{"VERSION", "../VERSION", "../../VERSION"} {
		if content, err := os.ReadFile(path); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return "0.1.0"
}

func getGitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}
