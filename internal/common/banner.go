package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` .d8888b. 888                      888`,
		` 88K      888888 .d88b.  .d8888b  888  888`,
		` "Y8888b. 888   d88""88b 888      888 .88P`,
		`      X88 Y88b. Y88..88P Y88b.    888888K`,
		`  88888P'  "Y888 "Y88P"   "Y8888P 888 "88b  news`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  version  %s (build %s, commit %s)\n", version, build, commit)
	fmt.Fprintf(os.Stderr, "  service  %s\n", serviceURL)
	fmt.Fprintf(os.Stderr, "  storage  %s\n", config.Storage.Path)
	fmt.Fprintf(os.Stderr, "  env      %s\n", config.Environment)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
}
