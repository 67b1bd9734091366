package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the dashlint CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with major, minor and patch in distinct colours.
// Anything that is not MAJOR.MINOR.PATCH[-suffix] is returned as is.
func Colored(enabled bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	paint := func(s string, attrs ...color.Attribute) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(s)
	}
	out := paint(parts[0], color.FgYellow, color.Bold) + "." +
		paint(parts[1], color.FgGreen, color.Bold) + "." +
		paint(parts[2], color.FgBlue, color.Bold)
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
