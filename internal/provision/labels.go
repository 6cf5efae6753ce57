package provision

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// FormatLabel makes a value safe for the label system: lowercase, with
// whitespace runs collapsed to single underscores.
func FormatLabel(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "_")
}

var envNamePattern = regexp.MustCompile(`^` + namePrefix + `([a-z]+)-`)

// EnvironmentFromName extracts the environment tag from a generated
// project name ("dw-dev-myapp" yields "dev").
func EnvironmentFromName(name string) (string, bool) {
	match := envNamePattern.FindStringSubmatch(name)
	if match == nil {
		return "", false
	}
	return match[1], true
}
