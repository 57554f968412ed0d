// Package envvar expands environment variable placeholders in configuration values.
package envvar

import (
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// pattern matches ${VAR_NAME} and ${VAR_NAME:-default} placeholders for environment variable expansion.
// Groups: 1 = variable name, 2 = optional default value (after :-).
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// minGroupsForVarName is the minimum number of regex groups required to extract a variable name.
const minGroupsForVarName = 2

// defaultSyntaxMarker is the delimiter used for default value syntax in env var placeholders.
const defaultSyntaxMarker = ":-"

// Expander replaces placeholders using a lookup function.
type Expander struct {
	lookup func(string) (string, bool)
	logger logrus.FieldLogger
}

// NewExpander returns an Expander backed by the process environment.
// Unset variables without a default are reported on logger.
func NewExpander(logger logrus.FieldLogger) *Expander {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Expander{lookup: os.LookupEnv, logger: logger}
}

// Expand replaces ${VAR_NAME} and ${VAR_NAME:-default} placeholders with their environment variable values.
// If a referenced environment variable is not set:
//   - With default syntax ${VAR:-default}: uses the default value
//   - Without default ${VAR}: uses empty string and logs a warning
func (e *Expander) Expand(value string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, e.expandMatch)
}

// ExpandBytes expands environment variables in byte slice content.
// This is a convenience wrapper for expanding YAML or other file content.
func (e *Expander) ExpandBytes(data []byte) []byte {
	return []byte(e.Expand(string(data)))
}

// Expand expands value against the process environment.
func Expand(value string) string {
	return NewExpander(nil).Expand(value)
}

func (e *Expander) expandMatch(match string) string {
	groups := pattern.FindStringSubmatch(match)
	if len(groups) < minGroupsForVarName {
		return match
	}

	if envValue, exists := e.lookup(groups[1]); exists {
		return envValue
	}

	return e.resolveDefault(match, groups)
}

// resolveDefault returns the value used when a variable is not set.
func (e *Expander) resolveDefault(match string, groups []string) string {
	if len(groups) > 2 && groups[2] != "" {
		return groups[2]
	}

	if strings.Contains(match, defaultSyntaxMarker) {
		return ""
	}

	e.logger.WithField("variable", groups[1]).Warn("environment variable not set")

	return ""
}
