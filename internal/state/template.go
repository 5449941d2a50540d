package state

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches {name} tokens inside a naming template.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// ConfigError reports a naming template that references a placeholder
// the current run does not define. It is fatal before any check runs.
type ConfigError struct {
	Template    string
	Placeholder string
	Valid       []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unknown placeholder {%s} in template %q (valid placeholders: %s)",
		e.Placeholder, e.Template, strings.Join(e.Valid, ", "))
}

// Resolve expands every {name} token in template using the placeholder map.
// Referencing a name absent from the map returns a *ConfigError naming the
// first offending token and listing every valid placeholder.
func Resolve(template string, placeholders map[string]string) (string, error) {
	var resolveErr *ConfigError
	resolved := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := placeholders[name]
		if !ok {
			if resolveErr == nil {
				resolveErr = &ConfigError{
					Template:    template,
					Placeholder: name,
					Valid:       sortedKeys(placeholders),
				}
			}
			return token
		}
		return value
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return resolved, nil
}

// optionalPlaceholders emits the four decorated variants for an optional
// concept: the value with a leading or trailing separator when the condition
// holds, and the empty string otherwise. This lets templates compose optional
// segments without conditional logic in the template string itself.
func optionalPlaceholders(placeholders map[string]string, name, value string, cond bool) {
	if !cond {
		placeholders["dash_"+name] = ""
		placeholders[name+"_dash"] = ""
		placeholders["underscore_"+name] = ""
		placeholders[name+"_underscore"] = ""
		return
	}
	placeholders["dash_"+name] = "-" + value
	placeholders[name+"_dash"] = value + "-"
	placeholders["underscore_"+name] = "_" + value
	placeholders[name+"_underscore"] = value + "_"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
