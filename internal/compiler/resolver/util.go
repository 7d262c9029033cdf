package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	cerrors "github.com/ngtools/staticreflect/internal/compiler/errors"
	"github.com/ngtools/staticreflect/internal/compiler/metadata"
)

// moduleSuffix is appended to a scheme-less component moduleId.
const moduleSuffix = ".js"

var (
	nonWordPattern   = regexp.MustCompile(`\W`)
	urlSchemePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)
)

// sanitizeIdentifier replaces every non-word character with an underscore.
func sanitizeIdentifier(name string) string {
	return nonWordPattern.ReplaceAllString(name, "_")
}

// splitAtColon splits "a: b" into trimmed halves, or returns defaults when
// there is no colon.
func splitAtColon(input string, defaults []string) []string {
	index := strings.IndexRune(input, ':')
	if index == -1 {
		return defaults
	}
	return []string{
		strings.TrimSpace(input[:index]),
		strings.TrimSpace(input[index+1:]),
	}
}

// stringify renders a token for messages.
func stringify(token any) string {
	switch t := token.(type) {
	case nil:
		return "null"
	case string:
		return t
	case *metadata.StaticSymbol:
		return t.Name
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, v := range t {
			parts[i] = stringify(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", token)
}

// flattenArray appends the leaves of tree to out in order, resolving forward
// references and descending into nested arrays.
func flattenArray(tree []any, out []any) []any {
	for _, item := range tree {
		item = metadata.ResolveForwardRef(item)
		if nested, ok := item.([]any); ok {
			out = flattenArray(nested, out)
			continue
		}
		out = append(out, item)
	}
	return out
}

// flattenWithPlatform places the platform-wide entries ahead of the view's own.
func flattenWithPlatform(platform, own []any) []any {
	out := flattenArray(platform, nil)
	return flattenArray(own, out)
}

// assertArrayOfStrings checks that value is absent or an array of strings.
func assertArrayOfStrings(field string, value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, cerrors.NewNotStringArray(field, value)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, cerrors.NewNotStringArray(field, value)
}

// urlScheme returns the scheme of url, or "" when it has none.
func urlScheme(url string) string {
	m := urlSchemePattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// calcModuleURL returns the URL generated code uses to import a component.
// An explicit moduleId wins over the declaring module.
func calcModuleURL(r Reflector, sym *metadata.StaticSymbol, comp *metadata.ComponentMetadata) string {
	if comp.ModuleID == "" {
		return r.ImportURI(sym)
	}
	if urlScheme(comp.ModuleID) != "" {
		return comp.ModuleID
	}
	return "package:" + comp.ModuleID + moduleSuffix
}
