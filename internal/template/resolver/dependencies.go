package resolver

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// NormalizeDependencies flattens a dependency declaration into name@version
// strings. A mapping keeps document order, a list of strings is returned
// unchanged and a missing or null value yields an empty list.
func NormalizeDependencies(value gjson.Result) ([]string, error) {
	deps := []string{}

	switch {
	case !value.Exists() || value.Type == gjson.Null:
		return deps, nil

	case value.IsArray():
		var err error
		value.ForEach(func(_, item gjson.Result) bool {
			if item.Type != gjson.String {
				err = fmt.Errorf("dependency list entries must be strings, got %s", item.Raw)
				return false
			}
			deps = append(deps, item.Str)
			return true
		})
		return deps, err

	case value.IsObject():
		var err error
		value.ForEach(func(name, version gjson.Result) bool {
			if version.Type != gjson.String {
				err = fmt.Errorf("version of %q must be a string, got %s", name.String(), version.Raw)
				return false
			}
			deps = append(deps, name.String()+"@"+version.Str)
			return true
		})
		return deps, err

	default:
		return nil, fmt.Errorf("dependencies must be an object or a list, got %s", value.Raw)
	}
}
