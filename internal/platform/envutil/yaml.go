package envutil

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a flat KEY: value file and exports every key that is not
// already set in the environment. Real environment variables always win.
// It returns the number of keys applied.
func LoadYAML(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read config %s: %w", path, err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return 0, fmt.Errorf("parse config %s: %w", path, err)
	}
	applied := 0
	for key, val := range values {
		key = strings.TrimSpace(key)
		if key == "" || val == nil {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		var s string
		switch v := val.(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			s = strings.Join(parts, ",")
		case map[string]any:
			return applied, fmt.Errorf("config key %s: nested maps are not supported", key)
		default:
			s = fmt.Sprint(v)
		}
		if err := os.Setenv(key, s); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
