package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/keygrid/internal/config/layer"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "KEYGRID_"

// EnvLoader maps prefixed environment variables onto config paths.
//
// Explicit mappings win. Other variables convert by splitting on
// underscores: the first word is the section and the rest form a camelCase
// key, so KEYGRID_GRID_PAGE_SIZE sets grid.pageSize.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	skip    map[string]bool
	environ func() []string
}

// NewEnvLoader creates a loader for prefix, e.g. "KEYGRID_".
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "LOG_LEVEL": "logging.level",
			prefix + "LOG_FILE":  "logging.file",
			prefix + "LANGUAGE":  "grid.language",
			prefix + "PAGE_SIZE": "grid.pageSize",
			prefix + "PLUGINS":   "plugins.enabled",
		},
		skip:    map[string]bool{prefix + "CONFIG": true},
		environ: os.Environ,
	}
}

// Map adds or replaces an explicit mapping.
func (l *EnvLoader) Map(env, path string) { l.mapping[env] = path }

// Load implements Loader.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) || l.skip[name] {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = envToPath(strings.TrimPrefix(name, l.prefix))
		}
		if path == "" {
			continue
		}
		v := ParseValue(value)
		if path == "plugins.enabled" {
			v = splitList(value)
		}
		layer.SetByPath(out, path, v)
	}
	return out, nil
}

// envToPath turns GRID_PAGE_SIZE into grid.pageSize.
func envToPath(name string) string {
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	var b strings.Builder
	for i, p := range parts[1:] {
		if p == "" {
			continue
		}
		if i > 0 {
			p = strings.ToUpper(p[:1]) + p[1:]
		}
		b.WriteString(p)
	}
	if b.Len() == 0 {
		return ""
	}
	return parts[0] + "." + b.String()
}

// ParseValue guesses the type of an environment string: bool, integer,
// float, duration, JSON array or object, else string.
func ParseValue(s string) any {
	if s == "" {
		return s
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d.String()
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

func splitList(s string) []any {
	var out []any
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
