package envvars

import (
	"sort"
	"strconv"
	"strings"

	"github.com/memospot/memospot/launcher/internal/config"
)

// Prefix namespaces every variable passed to the server.
const Prefix = "MEMOS_"

// Map is a normalized variable set.
type Map map[string]string

// Managed holds the values the launcher computes at startup.
type Managed struct {
	DataDir   string
	Port      int
	Addr      string
	Mode      string
	Telemetry bool
}

// Key upper-cases key and adds Prefix unless already present.
func Key(key string) string {
	upper := strings.ToUpper(key)
	if strings.HasPrefix(upper, Prefix) {
		return upper
	}
	return Prefix + upper
}

// Build merges the document's env map with the managed variables.
func Build(doc config.Document, m Managed) Map {
	env := make(Map, len(doc.Memos.Env)+5)

	// Two user keys may normalize to the same name ("port" and "PORT");
	// visiting them in sorted order keeps the winner stable.
	userKeys := make([]string, 0, len(doc.Memos.Env))
	for k := range doc.Memos.Env {
		userKeys = append(userKeys, k)
	}
	sort.Strings(userKeys)
	for _, k := range userKeys {
		env[Key(k)] = doc.Memos.Env[k]
	}

	env[Key("mode")] = m.Mode
	env[Key("addr")] = m.Addr
	env[Key("port")] = strconv.Itoa(m.Port)
	env[Key("data")] = m.DataDir
	// Compatibility shim: the server removed metrics, m.Telemetry is ignored.
	env[Key("metric")] = "false"

	return env
}

// Environ returns the map as sorted KEY=value pairs.
func (m Map) Environ() []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
