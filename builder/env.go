package builder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Env map[string]string

func Environment() Env {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	// Get the user cache directory
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Attempt to use the tmp dir
		cacheDir = os.TempDir()
	}

	// Return the environment
	return map[string]string{
		"STACKCTARGET": getenv("STACKCTARGET", "jvm"),
		"STACKCOUT":    getenv("STACKCOUT", filepath.Join(cwd, "out")),

		"GOCACHE":     getenv("GOCACHE", filepath.Join(cacheDir, "go-build")),
		"GOFLAGS":     getenv("GOFLAGS", ""),
		"CGO_ENABLED": "0",
	}
}

// Print writes the environment in a stable order.
func (e Env) Print(w io.Writer) {
	keys := maps.Keys(e)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "set %s=%s\n", k, e[k])
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

func (e Env) List() []string {
	var result []string
	for key, value := range e {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	return result
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}
