package builder

import (
	"os"
	"strings"

	"omibyte.io/stackc/compiler"
)

type Options struct {
	Packages        []string
	Dir             string
	Output          string
	Target          string
	Environment     Env
	Verbosity       compiler.Verbosity
	DumpIR          bool
	Strict          bool
	RecoverSwitches bool
}

// environ returns the process environment minus the keys the options
// override.
func (o Options) environ() []string {
	var result []string
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := o.Environment[key]; !ok {
			result = append(result, kv)
		}
	}
	return result
}
