package builder

import (
	"log"

	"omibyte.io/stackc/compiler"
)

func (o Options) println(verbosity compiler.Verbosity, args ...any) {
	if o.Verbosity >= verbosity {
		log.Println(args...)
	}
}

func (o Options) printf(verbosity compiler.Verbosity, format string, args ...any) {
	if o.Verbosity >= verbosity {
		log.Printf(format, args...)
	}
}
