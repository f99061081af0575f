package compiler

import "log"

func (c *Compiler) println(verbosity Verbosity, args ...any) {
	if c.options.Verbosity >= verbosity {
		log.Println(args...)
	}
}

func (c *Compiler) printf(verbosity Verbosity, format string, args ...any) {
	if c.options.Verbosity >= verbosity {
		log.Printf(format, args...)
	}
}
