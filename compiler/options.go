package compiler

type Verbosity int

const (
	Quiet Verbosity = iota
	Info
	Warning
	Debug
)

type Options struct {
	// Target names the machine description to compile for.
	Target string

	// Class is the name of the class every compiled function belongs to.
	Class string

	Verbosity Verbosity
}
