package asm

import (
	"fmt"
	"io"
	"strings"
)

// Method is one static method of a class.
type Method struct {
	Name       string
	Descriptor string
	Locals     int
	Stack      int
	Code       *Stream
}

// Class is a compilation unit in Jasmin assembler syntax.
type Class struct {
	Name    string
	Super   string
	Methods []*Method
}

// NewClass returns an empty class deriving from java/lang/Object.
func NewClass(name string) *Class {
	return &Class{
		Name:  name,
		Super: "java/lang/Object",
	}
}

// WriteTo writes the class in Jasmin syntax.
func (c *Class) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, ".class public %s\n", c.Name)
	fmt.Fprintf(&sb, ".super %s\n", c.Super)

	for _, m := range c.Methods {
		sb.WriteString("\n")
		m.write(&sb)
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (m *Method) write(sb *strings.Builder) {
	fmt.Fprintf(sb, ".method public static %s%s\n", m.Name, m.Descriptor)
	fmt.Fprintf(sb, "\t.limit stack %d\n", m.Stack)
	fmt.Fprintf(sb, "\t.limit locals %d\n", m.Locals)

	if m.Code != nil {
		for _, r := range m.Code.Records() {
			switch r.Kind {
			case KindLabel:
				fmt.Fprintf(sb, "%s:\n", r.Name)
			case KindInstr:
				sb.WriteString("\t" + r.String() + "\n")
			case KindDispatch:
				fmt.Fprintf(sb, "\t%s\n", r.Name)
				for _, entry := range r.Entries {
					fmt.Fprintf(sb, "\t\t%d : %s\n", entry.Key, entry.Label)
				}
				fmt.Fprintf(sb, "\t\tdefault : %s\n", r.Default)
			}
		}
	}

	sb.WriteString(".end method\n")
}
