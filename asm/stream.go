package asm

import (
	"fmt"
	"strings"

	"omibyte.io/stackc/lower"
)

// Kind is the kind of a record.
type Kind int

const (
	KindLabel Kind = iota
	KindInstr
	KindDispatch
)

// Record is one entry of an instruction stream.
type Record struct {
	Kind Kind

	// Name is the label name, or the mnemonic of an instruction or dispatch.
	Name     string
	Operands []string
	Entries  []lower.DispatchEntry
	Default  string
}

// String returns the record on a single line.
func (r Record) String() string {
	switch r.Kind {
	case KindLabel:
		return r.Name + ":"
	case KindDispatch:
		var sb strings.Builder
		sb.WriteString(r.Name)
		for _, entry := range r.Entries {
			fmt.Fprintf(&sb, " %d:%s", entry.Key, entry.Label)
		}
		sb.WriteString(" default:" + r.Default)
		return sb.String()
	}
	if len(r.Operands) == 0 {
		return r.Name
	}
	return r.Name + " " + strings.Join(r.Operands, " ")
}

// Stream collects records in emission order.
type Stream struct {
	records []Record
}

func (s *Stream) Label(name string) {
	s.records = append(s.records, Record{Kind: KindLabel, Name: name})
}

func (s *Stream) Instr(mnemonic string, operands ...string) {
	s.records = append(s.records, Record{Kind: KindInstr, Name: mnemonic, Operands: operands})
}

func (s *Stream) Dispatch(mnemonic string, entries []lower.DispatchEntry, defaultLabel string) {
	s.records = append(s.records, Record{
		Kind:    KindDispatch,
		Name:    mnemonic,
		Entries: append([]lower.DispatchEntry(nil), entries...),
		Default: defaultLabel,
	})
}

// Records returns the collected records.
func (s *Stream) Records() []Record {
	return s.records
}

// Lines returns every record formatted with Record.String.
func (s *Stream) Lines() []string {
	lines := make([]string, len(s.records))
	for i, r := range s.records {
		lines[i] = r.String()
	}
	return lines
}

// Len returns the number of records.
func (s *Stream) Len() int {
	return len(s.records)
}
