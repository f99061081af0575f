package targets

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"omibyte.io/stackc/ir"
	"omibyte.io/stackc/lower"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets
var ErrTargetNotFound = errors.New("target not found")

func All() Targets {
	return targets
}

type Targets []TargetInfo
type TargetInfo struct {
	Name        string              `yaml:"name"`
	Aliases     []string            `yaml:"aliases"`
	Description string              `yaml:"description"`
	Super       string              `yaml:"super"`
	Extension   string              `yaml:"extension"`
	Control     Control             `yaml:"control"`
	Types       map[string]TypeInfo `yaml:"types"`
}

// Control lists the control flow instructions of a target.
type Control struct {
	Goto        string   `yaml:"goto"`
	IfNonZero   string   `yaml:"ifNonZero"`
	IfZero      string   `yaml:"ifZero"`
	Pop         string   `yaml:"pop"`
	Pop2        string   `yaml:"pop2"`
	Dispatch    string   `yaml:"dispatch"`
	Return      string   `yaml:"return"`
	Invoke      string   `yaml:"invoke"`
	Unreachable []string `yaml:"unreachable"`
}

// PushRange is an immediate push instruction and the range it accepts.
type PushRange struct {
	Mnemonic string `yaml:"mnemonic"`
	Min      int64  `yaml:"min"`
	Max      int64  `yaml:"max"`
}

// TypeInfo describes how values of one representation are handled.
type TypeInfo struct {
	Descriptor  string              `yaml:"descriptor"`
	Slots       int                 `yaml:"slots"`
	Prefix      string              `yaml:"prefix"`
	Zero        string              `yaml:"zero"`
	Constants   map[string]string   `yaml:"constants"`
	Push        []PushRange         `yaml:"push"`
	Ldc         string              `yaml:"ldc"`
	Compare     string              `yaml:"compare"`
	CompareLess string              `yaml:"compareLess"`
	Branch      string              `yaml:"branch"`
	Ops         []string            `yaml:"ops"`
	Convert     map[string]string   `yaml:"convert"`
	Narrow      map[string][]string `yaml:"narrow"`
}

// Supports reports whether op has a native instruction for this type.
func (t TypeInfo) Supports(op ir.Op) bool {
	return slices.Contains(t.Ops, op.String())
}

// Constant returns the dedicated instruction pushing the constant written as
// text, if there is one.
func (t TypeInfo) Constant(text string) (string, bool) {
	mnemonic, ok := t.Constants[text]
	return mnemonic, ok
}

// PushFor returns the immediate push instruction that can encode v.
func (t TypeInfo) PushFor(v int64) (string, bool) {
	for _, r := range t.Push {
		if v >= r.Min && v <= r.Max {
			return r.Mnemonic, true
		}
	}
	return "", false
}

// Type returns the type information for repr. Vectors use their scalar
// representation.
func (t TargetInfo) Type(repr ir.Repr) (TypeInfo, error) {
	info, ok := t.Types[repr.Scalar().String()]
	if !ok {
		return TypeInfo{}, fmt.Errorf("target %s has no type information for %s", t.Name, repr)
	}
	return info, nil
}

// Mnemonics returns the control flow instructions in the form the lowering
// consumes.
func (t TargetInfo) Mnemonics() lower.Mnemonics {
	m := lower.Mnemonics{
		Goto:      t.Control.Goto,
		IfNonZero: t.Control.IfNonZero,
		IfZero:    t.Control.IfZero,
		Pop:       t.Control.Pop,
		Dispatch:  t.Control.Dispatch,
		Zero:      map[ir.Repr]string{},
	}
	for _, repr := range []ir.Repr{ir.ReprInt, ir.ReprLong, ir.ReprFloat, ir.ReprDouble, ir.ReprRef} {
		if info, ok := t.Types[repr.String()]; ok && len(info.Zero) > 0 {
			m.Zero[repr] = info.Zero
		}
	}
	return m
}

func (t Targets) FindByName(name string) (TargetInfo, error) {
	name = strings.ToLower(name)
	for _, target := range t {
		if target.Name == name || slices.Contains(target.Aliases, name) {
			return target, nil
		}
	}
	return TargetInfo{}, fmt.Errorf("%w: %s", ErrTargetNotFound, name)
}

// Names returns the names of all targets in declaration order.
func (t Targets) Names() []string {
	names := make([]string, len(t))
	for i, target := range t {
		names[i] = target.Name
	}
	return names
}

func init() {
	var t struct {
		Elements []TargetInfo `yaml:"targets"`
	}
	if err := yaml.Unmarshal(rawTargets, &t); err != nil {
		panic(err)
	}

	targets = t.Elements
}
