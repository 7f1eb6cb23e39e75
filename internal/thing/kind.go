// Package thing holds the domain collaborator consumed by navigation: the
// Things being edited, the transaction that accumulates edits, and the session
// handle that connects to a data source.
package thing

import (
	"fmt"
	"strings"
	"unicode"
)

// ClassKind tags the kind of a Thing. It is the discriminator used to resolve
// the dialog registered for a Thing.
type ClassKind int

const (
	KindUnknown ClassKind = iota
	KindElementDefinition
	KindElementUsage
	KindRequirement
	KindRequirementsSpecification
	KindParameter
	KindPerson
	KindIteration
)

var classKindNames = map[ClassKind]string{
	KindElementDefinition:         "ElementDefinition",
	KindElementUsage:              "ElementUsage",
	KindRequirement:               "Requirement",
	KindRequirementsSpecification: "RequirementsSpecification",
	KindParameter:                 "Parameter",
	KindPerson:                    "Person",
	KindIteration:                 "Iteration",
}

// AllKinds lists every known ClassKind in declaration order.
func AllKinds() []ClassKind {
	return []ClassKind{
		KindElementDefinition,
		KindElementUsage,
		KindRequirement,
		KindRequirementsSpecification,
		KindParameter,
		KindPerson,
		KindIteration,
	}
}

func (k ClassKind) String() string {
	if name, ok := classKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Words splits the CamelCase name into space separated words:
// ElementDefinition becomes "Element Definition".
func (k ClassKind) Words() string {
	name := k.String()
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseClassKind accepts the CamelCase name, case-insensitively.
func ParseClassKind(s string) (ClassKind, error) {
	for k, name := range classKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown class kind %q", s)
}

// DialogKind is the operation a thing dialog is opened for.
type DialogKind int

const (
	DialogInspect DialogKind = iota
	DialogCreate
	DialogUpdate
)

func (d DialogKind) String() string {
	switch d {
	case DialogCreate:
		return "Create"
	case DialogUpdate:
		return "Update"
	case DialogInspect:
		return "Inspect"
	default:
		return "Unknown"
	}
}

// Verb is the title prefix shown on a dialog of this kind.
func (d DialogKind) Verb() string {
	switch d {
	case DialogCreate:
		return "Create"
	case DialogUpdate:
		return "Edit"
	case DialogInspect:
		return "Inspect"
	default:
		return ""
	}
}

// ReadOnly reports whether the dialog must not modify the thing.
func (d DialogKind) ReadOnly() bool {
	return d == DialogInspect
}

var containedKinds = map[ClassKind]ClassKind{
	KindElementDefinition:         KindElementUsage,
	KindElementUsage:              KindParameter,
	KindRequirementsSpecification: KindRequirement,
}

// ContainedKind is the kind of Thing created inside a container of kind k.
// Kinds that cannot contain anything report false.
func ContainedKind(k ClassKind) (ClassKind, bool) {
	c, ok := containedKinds[k]
	return c, ok
}
