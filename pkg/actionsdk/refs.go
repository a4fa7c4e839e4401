package actionsdk

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageRef selects where an action finds its source message.
type MessageRef int

const (
	MessageCommand   MessageRef = 0
	MessageTempVar   MessageRef = 1
	MessageServerVar MessageRef = 2
	MessageGlobalVar MessageRef = 3
)

// ParseMessageRef parses the persisted form of a message reference.
func ParseMessageRef(s string) (MessageRef, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("message reference %q: %w", s, err)
	}
	ref := MessageRef(n)
	if ref < MessageCommand || ref > MessageGlobalVar {
		return 0, fmt.Errorf("message reference %d out of range", n)
	}
	return ref, nil
}

// UsesVariable reports whether the reference reads a named variable, which is
// when the editor shows the variable name input.
func (r MessageRef) UsesVariable() bool {
	return r != MessageCommand
}

// Scope maps a variable reference to the scope it reads.
func (r MessageRef) Scope() VarScope {
	switch r {
	case MessageTempVar:
		return ScopeTemp
	case MessageServerVar:
		return ScopeServer
	case MessageGlobalVar:
		return ScopeGlobal
	}
	return ScopeNone
}

// VarScope is a variable storage scope of the host.
type VarScope int

const (
	ScopeNone   VarScope = 0
	ScopeTemp   VarScope = 1
	ScopeServer VarScope = 2
	ScopeGlobal VarScope = 3
)

// ParseVarScope parses a persisted storage target. Like the editor, anything
// that is not an integer parses to ok=false.
func ParseVarScope(s string) (VarScope, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ScopeNone, false
	}
	return VarScope(n), true
}

func (s VarScope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeTemp:
		return "temp"
	case ScopeServer:
		return "server"
	case ScopeGlobal:
		return "global"
	}
	return "scope(" + strconv.Itoa(int(s)) + ")"
}

// Datatype is the declared type of a stored variable, shown in the editor.
type Datatype string

const (
	DatatypeStructured Datatype = "JSON"
	DatatypeFiles      Datatype = "File(s)"
	DatatypeText       Datatype = "String"
)

// Option is one entry of a host-supplied select list.
type Option struct {
	Value string
	Label string
}

// HostOptions carries the select lists the host hands to form generators.
// Index 0 holds the command variant, index 1 the event variant.
type HostOptions struct {
	Messages  [2][]Option
	Variables [2][]Option
}

// DefaultHostOptions returns the standard message source and storage lists.
func DefaultHostOptions() HostOptions {
	variables := []Option{
		{Value: "1", Label: "Temp Variable"},
		{Value: "2", Label: "Server Variable"},
		{Value: "3", Label: "Global Variable"},
	}
	return HostOptions{
		Messages: [2][]Option{
			append([]Option{{Value: "0", Label: "Command Message"}}, variables...),
			variables,
		},
		Variables: [2][]Option{
			append([]Option{{Value: "0", Label: "None"}}, variables...),
			append([]Option{{Value: "0", Label: "None"}}, variables...),
		},
	}
}

// Variant returns the list for the command or event form.
func Variant(lists [2][]Option, isEvent bool) []Option {
	if isEvent {
		return lists[1]
	}
	return lists[0]
}
