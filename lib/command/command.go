// Copyright 2026 The fanctl Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"
)

// Command is one parsed request. The concrete types are Use, Reset,
// Reload, Pause, Resume and Print.
type Command interface {
	// Verb returns the request verb, for logging.
	Verb() string

	sealed()
}

// Use pins the named strategy.
type Use struct{ Strategy string }

// Reset clears a pinned strategy.
type Reset struct{}

// Reload re-reads the configuration.
type Reload struct{}

// Pause stops duty cycle writes and restores automatic fan control.
type Pause struct{}

// Resume restarts duty cycle writes.
type Resume struct{}

// Print reports part of the controller state.
type Print struct{ Selector Selector }

func (Use) Verb() string    { return "use" }
func (Reset) Verb() string  { return "reset" }
func (Reload) Verb() string { return "reload" }
func (Pause) Verb() string  { return "pause" }
func (Resume) Verb() string { return "resume" }
func (Print) Verb() string  { return "print" }

func (Use) sealed()    {}
func (Reset) sealed()  {}
func (Reload) sealed() {}
func (Pause) sealed()  {}
func (Resume) sealed() {}
func (Print) sealed()  {}

// Selector names the part of the state a Print reports.
type Selector string

const (
	SelectAll     Selector = "all"
	SelectActive  Selector = "active"
	SelectCurrent Selector = "current"
	SelectList    Selector = "list"
	SelectSpeed   Selector = "speed"
)

// Selectors lists every valid selector, in help order.
var Selectors = []Selector{SelectAll, SelectActive, SelectCurrent, SelectList, SelectSpeed}

// Verbs lists every valid verb, in help order.
var Verbs = []string{"use", "reset", "reload", "pause", "resume", "print"}

// ErrCommand is matched (via errors.Is) by every parse failure.
var ErrCommand = errors.New("invalid command")

// ErrUnknownCommand marks a request whose verb is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// ErrUnknownSelector marks a print request with an unrecognized
// selector.
var ErrUnknownSelector = errors.New("unknown print selector")

// Error is a malformed or unknown request. Reason is sent back to the
// client verbatim.
type Error struct {
	Reason string

	// Err is ErrUnknownCommand, ErrUnknownSelector or nil.
	Err error
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrCommand }

// Parse tokenizes a request line and builds the matching Command.
// Extra trailing arguments are ignored.
func Parse(line string) (Command, error) {
	var tokens []string
	for _, token := range strings.Fields(line) {
		if !strings.HasPrefix(token, "--") {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return nil, &Error{Reason: "empty command"}
	}

	verb, args := tokens[0], tokens[1:]
	switch verb {
	case "use":
		if len(args) == 0 {
			return nil, &Error{Reason: "usage: use <strategy>"}
		}
		return Use{Strategy: args[0]}, nil
	case "reset":
		return Reset{}, nil
	case "reload":
		return Reload{}, nil
	case "pause":
		return Pause{}, nil
	case "resume":
		return Resume{}, nil
	case "print":
		if len(args) == 0 {
			return Print{Selector: SelectAll}, nil
		}
		selector, err := ParseSelector(args[0])
		if err != nil {
			return nil, err
		}
		return Print{Selector: selector}, nil
	default:
		return nil, &Error{
			Reason: fmt.Sprintf("unknown command: %s", verb),
			Err:    ErrUnknownCommand,
		}
	}
}

// ParseSelector validates a print selector.
func ParseSelector(name string) (Selector, error) {
	for _, selector := range Selectors {
		if string(selector) == name {
			return selector, nil
		}
	}
	return "", &Error{
		Reason: fmt.Sprintf("unknown print selection: %s", name),
		Err:    ErrUnknownSelector,
	}
}
