// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package manifest loads declarative command-set documents and registers
// them on a router. A document describes routes, their option schemas, and
// shared defaults in YAML or TOML; Apply turns it into registrations, with
// handlers supplied by the program.
//
// Example:
//
//	doc, err := manifest.Load("commands.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := command.MustNew()
//	err = doc.Apply(r, map[string]command.Handler{
//	    "file copy {source} {dest?}": copyHandler,
//	})
package manifest

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"dario.cat/mergo"

	"rivaas.dev/command"
	"rivaas.dev/command/binding"
)

// Document is one declarative command set. Defaults apply to every command
// that does not override them.
type Document struct {
	Name        string    `mapstructure:"name"`
	Version     string    `mapstructure:"version"`
	Description string    `mapstructure:"description"`
	Defaults    Defaults  `mapstructure:"defaults"`
	Commands    []Command `mapstructure:"commands"`
}

// Defaults holds document-wide command settings. A command inherits each
// setting it leaves unset: nil pointers and empty option lists inherit,
// explicit values win.
type Defaults struct {
	AllowUnknown  *bool    `mapstructure:"allow_unknown"`
	CaseSensitive *bool    `mapstructure:"case_sensitive"`
	Options       []Option `mapstructure:"options"`
}

// Command describes one route registration: the template, its option
// schema, and optional module attribution.
type Command struct {
	Route        string   `mapstructure:"route"`
	Summary      string   `mapstructure:"summary"`
	Module       string   `mapstructure:"module"`
	AllowUnknown *bool    `mapstructure:"allow_unknown"`
	Options      []Option `mapstructure:"options"`
}

// Option describes one command parameter in document form. Arity and Mode
// are the readable names of the binding package's enumerations.
type Option struct {
	Name           string            `mapstructure:"name"`
	Aliases        []string          `mapstructure:"aliases"`
	ReverseAliases []string          `mapstructure:"reverse_aliases"`
	ValueAliases   map[string]string `mapstructure:"value_aliases"`
	Arity          string            `mapstructure:"arity"`
	Mode           string            `mapstructure:"mode"`
	CaseSensitive  *bool             `mapstructure:"case_sensitive"`
	Usage          string            `mapstructure:"usage"`
}

// ParseArity maps an arity name to its binding.Arity. The empty string is
// the default, zero-or-one.
func ParseArity(s string) (binding.Arity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero-or-one":
		return binding.ZeroOrOne, nil
	case "exactly-one":
		return binding.ExactlyOne, nil
	case "zero-or-more":
		return binding.ZeroOrMore, nil
	case "one-or-more":
		return binding.OneOrMore, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownArity, s)
	}
}

// ParseMode maps a mode name to its binding.Mode. The empty string is the
// default, option.
func ParseMode(s string) (binding.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "option":
		return binding.ModeOption, nil
	case "positional":
		return binding.ModePositional, nil
	case "either":
		return binding.ModeEither, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// normalize merges document defaults into every command. A command with no
// options inherits the default options wholesale; a nil AllowUnknown
// inherits the default; options without a case rule take the default one.
// Set pointers always win, so an explicit false survives a true default.
// Normalizing twice is a no-op.
func (d *Document) normalize() error {
	defaults := Command{
		AllowUnknown: d.Defaults.AllowUnknown,
		Options:      slices.Clone(d.Defaults.Options),
	}
	for i := range defaults.Options {
		if defaults.Options[i].CaseSensitive == nil {
			defaults.Options[i].CaseSensitive = d.Defaults.CaseSensitive
		}
	}

	for i := range d.Commands {
		cmd := &d.Commands[i]
		if err := mergo.Merge(cmd, defaults, mergo.WithoutDereference); err != nil {
			return fmt.Errorf("command %q: merge defaults: %w", cmd.Route, err)
		}
		for j := range cmd.Options {
			if cmd.Options[j].CaseSensitive == nil {
				cmd.Options[j].CaseSensitive = d.Defaults.CaseSensitive
			}
		}
	}
	return nil
}

// validate checks every command for a route and well-formed option
// descriptors. Route-template and schema validity are the router's concern
// at Apply; validate only covers what the document itself can get wrong.
func (d *Document) validate() error {
	for i := range d.Commands {
		cmd := &d.Commands[i]
		if strings.TrimSpace(cmd.Route) == "" {
			return fmt.Errorf("command %d: %w", i, ErrEmptyRoute)
		}
		if _, err := cmd.parameters(); err != nil {
			return err
		}
	}
	return nil
}

// parameters converts the command's option descriptors into binding
// parameters.
func (c *Command) parameters() ([]binding.Parameter, error) {
	params := make([]binding.Parameter, 0, len(c.Options))
	for _, opt := range c.Options {
		if strings.TrimSpace(opt.Name) == "" {
			return nil, fmt.Errorf("command %q: %w", c.Route, ErrUnnamedOption)
		}
		arity, err := ParseArity(opt.Arity)
		if err != nil {
			return nil, fmt.Errorf("command %q: option %q: arity: %w", c.Route, opt.Name, err)
		}
		mode, err := ParseMode(opt.Mode)
		if err != nil {
			return nil, fmt.Errorf("command %q: option %q: mode: %w", c.Route, opt.Name, err)
		}
		params = append(params, binding.Parameter{
			Name:           opt.Name,
			Aliases:        slices.Clone(opt.Aliases),
			ReverseAliases: slices.Clone(opt.ReverseAliases),
			ValueAliases:   maps.Clone(opt.ValueAliases),
			Arity:          arity,
			Mode:           mode,
			CaseSensitive:  opt.CaseSensitive,
			Usage:          opt.Usage,
		})
	}
	return params, nil
}

// Apply registers every command of the document on the router. Handlers are
// looked up by the command's route text; a route without a handler aborts
// with ErrMissingHandler. Commands naming a module are registered through
// r.Module with that id, so the attribution shows up in introspection.
//
// Apply normalizes the document first, so a hand-built Document gets the
// same defaults treatment as a loaded one. Registration stops at the first
// error; routes registered before it remain registered.
func (d *Document) Apply(r *command.Router, handlers map[string]command.Handler) error {
	if err := d.normalize(); err != nil {
		return err
	}
	if err := d.validate(); err != nil {
		return err
	}

	modules := make(map[string]*command.Module)
	for i := range d.Commands {
		cmd := &d.Commands[i]

		handler, ok := handlers[cmd.Route]
		if !ok {
			return fmt.Errorf("command %q: %w", cmd.Route, ErrMissingHandler)
		}

		params, err := cmd.parameters()
		if err != nil {
			return err
		}
		opts := []command.RouteOption{command.WithOptions(params...)}
		if cmd.AllowUnknown != nil && *cmd.AllowUnknown {
			opts = append(opts, command.WithAllowUnknown())
		}

		if cmd.Module != "" {
			m, exists := modules[cmd.Module]
			if !exists {
				m = r.Module(cmd.Module)
				modules[cmd.Module] = m
			}
			_, err = m.Register(cmd.Route, handler, opts...)
		} else {
			_, err = r.Register(cmd.Route, handler, opts...)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
