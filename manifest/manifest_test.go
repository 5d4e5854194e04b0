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

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/command"
	"rivaas.dev/command/binding"
	"rivaas.dev/command/route"
)

const yamlManifest = `
name: filetools
version: "1.0.0"
description: File management commands
defaults:
  allow_unknown: false
  case_sensitive: false
  options:
    - name: verbose
      aliases: [v]
commands:
  - route: file copy {source} {dest?}
    summary: Copy a file
  - route: file delete {path}
    module: files
    options:
      - name: force
        aliases: [f]
        arity: zero-or-one
        mode: option
        usage: skip the confirmation prompt
`

const tomlManifest = `
name = "filetools"
version = "1.0.0"
description = "File management commands"

[defaults]
allow_unknown = false
case_sensitive = false

[[defaults.options]]
name = "verbose"
aliases = ["v"]

[[commands]]
route = "file copy {source} {dest?}"
summary = "Copy a file"

[[commands]]
route = "file delete {path}"
module = "files"

[[commands.options]]
name = "force"
aliases = ["f"]
arity = "zero-or-one"
mode = "option"
usage = "skip the confirmation prompt"
`

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(yamlManifest), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "filetools", doc.Name)
	assert.Equal(t, "1.0.0", doc.Version)
	assert.Equal(t, "File management commands", doc.Description)
	require.Len(t, doc.Commands, 2)

	copyCmd := doc.Commands[0]
	assert.Equal(t, "file copy {source} {dest?}", copyCmd.Route)
	assert.Equal(t, "Copy a file", copyCmd.Summary)
	assert.Empty(t, copyCmd.Module)
	require.NotNil(t, copyCmd.AllowUnknown, "document default applies when the command is silent")
	assert.False(t, *copyCmd.AllowUnknown)
	require.Len(t, copyCmd.Options, 1, "default options apply when the command declares none")
	assert.Equal(t, "verbose", copyCmd.Options[0].Name)
	assert.Equal(t, []string{"v"}, copyCmd.Options[0].Aliases)
	require.NotNil(t, copyCmd.Options[0].CaseSensitive)
	assert.False(t, *copyCmd.Options[0].CaseSensitive)

	delCmd := doc.Commands[1]
	assert.Equal(t, "files", delCmd.Module)
	require.Len(t, delCmd.Options, 1, "declared options replace the defaults")
	force := delCmd.Options[0]
	assert.Equal(t, "force", force.Name)
	assert.Equal(t, []string{"f"}, force.Aliases)
	assert.Equal(t, "zero-or-one", force.Arity)
	assert.Equal(t, "option", force.Mode)
	assert.Equal(t, "skip the confirmation prompt", force.Usage)
	require.NotNil(t, force.CaseSensitive, "document case rule fills into command options")
	assert.False(t, *force.CaseSensitive)
}

func TestDecodeFormatsAgree(t *testing.T) {
	t.Parallel()

	fromYAML, err := Decode([]byte(yamlManifest), FormatYAML)
	require.NoError(t, err)
	fromTOML, err := Decode([]byte(tomlManifest), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML, "equivalent documents decode identically regardless of format")
}

func TestDecodeCoercesScalars(t *testing.T) {
	t.Parallel()

	src := `
name: tuner
version: 1.2
commands:
  - route: tune {profile}
    options:
      - name: level
        value_aliases:
          fast: 3
          careful: "1"
          debug: true
`
	doc, err := Decode([]byte(src), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "1.2", doc.Version, "numeric version lands as its text form")
	require.Len(t, doc.Commands, 1)
	require.Len(t, doc.Commands[0].Options, 1)
	assert.Equal(t, map[string]string{
		"fast":    "3",
		"careful": "1",
		"debug":   "true",
	}, doc.Commands[0].Options[0].ValueAliases)
}

func TestDecodeMergesDefaults(t *testing.T) {
	t.Parallel()

	src := `
defaults:
  allow_unknown: true
  case_sensitive: true
  options:
    - name: verbose
commands:
  - route: alpha {x}
  - route: beta {x}
    allow_unknown: false
  - route: gamma {x}
    options:
      - name: force
`
	doc, err := Decode([]byte(src), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Commands, 3)

	alpha := doc.Commands[0]
	require.NotNil(t, alpha.AllowUnknown)
	assert.True(t, *alpha.AllowUnknown)
	require.Len(t, alpha.Options, 1)
	assert.Equal(t, "verbose", alpha.Options[0].Name)

	beta := doc.Commands[1]
	require.NotNil(t, beta.AllowUnknown)
	assert.False(t, *beta.AllowUnknown, "an explicit false survives a true default")

	gamma := doc.Commands[2]
	require.Len(t, gamma.Options, 1, "own options replace the defaults rather than appending")
	assert.Equal(t, "force", gamma.Options[0].Name)
	require.NotNil(t, gamma.Options[0].CaseSensitive)
	assert.True(t, *gamma.Options[0].CaseSensitive, "the document case rule reaches command-declared options")
}

func TestDecodeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
		contain string
	}{
		{
			name:    "missing route",
			src:     "commands:\n  - summary: no route here\n",
			wantErr: ErrEmptyRoute,
			contain: "command 0",
		},
		{
			name:    "blank route",
			src:     "commands:\n  - route: \"   \"\n",
			wantErr: ErrEmptyRoute,
		},
		{
			name:    "unnamed option",
			src:     "commands:\n  - route: greet {name}\n    options:\n      - aliases: [v]\n",
			wantErr: ErrUnnamedOption,
			contain: `command "greet {name}"`,
		},
		{
			name:    "unknown arity",
			src:     "commands:\n  - route: greet {name}\n    options:\n      - name: shout\n        arity: twice\n",
			wantErr: ErrUnknownArity,
			contain: `option "shout"`,
		},
		{
			name:    "unknown mode",
			src:     "commands:\n  - route: greet {name}\n    options:\n      - name: shout\n        mode: sideways\n",
			wantErr: ErrUnknownMode,
			contain: `option "shout"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(tt.src), FormatYAML)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.contain != "" {
				assert.Contains(t, err.Error(), tt.contain)
			}
		})
	}
}

func TestDecodeMalformedInput(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("commands: [unclosed"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode yaml manifest")

	_, err = Decode([]byte("commands = not toml ="), FormatTOML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode toml manifest")
}

func TestDecodeUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{}"), Format("ini"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    Format
		wantErr bool
	}{
		{name: "yaml", path: "commands.yaml", want: FormatYAML},
		{name: "yml", path: "commands.yml", want: FormatYAML},
		{name: "toml", path: "commands.toml", want: FormatTOML},
		{name: "uppercase extension", path: "COMMANDS.YAML", want: FormatYAML},
		{name: "nested path", path: "/etc/app/commands.toml", want: FormatTOML},
		{name: "json unsupported", path: "commands.json", wantErr: true},
		{name: "no extension", path: "commands", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    binding.Arity
		wantErr bool
	}{
		{name: "default", in: "", want: binding.ZeroOrOne},
		{name: "zero-or-one", in: "zero-or-one", want: binding.ZeroOrOne},
		{name: "exactly-one", in: "exactly-one", want: binding.ExactlyOne},
		{name: "zero-or-more", in: "zero-or-more", want: binding.ZeroOrMore},
		{name: "one-or-more", in: "one-or-more", want: binding.OneOrMore},
		{name: "mixed case", in: "Exactly-One", want: binding.ExactlyOne},
		{name: "padded", in: "  one-or-more  ", want: binding.OneOrMore},
		{name: "unknown", in: "twice", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseArity(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownArity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    binding.Mode
		wantErr bool
	}{
		{name: "default", in: "", want: binding.ModeOption},
		{name: "option", in: "option", want: binding.ModeOption},
		{name: "positional", in: "positional", want: binding.ModePositional},
		{name: "either", in: "either", want: binding.ModeEither},
		{name: "mixed case", in: "Either", want: binding.ModeEither},
		{name: "unknown", in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(yamlManifest), FormatYAML)
	require.NoError(t, err)

	r := command.MustNew()
	err = doc.Apply(r, map[string]command.Handler{
		"file copy {source} {dest?}": "copy-handler",
		"file delete {path}":         "delete-handler",
	})
	require.NoError(t, err)

	inv, err := r.Evaluate([]string{"file", "copy", "a.txt", "b.txt", "--verbose"})
	require.NoError(t, err)
	require.True(t, inv.Matched())
	assert.Equal(t, "copy-handler", inv.Route().Handler())
	assert.Equal(t, "a.txt", inv.Bound.Value("source"))
	assert.Equal(t, "b.txt", inv.Bound.Value("dest"))
	assert.Equal(t, "true", inv.Bound.Value("verbose"), "default options are live on inheriting commands")

	inv, err = r.Evaluate([]string{"file", "delete", "old.log", "--f"})
	require.NoError(t, err)
	require.True(t, inv.Matched())
	assert.Equal(t, "delete-handler", inv.Route().Handler())
	assert.Equal(t, "true", inv.Bound.Value("force"), "aliases from the document resolve")
}

func TestApplyModuleAttribution(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(yamlManifest), FormatYAML)
	require.NoError(t, err)

	r := command.MustNew()
	err = doc.Apply(r, map[string]command.Handler{
		"file copy {source} {dest?}": "copy-handler",
		"file delete {path}":         "delete-handler",
	})
	require.NoError(t, err)

	byTemplate := make(map[string]command.RouteInfo)
	for _, info := range r.Routes() {
		byTemplate[info.Template] = info
	}
	assert.Equal(t, "files", byTemplate["file delete {path}"].Module)
	assert.Empty(t, byTemplate["file copy {source} {dest?}"].Module, "commands without a module register directly")
}

func TestApplyAllowUnknown(t *testing.T) {
	t.Parallel()

	src := `
defaults:
  allow_unknown: true
commands:
  - route: run {script}
`
	doc, err := Decode([]byte(src), FormatYAML)
	require.NoError(t, err)

	r := command.MustNew()
	err = doc.Apply(r, map[string]command.Handler{"run {script}": "run-handler"})
	require.NoError(t, err)

	inv, err := r.Evaluate([]string{"run", "build.sh", "--whatever"})
	require.NoError(t, err)
	require.True(t, inv.Matched())
	assert.Empty(t, inv.Diagnostics, "inherited allow_unknown tolerates undeclared options")
}

func TestApplyMissingHandler(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Commands: []Command{{Route: "greet {name}"}},
	}

	r := command.MustNew()
	err := doc.Apply(r, map[string]command.Handler{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingHandler)
	assert.Contains(t, err.Error(), `command "greet {name}"`)
}

func TestApplyRouteErrorsPropagate(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Commands: []Command{
			{Route: "user {id}"},
			{Route: "user {name}"},
		},
	}

	r := command.MustNew()
	err := doc.Apply(r, map[string]command.Handler{
		"user {id}":   "by-id",
		"user {name}": "by-name",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrAmbiguousRoute)

	require.Len(t, r.Routes(), 1, "commands before the failure stay registered")
}

func TestApplyHandBuiltDocument(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Defaults: Defaults{
			Options: []Option{{Name: "verbose"}},
		},
		Commands: []Command{
			{Route: "status"},
		},
	}

	r := command.MustNew()
	err := doc.Apply(r, map[string]command.Handler{"status": "status-handler"})
	require.NoError(t, err)

	inv, err := r.Evaluate([]string{"status", "--verbose"})
	require.NoError(t, err)
	require.True(t, inv.Matched())
	assert.Equal(t, "true", inv.Bound.Value("verbose"), "Apply normalizes documents built in code")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlManifest), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "filetools", doc.Name)
	require.Len(t, doc.Commands, 2)

	tomlPath := filepath.Join(dir, "commands.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlManifest), 0o600))

	fromTOML, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, doc, fromTOML)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read manifest")

	jsonPath := filepath.Join(dir, "commands.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0o600))
	_, err = Load(jsonPath)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands.yaml"), []byte(yamlManifest), 0o600))
	t.Setenv("COMMAND_MANIFEST_DIR", dir)

	doc, err := Load("$COMMAND_MANIFEST_DIR/commands.yaml")
	require.NoError(t, err)
	assert.Equal(t, "filetools", doc.Name)
}
