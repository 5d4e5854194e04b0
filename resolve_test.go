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

package command

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, templates ...string) *Router {
	t.Helper()
	r := MustNew()
	for _, tmpl := range templates {
		_, err := r.Register(tmpl, "handler")
		require.NoError(t, err, "register %q", tmpl)
	}
	return r
}

func TestResolveOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		templates      []string
		input          []string
		outcome        Outcome
		wantRoute      string
		wantValues     map[string]string
		wantConsumed   int
		wantRest       []string
		wantToken      string
		wantCandidates []string
	}{
		{
			name:         "exact literal match",
			templates:    []string{"file copy {source} {dest?:string}"},
			input:        []string{"file", "copy", "a.txt", "b.txt"},
			outcome:      OutcomeMatched,
			wantRoute:    "file copy {source} {dest?:string}",
			wantValues:   map[string]string{"source": "a.txt", "dest": "b.txt"},
			wantConsumed: 4,
		},
		{
			name:         "trailing optional absent",
			templates:    []string{"file copy {source} {dest?:string}"},
			input:        []string{"file", "copy", "a.txt"},
			outcome:      OutcomeMatched,
			wantRoute:    "file copy {source} {dest?:string}",
			wantValues:   map[string]string{"source": "a.txt"},
			wantConsumed: 3,
		},
		{
			name:         "case-insensitive literals",
			templates:    []string{"File Copy {source}"},
			input:        []string{"FILE", "copy", "x"},
			outcome:      OutcomeMatched,
			wantRoute:    "File Copy {source}",
			wantValues:   map[string]string{"source": "x"},
			wantConsumed: 3,
		},
		{
			name:         "unique prefix abbreviation",
			templates:    []string{"config status"},
			input:        []string{"con", "stat"},
			outcome:      OutcomeMatched,
			wantRoute:    "config status",
			wantValues:   map[string]string{},
			wantConsumed: 2,
		},
		{
			name:           "ambiguous abbreviation",
			templates:      []string{"file copy {a}", "file convert {b}"},
			input:          []string{"file", "co", "x"},
			outcome:        OutcomeAmbiguous,
			wantToken:      "co",
			wantConsumed:   1,
			wantCandidates: []string{"convert", "copy"},
		},
		{
			name:         "exact match beats sibling prefix",
			templates:    []string{"stat", "status"},
			input:        []string{"stat"},
			outcome:      OutcomeMatched,
			wantRoute:    "stat",
			wantValues:   map[string]string{},
			wantConsumed: 1,
		},
		{
			name:           "prefix of both siblings is ambiguous",
			templates:      []string{"stat", "status"},
			input:          []string{"sta"},
			outcome:        OutcomeAmbiguous,
			wantToken:      "sta",
			wantConsumed:   0,
			wantCandidates: []string{"stat", "status"},
		},
		{
			name:         "literal wins over dynamic sibling",
			templates:    []string{"service list", "service {name}"},
			input:        []string{"service", "list"},
			outcome:      OutcomeMatched,
			wantRoute:    "service list",
			wantValues:   map[string]string{},
			wantConsumed: 2,
		},
		{
			name:         "dynamic catches non-literal token",
			templates:    []string{"service list", "service {name}"},
			input:        []string{"service", "api"},
			outcome:      OutcomeMatched,
			wantRoute:    "service {name}",
			wantValues:   map[string]string{"name": "api"},
			wantConsumed: 2,
		},
		{
			name:         "int wins over guid sibling",
			templates:    []string{"user {id:int}", "user {id:guid}"},
			input:        []string{"user", "42"},
			outcome:      OutcomeMatched,
			wantRoute:    "user {id:int}",
			wantValues:   map[string]string{"id": "42"},
			wantConsumed: 2,
		},
		{
			name:         "guid catches what int rejects",
			templates:    []string{"user {id:int}", "user {id:guid}"},
			input:        []string{"user", "1b4e28ba-2fa1-4d3b-a3f5-ef19d5ea3d11"},
			outcome:      OutcomeMatched,
			wantRoute:    "user {id:guid}",
			wantValues:   map[string]string{"id": "1b4e28ba-2fa1-4d3b-a3f5-ef19d5ea3d11"},
			wantConsumed: 2,
		},
		{
			name:         "int outranks long within range",
			templates:    []string{"n {v:long}", "n {v:int}"},
			input:        []string{"n", "42"},
			outcome:      OutcomeMatched,
			wantRoute:    "n {v:int}",
			wantValues:   map[string]string{"v": "42"},
			wantConsumed: 2,
		},
		{
			name:         "long catches 64-bit overflow of int",
			templates:    []string{"n {v:long}", "n {v:int}"},
			input:        []string{"n", "9999999999"},
			outcome:      OutcomeMatched,
			wantRoute:    "n {v:long}",
			wantValues:   map[string]string{"v": "9999999999"},
			wantConsumed: 2,
		},
		{
			name:         "deepest full match wins",
			templates:    []string{"file", "file copy {src}"},
			input:        []string{"file", "copy", "a"},
			outcome:      OutcomeMatched,
			wantRoute:    "file copy {src}",
			wantValues:   map[string]string{"src": "a"},
			wantConsumed: 3,
		},
		{
			name:           "shallower full match is the fallback",
			templates:      []string{"file", "file copy {src}"},
			input:          []string{"file", "weird"},
			outcome:        OutcomeMatched,
			wantRoute:      "file",
			wantValues:     map[string]string{},
			wantConsumed:   1,
			wantRest:       []string{"weird"},
			wantCandidates: []string{"copy"},
		},
		{
			name:           "valid prefix without a route is partial",
			templates:      []string{"file copy {src} {dst}"},
			input:          []string{"file", "copy"},
			outcome:        OutcomePartial,
			wantConsumed:   2,
			wantCandidates: []string{"{src}"},
		},
		{
			name:           "empty input lists root candidates",
			templates:      []string{"file copy", "config status"},
			input:          []string{},
			outcome:        OutcomePartial,
			wantConsumed:   0,
			wantCandidates: []string{"config", "file"},
		},
		{
			name:      "unknown first token",
			templates: []string{"file copy"},
			input:     []string{"nope"},
			outcome:   OutcomeNotFound,
			wantToken: "nope",
		},
		{
			name:         "all-optional route matches empty input",
			templates:    []string{"{what?}"},
			input:        []string{},
			outcome:      OutcomeMatched,
			wantRoute:    "{what?}",
			wantValues:   map[string]string{},
			wantConsumed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(t, tt.templates...)
			res := r.Resolve(tt.input)

			require.Equal(t, tt.outcome, res.Outcome, "outcome for %v", tt.input)
			switch tt.outcome {
			case OutcomeMatched:
				require.NotNil(t, res.Route)
				assert.Equal(t, tt.wantRoute, res.Route.String())
				assert.Equal(t, tt.wantValues, res.Values)
				assert.Equal(t, tt.wantConsumed, res.Consumed)
				if tt.wantRest == nil {
					assert.Empty(t, res.Rest)
				} else {
					assert.Equal(t, tt.wantRest, res.Rest)
				}
				if tt.wantCandidates != nil {
					assert.Equal(t, tt.wantCandidates, res.Candidates)
				}
			case OutcomePartial:
				assert.Nil(t, res.Route)
				assert.Equal(t, tt.wantConsumed, res.Consumed)
				assert.Equal(t, tt.wantCandidates, res.Candidates)
			case OutcomeAmbiguous:
				assert.Nil(t, res.Route)
				assert.Equal(t, tt.wantToken, res.Token)
				assert.Equal(t, tt.wantConsumed, res.Consumed)
				assert.Equal(t, tt.wantCandidates, res.Candidates)
			case OutcomeNotFound:
				assert.Nil(t, res.Route)
				assert.Equal(t, tt.wantToken, res.Token)
			}
		})
	}
}

func TestResolveCustomConstraintOutranksBuiltins(t *testing.T) {
	t.Parallel()

	r := MustNew(WithConstraint("even", func(tok string) bool {
		n, err := strconv.Atoi(tok)
		return err == nil && n%2 == 0
	}))
	r.MustRegister("pick {n:int}", "int-handler")
	r.MustRegister("pick {n:even}", "even-handler")

	res := r.Resolve([]string{"pick", "4"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "even-handler", res.Route.Handler(), "custom constraint wins on acceptance")

	res = r.Resolve([]string{"pick", "3"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "int-handler", res.Route.Handler(), "built-in catches what the custom rejects")
}

func TestResolveCommitsToHighestSpecificity(t *testing.T) {
	t.Parallel()

	// "42" is consumed by the int branch; when that branch dies one token
	// later the resolver does not back up and retry the string branch.
	r := newTestRouter(t, "job {id:int} cancel", "job {name} logs")

	res := r.Resolve([]string{"job", "42", "logs"})
	require.Equal(t, OutcomePartial, res.Outcome)
	assert.Equal(t, 2, res.Consumed)
	assert.Equal(t, []string{"cancel"}, res.Candidates)

	res = r.Resolve([]string{"job", "api", "logs"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "job {name} logs", res.Route.String())
}

func TestResolveValuesKeepRawTokens(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, "greet {name}")

	res := r.Resolve([]string{"GREET", "Bob"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "Bob", res.Values["name"], "parameter values are never folded")

	res = r.Resolve([]string{"gr", "McSHANE"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "McSHANE", res.Values["name"], "abbreviation substitution only affects literals")
}

func TestResolveMatchedCandidatesListDeeperCommands(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, "git remote", "git remote add {name}", "git remote remove {name}")

	res := r.Resolve([]string{"git", "remote"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "git remote", res.Route.String())
	assert.Equal(t, []string{"add", "remove"}, res.Candidates)
}

func TestResolveEmptyTokenMatchesStringParameter(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, "echo {text}")

	res := r.Resolve([]string{"echo", ""})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "", res.Values["text"])
}

func TestAt(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t,
		"git remote add {name}",
		"git remote remove {name}",
		"git rebase {branch}",
		"git status",
		"config {key} {value?}",
	)

	tests := []struct {
		name   string
		prefix []string
		want   []string
		ok     bool
	}{
		{"root", nil, []string{"config", "git"}, true},
		{"one literal deep", []string{"git"}, []string{"rebase", "remote", "status"}, true},
		{"two literals deep", []string{"git", "remote"}, []string{"add", "remove"}, true},
		{"abbreviated prefix", []string{"g", "rem"}, []string{"add", "remove"}, true},
		{"parameter position", []string{"git", "remote", "add"}, []string{"{name}"}, true},
		{"through a parameter", []string{"config", "retries"}, []string{"{value?}"}, true},
		{"ambiguous step", []string{"git", "re"}, nil, false},
		{"unknown step", []string{"svn"}, nil, false},
		{"leaf has no candidates", []string{"git", "status"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := r.At(tt.prefix...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConcurrent(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t,
		"file copy {source} {dest?}",
		"file move {source} {dest}",
		"status",
	)
	r.Warmup()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				res := r.Resolve([]string{"file", "copy", "a", "b"})
				assert.Equal(t, OutcomeMatched, res.Outcome)
				assert.Equal(t, "a", res.Values["source"])
			}
		}()
	}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Invalidate()
			}
		}()
	}
	wg.Wait()
}
