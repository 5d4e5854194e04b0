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

package command_test

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"rivaas.dev/command"
	"rivaas.dev/command/binding"
)

// ExampleNew demonstrates creating a router and resolving a command.
func ExampleNew() {
	r, err := command.New()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	r.MustRegister("file copy {source} {dest?}", "copy-handler")

	res := r.Resolve([]string{"file", "copy", "a.txt", "b.txt"})
	fmt.Println(res.Outcome, res.Values["source"], res.Values["dest"])
	// Output: matched a.txt b.txt
}

// ExampleMustNew demonstrates creating a router that panics on error.
func ExampleMustNew() {
	r := command.MustNew()
	r.MustRegister("status", "status-handler")

	res := r.Resolve([]string{"status"})
	fmt.Println(res.Outcome)
	// Output: matched
}

// ExampleRouter_Register demonstrates registering a named route with a typed
// parameter and an option schema.
func ExampleRouter_Register() {
	r := command.MustNew()

	_, err := r.Register("user show {id:int}", "show-handler",
		command.WithName("user.show"),
		command.WithOptions(binding.Parameter{Name: "format", Aliases: []string{"f"}}),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	res := r.Resolve([]string{"user", "show", "42"})
	fmt.Println(res.Route.Name(), res.Values["id"])
	// Output: user.show 42
}

// ExampleRouter_Resolve demonstrates abbreviation matching: a prefix that
// abbreviates two literals is ambiguous, a longer prefix resolves.
func ExampleRouter_Resolve() {
	r := command.MustNew()
	r.MustRegister("file copy {source}", "copy")
	r.MustRegister("file convert {source}", "convert")

	res := r.Resolve([]string{"file", "co", "a.txt"})
	fmt.Println(res.Outcome, res.Token, res.Candidates)

	res = r.Resolve([]string{"file", "con", "a.txt"})
	fmt.Println(res.Outcome, res.Route)
	// Output:
	// ambiguous co [convert copy]
	// matched file convert {source}
}

// ExampleRouter_Evaluate demonstrates the full pipeline: command tokens
// resolve against the route graph and the remaining tokens bind against the
// route's option schema.
func ExampleRouter_Evaluate() {
	r := command.MustNew()
	r.MustRegister("file copy {source} {dest?}", "copy-handler",
		command.WithOptions(
			binding.Parameter{Name: "overwrite", ReverseAliases: []string{"keep"}},
			binding.Parameter{Name: "retries"},
		),
	)

	inv, err := r.Evaluate([]string{"file", "copy", "a.txt", "b.txt", "--retries", "3", "--keep"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(inv.Bound.Value("source"), inv.Bound.Value("dest"))
	fmt.Println(inv.Bound.Value("retries"), inv.Bound.Value("overwrite"))
	// Output:
	// a.txt b.txt
	// 3 false
}

// ExampleRouter_Module demonstrates nested registration scopes with shared
// prefixes.
func ExampleRouter_Module() {
	r := command.MustNew()

	cluster := r.Module("cluster", command.WithPrefix("cluster"))
	cluster.MustRegister("join {address}", "join-handler")

	nodes := cluster.Module("nodes", command.WithPrefix("nodes"))
	nodes.MustRegister("drain {id:int}", "drain-handler")

	res := r.Resolve([]string{"cluster", "nodes", "drain", "7"})
	fmt.Println(res.Route.Module(), res.Values["id"])
	// Output: cluster.nodes 7
}

// ExampleRouter_Invalidate demonstrates toggling a module's presence at
// runtime. The route set never changes; the resolution snapshot is rebuilt.
func ExampleRouter_Invalidate() {
	enabled := false
	r := command.MustNew()

	beta := r.Module("beta", command.WithPrefix("beta"), command.WithEnabled(func() bool { return enabled }))
	beta.MustRegister("run", "beta-run")

	res := r.Resolve([]string{"beta", "run"})
	fmt.Println(res.Outcome)

	enabled = true
	r.Invalidate()
	res = r.Resolve([]string{"beta", "run"})
	fmt.Println(res.Outcome)
	// Output:
	// not_found
	// matched
}

// ExampleRouter_At demonstrates listing the accepted tokens at a graph
// position, for shell-style completion.
func ExampleRouter_At() {
	r := command.MustNew()
	r.MustRegister("git remote add {name}", "h1")
	r.MustRegister("git remote remove {name}", "h2")
	r.MustRegister("git status", "h3")

	candidates, ok := r.At("git")
	fmt.Println(ok, candidates)

	candidates, ok = r.At("git", "remote")
	fmt.Println(ok, candidates)
	// Output:
	// true [remote status]
	// true [add remove]
}

// ExampleWithConstraint demonstrates a custom constraint backed by a real
// version parser. Custom constraints outrank every built-in kind, so the
// semver route is tried before the bare string route.
func ExampleWithConstraint() {
	isSemver := func(token string) bool {
		_, err := semver.NewVersion(token)
		return err == nil
	}

	r := command.MustNew(command.WithConstraint("semver", isSemver))
	r.MustRegister("release {version:semver}", "release-version")
	r.MustRegister("release {channel}", "release-channel")

	res := r.Resolve([]string{"release", "1.2.3"})
	fmt.Println(res.Route.Handler())

	res = r.Resolve([]string{"release", "nightly"})
	fmt.Println(res.Route.Handler())
	// Output:
	// release-version
	// release-channel
}

// ExampleRouter_Routes demonstrates route introspection.
func ExampleRouter_Routes() {
	r := command.MustNew()
	r.MustRegister("config get {key}", "h", command.WithName("config.get"))
	r.MustRegister("config set {key} {value}", "h", command.WithName("config.set"))

	for _, info := range r.Routes() {
		fmt.Println(info.Name, "=>", info.Template)
	}
	// Output:
	// config.get => config get {key}
	// config.set => config set {key} {value}
}
