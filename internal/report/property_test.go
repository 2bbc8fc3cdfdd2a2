package report

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// environmentGenerator draws an Environment where each source is
// independently present or absent.
func environmentGenerator() *rapid.Generator[Environment] {
	return rapid.Custom(func(t *rapid.T) Environment {
		src := func(label string) map[string]any {
			if !rapid.Bool().Draw(t, label) {
				return nil
			}
			return map[string]any{label + "_VAR": rapid.StringMatching(`[A-Za-z0-9]{0,8}`).Draw(t, label+"_value")}
		}
		return Environment{
			Server:  src("server"),
			Get:     src("get"),
			Post:    src("post"),
			Files:   src("files"),
			Cookie:  src("cookie"),
			Session: src("session"),
			Request: src("request"),
			Env:     src("env"),
		}
	})
}

func present(env Environment) []string {
	var names []string
	for i, m := range []map[string]any{env.Server, env.Get, env.Post, env.Files, env.Cookie, env.Session, env.Request, env.Env} {
		if m != nil {
			names = append(names, EnvironmentSections[i])
		}
	}
	return names
}

func TestReport_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := environmentGenerator().Draw(t, "env")

		var opts []Option
		hasErr := rapid.Bool().Draw(t, "hasError")
		kind := rapid.SampledFrom([]Kind{KindException, KindError}).Draw(t, "kind")
		if hasErr {
			opts = append(opts, WithError(ErrorDescriptor{Kind: kind, Class: "E", Message: "m"}))
		}
		// Option order must not matter.
		opts = append(opts, WithEnvironment(env))
		if rapid.Bool().Draw(t, "reverse") {
			slices.Reverse(opts)
		}

		r := New(opts...)

		adds := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}), 0, 10).Draw(t, "adds")
		var wantUser []string
		for i, name := range adds {
			if !slices.Contains(wantUser, name) {
				wantUser = append(wantUser, name)
			}
			r.Add(name, i)
		}

		var want []string
		if hasErr {
			want = append(want, string(kind))
		}
		want = append(want, wantUser...)
		want = append(want, present(env)...)

		var got []string
		for _, s := range r.Sections() {
			got = append(got, s.Name)
		}
		if !slices.Equal(want, got) {
			t.Fatalf("section order = %v, want %v", got, want)
		}

		out := r.Render()
		if out != r.Render() {
			t.Fatalf("render is not idempotent")
		}
		if len(want) == 0 && out != "" {
			t.Fatalf("empty report rendered %q", out)
		}
		for _, name := range EnvironmentSections {
			n := strings.Count(out, fmt.Sprintf(" %s\n", name))
			if slices.Contains(want, name) != (n == 1) {
				t.Fatalf("section %s appears %d times, present=%v", name, n, slices.Contains(want, name))
			}
		}
	})
}
