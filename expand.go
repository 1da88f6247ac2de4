// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package swiftcc

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"shanhu.io/text/lexing"
)

var placeholderRE = regexp.MustCompile(`\$\(([^)]*)\)`)

// placeholders returns the names referenced in s, in order of appearance.
func placeholders(s string) []string {
	var names []string
	for _, m := range placeholderRE.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

// substitute replaces every $(NAME) in s for which lookup returns true.
// Other references are left as they are.
func substitute(s string, lookup func(name string) (string, bool)) string {
	return placeholderRE.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[2 : len(ref)-1]
		if v, ok := lookup(name); ok {
			return v
		}
		return ref
	})
}

// CyclicPlaceholderError is returned when variables refer to each other
// in a loop, and hence can never be fully expanded.
type CyclicPlaceholderError struct {
	Chain []string
	Pos   *lexing.Pos
}

func (e *CyclicPlaceholderError) Error() string {
	var refs []string
	for _, name := range e.Chain {
		refs = append(refs, "$("+name+")")
	}
	msg := fmt.Sprintf("cyclic placeholder: %s", strings.Join(refs, " -> "))
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}

// IsCyclicPlaceholder checks if the error is a CyclicPlaceholderError.
func IsCyclicPlaceholder(err error) bool {
	var e *CyclicPlaceholderError
	return errors.As(err, &e)
}

// Config is a fully expanded configuration. It is read-only.
type Config struct {
	names      []string // sorted
	vars       map[string]string
	pos        map[string]*lexing.Pos
	intrinsics []string
}

type expander struct {
	m      *ConfigMap
	done   map[string]string
	tracer *expandTracer
}

func (x *expander) resolve(name string) (string, error) {
	if v, ok := x.done[name]; ok {
		return v, nil
	}
	if !x.tracer.push(name) {
		return "", &CyclicPlaceholderError{
			Chain: x.tracer.cycle(name),
			Pos:   x.m.vars[name].Pos,
		}
	}
	defer x.tracer.pop()

	var err error
	v := substitute(x.m.vars[name].Value, func(ref string) (string, bool) {
		if err != nil || !x.m.has(ref) {
			return "", false
		}
		s, e := x.resolve(ref)
		if e != nil {
			err = e
			return "", false
		}
		return s, true
	})
	if err != nil {
		return "", err
	}

	x.done[name] = v
	log.Trace().Str("var", name).Str("value", v).Msg("expand")
	return v, nil
}

// Expand resolves all the placeholders in m that refer to variables
// defined in m. References to undefined names are kept verbatim, and can
// be listed with Unresolved. After expansion, the value of
// INTRINSIC_SYMBOLS is split into the intrinsic symbol list.
func Expand(m *ConfigMap) (*Config, error) {
	x := &expander{
		m:      m,
		done:   make(map[string]string),
		tracer: newExpandTracer(),
	}

	c := &Config{
		vars: make(map[string]string),
		pos:  make(map[string]*lexing.Pos),
	}
	for _, name := range m.names {
		v, err := x.resolve(name)
		if err != nil {
			return nil, err
		}
		c.vars[name] = v
		c.pos[name] = m.vars[name].Pos
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	if v, ok := c.vars[IntrinsicSymbols]; ok {
		c.intrinsics = strings.Fields(v)
	}
	return c, nil
}

// ConfigMap converts an expanded config back into a config map, so that
// it can be expanded again.
func (c *Config) ConfigMap() *ConfigMap {
	m := NewConfigMap()
	for _, name := range c.names {
		m.set(&Var{Name: name, Value: c.vars[name], Pos: c.pos[name]})
	}
	return m
}

// Names returns all variable names, sorted.
func (c *Config) Names() []string {
	ret := make([]string, len(c.names))
	copy(ret, c.names)
	return ret
}

// Intrinsics returns the intrinsic symbol list.
func (c *Config) Intrinsics() []string {
	ret := make([]string, len(c.intrinsics))
	copy(ret, c.intrinsics)
	return ret
}

// Lookup returns the expanded value of a variable.
func (c *Config) Lookup(name string) (string, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Get returns the value of name, looked up first in extra and then in the
// config, with one pass of placeholder substitution against extra and the
// config.
//
// When name is not defined anywhere, Get returns name itself. Callers use
// this to pass an unconfigured template through as a visibly broken
// command instead of failing early.
func (c *Config) Get(name string, extra Bindings) string {
	v, ok := extra[name]
	if !ok {
		v, ok = c.vars[name]
	}
	if !ok {
		return name
	}
	return c.substitute(v, extra)
}

func (c *Config) substitute(s string, extra Bindings) string {
	return substitute(s, func(name string) (string, bool) {
		if v, ok := extra[name]; ok {
			return v, true
		}
		v, ok := c.vars[name]
		return v, ok
	})
}

// ExpandString substitutes the placeholders in s with config values.
func (c *Config) ExpandString(s string) string {
	return c.substitute(s, nil)
}

// Dump prints all variables, sorted by name.
func (c *Config) Dump(w io.Writer) error {
	for _, name := range c.names {
		if _, err := fmt.Fprintf(
			w, "var: %s => %s\n", name, c.vars[name],
		); err != nil {
			return err
		}
	}
	return nil
}
