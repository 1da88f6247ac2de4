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
	"shanhu.io/text/lexing"
)

// IntrinsicSymbols is the reserved key that lists placeholder names that
// are always considered resolvable, such as the per-command bindings.
const IntrinsicSymbols = "INTRINSIC_SYMBOLS"

// Var is a variable definition in a config layer.
type Var struct {
	Name  string
	Value string
	Pos   *lexing.Pos // Where it is defined; nil for structured layers.
}

// ConfigMap is an ordered set of unexpanded variable definitions. A
// ConfigMap is never modified after it is built; Merge and With return
// new maps.
type ConfigMap struct {
	names []string
	vars  map[string]*Var
}

// NewConfigMap creates an empty config map.
func NewConfigMap() *ConfigMap {
	return &ConfigMap{vars: make(map[string]*Var)}
}

func (m *ConfigMap) set(v *Var) {
	if _, ok := m.vars[v.Name]; !ok {
		m.names = append(m.names, v.Name)
	}
	m.vars[v.Name] = v
}

func (m *ConfigMap) clone() *ConfigMap {
	ret := &ConfigMap{
		names: make([]string, len(m.names)),
		vars:  make(map[string]*Var, len(m.vars)),
	}
	copy(ret.names, m.names)
	for k, v := range m.vars {
		ret.vars[k] = v
	}
	return ret
}

// Len returns the number of variables.
func (m *ConfigMap) Len() int { return len(m.names) }

// Names returns the variable names in definition order.
func (m *ConfigMap) Names() []string {
	ret := make([]string, len(m.names))
	copy(ret, m.names)
	return ret
}

// Var returns the definition of a variable, or nil if it is not defined.
func (m *ConfigMap) Var(name string) *Var { return m.vars[name] }

// Value returns the raw, unexpanded value of a variable.
func (m *ConfigMap) Value(name string) (string, bool) {
	v, ok := m.vars[name]
	if !ok {
		return "", false
	}
	return v.Value, true
}

func (m *ConfigMap) has(name string) bool {
	_, ok := m.vars[name]
	return ok
}

// Merge returns a new map that holds all variables of m and other. On
// conflict, the definition in other wins.
func (m *ConfigMap) Merge(other *ConfigMap) *ConfigMap {
	ret := m.clone()
	if other == nil {
		return ret
	}
	for _, name := range other.names {
		ret.set(other.vars[name])
	}
	return ret
}

// With returns a new map with name set to value.
func (m *ConfigMap) With(name, value string) *ConfigMap {
	ret := m.clone()
	ret.set(&Var{Name: name, Value: value})
	return ret
}
