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
	"fmt"
	"io"

	"shanhu.io/misc/strutil"
	"shanhu.io/text/lexing"
)

// Unresolved is a placeholder name that is still referenced after
// expansion, and is neither defined nor an intrinsic symbol.
type Unresolved struct {
	Name string
	Var  string      // First variable (by name) that references it.
	Pos  *lexing.Pos // Where Var is defined.
}

// Unresolved lists the unresolved placeholder names, sorted by name.
func (c *Config) Unresolved() []*Unresolved {
	intrinsic := strutil.MakeSet(c.intrinsics)

	found := make(map[string]*Unresolved)
	for _, name := range c.names {
		if name == IntrinsicSymbols {
			continue
		}
		for _, ref := range placeholders(c.vars[name]) {
			if intrinsic[ref] {
				continue
			}
			if _, ok := found[ref]; ok {
				continue
			}
			found[ref] = &Unresolved{
				Name: ref,
				Var:  name,
				Pos:  c.pos[name],
			}
		}
	}

	names := make(map[string]bool)
	for name := range found {
		names[name] = true
	}
	var ret []*Unresolved
	for _, name := range strutil.SortedList(names) {
		ret = append(ret, found[name])
	}
	return ret
}

// ReportUnresolved prints one line for each unresolved placeholder name.
// Positions are printed relative to wd. It returns the number of names
// reported.
func ReportUnresolved(w io.Writer, c *Config, wd string) int {
	list := c.Unresolved()
	if len(list) == 0 {
		return 0
	}

	errs := lexing.NewErrorList()
	for _, u := range list {
		errs.Add(&lexing.Error{
			Pos: u.Pos,
			Err: fmt.Errorf("unresolved symbol %s", u.Name),
		})
	}
	lexing.FprintErrs(w, errs.Errs(), wd)
	return len(list)
}
