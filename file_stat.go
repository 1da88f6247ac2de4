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
	"os"
	"path/filepath"

	"shanhu.io/misc/errcode"
)

// FileStat is the state of a build output after a run.
type FileStat struct {
	Name         string
	Missing      bool  `json:",omitempty"`
	Size         int64 `json:",omitempty"`
	ModTimestamp int64 `json:",omitempty"`
	Mode         uint32
}

// StatFile stats the file p, relative to dir when p is not absolute. A
// file that does not exist is reported as missing rather than an error.
func StatFile(dir, p string) (*FileStat, error) {
	f := p
	if dir != "" && !filepath.IsAbs(p) {
		f = filepath.Join(dir, p)
	}

	info, err := os.Lstat(f)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileStat{Name: p, Missing: true}, nil
		}
		return nil, errcode.Annotatef(err, "stat %q", p)
	}

	return &FileStat{
		Name:         p,
		Size:         info.Size(),
		ModTimestamp: info.ModTime().UnixNano(),
		Mode:         uint32(info.Mode()),
	}, nil
}

// Outputs lists the files that a build of srcs is expected to produce:
// one object file per source as seen by the linker, and the link target
// when there is one.
func (b *Builder) Outputs(srcs []string, t *LinkTarget) []string {
	outs := b.env.objects(srcs)
	if t != nil {
		outs = append(outs, t.Path)
	}
	return outs
}

// StatOutputs stats all the outputs of a build, in order.
func (b *Builder) StatOutputs(dir string, srcs []string, t *LinkTarget) (
	[]*FileStat, error,
) {
	var stats []*FileStat
	for _, out := range b.Outputs(srcs, t) {
		stat, err := StatFile(dir, out)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, nil
}
