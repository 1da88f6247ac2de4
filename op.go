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
	"path/filepath"

	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
)

// Placeholder names bound per command.
const (
	BindTarget       = "TARGET"
	BindTargetFile   = "TARGET_FILE"
	BindSource       = "SOURCE"
	BindSourceFile   = "SOURCE_FILE"
	BindPrimaryFile  = "PRIMARY_FILE"
	BindSwiftSources = "SWIFT_SOURCES"
	BindObjects      = "OBJECTS"
)

// Bindings are the placeholder values of a single command.
type Bindings map[string]string

// FileBindings returns the bindings for a command that turns source into
// target.
func FileBindings(target, source string) Bindings {
	return Bindings{
		BindTarget:     target,
		BindTargetFile: filepath.Base(target),
		BindSource:     source,
		BindSourceFile: filepath.Base(source),
	}
}

// Op is a toolchain operation.
type Op int

// Toolchain operations.
const (
	OpObjC Op = iota
	OpObjCXX
	OpSwift
	OpAssemble
	OpC
	OpCXX
	OpLower
	OpLinkStatic
	OpLinkShared
	OpLinkExe
)

type opInfo struct {
	name  string
	key   string // config key of the command template
	binds []string
}

var fileBinds = []string{
	BindTarget, BindTargetFile, BindSource, BindSourceFile,
}

var linkBinds = []string{BindObjects, BindTarget}

var opInfos = map[Op]*opInfo{
	OpObjC:   {name: "objc", key: "OBJC", binds: fileBinds},
	OpObjCXX: {name: "objc++", key: "OBJC_C++", binds: fileBinds},
	OpSwift: {
		name: "swift",
		key:  "SWIFT_CC",
		binds: append([]string{
			BindPrimaryFile, BindSwiftSources,
		}, fileBinds...),
	},
	OpAssemble:   {name: "as", key: "ANDROID_AS", binds: fileBinds},
	OpC:          {name: "cc", key: "CC", binds: fileBinds},
	OpCXX:        {name: "c++", key: "CC++", binds: fileBinds},
	OpLower:      {name: "llc", key: "ANDROID_LLC", binds: fileBinds},
	OpLinkStatic: {name: "ld-lib", key: "ANDROID_LD_LIB", binds: linkBinds},
	OpLinkShared: {
		name: "ld-shared", key: "ANDROID_LD_SHARED", binds: linkBinds,
	},
	OpLinkExe: {name: "ld-exe", key: "ANDROID_LD_EXE", binds: linkBinds},
}

func (op Op) info() *opInfo {
	if info, ok := opInfos[op]; ok {
		return info
	}
	return &opInfo{name: "unknown"}
}

func (op Op) String() string { return op.info().name }

// Key returns the config key that holds the command template.
func (op Op) Key() string { return op.info().key }

// Binds returns the placeholder names the operation must be given.
func (op Op) Binds() []string {
	binds := op.info().binds
	ret := make([]string, len(binds))
	copy(ret, binds)
	return ret
}

// Synthesize renders the command of op with the given bindings. Bindings
// shadow config variables of the same name. Every binding that op
// expects must be present.
//
// When the command template is not configured, the literal template key is
// returned as the command, and the failure surfaces when it is executed.
func Synthesize(op Op, c *Config, b Bindings) (string, error) {
	info, ok := opInfos[op]
	if !ok {
		return "", errcode.InvalidArgf("unknown operation %d", int(op))
	}
	for _, name := range info.binds {
		if _, ok := b[name]; !ok {
			return "", errcode.InvalidArgf(
				"%s: missing binding %s", info.name, name,
			)
		}
	}

	if _, ok := c.Lookup(info.key); !ok {
		log.Warn().Str("op", info.name).Str("key", info.key).Msg(
			"command template not configured",
		)
	}
	return c.Get(info.key, b), nil
}
