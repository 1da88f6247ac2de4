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
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
)

// DefaultObjDir is the directory where link steps look for object files.
const DefaultObjDir = "obj"

// Builder compiles source files and links them, by running the commands
// configured in an expanded config.
type Builder struct {
	env     *env
	verbose int
}

// NewBuilder creates a builder that runs commands with runner. objDir is
// the directory prefix of object files passed to the linker.
func NewBuilder(c *Config, runner *Runner, objDir string) *Builder {
	return &Builder{
		env: &env{
			config: c,
			runner: runner,
			objDir: objDir,
		},
		verbose: runner.opts.Verbose,
	}
}

func (b *Builder) run(
	ctx context.Context, op Op, binds Bindings, stage Stage,
) error {
	cmd, err := Synthesize(op, b.env.config, binds)
	if err != nil {
		return err
	}
	return b.env.runner.Run(ctx, cmd, stage)
}

// lower converts the intermediate file of src into an object file.
func (b *Builder) lower(ctx context.Context, src string) error {
	binds := FileBindings(objFile(src), irFile(src))
	return b.run(ctx, OpLower, binds, StageLower)
}

func (b *Builder) logBucket(k Kind, srcs []string) {
	if b.verbose == 0 || len(srcs) == 0 {
		return
	}
	log.Info().Msgf("%s sources %d", k, len(srcs))
	for _, src := range srcs {
		log.Info().Msg(src)
	}
}

func (b *Builder) buildMixedNative(
	ctx context.Context, srcs []string,
) error {
	b.logBucket(KindMixedNative, srcs)
	for _, src := range srcs {
		log.Info().Msg(filepath.Base(src))

		op := OpObjC
		if strings.HasSuffix(src, ".mm") {
			op = OpObjCXX
		}
		binds := FileBindings(irFile(src), src)
		if err := b.run(ctx, op, binds, StageCompile); err != nil {
			return err
		}
		if err := b.lower(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

// others returns all files in srcs but src, joined with spaces.
func others(srcs []string, src string) string {
	var ret []string
	for _, s := range srcs {
		if s != src {
			ret = append(ret, s)
		}
	}
	return strings.Join(ret, " ")
}

func (b *Builder) buildManaged(ctx context.Context, srcs []string) error {
	b.logBucket(KindManaged, srcs)
	for _, src := range srcs {
		log.Info().Msg(filepath.Base(src))

		// The swift frontend compiles one primary file at a time, but
		// needs to see all the other files of the module.
		binds := FileBindings(irFile(src), src)
		binds[BindPrimaryFile] = src
		binds[BindSwiftSources] = others(srcs, src)
		if err := b.run(ctx, OpSwift, binds, StageCompile); err != nil {
			return err
		}
		if err := b.lower(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildAssembly(
	ctx context.Context, srcs []string,
) error {
	b.logBucket(KindAssembly, srcs)
	for _, src := range srcs {
		log.Info().Msg(filepath.Base(src))

		binds := FileBindings(objFile(src), src)
		if err := b.run(ctx, OpAssemble, binds, StageCompile); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildCFamily(ctx context.Context, srcs []string) error {
	b.logBucket(KindCFamily, srcs)
	for _, src := range srcs {
		log.Info().Msg(filepath.Base(src))

		op := OpC
		if strings.HasSuffix(src, ".cpp") {
			op = OpCXX
		}
		binds := FileBindings(irFile(src), src)
		if err := b.run(ctx, op, binds, StageCompile); err != nil {
			return err
		}
		if err := b.lower(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

// Compile compiles all the sources into object files, bucket by bucket.
// It stops at the first failure.
func (b *Builder) Compile(ctx context.Context, srcs *Sources) error {
	for _, bucket := range []struct {
		kind  Kind
		build func(ctx context.Context, srcs []string) error
	}{
		{KindMixedNative, b.buildMixedNative},
		{KindManaged, b.buildManaged},
		{KindAssembly, b.buildAssembly},
		{KindCFamily, b.buildCFamily},
	} {
		if err := bucket.build(ctx, srcs.Bucket(bucket.kind)); err != nil {
			return errcode.Annotatef(err, "build %s sources", bucket.kind)
		}
	}
	return nil
}

// Link links the object files of all the given sources into target.
func (b *Builder) Link(
	ctx context.Context, srcs []string, t *LinkTarget,
) error {
	op, ok := t.Mode.op()
	if !ok {
		return errcode.InvalidArgf("invalid link mode %d", int(t.Mode))
	}

	objs := strings.Join(b.env.objects(srcs), " ")
	if b.verbose > 0 {
		log.Info().Msg(objs)
	}
	binds := Bindings{
		BindObjects: objs,
		BindTarget:  t.Path,
	}
	return b.run(ctx, op, binds, StageNone)
}

// Build compiles the sources, and then links them when target is not nil.
// Files with unknown suffixes are not compiled, but still take part in
// linking.
func (b *Builder) Build(
	ctx context.Context, files []string, target *LinkTarget,
) error {
	if err := b.Compile(ctx, Classify(files)); err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := b.Link(ctx, files, target); err != nil {
		return errcode.Annotatef(err, "link %s %q", target.Mode, target.Path)
	}
	return nil
}

// Exec expands the command with the config and runs it once.
func (b *Builder) Exec(ctx context.Context, command string) error {
	cmd := b.env.config.ExpandString(command)
	return b.env.runner.Run(ctx, cmd, StageNone)
}
