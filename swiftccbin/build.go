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

package swiftccbin

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/idutil"
	"shanhu.io/swiftcc"
)

const localConfigFile = "config.local.txt"

func resolvePath(wd, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(wd, p)
}

func loadConfig(wd string, opts *options) (*swiftcc.Config, error) {
	locals := []string(opts.locals)
	if len(locals) == 0 {
		locals = []string{localConfigFile}
	}
	var overrides []string
	for _, f := range locals {
		overrides = append(overrides, resolvePath(wd, f))
	}

	m, err := swiftcc.LoadLayers(
		resolvePath(wd, opts.config),
		resolvePath(wd, opts.configExample),
		overrides...,
	)
	if err != nil {
		return nil, errcode.Annotate(err, "load config")
	}
	m = m.With("CWD", wd)

	c, err := swiftcc.Expand(m)
	if err != nil {
		return nil, errcode.Annotate(err, "expand config")
	}
	return c, nil
}

// imager is an executor that runs commands in a toolchain image.
type imager interface {
	Image() *swiftcc.ImageSum
}

func logConfigDigest(c *swiftcc.Config) {
	digest, err := c.Digest()
	if err != nil {
		log.Warn().Err(err).Msg("config digest")
		return
	}
	sum := strings.TrimPrefix(digest, "sha256:")
	log.Debug().Str("digest", idutil.Short(sum)).Msg("config loaded")
}

type executorFunc func(wd string, opts *options) (
	swiftcc.Executor, func() error, error,
)

type session struct {
	wd      string
	opts    *options
	stdout  io.Writer
	newExec executorFunc
}

func (s *session) run(ctx context.Context, sources []string) error {
	opts := s.opts
	stage, err := swiftcc.ParseStage(opts.stage)
	if err != nil {
		return err
	}

	c, err := loadConfig(s.wd, opts)
	if err != nil {
		return err
	}
	logConfigDigest(c)

	swiftcc.ReportUnresolved(s.stdout, c, s.wd)

	if opts.vars {
		return c.Dump(s.stdout)
	}

	exec, done, err := s.newExec(s.wd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := done(); err != nil {
			log.Warn().Err(err).Msg("close executor")
		}
	}()

	runner := swiftcc.NewRunner(exec, &swiftcc.RunnerOptions{
		Stage:      stage,
		Verbose:    int(opts.verbose),
		StrictExit: opts.strict,
	})
	if opts.journal != "" {
		j, err := swiftcc.OpenJournal(resolvePath(s.wd, opts.journal))
		if err != nil {
			return errcode.Annotate(err, "open journal")
		}
		defer j.Close()
		log.Debug().Int64("run", j.Run()).Msg("journal opened")
		runner.AddRecorder(j)
	}

	b := swiftcc.NewBuilder(c, runner, opts.objDir)

	var link *swiftcc.LinkTarget
	if opts.x != "" {
		err = b.Exec(ctx, opts.x)
	} else {
		link = opts.link()
		err = b.Build(ctx, sources, link)
	}

	if opts.report != "" {
		s.writeReport(b, runner, c, sources, link, exec, err)
	}
	return err
}

func (s *session) writeReport(
	b *swiftcc.Builder, runner *swiftcc.Runner, c *swiftcc.Config,
	sources []string, link *swiftcc.LinkTarget, exec swiftcc.Executor,
	runErr error,
) {
	rep := swiftcc.NewReport(runner, c, link, runErr)
	if img, ok := exec.(imager); ok {
		rep.Image = img.Image()
	}
	if s.opts.x == "" {
		outs, err := b.StatOutputs(s.wd, sources, link)
		if err != nil {
			log.Warn().Err(err).Msg("stat outputs")
		}
		rep.Outputs = outs
	}

	f := resolvePath(s.wd, s.opts.report)
	if err := swiftcc.WriteReport(f, rep); err != nil {
		log.Error().Err(err).Str("file", f).Msg("write report")
	}
}

func newExecutor(wd string, opts *options) (
	swiftcc.Executor, func() error, error,
) {
	if opts.docker == "" {
		noop := func() error { return nil }
		return &swiftcc.ShellExecutor{Dir: wd}, noop, nil
	}
	e, err := swiftcc.NewContainerExecutor(
		opts.docker, wd, &swiftcc.ContainerOptions{
			Env:  []string(opts.dockerEnv),
			Pull: opts.pull,
		},
	)
	if err != nil {
		return nil, nil, errcode.Annotatef(err, "start %q", opts.docker)
	}
	return e, e.Close, nil
}

func cmdBuild(args []string) error {
	opts := new(options)
	flags := cmdFlags.New()
	declareFlags(flags, opts)
	sources := flags.ParseArgs(args)

	swiftcc.InitLogger(os.Stderr, int(opts.verbose))

	wd, err := os.Getwd()
	if err != nil {
		return errcode.Annotate(err, "get work dir")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	s := &session{
		wd:      wd,
		opts:    opts,
		stdout:  os.Stdout,
		newExec: newExecutor,
	}
	return s.run(ctx, sources)
}
