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

	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
	"shanhu.io/virgo/dock"
)

// contWorkDir is where the host working directory is mounted.
const contWorkDir = "/work"

// ContainerExecutor runs commands inside a docker container, with the
// host working directory mounted at the same place for every command.
// The image must keep running on its own after it starts.
type ContainerExecutor struct {
	client *dock.Client
	cont   *dock.Cont
	env    []string
	image  *ImageSum
}

// ContainerOptions are the options to start a toolchain container.
type ContainerOptions struct {
	Env  []string // Extra environment variables of the commands.
	Pull bool     // Pull the image before creating the container.
}

// NewContainerExecutor creates and starts a container from image, with
// workDir mounted read-write as the working directory of all commands.
func NewContainerExecutor(image, workDir string, opts *ContainerOptions) (
	*ContainerExecutor, error,
) {
	if opts == nil {
		opts = new(ContainerOptions)
	}
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, errcode.Annotate(err, "get absolute work dir")
	}

	client := dock.NewUnixClient("")
	if opts.Pull {
		if err := pullImage(client, image); err != nil {
			return nil, err
		}
	}
	sum, err := inspectImage(client, image)
	if err != nil {
		return nil, err
	}

	config := &dock.ContConfig{
		Mounts: []*dock.ContMount{{
			Host: absDir,
			Cont: contWorkDir,
		}},
	}
	cont, err := dock.CreateCont(client, image, config)
	if err != nil {
		return nil, errcode.Annotate(err, "create container")
	}
	if err := cont.Start(); err != nil {
		cont.Drop()
		return nil, errcode.Annotate(err, "start container")
	}

	log.Debug().Str("image", sum.ID).Str("dir", absDir).Msg(
		"toolchain container started",
	)
	return &ContainerExecutor{
		client: client,
		cont:   cont,
		env:    opts.Env,
		image:  sum,
	}, nil
}

// Image returns the sum of the image that the container runs.
func (e *ContainerExecutor) Image() *ImageSum { return e.image }

// Exec runs the command with sh inside the container. The context is
// only checked before the command starts.
func (e *ContainerExecutor) Exec(ctx context.Context, line string) (
	int, error,
) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	return e.cont.ExecWithSetup(&dock.ExecSetup{
		Cmd:        []string{"/bin/sh", "-c", line},
		Env:        e.env,
		WorkingDir: contWorkDir,
	})
}

// Close stops and removes the container.
func (e *ContainerExecutor) Close() error {
	return e.cont.Drop()
}
