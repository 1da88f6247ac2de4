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
	"strings"

	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
	"shanhu.io/virgo/dock"
)

// ImageSum captures the ID and the digest of a toolchain image.
type ImageSum struct {
	ID     string
	Digest string `json:",omitempty"`
}

func newImageSum(info *dock.ImageInfo, repo string) *ImageSum {
	sum := &ImageSum{ID: info.ID}
	prefix := repo + "@"
	for _, d := range info.RepoDigests {
		if strings.HasPrefix(d, prefix) {
			sum.Digest = strings.TrimPrefix(d, prefix)
			break
		}
	}
	return sum
}

func imageName(repo, tag string) string {
	return fmt.Sprintf("%s:%s", repo, tag)
}

func splitImage(image string) (repo, tag string) {
	repo, tag = dock.ParseImageTag(image)
	if tag == "" {
		tag = "latest"
	}
	return repo, tag
}

// pullImage pulls the image from its registry.
func pullImage(c *dock.Client, image string) error {
	repo, tag := splitImage(image)
	log.Info().Str("image", imageName(repo, tag)).Msg("pull image")
	if err := dock.PullImage(c, repo, tag); err != nil {
		return errcode.Annotate(err, "pull image")
	}
	return nil
}

// inspectImage returns the sum of a local image.
func inspectImage(c *dock.Client, image string) (*ImageSum, error) {
	repo, tag := splitImage(image)
	info, err := dock.InspectImage(c, imageName(repo, tag))
	if err != nil {
		return nil, errcode.Annotate(err, "inspect image")
	}
	return newImageSum(info, repo), nil
}
