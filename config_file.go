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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonx"
	"shanhu.io/misc/osutil"
	"shanhu.io/text/lexing"
)

type configLine struct {
	line int // first physical line
	text string
}

// readLogicalLines reads lines from r, joining lines that end with a
// backslash with the line that follows.
func readLogicalLines(r io.Reader) ([]*configLine, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []*configLine
	var cur *configLine
	n := 0
	for s.Scan() {
		n++
		text := strings.TrimSuffix(s.Text(), "\r")
		if cur == nil {
			cur = &configLine{line: n}
		}
		if strings.HasSuffix(text, `\`) {
			cur.text += strings.TrimSuffix(text, `\`)
			continue
		}
		cur.text += text
		lines = append(lines, cur)
		cur = nil
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if cur != nil { // dangling continuation at EOF
		lines = append(lines, cur)
	}
	return lines, nil
}

// ParseConfig parses a text config layer. file is only used for
// positions in errors and diagnostics.
func ParseConfig(file string, r io.Reader) (*ConfigMap, error) {
	lines, err := readLogicalLines(r)
	if err != nil {
		return nil, errcode.Annotatef(err, "read %q", file)
	}

	m := NewConfigMap()
	errList := lexing.NewErrorList()
	for _, line := range lines {
		if strings.TrimSpace(line.text) == "" {
			continue
		}
		if strings.HasPrefix(line.text, "#") {
			continue
		}

		pos := &lexing.Pos{File: file, Line: line.line, Col: 1}
		name, value, _ := strings.Cut(line.text, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			errList.Errorf(pos, "variable name is empty")
			continue
		}
		m.set(&Var{
			Name:  name,
			Value: strings.Join(strings.Fields(value), " "),
			Pos:   pos,
		})
	}

	if errs := errList.Errs(); errs != nil {
		return nil, errs[0]
	}
	return m, nil
}

func structuredValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case []interface{}:
		var parts []string
		for _, item := range v {
			parts = append(parts, structuredValue(item))
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(v, " ")
	}
	return fmt.Sprint(v)
}

func mapFromStructured(raw map[string]interface{}) *ConfigMap {
	var names []string
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	m := NewConfigMap()
	for _, name := range names {
		m.set(&Var{
			Name:  name,
			Value: strings.Join(strings.Fields(structuredValue(raw[name])), " "),
		})
	}
	return m
}

func loadTOML(p string) (*ConfigMap, error) {
	raw := make(map[string]interface{})
	if _, err := toml.DecodeFile(p, &raw); err != nil {
		return nil, err
	}
	return mapFromStructured(raw), nil
}

func loadJSONX(p string) (*ConfigMap, error) {
	raw := make(map[string]interface{})
	if err := jsonx.ReadFile(p, &raw); err != nil {
		return nil, err
	}
	return mapFromStructured(raw), nil
}

func loadText(p string) (*ConfigMap, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseConfig(p, f)
}

// LoadConfig reads a config layer from p. The format is picked by the
// file extension: ".toml", ".jsonx", and the text format for anything
// else. A path that cannot be read returns a not-found error; see
// IsConfigNotFound.
func LoadConfig(p string) (*ConfigMap, error) {
	isFile, err := osutil.IsRegular(p)
	if err != nil || !isFile {
		return nil, errcode.NotFoundf("config %q not readable", p)
	}

	log.Debug().Str("file", p).Msg("parsing config")

	switch filepath.Ext(p) {
	case ".toml":
		m, err := loadTOML(p)
		if err != nil {
			return nil, errcode.Annotatef(err, "parse toml %q", p)
		}
		return m, nil
	case ".jsonx":
		m, err := loadJSONX(p)
		if err != nil {
			return nil, errcode.Annotatef(err, "parse jsonx %q", p)
		}
		return m, nil
	}

	m, err := loadText(p)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, errcode.NotFoundf("config %q not readable", p)
		}
		return nil, err
	}
	return m, nil
}

// IsConfigNotFound checks if the error is returned because a config file
// cannot be read.
func IsConfigNotFound(err error) bool { return errcode.IsNotFound(err) }

// LoadLayers loads the primary config, falling back to fallback when the
// primary cannot be read, and merges in every override that exists as a
// regular file. Later overrides shadow earlier ones.
func LoadLayers(primary, fallback string, overrides ...string) (
	*ConfigMap, error,
) {
	m, err := LoadConfig(primary)
	if err != nil {
		if !IsConfigNotFound(err) || fallback == "" {
			return nil, err
		}
		log.Debug().Err(err).Str("fallback", fallback).Msg("use fallback")
		fb, err := LoadConfig(fallback)
		if err != nil {
			return nil, errcode.Annotate(err, "load fallback config")
		}
		m = fb
	}

	for _, o := range overrides {
		if o == "" {
			continue
		}
		ok, err := osutil.IsRegular(o)
		if err != nil || !ok {
			continue
		}
		layer, err := LoadConfig(o)
		if err != nil {
			return nil, errcode.Annotatef(err, "load override %q", o)
		}
		m = m.Merge(layer)
	}
	return m, nil
}
