package swiftcc

import (
	"path"
	"path/filepath"
	"strings"
)

type env struct {
	config *Config
	runner *Runner
	objDir string // Where link steps expect object files.
}

func stem(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p))
}

func irFile(src string) string { return stem(src) + ".ir" }

func objFile(src string) string { return stem(src) + ".o" }

// obj returns the object file name of src as seen by the linker.
func (e *env) obj(src string) string {
	base := filepath.Base(objFile(src))
	if e.objDir == "" {
		return base
	}
	return path.Join(filepath.ToSlash(e.objDir), base)
}

func (e *env) objects(srcs []string) []string {
	var objs []string
	for _, src := range srcs {
		objs = append(objs, e.obj(src))
	}
	return objs
}
