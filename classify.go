package swiftcc

import (
	"strings"
)

// Kind is the kind of a source file. It decides the toolchain that
// compiles it.
type Kind int

// Source kinds.
const (
	KindMixedNative Kind = iota // Objective-C and Objective-C++
	KindManaged                 // Swift
	KindAssembly
	KindCFamily // C and C++
)

func (k Kind) String() string {
	switch k {
	case KindMixedNative:
		return "objc"
	case KindManaged:
		return "swift"
	case KindAssembly:
		return "asm"
	case KindCFamily:
		return "c"
	}
	return "unknown"
}

// ClassifyFile returns the kind of a source file by its suffix.
func ClassifyFile(p string) (Kind, bool) {
	switch {
	case strings.HasSuffix(p, ".swift"):
		return KindManaged, true
	case strings.HasSuffix(p, ".m"), strings.HasSuffix(p, ".mm"):
		return KindMixedNative, true
	case strings.HasSuffix(p, ".s"):
		return KindAssembly, true
	case strings.HasSuffix(p, ".c"), strings.HasSuffix(p, ".cpp"):
		return KindCFamily, true
	}
	return 0, false
}

// Sources are the input files grouped by kind, in input order.
type Sources struct {
	MixedNative []string
	Managed     []string
	Assembly    []string
	CFamily     []string
}

// Classify groups files by kind. Files of unknown kinds are dropped.
func Classify(files []string) *Sources {
	s := new(Sources)
	for _, f := range files {
		k, ok := ClassifyFile(f)
		if !ok {
			continue
		}
		switch k {
		case KindMixedNative:
			s.MixedNative = append(s.MixedNative, f)
		case KindManaged:
			s.Managed = append(s.Managed, f)
		case KindAssembly:
			s.Assembly = append(s.Assembly, f)
		case KindCFamily:
			s.CFamily = append(s.CFamily, f)
		}
	}
	return s
}

// Bucket returns the files of a kind.
func (s *Sources) Bucket(k Kind) []string {
	switch k {
	case KindMixedNative:
		return s.MixedNative
	case KindManaged:
		return s.Managed
	case KindAssembly:
		return s.Assembly
	case KindCFamily:
		return s.CFamily
	}
	return nil
}
