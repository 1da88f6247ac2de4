package swiftcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	s := Classify([]string{"a.swift", "b.mm", "c.s", "d.cpp", "e.txt"})
	assert.Equal(t, &Sources{
		Managed:     []string{"a.swift"},
		MixedNative: []string{"b.mm"},
		Assembly:    []string{"c.s"},
		CFamily:     []string{"d.cpp"},
	}, s)
}

func TestClassifyFile(t *testing.T) {
	for _, test := range []struct {
		file string
		kind Kind
		ok   bool
	}{
		{"src/view.m", KindMixedNative, true},
		{"src/view.mm", KindMixedNative, true},
		{"main.swift", KindManaged, true},
		{"start.s", KindAssembly, true},
		{"lib.c", KindCFamily, true},
		{"lib.cpp", KindCFamily, true},
		{"lib.h", 0, false},
		{"start.S", 0, false},
		{"Makefile", 0, false},
		{"notes.swift.txt", 0, false},
	} {
		kind, ok := ClassifyFile(test.file)
		assert.Equal(t, test.ok, ok, test.file)
		if test.ok {
			assert.Equal(t, test.kind, kind, test.file)
		}
	}
}

func TestClassifyOrder(t *testing.T) {
	s := Classify([]string{"z.c", "a.cpp", "m.c"})
	assert.Equal(t, []string{"z.c", "a.cpp", "m.c"}, s.Bucket(KindCFamily))
	assert.Empty(t, s.Bucket(KindManaged))
}
