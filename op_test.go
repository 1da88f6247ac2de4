package swiftcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToolchain = `
INTRINSIC_SYMBOLS = TARGET TARGET_FILE SOURCE SOURCE_FILE \
	PRIMARY_FILE SWIFT_SOURCES OBJECTS
NDK = /opt/ndk
OBJC = $(NDK)/clang -x objective-c -o $(TARGET) $(SOURCE)
OBJC_C++ = $(NDK)/clang -x objective-c++ -o $(TARGET) $(SOURCE)
SWIFT_CC = swiftc -frontend -primary-file $(PRIMARY_FILE) \
	$(SWIFT_SOURCES) -o $(TARGET)
ANDROID_AS = $(NDK)/as -o obj/$(TARGET_FILE) $(SOURCE)
CC = $(NDK)/clang -o $(TARGET) $(SOURCE)
CC++ = $(NDK)/clang++ -o $(TARGET) $(SOURCE)
ANDROID_LLC = llc -filetype=obj -o obj/$(TARGET_FILE) $(SOURCE)
ANDROID_LD_LIB = ar rcs $(TARGET) $(OBJECTS)
ANDROID_LD_SHARED = ld -shared -o $(TARGET) $(OBJECTS)
ANDROID_LD_EXE = ld -o $(TARGET) $(OBJECTS)
`

func TestSynthesizeSwift(t *testing.T) {
	c := expandString(t, testToolchain)
	b := FileBindings("src/x.ir", "src/x.swift")
	b[BindPrimaryFile] = "src/x.swift"
	b[BindSwiftSources] = "src/y.swift"

	cmd, err := Synthesize(OpSwift, c, b)
	require.NoError(t, err)
	assert.Equal(
		t,
		"swiftc -frontend -primary-file src/x.swift src/y.swift -o src/x.ir",
		cmd,
	)
}

func TestSynthesizeFileName(t *testing.T) {
	c := expandString(t, testToolchain)
	cmd, err := Synthesize(OpLower, c, FileBindings("src/a.o", "src/a.ir"))
	require.NoError(t, err)
	assert.Equal(t, "llc -filetype=obj -o obj/a.o src/a.ir", cmd)
}

func TestSynthesizeMissingTemplate(t *testing.T) {
	c := expandString(t, "NDK = /opt/ndk\n")
	cmd, err := Synthesize(OpCXX, c, FileBindings("a.ir", "a.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "CC++", cmd)
}

func TestSynthesizeMissingBinding(t *testing.T) {
	c := expandString(t, testToolchain)
	_, err := Synthesize(OpSwift, c, FileBindings("a.ir", "a.swift"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIMARY_FILE")

	_, err = Synthesize(OpLinkExe, c, Bindings{BindObjects: "obj/a.o"})
	require.Error(t, err)

	_, err = Synthesize(Op(100), c, nil)
	require.Error(t, err)
}

func TestOpKeys(t *testing.T) {
	for op, key := range map[Op]string{
		OpObjC:       "OBJC",
		OpObjCXX:     "OBJC_C++",
		OpSwift:      "SWIFT_CC",
		OpAssemble:   "ANDROID_AS",
		OpC:          "CC",
		OpCXX:        "CC++",
		OpLower:      "ANDROID_LLC",
		OpLinkStatic: "ANDROID_LD_LIB",
		OpLinkShared: "ANDROID_LD_SHARED",
		OpLinkExe:    "ANDROID_LD_EXE",
	} {
		assert.Equal(t, key, op.Key(), op.String())
	}
}

func TestToolchainResolved(t *testing.T) {
	c := expandString(t, testToolchain)
	assert.Empty(t, c.Unresolved())
}
