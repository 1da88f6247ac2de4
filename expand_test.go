package swiftcc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandString(t *testing.T, s string) *Config {
	t.Helper()
	c, err := Expand(parseString(t, s))
	require.NoError(t, err)
	return c
}

func TestExpand(t *testing.T) {
	c := expandString(t, "A = 1\nB = $(A)2\n")
	b, ok := c.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, "12", b)
}

func TestExpandChain(t *testing.T) {
	c := expandString(t, `
CC = $(BIN)/clang $(CFLAGS)
BIN = $(NDK)/bin
NDK = /opt/ndk
CFLAGS = -I$(NDK)/include -o $(TARGET)
`)
	cc, _ := c.Lookup("CC")
	assert.Equal(t, "/opt/ndk/bin/clang -I/opt/ndk/include -o $(TARGET)", cc)
	assert.Equal(t, []string{"BIN", "CC", "CFLAGS", "NDK"}, c.Names())
}

func TestExpandIdempotent(t *testing.T) {
	c := expandString(t, `
A = 1
B = $(A) $(A)
C = $(B) $(UNKNOWN) $(A)
INTRINSIC_SYMBOLS = TARGET $(A)
`)
	again, err := Expand(c.ConfigMap())
	require.NoError(t, err)

	for _, name := range c.Names() {
		want, _ := c.Lookup(name)
		got, ok := again.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	assert.Equal(t, c.Intrinsics(), again.Intrinsics())
}

func TestExpandCycle(t *testing.T) {
	for _, test := range []struct {
		config string
		chain  []string
	}{
		{"A = $(B)\nB = $(A)\n", []string{"A", "B", "A"}},
		{"A = $(A) -O2\n", []string{"A", "A"}},
		{"X = $(A)\nA = x$(B)\nB = $(C)\nC = $(A)\n", []string{
			"A", "B", "C", "A",
		}},
	} {
		_, err := Expand(parseString(t, test.config))
		require.Error(t, err, test.config)
		assert.True(t, IsCyclicPlaceholder(err), test.config)

		cycle := err.(*CyclicPlaceholderError)
		assert.Equal(t, test.chain, cycle.Chain, test.config)
		assert.Contains(t, err.Error(), "cyclic placeholder")
	}
}

func TestExpandIntrinsics(t *testing.T) {
	c := expandString(t, "T = TARGET\nINTRINSIC_SYMBOLS = $(T)  SOURCE\n")
	assert.Equal(t, []string{"TARGET", "SOURCE"}, c.Intrinsics())
}

func TestGet(t *testing.T) {
	c := expandString(t, `
NDK = /opt/ndk
CC = $(NDK)/clang -o $(TARGET) $(SOURCE)
`)

	assert.Equal(t, "NOT_THERE", c.Get("NOT_THERE", nil))
	assert.Equal(t, "OBJC", c.Get("OBJC", Bindings{"TARGET": "a.ir"}))

	got := c.Get("CC", Bindings{"TARGET": "a.ir", "SOURCE": "a.c"})
	assert.Equal(t, "/opt/ndk/clang -o a.ir a.c", got)

	// Bindings shadow config values.
	got = c.Get("CC", Bindings{
		"NDK": "/ndk", "TARGET": "b.ir", "SOURCE": "b.c",
	})
	assert.Equal(t, "/opt/ndk/clang -o b.ir b.c", got)
	got = c.Get("X", Bindings{"X": "$(NDK):$(Y)", "NDK": "/ndk"})
	assert.Equal(t, "/ndk:$(Y)", got)

	// Only one pass.
	got = c.Get("CC", Bindings{"TARGET": "$(SOURCE)", "SOURCE": "s.c"})
	assert.Equal(t, "/opt/ndk/clang -o $(SOURCE) s.c", got)
}

func TestExpandString(t *testing.T) {
	c := expandString(t, "BIN = /opt/bin\nCC = $(BIN)/cc\n")
	got := c.ExpandString("$(CC) --version && ls $(BIN) $(NOPE)")
	assert.Equal(t, "/opt/bin/cc --version && ls /opt/bin $(NOPE)", got)
}

func TestDump(t *testing.T) {
	c := expandString(t, "B = $(A)2\nA = 1\n")
	buf := new(bytes.Buffer)
	require.NoError(t, c.Dump(buf))
	assert.Equal(t, "var: A => 1\nvar: B => 12\n", buf.String())
}
