package swiftcc

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellExecutor(t *testing.T) {
	dir := t.TempDir()
	out := new(bytes.Buffer)
	e := &ShellExecutor{Dir: dir, Stdout: out, Stderr: out}
	ctx := context.Background()

	exit, err := e.Exec(ctx, "echo hello && pwd")
	require.NoError(t, err)
	assert.Equal(t, 0, exit)
	assert.Contains(t, out.String(), "hello")

	exit, err = e.Exec(ctx, "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, exit)
}

func TestShellExecutorLaunchFailure(t *testing.T) {
	e := &ShellExecutor{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := e.Exec(context.Background(), "true")
	require.Error(t, err)

	r := NewRunner(e, nil)
	err = r.Run(context.Background(), "true", StageNone)
	assert.True(t, IsLaunchFailure(err))
}

func TestShellExecutorCancel(t *testing.T) {
	e := &ShellExecutor{Dir: t.TempDir()}
	ctx, cancel := context.WithTimeout(
		context.Background(), 200*time.Millisecond,
	)
	defer cancel()

	r := NewRunner(e, nil)
	start := time.Now()
	err := r.Run(ctx, "sleep 10", StageNone)
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Error(t, err)
	assert.True(t, IsInterrupted(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestBuildInterrupted(t *testing.T) {
	c := expandString(t, testToolchain)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(c, NewRunner(&ShellExecutor{Dir: t.TempDir()}, nil), "")
	err := b.Build(ctx, []string{"a.c"}, ChooseLink("", "", "app"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupted")
}
