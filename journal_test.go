package swiftcc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "journal.db")

	j, err := OpenJournal(p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), j.Run())

	exec := newFakeExec()
	exec.exits["cc b.c"] = 2
	r := NewRunner(exec, &RunnerOptions{Stage: StageCompile})
	r.AddRecorder(j)

	ctx := context.Background()
	require.NoError(t, r.Run(ctx, "cc a.c", StageCompile))
	require.NoError(t, r.Run(ctx, "llc a.ir", StageLower))
	require.NoError(t, r.Run(ctx, "cc b.c", StageCompile))

	steps, err := j.Steps(j.Run())
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, 1, steps[0].Seq)
	assert.Equal(t, "cc a.c", steps[0].Command)
	assert.Equal(t, StageCompile, steps[0].Stage)
	assert.False(t, steps[0].Skipped)
	assert.False(t, steps[0].Start.IsZero())

	assert.Equal(t, "llc a.ir", steps[1].Command)
	assert.True(t, steps[1].Skipped)
	assert.True(t, steps[1].Start.IsZero())

	assert.Equal(t, 2, steps[2].Exit)
	require.NoError(t, j.Close())

	j, err = OpenJournal(p)
	require.NoError(t, err)
	defer j.Close()
	assert.Equal(t, int64(2), j.Run())

	steps, err = j.Steps(j.Run())
	require.NoError(t, err)
	assert.Empty(t, steps)

	steps, err = j.Steps(1)
	require.NoError(t, err)
	assert.Len(t, steps, 3)
}

func TestJournalSharedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "journal.db")

	j1, err := OpenJournal(p)
	require.NoError(t, err)
	defer j1.Close()
	j2, err := OpenJournal(p)
	require.NoError(t, err)
	defer j2.Close()
	assert.NotEqual(t, j1.Run(), j2.Run())

	require.NoError(t, j1.Record(&Step{Seq: 1, Command: "cc a.c"}))
	require.NoError(t, j2.Record(&Step{Seq: 1, Command: "cc b.c"}))

	steps, err := j1.Steps(j2.Run())
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "cc b.c", steps[0].Command)
}
