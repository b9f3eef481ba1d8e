package fs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareTimestamp(t *testing.T) {
	p, mem := setupPaths(t, "/work/src.c", "/work/src.o")
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	touch(t, mem, "/work/src.c", t0)
	touch(t, mem, "/work/src.o", t0.Add(time.Hour))
	dirty, err := p.CompareTimestamp("/work/src.c", "/work/src.o")
	require.NoError(t, err)
	assert.False(t, dirty)

	touch(t, mem, "/work/src.c", t0.Add(2*time.Hour))
	dirty, err = p.CompareTimestamp("/work/src.c", "/work/src.o")
	require.NoError(t, err)
	assert.True(t, dirty)

	dirty, err = p.CompareTimestamp("/work/src.c", "/work/missing.o")
	require.NoError(t, err)
	assert.True(t, dirty)

	_, err = p.CompareTimestamp("/work/missing.c", "/work/src.o")
	assert.Error(t, err)
}

func TestCompareAllTimestamps(t *testing.T) {
	p, mem := setupPaths(t, "/work/a.c", "/work/b.c", "/work/a.o", "/work/b.o")
	t0 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	touch(t, mem, "/work/a.c", t0)
	touch(t, mem, "/work/b.c", t0.Add(time.Minute))
	touch(t, mem, "/work/a.o", t0.Add(2*time.Minute))
	touch(t, mem, "/work/b.o", t0.Add(3*time.Minute))

	srcs := []string{"/work/a.c", "/work/b.c"}
	dsts := []string{"/work/a.o", "/work/b.o"}

	dirty, err := p.CompareAllTimestamps(srcs, dsts)
	require.NoError(t, err)
	assert.False(t, dirty)

	dirty, err = p.CompareAllTimestamps(srcs, nil)
	require.NoError(t, err)
	assert.True(t, dirty, "no outputs is always dirty")

	dirty, err = p.CompareAllTimestamps(nil, dsts)
	require.NoError(t, err)
	assert.False(t, dirty, "outputs without sources are clean")

	dirty, err = p.CompareAllTimestamps(srcs, append(dsts, "/work/c.o"))
	require.NoError(t, err)
	assert.True(t, dirty)

	// b.c is newer than the oldest output a.o
	touch(t, mem, "/work/b.c", t0.Add(150*time.Second))
	dirty, err = p.CompareAllTimestamps(srcs, dsts)
	require.NoError(t, err)
	assert.True(t, dirty)

	_, err = p.CompareAllTimestamps([]string{"/work/missing.c"}, dsts)
	assert.Error(t, err)
}
