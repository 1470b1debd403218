package rootlock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquire_SecondJobOnSameRootIsRefused(t *testing.T) {
	t.Parallel()

	l := New()
	release, err := l.Acquire("/levels/gridmap")
	require.NoError(t, err)

	_, err = l.Acquire("/levels/gridmap")
	require.Error(t, err)

	release()
	release2, err := l.Acquire("/levels/gridmap")
	require.NoError(t, err)
	release2()
}

func TestAcquire_DistinctRootsDoNotContend(t *testing.T) {
	t.Parallel()

	l := New()
	r1, err := l.Acquire("/levels/a")
	require.NoError(t, err)
	r2, err := l.Acquire("/levels/b")
	require.NoError(t, err)
	r1()
	r2()
}

func TestRelease_IsIdempotent(t *testing.T) {
	t.Parallel()

	l := New()
	release, err := l.Acquire("/levels/a")
	require.NoError(t, err)
	release()
	release() // double release must not unlock someone else's acquisition

	r2, err := l.Acquire("/levels/a")
	require.NoError(t, err)
	_, err = l.Acquire("/levels/a")
	require.Error(t, err)
	r2()
}
