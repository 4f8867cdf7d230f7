package mesh

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, r Regenerator) RegenerationResult {
	t.Helper()
	select {
	case res, ok := <-r.Results():
		require.True(t, ok, "results channel closed")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a regeneration result")
	}
	return RegenerationResult{}
}

func TestRegeneratorDeliversResult(t *testing.T) {
	r := NewRegenerator(WithWorkers(1))
	defer r.Close()

	seq := r.Request(DefaultIcosphereParams())
	assert.Equal(t, uint64(1), seq)

	res := receive(t, r)
	require.NoError(t, res.Err)
	assert.Equal(t, seq, res.Seq)
	assert.Equal(t, uint32(960), res.Data.ElementCount())
}

func TestRegeneratorLatestWins(t *testing.T) {
	var mu sync.Mutex
	finished := 0
	r := NewRegenerator(WithWorkers(4), WithResultHook(func(RegenerationResult) {
		mu.Lock()
		finished++
		mu.Unlock()
	}))
	defer r.Close()

	var last uint64
	for it := uint32(0); it <= 4; it++ {
		p := DefaultIcosphereParams()
		p.Iterations = it
		last = r.Request(p)
	}
	r.Wait()

	mu.Lock()
	assert.Equal(t, 5, finished)
	mu.Unlock()

	res := receive(t, r)
	assert.Equal(t, last, res.Seq)
	assert.Equal(t, uint32(4), res.Params.Iterations)

	select {
	case extra := <-r.Results():
		t.Fatalf("unexpected second result with seq %d", extra.Seq)
	default:
	}
}

func TestRegeneratorReportsErrors(t *testing.T) {
	r := NewRegenerator(WithWorkers(1))
	defer r.Close()

	r.Request(MeshParams{Shape: ShapeIcosphere, Radius: -1})
	res := receive(t, r)
	assert.Nil(t, res.Data)
	assert.ErrorIs(t, res.Err, common.ErrInvalidParameter)
}

func TestRegeneratorCloseClosesResults(t *testing.T) {
	r := NewRegenerator(WithWorkers(1))
	r.Request(DefaultQuadParams())
	r.Close()

	res, ok := <-r.Results()
	if ok {
		assert.Equal(t, uint64(1), res.Seq)
		_, ok = <-r.Results()
	}
	assert.False(t, ok)
}
