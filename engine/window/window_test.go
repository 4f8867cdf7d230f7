package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-mesh/common"
	"github.com/stretchr/testify/assert"
)

func TestDragTracker(t *testing.T) {
	var d dragTracker

	_, _, ok := d.move(10, 10)
	assert.False(t, ok, "no drag before press")

	d.press(10, 10)
	dx, dy, ok := d.move(14, 7)
	assert.True(t, ok)
	assert.Equal(t, float32(4), dx)
	assert.Equal(t, float32(-3), dy)

	dx, dy, _ = d.move(15, 7)
	assert.Equal(t, float32(1), dx)
	assert.Equal(t, float32(0), dy)

	d.release()
	_, _, ok = d.move(20, 20)
	assert.False(t, ok)
}

func TestDispatchKey(t *testing.T) {
	var down, up []uint32
	w := &engineWindow{}
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	assert.False(t, w.dispatchKey(common.KeyQ, true, false))
	assert.False(t, w.dispatchKey(common.KeyQ, false, true))
	assert.False(t, w.dispatchKey(common.KeyLeft, true, false))
	assert.Equal(t, []uint32{common.KeyQ, common.KeyLeft}, down)
	assert.Equal(t, []uint32{common.KeyQ}, up)

	assert.True(t, w.dispatchKey(common.KeyEsc, true, false), "Esc closes the window")
	assert.False(t, w.dispatchKey(common.KeyEsc, false, true))
	assert.Len(t, down, 2, "Esc is not forwarded")
	assert.Len(t, up, 1)
}

func TestDispatchKeyWithoutCallbacks(t *testing.T) {
	w := &engineWindow{}
	assert.NotPanics(t, func() {
		w.dispatchKey(common.KeyI, true, false)
		w.dispatchKey(common.KeyI, false, true)
	})
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{title: "test"}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.NotPanics(t, func() { w.SetTitle("renamed") })
	assert.Error(t, w.Close())
}
