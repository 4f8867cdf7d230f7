package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the glfw handle behind an engineWindow plus the close flag set by Esc.
type glfwWindow struct {
	owner   *engineWindow
	handle  *glfw.Window
	running bool
}

// newPlatformWindow opens a glfw window without a client API (the renderer brings its own
// wgpu surface) and routes its input into w.
//
// Parameters:
//   - w: the window being built; receives the glfw handle and the framebuffer size
//
// Returns:
//   - error: glfw initialization or window creation failure
func newPlatformWindow(w *engineWindow) error {
	// glfw calls must stay on the thread that initialized it.
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create glfw window %q: %w", w.title, err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	gw := &glfwWindow{owner: w, handle: handle, running: true}
	w.internalWindow = gw

	handle.SetKeyCallback(gw.onKey)
	handle.SetScrollCallback(gw.onScroll)
	handle.SetMouseButtonCallback(gw.onMouseButton)
	handle.SetCursorPosCallback(gw.onCursorPos)
	handle.SetFramebufferSizeCallback(gw.onFramebufferSize)

	// The framebuffer can be larger than the requested size on high-DPI displays, and the
	// surface has to be configured in pixels.
	w.width, w.height = handle.GetFramebufferSize()
	return nil
}

func (gw *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if gw.owner.dispatchKey(uint32(key), action == glfw.Press || action == glfw.Repeat, action == glfw.Release) {
		gw.running = false
		gw.handle.SetShouldClose(true)
	}
}

func (gw *glfwWindow) onScroll(_ *glfw.Window, _, yoff float64) {
	if gw.owner.onScroll != nil {
		gw.owner.onScroll(float32(yoff))
	}
}

// onMouseButton starts and ends orbit drags; only the left button drags.
func (gw *glfwWindow) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		gw.owner.drag.press(gw.handle.GetCursorPos())
	case glfw.Release:
		gw.owner.drag.release()
	}
}

func (gw *glfwWindow) onCursorPos(_ *glfw.Window, x, y float64) {
	if dx, dy, ok := gw.owner.drag.move(x, y); ok && gw.owner.onDrag != nil {
		gw.owner.onDrag(dx, dy)
	}
}

func (gw *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	gw.owner.width, gw.owner.height = width, height
	if gw.owner.onResize != nil {
		gw.owner.onResize(width, height)
	}
}

// platform returns the glfw state of w, or nil before newPlatformWindow succeeded.
func platform(w *engineWindow) *glfwWindow {
	gw, _ := w.internalWindow.(*glfwWindow)
	return gw
}

func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := platform(w)
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

func platformSetTitle(w *engineWindow, title string) {
	if gw := platform(w); gw != nil {
		gw.handle.SetTitle(title)
	}
}

// platformIsRunningCheck reports whether the window is open: Esc has not been pressed and
// glfw has not been asked to close it.
func platformIsRunningCheck(w *engineWindow) bool {
	gw := platform(w)
	return gw != nil && gw.running && !gw.handle.ShouldClose()
}

// platformCloseWindow destroys the window and shuts glfw down.
//
// Returns:
//   - error: when the window was never created
func platformCloseWindow(w *engineWindow) error {
	gw := platform(w)
	if gw == nil {
		return fmt.Errorf("window %q is not initialized", w.title)
	}
	gw.running = false
	gw.handle.SetShouldClose(true)
	gw.handle.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages drains pending glfw events without blocking.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
