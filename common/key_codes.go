package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW            = 87  // W key (ASCII)
	KeyA            = 65  // A key (ASCII)
	KeyS            = 83  // S key (ASCII)
	KeyD            = 68  // D key (ASCII)
	KeyI            = 73  // I key (ASCII)
	KeyQ            = 81  // Q key (ASCII)
	KeyR            = 82  // R key (ASCII)
	KeyT            = 84  // T key (ASCII)
	KeyE            = 69  // E key (ASCII)
	KeyMinus        = 45  // - key (ASCII)
	KeyEqual        = 61  // = / + key (ASCII)
	KeyLeftBracket  = 91  // [ key (ASCII)
	KeyRightBracket = 93  // ] key (ASCII)
	KeySpace        = 32  // Spacebar (ASCII)
	KeyEsc          = 256 // Escape key (GLFW)
)

// Arrow keys (GLFW)
const (
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
