//go:build darwin

package keys

// macOS virtual keycodes (Carbon kVK_*).
var rawcodeKeys = map[uint16]Key{
	0x3B: KeyControlLeft,  // kVK_Control
	0x3E: KeyControlRight, // kVK_RightControl
	0x3A: KeyAlt,          // kVK_Option
	0x3D: KeyAltGr,        // kVK_RightOption
	0x1F: KeyO,            // kVK_ANSI_O
	0x22: KeyI,            // kVK_ANSI_I
}
