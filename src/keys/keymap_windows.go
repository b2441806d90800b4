//go:build windows

package keys

// Windows virtual-key codes as delivered by the low-level keyboard hook.
var rawcodeKeys = map[uint16]Key{
	162: KeyControlLeft,  // VK_LCONTROL
	163: KeyControlRight, // VK_RCONTROL
	18:  KeyAlt,          // VK_MENU
	164: KeyAlt,          // VK_LMENU
	165: KeyAltGr,        // VK_RMENU
	79:  KeyO,
	73:  KeyI,
}
