//go:build linux

package keys

// X11 keysyms; libuiohook reports the keysym as the rawcode.
var rawcodeKeys = map[uint16]Key{
	0xffe3: KeyControlLeft,  // Control_L
	0xffe4: KeyControlRight, // Control_R
	0xffe9: KeyAlt,          // Alt_L
	0xffea: KeyAltGr,        // Alt_R
	0xfe03: KeyAltGr,        // ISO_Level3_Shift
	0x006f: KeyO,
	0x004f: KeyO,
	0x0069: KeyI,
	0x0049: KeyI,
}
