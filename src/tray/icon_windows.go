package tray

import "encoding/binary"

// platformIcon wraps the PNG in a single-image ICO container; the Windows
// tray only accepts ICO data.
func platformIcon() []byte {
	img := IconPNG()
	buf := make([]byte, 0, 22+len(img))
	buf = binary.LittleEndian.AppendUint16(buf, 0) // reserved
	buf = binary.LittleEndian.AppendUint16(buf, 1) // type: icon
	buf = binary.LittleEndian.AppendUint16(buf, 1) // image count

	buf = append(buf, iconSize, iconSize, 0, 0)
	buf = binary.LittleEndian.AppendUint16(buf, 1)  // planes
	buf = binary.LittleEndian.AppendUint16(buf, 32) // bits per pixel
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(img)))
	buf = binary.LittleEndian.AppendUint32(buf, 22)
	return append(buf, img...)
}
