package display

import (
	"encoding/binary"
	"fmt"

	"github.com/homelab-screen/display/pixel"
)

// Wire format.
const (
	PacketSize  = 512
	HeaderSize  = PacketSize
	PayloadSize = Width * Height * 2
	FrameSize   = HeaderSize + (PayloadSize+PacketSize-1)/PacketSize*PacketSize
)

// Header fields, all little endian.
const (
	headerVersion    = 2
	headerCommand    = 1
	headerFormat565  = 2
	headerTrailer    = 0x08000000
	headerHeight     = 240 // native landscape scan
	headerWidth      = 320
	headerOffVersion = 4
	headerOffCommand = 6
	headerOffHeight  = 8
	headerOffWidth   = 10
	headerOffFormat  = 12
	headerOffLength  = 22
	headerOffTrailer = 26
)

var headerMagic = [4]byte{0xDA, 0xDB, 0xDC, 0xDD}

func init() {
	if headerWidth*headerHeight*2 != PayloadSize {
		panic(fmt.Sprintf("display: header declares %dx%d, surface is %dx%d", headerWidth, headerHeight, Width, Height))
	}
}

// putHeader encodes the frame header in b, which must hold HeaderSize bytes.
func putHeader(b []byte) {
	b = b[:HeaderSize]
	clear(b)
	copy(b, headerMagic[:])
	binary.LittleEndian.PutUint16(b[headerOffVersion:], headerVersion)
	binary.LittleEndian.PutUint16(b[headerOffCommand:], headerCommand)
	binary.LittleEndian.PutUint16(b[headerOffHeight:], headerHeight)
	binary.LittleEndian.PutUint16(b[headerOffWidth:], headerWidth)
	binary.LittleEndian.PutUint16(b[headerOffFormat:], headerFormat565)
	binary.LittleEndian.PutUint32(b[headerOffLength:], PayloadSize)
	binary.LittleEndian.PutUint32(b[headerOffTrailer:], headerTrailer)
}

// encodeFrame writes the header and the pixels of src into frame, zero padding the last packet.
func encodeFrame(frame []byte, src *pixel.CRGB16Image) {
	putHeader(frame)
	payload := frame[HeaderSize:]
	n := src.PutBytes(payload, binary.LittleEndian)
	clear(payload[n:])
}
