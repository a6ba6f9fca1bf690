package escpos

import "bytes"

// Control bytes of the ESC/POS protocol.
const (
	esc byte = 0x1B
	gs  byte = 0x1D
	lf  byte = 0x0A
)

// Alignment values for the ESC a command.
const (
	AlignLeft   byte = 0
	AlignCenter byte = 1
	AlignRight  byte = 2
)

// Text size bitmasks for the ESC ! command.
const (
	SizeNormal       byte = 0x00
	SizeEmphasized   byte = 0x08
	SizeDoubleHeight byte = 0x10
	SizeDoubleWidth  byte = 0x20
	SizeDouble       byte = SizeDoubleHeight | SizeDoubleWidth
)

// Buffer builds an ESC/POS byte stream command by command. The zero value
// is ready to use.
type Buffer struct {
	buf bytes.Buffer
}

// Init emits ESC @ resetting the printer to its power-on state.
func (b *Buffer) Init() *Buffer {
	b.buf.Write([]byte{esc, '@'})
	return b
}

// Align emits ESC a n.
func (b *Buffer) Align(mode byte) *Buffer {
	b.buf.Write([]byte{esc, 'a', mode})
	return b
}

// Size emits ESC ! n with the given style bitmask.
func (b *Buffer) Size(mask byte) *Buffer {
	b.buf.Write([]byte{esc, '!', mask})
	return b
}

// Text appends raw text. Non-ASCII runes are degraded to '?' because the
// cheap thermal printers this targets ship incomplete code pages.
func (b *Buffer) Text(text string) *Buffer {
	for _, r := range text {
		if r == '\n' {
			b.buf.WriteByte(lf)
			continue
		}
		if r < 0x20 || r > 0x7E {
			b.buf.WriteByte('?')
			continue
		}
		b.buf.WriteByte(byte(r))
	}
	return b
}

// Line appends text followed by a line feed.
func (b *Buffer) Line(text string) *Buffer {
	return b.Text(text).Feed(1)
}

// Feed emits n line feeds.
func (b *Buffer) Feed(n int) *Buffer {
	for i := 0; i < n; i++ {
		b.buf.WriteByte(lf)
	}
	return b
}

// Cut emits GS V 66 64, a full cut after feeding to the cut position.
func (b *Buffer) Cut() *Buffer {
	b.buf.Write([]byte{gs, 'V', 0x42, 0x40})
	return b
}

// QR emits the GS ( k sequence that renders the payload as a QR symbol on
// the printer itself: model 2 selection, module size, error correction,
// store-data, then print.
func (b *Buffer) QR(payload string, moduleSize byte) *Buffer {
	if payload == "" {
		return b
	}
	if moduleSize == 0 {
		moduleSize = 6
	}

	// Function 165: select model 2.
	b.buf.Write([]byte{gs, '(', 'k', 0x04, 0x00, 0x31, 0x41, 0x32, 0x00})
	// Function 167: module size in dots.
	b.buf.Write([]byte{gs, '(', 'k', 0x03, 0x00, 0x31, 0x43, moduleSize})
	// Function 169: error correction level M.
	b.buf.Write([]byte{gs, '(', 'k', 0x03, 0x00, 0x31, 0x45, 0x31})
	// Function 180: store the payload in the symbol buffer.
	length := len(payload) + 3
	b.buf.Write([]byte{gs, '(', 'k', byte(length & 0xFF), byte(length >> 8), 0x31, 0x50, 0x30})
	b.buf.WriteString(payload)
	// Function 181: print the stored symbol.
	b.buf.Write([]byte{gs, '(', 'k', 0x03, 0x00, 0x31, 0x51, 0x30})
	return b
}

// Bytes returns the accumulated command stream.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}
