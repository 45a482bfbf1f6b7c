package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width + double height
)

// DefaultCharWidth fits 58mm paper; 80mm paper takes 48.
const DefaultCharWidth = 32

// Document lays out a receipt line by line. An ESC/POS document emits printer
// control codes; a plain document drops them and pads centred lines with spaces.
type Document struct {
	buf   bytes.Buffer
	width int
	plain bool
	align int
}

// NewDocument creates an ESC/POS document with the given character width.
func NewDocument(charWidth int) *Document {
	d := newDocument(charWidth, false)
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// NewTextDocument creates a plain-text document with the given character width.
func NewTextDocument(charWidth int) *Document {
	return newDocument(charWidth, true)
}

func newDocument(charWidth int, plain bool) *Document {
	if charWidth <= 0 {
		charWidth = DefaultCharWidth
	}
	return &Document{width: charWidth, plain: plain}
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

func (d *Document) command(b ...byte) {
	if !d.plain {
		d.buf.Write(b)
	}
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.align = align
	d.command(ESC, 'a', byte(align))
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.command(ESC, 'E', b)
	return d
}

// SetFontSize sets the character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.command(GS, '!', size)
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	if d.plain {
		s = d.pad(s)
	}
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// pad imitates printer alignment with spaces.
func (d *Document) pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= d.width {
		return s
	}
	switch d.align {
	case AlignCenter:
		return strings.Repeat(" ", (d.width-n)/2) + s
	case AlignRight:
		return strings.Repeat(" ", d.width-n) + s
	}
	return s
}

// Separator prints a full-width line of char.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
func (d *Document) KeyValue(key, value string) *Document {
	d.columns(key, value)
	return d
}

// ItemLine prints "qty x name" with the total right-aligned. Names too long
// for the line continue on the next one, indented.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - len(prefix) - len(total) - 1
	first, rest := splitRunes(name, room)
	d.columns(prefix+first, total)
	indent := strings.Repeat(" ", len(prefix))
	for rest != "" {
		var line string
		line, rest = splitRunes(rest, d.width-len(indent))
		d.buf.WriteString(indent + line)
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) columns(left, right string) {
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
}

func splitRunes(s string, n int) (string, string) {
	if n < 1 {
		n = 1
	}
	r := []rune(s)
	if len(r) <= n {
		return s, ""
	}
	return string(r[:n]), string(r[n:])
}

// Cut feeds and cuts the paper. Plain documents only get the feed.
func (d *Document) Cut() *Document {
	d.FeedLines(3)
	d.command(GS, 'V', 0x00)
	return d
}

// Bytes returns the document content.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// String returns the document content as text.
func (d *Document) String() string {
	return d.buf.String()
}
