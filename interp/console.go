package interp

import (
	"fmt"
	"io"
	"strings"
)

// Console is where console.write sends its arguments. Every call is one
// record.
type Console interface {
	Write(values ...Value)
}

// Render concatenates the textual form of values with no separator.
func Render(values ...Value) string {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Buffer keeps every record in memory, in order.
type Buffer struct {
	Records []string
}

func (b *Buffer) Write(values ...Value) {
	b.Records = append(b.Records, Render(values...))
}

// Writer prints one line per record.
type Writer struct {
	W io.Writer
}

func (w Writer) Write(values ...Value) {
	fmt.Fprintln(w.W, Render(values...))
}
