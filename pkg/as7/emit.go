package as7

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
)

// Format selects one of the output encodings
type Format string

const (
	// Octal dump of every populated cell with its source line
	FormatA7Out Format = "a7out"
	// Assembly listing streamed during pass two, with a label dump appended
	FormatList Format = "list"
	// Raw paper tape frames from the base to the top of the image
	FormatPtr Format = "ptr"
	// Paper tape frames followed by the RIM loader halt-and-start word
	FormatRim Format = "rim"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatA7Out, FormatList, FormatPtr, FormatRim:
		return Format(name), nil
	}

	return "", utils.MakeError(ErrUnknownFormat, "%q (want a7out, list, ptr or rim)", name)
}

// A paper tape frame carries six data bits. Every frame has the marker bit
// set; the last frame of a RIM trailer also carries the start bit.
const (
	frameBits   = 6
	frameMarker = 0o200
	frameStart  = 0o100
)

// WriteA7Out dumps every populated memory cell as "location: word" in
// octal, followed by the source line that produced the cell.
func (a *Assembler) WriteA7Out(w io.Writer) error {
	locations := utils.Keys(a.image)
	sort.Slice(locations, func(i, j int) bool { return locations[i] < locations[j] })

	for _, loc := range locations {
		if _, err := fmt.Fprintf(w, "%06o: %06o\t%s\n", loc, a.image[loc], a.lines[loc]); err != nil {
			return err
		}
	}

	return nil
}

// WritePtr emits the image as raw paper tape frames, three per word, from
// the relocation base up to the highest populated location. Unset cells
// inside the range emit as zero words.
func (a *Assembler) WritePtr(w io.Writer) error {
	return a.writeTape(w, false)
}

// WriteRim emits the ptr frame stream followed by the RIM loader trailer:
// a jmp to the base whose last frame carries the start bit.
func (a *Assembler) WriteRim(w io.Writer) error {
	return a.writeTape(w, true)
}

func (a *Assembler) writeTape(w io.Writer, trailer bool) error {
	if len(a.image) > 0 {
		top := utils.Max(utils.Keys(a.image))

		for loc := a.Base(); loc <= top; loc++ {
			if err := writeFrames(w, a.image[loc], 0); err != nil {
				return err
			}
		}
	}

	if trailer {
		return writeFrames(w, (0o600000|a.Base())&Mask18, frameStart)
	}

	return nil
}

// writeFrames splits one word into three six-bit frames, high bits first.
// The extra bits are ORed into the last frame only.
func writeFrames(w io.Writer, word uint32, last byte) error {
	view := utils.CreateBitView(&word)

	frames := []byte{
		byte(view.Read(2*frameBits, frameBits)) | frameMarker,
		byte(view.Read(frameBits, frameBits)) | frameMarker,
		byte(view.Read(0, frameBits)) | frameMarker | last,
	}

	_, err := w.Write(frames)
	return err
}

// WriteLabels dumps every global label sorted by name, with its relocated
// absolute value and an "r" flag on relocatable labels. Local labels are
// never dumped.
func (a *Assembler) WriteLabels(w io.Writer) error {
	base := a.Base()

	for _, name := range a.syms.GlobalLabels() {
		value, _ := a.syms.GlobalLabel(name)

		flags := ""
		if value.Reloc {
			flags = " r"
		}

		if _, err := fmt.Fprintf(w, "%-8s 0%06o%s\n", name, value.Relocate(base), flags); err != nil {
			return err
		}
	}

	return nil
}

// Listing enables the streamed listing output: pass two writes one row per
// source line, assignment and stored word into w, and Assemble appends the
// label dump when the run finishes.
func (a *Assembler) Listing(w io.Writer) {
	a.list = &listingWriter{w: w}
}

type listingWriter struct {
	w io.Writer
}

func (lw *listingWriter) line(text string) {
	fmt.Fprintf(lw.w, "\t\t%s\n", text)
}

func (lw *listingWriter) assignment(value uint32, flag Flag) {
	fmt.Fprintf(lw.w, "\t%06o %c\n", value, flag)
}

func (lw *listingWriter) store(loc, value uint32, flag Flag) {
	fmt.Fprintf(lw.w, "%06o: %06o %c\n", loc, value, flag)
}

func (lw *listingWriter) diagnostic(d *Diagnostic) {
	fmt.Fprintf(lw.w, "%s\n", d.Error())
}

func (lw *listingWriter) labels(a *Assembler) {
	fmt.Fprintf(lw.w, "\nLabels:\n")
	a.WriteLabels(lw.w)
}
