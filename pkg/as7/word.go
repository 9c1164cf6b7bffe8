package as7

import (
	"fmt"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
)

// Width of a PDP-7 machine word
const WordBits = 18

// All ones mask for an 18 bit magnitude
var Mask18 = utils.AllOnes[uint32](WordBits)

// Word is an 18-bit machine word together with its relocation state. The
// magnitude is always kept reduced modulo 2^18; the relocatable flag marks
// values whose final address depends on the relocation base.
type Word struct {
	Mag   uint32
	Reloc bool
}

// Builds an absolute word from a magnitude
func Absolute(mag uint32) Word {
	return Word{Mag: mag & Mask18}
}

// Builds a relocatable word from a magnitude
func Relocatable(mag uint32) Word {
	return Word{Mag: mag & Mask18, Reloc: true}
}

// Bitwise OR of two words. The result is relocatable if either operand is.
func (w Word) Or(other Word) Word {
	return Word{
		Mag:   (w.Mag | other.Mag) & Mask18,
		Reloc: w.Reloc || other.Reloc,
	}
}

// Masked addition of two words. The result is relocatable if either operand is.
func (w Word) Add(other Word) Word {
	return Word{
		Mag:   (w.Mag + other.Mag) & Mask18,
		Reloc: w.Reloc || other.Reloc,
	}
}

// Masked subtraction of two words. Subtracting a relocatable word from a
// relocatable word yields an absolute difference; subtracting an absolute
// word leaves the relocation state untouched. Subtracting a relocatable word
// from an absolute one has no meaning and returns ErrRelocation together
// with the absolute difference.
func (w Word) Sub(other Word) (Word, error) {
	result := Word{Mag: (w.Mag - other.Mag) & Mask18}

	switch {
	case w.Reloc && other.Reloc:
		// rel - rel: the base cancels out
	case w.Reloc:
		result.Reloc = true
	case other.Reloc:
		return result, utils.MakeError(ErrRelocation, "cannot subtract a relocatable value from an absolute one")
	}

	return result, nil
}

// Materialises the word to an absolute 18-bit number, adding the relocation
// base when the word is relocatable.
func (w Word) Relocate(base uint32) uint32 {
	if w.Reloc {
		return (w.Mag + base) & Mask18
	}

	return w.Mag
}

func (w Word) String() string {
	if w.Reloc {
		return fmt.Sprintf("%06o r", w.Mag)
	}

	return fmt.Sprintf("%06o", w.Mag)
}
