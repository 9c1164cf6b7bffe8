package as7

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/larsbrinkhoff/pdp7-unix/pkg/utils"
)

// OpGroup classifies a seed table entry
type OpGroup int

const (
	// System call numbers
	OpGroupSyscall OpGroup = iota
	// Memory reference instructions
	OpGroupMemory
	// Extended arithmetic element instructions
	OpGroupEAE
	// Operate group microinstructions
	OpGroupOperate
)

var opGroupNames = map[OpGroup]string{
	OpGroupSyscall: "syscall",
	OpGroupMemory:  "memory",
	OpGroupEAE:     "eae",
	OpGroupOperate: "operate",
}

func (g OpGroup) String() string {
	if name, ok := opGroupNames[g]; ok {
		return name
	}

	return fmt.Sprintf("OpGroup(%d)", int(g))
}

// OpGroups returns all groups in listing order
func OpGroups() []OpGroup {
	return []OpGroup{OpGroupSyscall, OpGroupMemory, OpGroupEAE, OpGroupOperate}
}

var ErrUnknownOpGroup = errors.New("unknown opcode group")

// ParseOpGroup resolves a group by its name
func ParseOpGroup(name string) (OpGroup, error) {
	for group, groupName := range opGroupNames {
		if groupName == name {
			return group, nil
		}
	}

	return 0, utils.MakeError(ErrUnknownOpGroup, "%q (want %s)", name, utils.FormatSlice(OpGroups(), ", "))
}

// Contains implementation information of one predefined mnemonic
type OpDescriptor struct {
	Mnemonic string
	Word     uint32
	Group    OpGroup
}

func (d *OpDescriptor) String() string {
	return fmt.Sprintf("%-8s %06o (%v)", d.Mnemonic, d.Word, d.Group)
}

// The predefined mnemonics of the assembler. All entries are absolute;
// duplicated word values are deliberate aliases (i/sys, xx/hlt, nop/opr).
var seedTable = []OpDescriptor{
	// System calls
	{"save", 1, OpGroupSyscall},
	{"getuid", 2, OpGroupSyscall},
	{"open", 3, OpGroupSyscall},
	{"read", 4, OpGroupSyscall},
	{"write", 5, OpGroupSyscall},
	{"creat", 6, OpGroupSyscall},
	{"seek", 7, OpGroupSyscall},
	{"tell", 8, OpGroupSyscall},
	{"close", 9, OpGroupSyscall},
	{"link", 10, OpGroupSyscall},
	{"unlink", 11, OpGroupSyscall},
	{"setuid", 12, OpGroupSyscall},
	{"rename", 13, OpGroupSyscall},
	{"exit", 14, OpGroupSyscall},
	{"time", 15, OpGroupSyscall},
	{"intrp", 16, OpGroupSyscall},
	{"chdir", 17, OpGroupSyscall},
	{"chmod", 18, OpGroupSyscall},
	{"chown", 19, OpGroupSyscall},
	{"sysloc", 21, OpGroupSyscall},
	{"capt", 23, OpGroupSyscall},
	{"rele", 24, OpGroupSyscall},
	{"status", 25, OpGroupSyscall},
	{"smes", 27, OpGroupSyscall},
	{"rmes", 28, OpGroupSyscall},
	{"fork", 29, OpGroupSyscall},

	// Memory reference instructions
	{"sys", 0o20000, OpGroupMemory},
	{"i", 0o20000, OpGroupMemory},
	{"dac", 0o40000, OpGroupMemory},
	{"jms", 0o100000, OpGroupMemory},
	{"dzm", 0o140000, OpGroupMemory},
	{"lac", 0o200000, OpGroupMemory},
	{"xor", 0o240000, OpGroupMemory},
	{"add", 0o300000, OpGroupMemory},
	{"tad", 0o340000, OpGroupMemory},
	{"xct", 0o400000, OpGroupMemory},
	{"isz", 0o440000, OpGroupMemory},
	{"and", 0o500000, OpGroupMemory},
	{"sad", 0o540000, OpGroupMemory},
	{"jmp", 0o600000, OpGroupMemory},

	// EAE instructions
	{"eae", 0o640000, OpGroupEAE},
	{"osc", 0o640001, OpGroupEAE},
	{"omq", 0o640002, OpGroupEAE},
	{"cmq", 0o640004, OpGroupEAE},
	{"div", 0o640323, OpGroupEAE},
	{"norm", 0o640444, OpGroupEAE},
	{"lrs", 0o640500, OpGroupEAE},
	{"lls", 0o640600, OpGroupEAE},
	{"als", 0o640700, OpGroupEAE},
	{"ecla", 0o641000, OpGroupEAE},
	{"lacs", 0o641001, OpGroupEAE},
	{"lacq", 0o641002, OpGroupEAE},
	{"clls", 0o641600, OpGroupEAE},
	{"abs", 0o644000, OpGroupEAE},
	{"divs", 0o644323, OpGroupEAE},
	{"clq", 0o650000, OpGroupEAE},
	{"frdiv", 0o650323, OpGroupEAE},
	{"lmq", 0o652000, OpGroupEAE},
	{"mul", 0o653122, OpGroupEAE},
	{"idiv", 0o653323, OpGroupEAE},
	{"frdivs", 0o654323, OpGroupEAE},
	{"muls", 0o657122, OpGroupEAE},
	{"idivs", 0o657323, OpGroupEAE},
	{"norms", 0o660444, OpGroupEAE},
	{"lrss", 0o660500, OpGroupEAE},
	{"llss", 0o660600, OpGroupEAE},
	{"alss", 0o660700, OpGroupEAE},
	{"gsm", 0o664000, OpGroupEAE},

	// Operate group
	{"opr", 0o740000, OpGroupOperate},
	{"nop", 0o740000, OpGroupOperate},
	{"cma", 0o740001, OpGroupOperate},
	{"cml", 0o740002, OpGroupOperate},
	{"oas", 0o740004, OpGroupOperate},
	{"ral", 0o740010, OpGroupOperate},
	{"rar", 0o740020, OpGroupOperate},
	{"hlt", 0o740040, OpGroupOperate},
	{"xx", 0o740040, OpGroupOperate},
	{"sma", 0o740100, OpGroupOperate},
	{"sza", 0o740200, OpGroupOperate},
	{"snl", 0o740400, OpGroupOperate},
	{"skp", 0o741000, OpGroupOperate},
	{"spa", 0o741100, OpGroupOperate},
	{"sna", 0o741200, OpGroupOperate},
	{"szl", 0o741400, OpGroupOperate},
	{"rtl", 0o742010, OpGroupOperate},
	{"rtr", 0o742020, OpGroupOperate},
	{"cll", 0o744000, OpGroupOperate},
	{"stl", 0o744002, OpGroupOperate},
	{"rcl", 0o744010, OpGroupOperate},
	{"rcr", 0o744020, OpGroupOperate},
	{"cla", 0o750000, OpGroupOperate},
	{"clc", 0o750001, OpGroupOperate},
	{"las", 0o750004, OpGroupOperate},
	{"glk", 0o750010, OpGroupOperate},
	{"law", 0o760000, OpGroupOperate},
}

// Initial value of the relocation base variable ".."
const DefaultRelocationBase = 0o10000

// SeedSymbols builds a fresh variable table pre-populated with the location
// counter, the relocation base and every predefined mnemonic.
func SeedSymbols() map[string]Word {
	symbols := make(map[string]Word, len(seedTable)+2)

	for i := range seedTable {
		symbols[seedTable[i].Mnemonic] = Absolute(seedTable[i].Word)
	}

	symbols["."] = Relocatable(0)
	symbols[".."] = Absolute(DefaultRelocationBase)

	return symbols
}

// Returns the descriptors of all predefined mnemonics, sorted by word value
// and then by name so the output is deterministic.
func AllOpcodes() []*OpDescriptor {
	descriptors := utils.Map(seedTable, func(d OpDescriptor) *OpDescriptor {
		entry := d
		return &entry
	})

	sortOpcodes(descriptors)
	return descriptors
}

// OpcodesInGroup returns the descriptors of one group, sorted by word value
func OpcodesInGroup(group OpGroup) []*OpDescriptor {
	var descriptors []*OpDescriptor

	for i := range seedTable {
		if seedTable[i].Group == group {
			entry := seedTable[i]
			descriptors = append(descriptors, &entry)
		}
	}

	sortOpcodes(descriptors)
	return descriptors
}

func sortOpcodes(descriptors []*OpDescriptor) {
	sort.Slice(descriptors, func(i, j int) bool {
		if descriptors[i].Word != descriptors[j].Word {
			return descriptors[i].Word < descriptors[j].Word
		}
		return descriptors[i].Mnemonic < descriptors[j].Mnemonic
	})
}

// Dumps the full seed table as one big multiline string, one section per group
func SeedDocumentation() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("total predefined mnemonics: %v\n", len(seedTable)))

	for _, group := range OpGroups() {
		builder.WriteString(fmt.Sprintf("\n%v:\n", group))
		builder.WriteString(utils.FormatSlice(utils.Map(OpcodesInGroup(group), func(d *OpDescriptor) string {
			return " - " + d.String()
		}), "\n"))
		builder.WriteString("\n")
	}

	return builder.String()
}
