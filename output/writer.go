// Package output formats and writes the four artifact kinds of a job: the
// macro-expanded listing per source file, the combined object file, the
// entries file and the externals file.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/word15asm/assembler/assembler"
)

// JobBaseName derives the shared base name of a job's outputs: every source
// basename with its extension stripped and awkward characters mapped to
// underscores, joined by underscores.
func JobBaseName(sources []string) string {
	parts := make([]string, 0, len(sources))
	for _, source := range sources {
		name := filepath.Base(source)
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			name = name[:dot]
		}
		mapper := func(r rune) rune {
			switch r {
			case ' ', '/', '\\', '.':
				return '_'
			}
			return r
		}
		parts = append(parts, strings.Map(mapper, name))
	}
	return strings.Join(parts, "_")
}

// ListingName maps a source path to its expanded-listing path: the .as
// suffix is replaced by .am, anything else just gains .am.
func ListingName(source string) string {
	if strings.HasSuffix(source, ".as") {
		return strings.TrimSuffix(source, ".as") + ".am"
	}
	return source + ".am"
}

// WriteListing writes the macro-expanded line list of one source file.
func WriteListing(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// WriteObject writes the combined object file: a header with the word
// counts of both segments, then every instruction word and every data word
// in address order, one `address word` pair per line with the word in
// zero-padded octal.
func WriteObject(path string, job *assembler.Job) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "   %d %d\n", job.Code.Len(), job.Data.Len())
	for _, node := range job.Code.Nodes {
		fmt.Fprintf(&sb, "%04d %05o\n", node.Address, node.Word)
	}
	for _, node := range job.Data.Nodes {
		fmt.Fprintf(&sb, "%04d %05o\n", node.Address, node.Word)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// WriteEntries writes one line per entry label in symbol-table order. The
// file is only created when the job exports at least one label; written
// reports whether it was.
func WriteEntries(path string, job *assembler.Job) (written bool, err error) {
	var sb strings.Builder
	for _, sym := range job.Symbols.All() {
		if sym.Entry {
			fmt.Fprintf(&sb, "%s %03d\n", sym.Name, sym.Address)
			written = true
		}
	}
	if !written {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(sb.String()), 0o644)
}

// WriteExternals writes one line per external use site, in instruction
// stream order. A label used several times appears once per use.
func WriteExternals(path string, uses []assembler.ExternalUse) (written bool, err error) {
	if len(uses) == 0 {
		return false, nil
	}
	var sb strings.Builder
	for _, use := range uses {
		fmt.Fprintf(&sb, "%s %04d\n", use.Name, use.Address)
	}
	return true, os.WriteFile(path, []byte(sb.String()), 0o644)
}

// RemoveJobOutputs deletes every output file the job could have produced:
// the three combined artifacts and each source's expanded listing. Used
// both to clear stale files before a run and to suppress partial output
// after a failed one.
func RemoveJobOutputs(base string, sources []string) {
	for _, ext := range []string{".ob", ".ent", ".ext"} {
		_ = os.Remove(base + ext)
	}
	for _, source := range sources {
		_ = os.Remove(ListingName(source))
	}
}
