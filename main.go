package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/word15asm/assembler/assembler"
	"github.com/word15asm/assembler/config"
	"github.com/word15asm/assembler/output"
	"github.com/word15asm/assembler/parser"
	"github.com/word15asm/assembler/tools"
	"github.com/word15asm/assembler/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		configFile  = flag.String("config", "", "Load tool options from a TOML file (\"default\" for the platform config path)")
		initConfig  = flag.String("init-config", "", "Write a default config file to the given path (\"default\" for the platform config path) and exit")
		outputDir   = flag.String("output-dir", "", "Directory for .ob/.ent/.ext files (default: working directory)")
		tuiMode     = flag.Bool("tui", false, "Browse the assembled job in a TUI after a successful run")
		dumpSymbols = flag.Bool("dump-symbols", false, "Dump the symbol table after a successful run")
		symbolsFile = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("word15 assembler %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *initConfig != "" {
		path := resolveConfigPath(*initConfig)
		if err := config.DefaultConfig().Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.Load(resolveConfigPath(*configFile))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override file values
	if *verboseMode {
		cfg.Output.Verbose = true
	}
	if *outputDir != "" {
		cfg.Output.Directory = *outputDir
	}
	if *dumpSymbols {
		cfg.Symbols.Dump = true
	}
	if *symbolsFile != "" {
		cfg.Symbols.File = *symbolsFile
	}
	if *tuiMode {
		cfg.TUI.Enabled = true
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	os.Exit(run(flag.Args(), cfg))
}

// resolveConfigPath maps the "default" sentinel to the platform config path.
func resolveConfigPath(path string) string {
	if path == "default" {
		return config.GetConfigPath()
	}
	return path
}

// run assembles one job from the given source files and returns the exit code.
func run(args []string, cfg *config.Config) int {
	job := assembler.NewJob()

	// Prepare filenames: a name without the .as extension gets one.
	sources := make([]string, len(args))
	for i, arg := range args {
		if !strings.HasSuffix(arg, ".as") {
			arg += ".as"
		}
		sources[i] = arg
	}

	// Read and preprocess every file in argument order.
	type preprocessed struct {
		source string
		lines  []string
		macros *parser.MacroTable
	}
	files := make([]preprocessed, 0, len(sources))

	for _, source := range sources {
		content, err := os.ReadFile(source) // #nosec G304 -- user-provided assembly file path
		if err != nil {
			job.Errors.Add(parser.ErrFileNotFound, parser.Position{Filename: source}, source)
			continue
		}
		pp := parser.NewPreprocessor(job.Errors)
		lines, macros := pp.Process(string(content), source)
		files = append(files, preprocessed{source: source, lines: lines, macros: macros})
	}

	if job.Errors.HasErrors() {
		job.Errors.Print(os.Stderr)
		fmt.Println("Assembly failed due to errors.")
		return 1
	}

	base := filepath.Join(cfg.Output.Directory, output.JobBaseName(sources))

	// Clear stale outputs from a previous run of the same job.
	output.RemoveJobOutputs(base, sources)

	// Write the expanded listing of every file, then run both passes over
	// the listings into the shared job.
	for _, file := range files {
		listing := output.ListingName(file.source)
		if err := output.WriteListing(listing, file.lines); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", listing, err)
			return 1
		}
		if cfg.Output.Verbose {
			fmt.Printf("Preprocessing succeeded. Output written to %s\n", listing)
		}
	}

	for _, file := range files {
		job.FirstPass(file.lines, output.ListingName(file.source), file.macros)
	}
	job.Relocate()
	uses := job.SecondPass()

	xref := tools.NewXRef(job)
	xref.Warn()
	job.Errors.PrintWarnings(os.Stderr)

	if job.Errors.HasErrors() {
		job.Errors.Print(os.Stderr)
		output.RemoveJobOutputs(base, sources)
		fmt.Println("Assembly failed due to errors.")
		return 1
	}

	if err := writeOutputs(job, uses, base, sources); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		output.RemoveJobOutputs(base, sources)
		return 1
	}

	if cfg.Symbols.Dump {
		if err := dumpSymbolTable(xref, cfg.Symbols.File); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping symbols: %v\n", err)
			return 1
		}
	}

	fmt.Println("Assembly completed successfully for all files.")

	if cfg.TUI.Enabled {
		browser := tui.NewBrowser(job, uses, output.JobBaseName(sources))
		if err := browser.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			return 1
		}
	}

	return 0
}

// writeOutputs emits the object, entries and externals files and lists the
// created paths on stdout.
func writeOutputs(job *assembler.Job, uses []assembler.ExternalUse, base string, sources []string) error {
	fmt.Println("Created output files:")
	for _, source := range sources {
		fmt.Printf("  Listing file: %s\n", output.ListingName(source))
	}

	if err := output.WriteObject(base+".ob", job); err != nil {
		return err
	}

	written, err := output.WriteEntries(base+".ent", job)
	if err != nil {
		return err
	}
	if written {
		fmt.Printf("  Entry file: %s.ent\n", base)
	}

	written, err = output.WriteExternals(base+".ext", uses)
	if err != nil {
		return err
	}
	if written {
		fmt.Printf("  External file: %s.ext\n", base)
	}

	fmt.Printf("  Object file: %s.ob\n", base)
	return nil
}

// dumpSymbolTable writes the cross-reference report to a file or stdout.
func dumpSymbolTable(xref *tools.XRef, path string) error {
	if path == "" {
		fmt.Print(xref.Report())
		return nil
	}
	return os.WriteFile(path, []byte(xref.Report()), 0o644)
}

func printHelp() {
	fmt.Println(`word15 assembler - two-pass assembler for a 15-bit educational machine

Usage: assembler [options] FILE [FILE ...]

Each FILE is an assembly source; a name without the .as extension gets one.
All files are assembled into one job sharing a single symbol table. Outputs:

  <file>.am      macro-expanded listing, one per input file
  <job>.ob       object file (instruction and data image)
  <job>.ent      entry labels, written only if any label is exported
  <job>.ext      external use sites, written only if any exist

The job name is the source basenames joined by underscores. No output is
written if any error was accumulated.

Options:
  -version            Show version information
  -help               Show this help
  -verbose            Verbose output
  -config PATH        Load tool options from a TOML file; PATH "default"
                      uses the platform config path
  -init-config PATH   Write a default config file and exit
  -output-dir DIR     Directory for .ob/.ent/.ext files
  -dump-symbols       Dump the symbol table after a successful run
  -symbols-file PATH  Symbol dump output file (default: stdout)
  -tui                Browse the assembled job in a TUI

Exit status: 0 on success, 1 on any error.`)
}
