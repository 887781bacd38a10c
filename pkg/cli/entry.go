// Package cli implements the kite command: run a source file, or start a
// REPL when no path is given.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/funvibe/kite/internal/config"
	"github.com/funvibe/kite/internal/vm"
)

var cliLog = commonlog.GetLogger("kite.cli")

// options are the parsed command-line flags.
type options struct {
	path      string
	verbosity int
	noColor   bool
	printAst  bool
	printCode bool
	trace     bool
	help      bool
}

func usage(out *os.File) {
	fmt.Fprintln(out, "usage: kite [options] [path]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "With a path, compile and run the file; without one, start a REPL.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "options:")
	fmt.Fprintln(out, "  -v, --verbose        raise log verbosity (repeatable)")
	fmt.Fprintln(out, "      --no-color       disable colored diagnostics")
	fmt.Fprintln(out, "      --print-ast      dump the syntax tree before compiling")
	fmt.Fprintln(out, "      --print-bytecode dump compiled chunks before running")
	fmt.Fprintln(out, "      --trace          log every executed instruction")
	fmt.Fprintln(out, "  -h, --help           show this help")
}

func parseArgs(args []string) (options, error) {
	var opts options

	for _, arg := range args {
		switch arg {
		case "-v", "--verbose":
			opts.verbosity++
		case "--no-color":
			opts.noColor = true
		case "--print-ast":
			opts.printAst = true
		case "--print-bytecode":
			opts.printCode = true
		case "--trace":
			opts.trace = true
		case "-h", "--help":
			opts.help = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown option: %s", arg)
			}
			if opts.path != "" {
				return opts, fmt.Errorf("unexpected argument: %s", arg)
			}
			opts.path = arg
		}
	}

	return opts, nil
}

// Entry is the real main; it returns the process exit code.
func Entry(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage(os.Stderr)
		return 1
	}

	if opts.help {
		usage(os.Stdout)
		return 0
	}

	commonlog.Configure(opts.verbosity, nil)

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if opts.noColor {
		cfg.Color = "never"
	}

	state := vm.NewState()
	state.PrintAst = cfg.Debug.PrintAst || opts.printAst
	state.PrintBytecode = cfg.Debug.PrintBytecode || opts.printCode
	state.Trace = cfg.Debug.TraceExecution || opts.trace

	if opts.path != "" {
		return runFile(state, cfg, opts.path)
	}

	return repl(state, cfg)
}

func colorEnabled(cfg Config) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// isSourceFile checks whether a path has a recognized source extension.
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// runFile compiles and runs one source file; the exit code is the
// program's exit status, or 1 on any error.
func runFile(state *vm.State, cfg Config, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open source file")
		return 1
	}

	if !isSourceFile(path) {
		cliLog.Noticef("%s does not have a %s extension", path, config.SourceFileExt)
	}

	source := string(data)
	cliLog.Debugf("running %s (%d bytes)", path, len(source))

	result, runErr := state.Run(source, path)
	if runErr != nil {
		fmt.Fprint(os.Stderr, runErr.Render(source, colorEnabled(cfg)))
		return 1
	}

	return result.ExitCode
}

// repl reads and runs one line at a time against the same State, so
// globals persist between inputs. Errors are reported and the loop
// continues; the literal word "exit" ends the session.
func repl(state *vm.State, cfg Config) int {
	session := uuid.NewString()
	cliLog.Infof("repl session %s", session)

	scanner := bufio.NewScanner(os.Stdin)
	color := colorEnabled(cfg)

	for {
		fmt.Print(cfg.Prompt)

		if !scanner.Scan() {
			fmt.Println()
			return 0
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == config.ReplExitWord {
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if _, err := state.Run(line, ""); err != nil {
			fmt.Fprint(os.Stderr, err.Render(line, color))
		}
	}
}
