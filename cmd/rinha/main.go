package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kr/pretty"

	"rinha/interpreter-go/pkg/driver"
	"rinha/interpreter-go/pkg/interpreter"
	"rinha/interpreter-go/pkg/runtime"
)

const cliToolVersion = "rinha-cli 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runManifest()
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "--ast":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "rinha --ast requires exactly one program file")
			return 1
		}
		return dumpAST(args[1])
	case "repl":
		return runREPL()
	case "run":
		if len(args) == 1 {
			return runManifest()
		}
		if len(args) > 2 {
			fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[2:], " "))
			return 1
		}
		return runFile(args[1], optionsFromEnv(driver.RunOptions{}))
	default:
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
			return 1
		}
		return runFile(args[0], optionsFromEnv(driver.RunOptions{}))
	}
}

func runManifest() int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintln(os.Stderr, "rinha run requires a program file or a rinha.yml manifest")
			printUsage()
			return 1
		}
		fmt.Fprintf(os.Stderr, "failed to locate manifest: %v\n", err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	entry, err := manifest.ResolveMain()
	if err != nil {
		fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
		return 1
	}
	return runFile(entry, optionsFromEnv(manifest.Options))
}

func runFile(path string, opts driver.RunOptions) int {
	file, err := driver.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}

	interp := interpreter.NewWithConfig(interpreter.Config{MaxDepth: opts.MaxDepth})
	result, err := interp.EvaluateFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	if opts.PrintResult {
		fmt.Fprintln(os.Stdout, runtime.Render(result))
	}
	return 0
}

func dumpAST(path string) int {
	file, err := driver.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}
	pretty.Println(file)
	return 0
}

// optionsFromEnv lets RINHA_MAX_DEPTH override an unset manifest limit.
func optionsFromEnv(opts driver.RunOptions) driver.RunOptions {
	if opts.MaxDepth == 0 {
		if env := strings.TrimSpace(os.Getenv("RINHA_MAX_DEPTH")); env != "" {
			if depth, err := strconv.Atoi(env); err == nil && depth > 0 {
				opts.MaxDepth = depth
			}
		}
	}
	return opts
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  rinha run <program.json>")
	fmt.Fprintln(os.Stderr, "  rinha <program.json>")
	fmt.Fprintln(os.Stderr, "  rinha run            (resolves rinha.yml upward from the working directory)")
	fmt.Fprintln(os.Stderr, "  rinha repl")
	fmt.Fprintln(os.Stderr, "  rinha --ast <program.json>")
}
