package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"rinha/interpreter-go/pkg/ast"
	"rinha/interpreter-go/pkg/driver"
	"rinha/interpreter-go/pkg/interpreter"
	"rinha/interpreter-go/pkg/runtime"
)

const (
	historyFile = ".rinha_history"
	promptMain  = "==> "
	banner      = "Rinha REPL. Each line is a serialized term. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	helpText    = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :load <file>     Load & evaluate a program document
  :reset           Reset the interpreter (new empty global scope)
`
)

func runREPL() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	interp := interpreter.New()

	for {
		line, err := ln.Prompt(promptMain)
		if err != nil { // Ctrl+D / EOF / aborted input
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			exit, next := handleReplCommand(interp, trimmed)
			if exit {
				break
			}
			interp = next
			continue
		}

		term, err := driver.DecodeTerm([]byte(trimmed))
		if err != nil {
			fmt.Println(err)
			continue
		}
		val, err := evalReplLine(interp, term)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(runtime.Render(val))

		ln.AppendHistory(trimmed)
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// evalReplLine evaluates one entered term. A chain of top-level lets defines
// into the global frame, so bindings outlive the line and :reset has
// something to clear; everything else evaluates as an ordinary program would.
func evalReplLine(interp *interpreter.Interpreter, term ast.Term) (runtime.Value, error) {
	global := interp.GlobalEnvironment()
	for {
		let, ok := term.(*ast.Let)
		if !ok || let.Name == nil || let.Name.Text == "" {
			break
		}
		if fn, isFn := let.Value.(*ast.Function); isFn {
			global.Define(let.Name.Text, &runtime.ClosureValue{Fn: fn, Env: global})
		} else {
			val, err := interp.Evaluate(let.Value, global)
			if err != nil {
				return nil, err
			}
			global.Define(let.Name.Text, val)
		}
		term = let.Next
	}
	return interp.Evaluate(term, runtime.NewEnvironment(global))
}

// handleReplCommand handles :help, :quit, :load, :reset. It returns the
// interpreter to continue with, which :reset replaces.
func handleReplCommand(interp *interpreter.Interpreter, line string) (exit bool, next *interpreter.Interpreter) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, interp
	}

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Print(helpText)
	case ":quit", ":exit":
		return true, interp
	case ":reset":
		fmt.Println("interpreter reset")
		return false, interpreter.New()
	case ":load":
		if len(fields) != 2 {
			fmt.Println(":load requires a file path")
			break
		}
		file, err := driver.Load(fields[1])
		if err != nil {
			fmt.Println(err)
			break
		}
		val, err := interp.EvaluateFile(file)
		if err != nil {
			fmt.Println(err)
			break
		}
		fmt.Println(runtime.Render(val))
	default:
		fmt.Printf("unknown command %s (try :help)\n", fields[0])
	}
	return false, interp
}
