// Command chasmc compiles a chasm source file to a WebAssembly binary module.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chasm-lang/chasmc/internal/diagnostic"

	"github.com/chasm-lang/chasmc"
)

var version = "dev"

const usage = `chasmc - The chasm language compiler

Usage:
  chasmc build [-o <file.wasm>] <file.chasm>   Compile to a Wasm binary module
  chasmc version                                Print the compiler version

Examples:
  chasmc build hello.chasm               Build hello.chasm -> hello.wasm
  chasmc build -o out.wasm hello.chasm   Build hello.chasm -> out.wasm
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		handleBuild(os.Args[2:])
	case "version", "--version":
		fmt.Printf("chasmc %s\n", version)
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func handleBuild(args []string) {
	var outPath, inPath string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-o" || arg == "--output":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -o requires an argument")
				os.Exit(1)
			}
			i++
			outPath = args[i]
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(1)
		default:
			inPath = arg
		}
	}

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
		outPath = base + ".wasm"
	}

	source, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}

	wasmBytes, err := chasm.Compile(string(source))
	if err != nil {
		var diagErr *diagnostic.Error
		if errors.As(err, &diagErr) {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", inPath, diagErr.Token.Line, diagErr.Token.Char, diagErr.Kind, diagErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, wasmBytes, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", outPath)
}
