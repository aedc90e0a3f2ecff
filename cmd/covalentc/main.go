// Command covalentc drives the Covalent core end to end: it reads a JSON
// program file, runs semantic analysis and the correction pass, lowers the
// result to an LLVM-style SSA module, and prints the emitted IR. It is a
// thin wrapper around the library packages — the lexer/parser producing a
// JSON program file's real Covalent-syntax counterpart is out of scope for
// this module (spec.md §1).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/covalent-lang/covalent/internal/cache"
	"github.com/covalent-lang/covalent/internal/pipeline"
)

const compilerVersion = "covalentc-0.1"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("covalentc", flag.ContinueOnError)
	emitTIR := fs.Bool("emit-tir", false, "print the typed intermediate representation instead of lowering")
	cachePath := fs.String("cache", "", "path to a sqlite compilation cache (disabled if empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: covalentc [--emit-tir] [--cache PATH] PROGRAM.json")
		return 2
	}

	color := isatty.IsTerminal(os.Stderr.Fd())
	path := fs.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		reportf(color, "%v", err)
		return 1
	}

	var c *cache.Cache
	var key string
	if *cachePath != "" {
		c, err = cache.Open(*cachePath)
		if err != nil {
			reportf(color, "%v", err)
			return 1
		}
		defer c.Close()

		key = cache.Key(string(raw), compilerVersion)
		if entry, ok, err := c.Lookup(key); err == nil && ok {
			fmt.Printf("; cache hit, cached %s\n", cache.Age(entry, time.Now()))
			fmt.Println(entry.IR)
			return 0
		}
	}

	moduleID := uuid.New().String()
	ctx := pipeline.NewPipelineContext(path, moduleID)

	if *emitTIR {
		ctx = pipeline.New(pipeline.ParseStage, pipeline.AnalyzeStage).Run(ctx)
		if ctx.Failed() {
			reportf(color, "%v", ctx.Err)
			return 1
		}
		for _, node := range ctx.Typed {
			fmt.Printf("%+v\n", node)
		}
		return 0
	}

	ctx = pipeline.New(pipeline.ParseStage, pipeline.AnalyzeStage, pipeline.LowerStage).Run(ctx)
	if ctx.Failed() {
		reportf(color, "%v", ctx.Err)
		return 1
	}

	ir := ctx.Runtime.Module.String()

	if c != nil {
		if err := c.Store(key, ir, time.Now()); err != nil {
			reportf(color, "%v", err)
		}
	}

	fmt.Println(ir)
	return 0
}

func reportf(color bool, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if color {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}
