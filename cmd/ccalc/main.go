package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/wildthink/citron/calclang"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2025 the citron authors

*/

// tracer traces with key 'citron.calc'.
func tracer() tracing.Trace {
	return tracing.Select("citron.calc")
}

// main() starts an interactive CLI where users may enter arithmetic
// expressions. Every line is tokenized and parsed with the calclang grammar
// and the resulting value is printed. This doubles as a sandbox for watching
// the parser runtime at work: run with -trace Debug to see every shift and
// reduce the automaton performs.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracing.Select("citron.lr").SetTraceLevel(traceLevel(*tlevel))
	tracing.Select("citron.lexer").SetTraceLevel(traceLevel(*tlevel))
	tracing.Select("citron.calc").SetTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("Welcome to ccalc") // colored welcome message
	//
	if input := strings.TrimSpace(strings.Join(flag.Args(), " ")); input != "" {
		eval(input)
		return
	}
	repl, err := readline.New("ccalc> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	tracer().Infof("Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			if err != io.EOF && err != readline.ErrInterrupt {
				tracer().Errorf(err.Error())
			}
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		eval(line)
	}
}

func eval(input string) {
	value, err := calclang.Eval(input)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Info.Println(fmt.Sprintf("%s = %d", input, value))
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	switch strings.ToLower(l) {
	case "debug":
		return tracing.LevelDebug
	case "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}
