// Command consolas runs the bundled example scenarios
// against the in-process reference solver and prints the outcome: the
// solver status, the unsat core when refuted, or the decoded model when
// satisfied.
//
// Usage:
//
//	consolas list
//	consolas run <scenario> [-timeout <duration>]
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/consolas-project/consolas"
	"github.com/consolas-project/consolas/internal/config"
	"github.com/consolas-project/consolas/internal/examples"
	"github.com/consolas-project/consolas/internal/smt"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		runList()
	case "run":
		runRun(os.Args[2:])
	case "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "consolas: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s list\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s run <scenario> [-timeout <duration>]\n", os.Args[0])
}

func runList() {
	for _, name := range scenarioNames() {
		fmt.Println(name)
	}
}

func runRun(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s run <scenario> [-timeout <duration>]\n", os.Args[0])
		os.Exit(1)
	}
	name := args[0]
	timeout := config.DefaultCheckTimeout
	for i := 1; i < len(args)-1; i++ {
		if args[i] == "-timeout" {
			if d, err := time.ParseDuration(args[i+1]); err == nil {
				timeout = d
			}
		}
	}

	run, ok := runners[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "consolas: unknown scenario %q (see %s list)\n", name, os.Args[0])
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, colorize(red, "error: "+err.Error()))
		os.Exit(1)
	}
}

func scenarioNames() []string {
	names := make([]string, 0, len(runners))
	for name := range runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var runners = map[string]func(context.Context) error{
	"river-crossing":       runRiverCrossing,
	"swarm-simple":         runSwarmSimple,
	"swarm-conflict":       runSwarmConflict,
	"constant-proposition": runConstantProposition,
	"vm-optimize":          runVMOptimize,
	"enum-attribute":       runEnumAttribute,
}

func runRiverCrossing(ctx context.Context) error {
	s, err := examples.BuildRiverCrossing()
	if err != nil {
		return err
	}
	return checkAndReport(ctx, s.Ctx)
}

func runSwarmSimple(ctx context.Context) error {
	s, err := examples.BuildSwarmSimple()
	if err != nil {
		return err
	}
	return checkAndReport(ctx, s.Ctx)
}

func runSwarmConflict(ctx context.Context) error {
	s, err := examples.BuildSwarmConflict()
	if err != nil {
		return err
	}
	status, err := s.Ctx.Check(ctx, s.ConflictAssumptions()...)
	if err != nil {
		return err
	}
	reportStatus(status)
	if status == smt.StatusUnsat {
		fmt.Println("unsat core:", s.Ctx.UnsatCore())
	}
	return nil
}

func runConstantProposition(ctx context.Context) error {
	cp, err := examples.BuildConstantPropositionScenario()
	if err != nil {
		return err
	}
	constant, err := cp.Ctx.CheckConstant(ctx, cp.WordpressEqualsDB)
	if err != nil {
		return err
	}
	fmt.Printf("wordpress.deploy = db.deploy is constant: %v\n", constant)
	constant, err = cp.Ctx.CheckConstant(ctx, cp.WordpressEqualsVM2)
	if err != nil {
		return err
	}
	fmt.Printf("wordpress.deploy = vm2 is constant: %v\n", constant)
	return nil
}

func runVMOptimize(ctx context.Context) error {
	s, err := examples.BuildVMOptimize()
	if err != nil {
		return err
	}
	return checkAndReport(ctx, s.Ctx)
}

func runEnumAttribute(ctx context.Context) error {
	s, err := examples.BuildEnumAttribute()
	if err != nil {
		return err
	}
	return checkAndReport(ctx, s.Ctx)
}

// checkAndReport runs Check, prints the status, and — if sat — prints the
// decoded model one object per line.
func checkAndReport(ctx context.Context, c *consolas.Context) error {
	status, err := c.Check(ctx)
	if err != nil {
		return err
	}
	reportStatus(status)
	if status != smt.StatusSat {
		return nil
	}
	decoded, err := c.Decode()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(decoded))
	for name := range decoded {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		obj := decoded[name]
		if !obj.Alive {
			fmt.Printf("%s: suspended\n", name)
			continue
		}
		fmt.Printf("%s (%s): %v\n", name, obj.ActualClass.Name, obj.Features)
	}
	return nil
}

func reportStatus(status smt.Status) {
	switch status {
	case smt.StatusSat:
		fmt.Println(colorize(green, "sat"))
	case smt.StatusUnsat:
		fmt.Println(colorize(red, "unsat"))
	default:
		fmt.Println(colorize(yellow, "unknown"))
	}
}

const (
	red    = "\x1b[31m"
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	reset  = "\x1b[0m"
)

// colorize wraps s in the given ANSI color code, but only when stdout is a
// real terminal — matching the NO_COLOR/isatty gating the evaluator's
// term builtins use for the same reason.
func colorize(code, s string) string {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return s
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return code + s + reset
}
