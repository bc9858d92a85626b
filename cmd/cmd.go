package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/csurf/csurf/ast"
	"github.com/csurf/csurf/parser"
	"github.com/csurf/csurf/printer"
)

// Execute runs the csurf CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "csurf",
		Usage:                  "Parse, rewrite, and print C-flavored source trees",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `csurf file.c` as shorthand for `csurf dump file.c`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".c") {
				return dump(cmd.Args().First())
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "dump",
				Usage:     "Parse a file and show its node structure",
				ArgsUsage: "<file.c>",
				Action:    dumpAction,
			},
			{
				Name:      "rewrite",
				Usage:     "Apply rewrite passes and print the result",
				ArgsUsage: "<file.c>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "prefix",
						Aliases: []string{"p"},
						Usage:   "Prefix every variable name",
					},
					&cli.BoolFlag{
						Name:  "strip-nops",
						Usage: "Drop empty statements",
					},
					&cli.BoolFlag{
						Name:    "uniquify",
						Aliases: []string{"u"},
						Usage:   "Rename shadowed locals apart",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: rewriteAction,
			},
			{
				Name:      "check",
				Usage:     "Run consistency checks on a file",
				ArgsUsage: "<file.c>...",
				Action:    checkAction,
			},
			{
				Name:      "symbols",
				Usage:     "List declared names and uses",
				ArgsUsage: "<file.c>",
				Action:    symbolsAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func dumpAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csurf dump <file.c>")
	}
	return dump(cmd.Args().First())
}

func dump(path string) error {
	tu, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	colorize := os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Print(printer.Dump(tu, colorize))
	return nil
}

func rewriteAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csurf rewrite [flags] <file.c>")
	}
	tu, err := parser.ParseFile(cmd.Args().First())
	if err != nil {
		return err
	}

	var passes []ast.Transform
	if p := cmd.String("prefix"); p != "" {
		passes = append(passes, ast.PrefixVars(p))
	}
	if cmd.Bool("strip-nops") {
		passes = append(passes, ast.StripNops())
	}
	if cmd.Bool("uniquify") {
		passes = append(passes, ast.UniquifyLocals())
	}
	tu = ast.Chain(passes...).Transform(tu)

	out := printer.Print(tu)
	if path := cmd.String("output"); path != "" {
		return os.WriteFile(path, []byte(out), 0644)
	}
	fmt.Print(out)
	return nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csurf check <file.c>...")
	}
	checks := ast.CheckChain{ast.CheckLabels{}}
	failed := false
	for _, path := range cmd.Args().Slice() {
		tu, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		if err := checks.Run(tu); err != nil {
			fmt.Fprintf(os.Stderr, "%s%s%s\n", colorStart(), err, colorEnd())
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

func symbolsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csurf symbols <file.c>")
	}
	tu, err := parser.ParseFile(cmd.Args().First())
	if err != nil {
		return err
	}
	syms := ast.CollectSymbols(tu)
	// Tree sets iterate in sorted order already.
	section := func(title string, set interface{ Values() []interface{} }) {
		var names []string
		for _, v := range set.Values() {
			names = append(names, v.(string))
		}
		fmt.Printf("%s: %s\n", title, strings.Join(names, " "))
	}
	section("vars", syms.Vars)
	section("fields", syms.Fields)
	section("types", syms.Types)
	section("uses", syms.Uses)
	return nil
}

// colorStart returns the ANSI red prefix when stderr is an interactive
// terminal and NO_COLOR is unset.
func colorStart() string {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		return ""
	}
	return "\x1b[31m"
}

func colorEnd() string {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		return ""
	}
	return "\x1b[0m"
}
