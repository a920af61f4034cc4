package commands

import (
	"Neighborly/internal/config"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	// If user passed global --help after flags parsing, show global usage
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if name == "help" { // neighborly help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return 0
		}
		unknown(args[1])
		return 2
	}

	c, ok := Get(name)
	if !ok {
		unknown(name)
		return 2
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return 1
	}
}

func unknown(name string) {
	fmt.Fprintf(Out, "Unknown command: %s\n", name)
	if s := suggest(name); len(s) > 0 {
		fmt.Fprintf(Out, "Did you mean: %s?\n", strings.Join(s, ", "))
	}
	fmt.Fprintln(Out)
	fmt.Fprint(Out, FormatGlobalUsage())
}

// suggest returns registered commands sharing a prefix of at least two
// letters with name, e.g. "bo" and "borow" both give "borrow".
func suggest(name string) []string {
	name = strings.ToLower(name)
	var out []string
	for _, c := range List() {
		n := c.Name()
		p := commonPrefix(n, name)
		if p >= 2 && (p == len(name) || p >= len(n)/2) {
			out = append(out, n)
		}
	}
	return out
}

func commonPrefix(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
