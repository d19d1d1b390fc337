package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/musicflow/core"
)

var logger *log.Logger

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

var commands = []command{
	{"render", "render a parameter set to WAV and optionally play it", runRender},
	{"battle", "run battles from a JSON file and collect votes", runBattle},
	{"info", "list keys, patterns and the detected playback backend", runInfo},
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	logger = log.New(os.Stdout, "", log.Ldate|log.Ltime)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "-h" || name == "--help" || name == "help" {
		usage()
		return
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(os.Args[2:]); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return
			}
			logger.Fatalf("%s: %v", name, err)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	var b strings.Builder
	b.WriteString("Usage: musicflow <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  %-8s %s\n", c.name, c.summary)
	}
	b.WriteString("\nRun 'musicflow <command> --help' for command flags.\n")
	fmt.Fprint(os.Stderr, b.String())
}

// newFlagSet returns a flag set that reports errors instead of exiting
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}
