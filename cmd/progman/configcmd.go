package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/progman/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  progman config validate [--path PATH]")
	fmt.Fprintln(stderr, "  progman config print [--path PATH] [--defaults]")
	fmt.Fprintln(stderr, "  progman config explain [--path PATH] <yaml.path>")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage()
		return 2
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "print":
		return runConfigPrint(args[1:])
	case "explain":
		return runConfigExplain(args[1:])
	case "help", "-h", "--help":
		printConfigUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

const pathUsage = "Config file path (default: ~/.config/progman/config.yaml)"

func runConfigValidate(args []string) int {
	fs := newFlagSet("validate", "Usage: progman config validate [--path PATH]")
	path := fs.String("path", "", pathUsage)
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	if _, err := loadConfig(*path); err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, "config: ok")
	return 0
}

func runConfigPrint(args []string) int {
	fs := newFlagSet("print", "Usage: progman config print [--path PATH] [--defaults]")
	path := fs.String("path", "", pathUsage)
	defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	cfg := config.DefaultConfig()
	if !*defaults {
		res, err := loadConfig(*path)
		if err != nil {
			return fail(err)
		}
		if res.File != "" {
			fmt.Fprintf(stdout, "# file: %s\n", res.File)
		}
		cfg = res.Config
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fail(err)
	}
	fmt.Fprint(stdout, string(data))
	return 0
}

func runConfigExplain(args []string) int {
	fs := newFlagSet("explain", "Usage: progman config explain [--path PATH] <yaml.path>\n\nShow a setting's effective value and where it came from.")
	path := fs.String("path", "", pathUsage)
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	query := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		return fail(err)
	}
	value, src, err := config.Explain(res, query)
	if err != nil {
		return fail(err)
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(stdout, "path: %s\n", query)
	fmt.Fprintf(stdout, "source: %s\n", formatSource(src))
	fmt.Fprintf(stdout, "value:\n%s", string(out))
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	default:
		return string(config.SourceDefault)
	}
}
