package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/cosminsandu/anaf-go/internal/config"
	"github.com/cosminsandu/anaf-go/internal/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "anaf: %v\n", err)
		os.Exit(1)
	}
}

// runtime carries what every command needs once flags and config are resolved.
type runtime struct {
	cfg *config.Config
	log logger.Logger
	out *printer
}

type runner func(ctx context.Context, rt *runtime) error

type command struct {
	summary string
	// setup registers the command flags and returns the runner bound to them.
	setup func(flags *pflag.FlagSet) runner
}

var commands = map[string]command{
	"messages":   {summary: "list e-Factura inbox messages", setup: messagesCommand},
	"download":   {summary: "download a message archive", setup: downloadCommand},
	"xml-to-pdf": {summary: "convert an invoice XML to PDF", setup: xmlToPDFCommand},
	"taxpayer":   {summary: "look up taxpayers in the VAT registry", setup: taxpayerCommand},
	"sync":       {summary: "download new messages for configured companies", setup: syncCommand},
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stdout)
		if len(args) == 0 {
			return errors.New("missing command")
		}
		return nil
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		usage(stdout)
		return fmt.Errorf("unknown command %q", name)
	}

	flags := pflag.NewFlagSet("anaf "+name, pflag.ContinueOnError)
	flags.SetNormalizeFunc(normalizeFlag)
	output := registerGlobalFlags(flags)
	exec := cmd.setup(flags)

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	out, err := newPrinter(stdout, *output)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("command starting", "command_meta", map[string]any{
		"command": name,
		"config":  cfg.Redacted(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// main reports the returned error on stderr.
	return exec(ctx, &runtime{cfg: cfg, log: log, out: out})
}

// registerGlobalFlags adds the flags shared by every command. Flag names match
// the config keys so viper can bind them directly.
func registerGlobalFlags(flags *pflag.FlagSet) *string {
	output := flags.StringP("output", "o", formatJSON, "output format: json or yaml")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("anaf-environment", "", "e-Factura environment: prod or test")
	flags.String("anaf-access-token", "", "OAuth access token for the e-Factura API")
	flags.String("anaf-base-uri", "", "override the authorized API base URI")
	flags.String("anaf-public-base-uri", "", "override the public API base URI")
	flags.Int64("http-timeout-seconds", 0, "HTTP timeout in seconds")
	return output
}

// normalizeFlag maps --log-level to the log_level config key.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: anaf <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
}
