// meishictl drives the booking client from a terminal: sign in, list slots, walk
// the booking wizard, manage the owner's board and react to dishes or restaurants.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"meishiClient/internal/bootstrap"
	"meishiClient/internal/config"
	"meishiClient/internal/shared/logging"
	"meishiClient/internal/shared/notify"
)

type command struct {
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

// cliEnv is what every subcommand gets: wired services and the output streams.
type cliEnv struct {
	services *bootstrap.Services
	stdout   io.Writer
	stderr   io.Writer
}

var commands = map[string]command{
	"login":    {"sign in and store the token pair", runLogin},
	"logout":   {"forget the stored tokens", runLogout},
	"whoami":   {"show the stored session", runWhoami},
	"slots":    {"list bookable time slots", runSlots},
	"book":     {"create or edit a booking through the wizard", runBook},
	"bookings": {"list the owner's bookings", runBookings},
	"status":   {"change a booking's status", runStatus},
	"react":    {"like, dislike or favorite a dish or restaurant", runReact},
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, ".env load warning: %v\n", err)
	}

	global := pflag.NewFlagSet("meishictl", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	logLevel := global.String("log-level", "warn", "log level written to stderr")
	global.BoolP("help", "h", false, "show help")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stderr, global)
			return nil
		}
		return err
	}
	if help, _ := global.GetBool("help"); help || global.NArg() == 0 {
		printUsage(stderr, global)
		return nil
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		printUsage(stderr, global)
		return fmt.Errorf("unknown command %q", name)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(stderr, logging.Config{Level: *logLevel, Format: cfg.Logging.Format})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.Multi(notify.NewLogNotifier(logger), noticePrinter(stderr))
	services, err := bootstrap.New(ctx, cfg, notifier)
	if err != nil {
		return err
	}
	defer services.Close()

	return cmd.run(ctx, &cliEnv{services: services, stdout: stdout, stderr: stderr}, global.Args()[1:])
}

// noticePrinter shows user notices the way a UI shell would toast them.
func noticePrinter(w io.Writer) notify.Notifier {
	return notify.Func(func(_ context.Context, notice notify.Notice) {
		fmt.Fprintf(w, "[%s] %s\n", notice.Level, notice.Message)
	})
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: meishictl [--log-level LEVEL] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags:")
	fmt.Fprint(w, global.FlagUsages())
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("meishictl "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func requireFlag(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
