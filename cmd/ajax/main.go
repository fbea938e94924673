package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ajaxclient/internal/cliconfig"
	"github.com/bft-labs/ajaxclient/pkg/status"
)

const longHelp = `Send one HTTP request and follow its lifecycle.

Every step (connect, request, response, receive, and the final outcome) is
logged as it happens. With --events each step is printed to stdout as a
CloudEvents JSON line instead of the response body.

Exit status is 0 only when the request ends in Success, 2 for any other
outcome, and 1 when the command could not run.`

var exampleUsage = strings.TrimSpace(`
  ajax get http://localhost:8080/status/200
  ajax post "http://localhost:8080/echo?name=ajax&n=1" --debug log
  ajax get http://localhost:8080/delay/5000 --timeout 1s --events
  ajax watch --config ./probe.toml
`)

// outcomeError reports a request that finished without Success.
type outcomeError struct {
	status status.Status
}

func (e *outcomeError) Error() string {
	return "request ended in " + e.status.String()
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	zl := cliconfig.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(zl)
	if err := root.ExecuteContext(ctx); err != nil {
		var oe *outcomeError
		if errors.As(err, &oe) {
			os.Exit(2)
		}
		zl.Error().Err(err).Msg("ajax")
		os.Exit(1)
	}
}

// flags holds values that are not part of cliconfig.Config.
type flags struct {
	cfgPath string
}

func newRootCommand(zl zerolog.Logger) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var f flags

	root := &cobra.Command{
		Use:           "ajax",
		Short:         "Asynchronous HTTP client with an observable request lifecycle",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.cfgPath, "config", "", "path to config file, TOML or YAML (default: $HOME/.ajax/config.toml)")
	pf.StringVar(&cfg.Name, "name", cfg.Name, "client name shown in log lines")
	pf.StringVar(&cfg.Debug, "debug", cfg.Debug, "verbosity: quiet, error, warning, log, info, debug")
	pf.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout (0 disables)")
	pf.StringVar(&cfg.RequestIDHeader, "request-id-header", cfg.RequestIDHeader, "header carrying the request id (empty disables)")
	pf.DurationVar(&cfg.ProgressInterval, "progress-interval", cfg.ProgressInterval, "minimum spacing of progress events")
	pf.BoolVar(&cfg.Events, "events", cfg.Events, "print lifecycle CloudEvents as JSON lines")

	get := &cobra.Command{
		Use:   "get URL",
		Short: "Send a GET request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg
			c.Method = "GET"
			if err := loadConfig(cmd, &c, f, args, "method"); err != nil {
				return err
			}
			return requestOnce(cmd.Context(), zl, c)
		},
	}

	post := &cobra.Command{
		Use:   "post URL[?BODY] [BODY]",
		Short: "Send a POST request with an urlencoded body",
		Long: `Send a POST request. The part of the target after the first '?' is sent
as an application/x-www-form-urlencoded body. A second argument is appended
as the body instead.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg
			c.Method = "POST"
			pinned := []string{"method"}
			if len(args) == 2 {
				c.Body = args[1]
				args = args[:1]
				pinned = append(pinned, "body")
			}
			if err := loadConfig(cmd, &c, f, args, pinned...); err != nil {
				return err
			}
			return requestOnce(cmd.Context(), zl, c)
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Re-send the configured request whenever the config file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(f)
			if path == "" || !cliconfig.FileExists(path) {
				return fmt.Errorf("watch needs an existing config file (--config)")
			}
			load := func() (cliconfig.Config, error) {
				c := cfg
				err := loadConfig(cmd, &c, f, nil)
				return c, err
			}
			return watchConfig(cmd.Context(), zl, path, load)
		},
	}
	watch.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period after a change before re-sending")

	root.AddCommand(get, post, watch)
	return root
}

func configPath(f flags) string {
	if f.cfgPath != "" {
		return f.cfgPath
	}
	return cliconfig.DefaultConfigPath()
}

// loadConfig applies file and environment config under the flags, then the
// positional url, and validates. pinned names fields the subcommand fixes.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, f flags, args []string, pinned ...string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })
	for _, name := range pinned {
		changed[name] = true
	}
	if len(args) > 0 {
		cfg.URL = args[0]
		changed["url"] = true
	}

	if p := configPath(f); p != "" && cliconfig.FileExists(p) {
		fc, err := cliconfig.LoadFileConfig(p)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	// Environment overrides the file; flags override both.
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}
