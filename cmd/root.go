package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Mohsinsiddi/walletfetch/internal/balance"
	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/config"
	"github.com/Mohsinsiddi/walletfetch/internal/engine"
	"github.com/Mohsinsiddi/walletfetch/internal/logging"
	"github.com/Mohsinsiddi/walletfetch/internal/rpc"
	"github.com/Mohsinsiddi/walletfetch/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/walletfetch/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir    string
	cfg       *config.Config
	log       *zap.Logger
	verbose   bool
	timeout   time.Duration
	jsonOut   bool
	live      bool
	precision int32
	compact   bool
)

// errNoAddress is returned when neither an argument nor the config names a target.
var errNoAddress = errors.New("no address provided: pass it as an argument or set address in the config file")

// errInterrupted is returned when the live view is closed before the run ends.
var errInterrupted = errors.New("interrupted")

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "walletfetch [address-or-name]",
	Short: "Neofetch for your wallet",
	Long: `walletfetch shows the native and token balances of one wallet across
every configured EVM network, fetched in parallel.

The target is a 0x address or an ENS name (resolved on the chain id 1
network). Without an argument the address from the config file is used.

Networks and tokens are read from ~/.config/walletfetch/config.toml
(override with --config or WALLETFETCH_CONFIG_DIR).

Examples:
  walletfetch 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045
  walletfetch vitalik.eth --live
  walletfetch --json | jq '.networks[].balances'`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logging.NewWithWriter(level, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		for _, w := range cfg.Warnings() {
			log.Warn("config", zap.String("path", cfg.Path()), zap.String("warning", w))
		}
		return nil
	},
	RunE: runBalances,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		if errors.Is(err, config.ErrConfigNotFound) {
			fmt.Fprintln(os.Stderr, ui.Hint("create it with at least one [networks.<chain id>] table"))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: ~/.config/walletfetch)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "overall fetch deadline (default: config timeout)")

	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	rootCmd.Flags().BoolVar(&live, "live", false, "show per-network progress while fetching")
	rootCmd.Flags().Int32Var(&precision, "precision", ui.DefaultRenderOptions.Precision, "decimals shown per amount (-1 for exact)")
	rootCmd.Flags().BoolVar(&compact, "compact", false, "abbreviate large amounts (K/M/B)")
	rootCmd.MarkFlagsMutuallyExclusive("json", "live")

	rootCmd.AddCommand(
		resolveCmd,
		networksCmd,
	)
}

func runBalances(cmd *cobra.Command, args []string) error {
	target := cfg.Address
	if len(args) == 1 && args[0] != "" {
		target = args[0]
	}
	if target == "" {
		return errNoAddress
	}

	set, err := cfg.NetworkSet()
	if err != nil {
		return fmt.Errorf("loading networks: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res *engine.Result
	switch {
	case live && isTerminal(cmd.ErrOrStderr()):
		res, err = runLive(ctx, cmd.ErrOrStderr(), target, set)
	case jsonOut || !isTerminal(cmd.ErrOrStderr()):
		res, err = newEngine(set).Run(ctx, target)
	default:
		spin := ui.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Fetching balances on %d network(s)...", set.Len()))
		spin.Start()
		res, err = newEngine(set).Run(ctx, target)
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return ui.RenderJSON(cmd.OutOrStdout(), res)
	}
	ui.Render(cmd.OutOrStdout(), res, set, ui.RenderOptions{Precision: precision, Compact: compact})
	return nil
}

// runLive runs the engine while a Bubble Tea view on out tracks progress.
func runLive(ctx context.Context, out io.Writer, target string, set chain.NetworkSet) (*engine.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var p *tea.Program
	eng := newEngine(set, engine.WithProgress(func(pr balance.Progress) {
		p.Send(ui.ProgressMsg(pr))
	}))
	p = tea.NewProgram(ui.NewLiveModel(target, set), tea.WithOutput(out), tea.WithContext(ctx))

	done := make(chan ui.DoneMsg, 1)
	go func() {
		res, err := eng.Run(ctx, target)
		msg := ui.DoneMsg{Result: res, Err: err}
		done <- msg
		p.Send(msg)
	}()

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-done
		return nil, fmt.Errorf("live view: %w", err)
	}
	if m, ok := final.(ui.LiveModel); ok && m.Quitting {
		cancel()
		<-done
		return nil, errInterrupted
	}

	msg := <-done
	return msg.Result, msg.Err
}

// newEngine wires the engine from the loaded config and flags.
func newEngine(set chain.NetworkSet, opts ...engine.Option) *engine.Engine {
	settings := cfg.Settings()
	if timeout > 0 {
		settings.Timeout = timeout
	}
	return engine.New(settings, set, newCaller(), log, opts...)
}

func newCaller() *rpc.Client {
	return rpc.NewClient(
		rpc.WithLogger(log),
		rpc.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// commandContext bounds a single command by the configured timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d := cfg.Settings().Timeout
	if timeout > 0 {
		d = timeout
	}
	if d <= 0 {
		d = engine.DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
