// Ledlink is a controller utility for WiFi LED strip controllers that speak
// JSON over UDP port 8888.
//
// It discovers controllers by broadcast (and optionally mDNS), sends raw or
// structured commands, keeps a controller in sync with a heartbeat, and can
// run a device simulator or a websocket bridge for remote UIs.
//
// Usage:
//
//	ledlink [command] [flags]
//
// Running without arguments launches the interactive TUI.
// See 'ledlink --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/config"
	"github.com/muurk/ledlink/internal/logging"
	"github.com/muurk/ledlink/internal/tui"
	"github.com/muurk/ledlink/internal/udp"
	"github.com/muurk/ledlink/internal/ui"
	"github.com/muurk/ledlink/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		ui.NewPrinter(os.Stderr).PrintError(commandTitle(err), err)
		os.Exit(1)
	}
}

// Global flags and state
var (
	deviceFlag   string
	logLevel     string
	replyTimeout = udp.ReplyTimeout

	registry *config.Registry
)

var rootCmd = &cobra.Command{
	Use:   "ledlink",
	Short: "LED strip controller utility",
	Long: `A utility for WiFi LED strip controllers that speak JSON over UDP.

Discovers controllers on the local network, sends commands, and keeps a
controller in sync while you adjust it.

If no command is specified, the interactive TUI will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "Controller IP, MAC or nickname (default: preferences.default_ip)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); empty is silent")
	rootCmd.PersistentFlags().DurationVar(&replyTimeout, "timeout", udp.ReplyTimeout, "Reply timeout for request/response commands")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the device registry for every command
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Failed to load config, using defaults", zap.Error(err))
		reg = config.NewRegistry()
	}
	registry = reg
	return nil
}

// newClient returns a UDP client honouring the --timeout flag
func newClient() *udp.Client {
	client := udp.NewClient()
	if replyTimeout > 0 {
		client.ReplyTimeout = replyTimeout
	}
	return client
}

// resolveDevice maps --device through the registry
func resolveDevice() string {
	return registry.ResolveIP(deviceFlag)
}

// saveRegistry persists the registry, logging failures
func saveRegistry() {
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

func commandTitle(err error) string {
	if kind, ok := udp.KindOf(err); ok {
		return kind.String()
	}
	return "Command failed"
}

func runTUI(cmd *cobra.Command, args []string) error {
	tui.ApplyTheme(registry.Preferences.Theme)

	var ip string
	if deviceFlag != "" {
		ip = resolveDevice()
	}

	err := tui.Run(tui.Options{
		Context:           cmd.Context(),
		Client:            newClient(),
		ScanWindow:        udp.ScanWindow,
		HeartbeatInterval: registry.Preferences.HeartbeatInterval(),
		Registry:          registry,
		SaveRegistry:      (*config.Registry).Save,
		DeviceIP:          ip,
	})
	if err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ledlink %s (commit: %s)\n", version.Version, version.Commit)
	},
}
