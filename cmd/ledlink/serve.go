package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/ledlink/internal/bridge"
	"github.com/muurk/ledlink/internal/simulator"
	"github.com/muurk/ledlink/internal/udp"
	"github.com/muurk/ledlink/internal/ui"
	"github.com/muurk/ledlink/internal/version"
)

// DefaultBridgePort is the websocket bridge listen port
const DefaultBridgePort = 8765

// Simulator flags
var (
	simHost     string
	simPort     int
	simIP       string
	simMAC      string
	simAnnounce bool
	simInstance string
)

// Bridge flags
var (
	bridgeHost string
	bridgePort int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated LED controller",
	Long: `Run a device simulator that answers discover, get_config, config, pixel,
all_on, all_off and save the way a real controller does.

Useful for developing against the protocol without hardware. With
--announce the simulator also advertises itself over mDNS.`,
	Example: `  ledlink simulate
  ledlink simulate --port 9999 --mac aa:bb:cc:dd:ee:ff --announce`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Expose controller commands over a websocket",
	Long: `Start a websocket bridge so a UI running elsewhere (for example in a
browser) can scan for and drive controllers on this host's network.

Endpoints:
  /ws        JSON request/response websocket (send, request, scan)
  /metrics   Prometheus metrics
  /healthz   Liveness check`,
	Example: `  ledlink bridge
  ledlink bridge --host 0.0.0.0 --port 9000`,
	Args: cobra.NoArgs,
	RunE: runBridge,
}

func init() {
	simulateCmd.Flags().StringVar(&simHost, "host", "", "Listen host (default: all interfaces)")
	simulateCmd.Flags().IntVar(&simPort, "port", udp.Port, "UDP listen port")
	simulateCmd.Flags().StringVar(&simIP, "ip", "", "IP reported in discover replies (default: local address facing the requester)")
	simulateCmd.Flags().StringVar(&simMAC, "mac", "", "MAC reported in discover replies (default: random)")
	simulateCmd.Flags().BoolVar(&simAnnounce, "announce", false, "Advertise over mDNS")
	simulateCmd.Flags().StringVar(&simInstance, "instance", "", "mDNS instance name (default: derived from the MAC)")

	bridgeCmd.Flags().StringVar(&bridgeHost, "host", "127.0.0.1", "Listen host")
	bridgeCmd.Flags().IntVar(&bridgePort, "port", DefaultBridgePort, "Listen port")

	rootCmd.AddCommand(simulateCmd, bridgeCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sim, err := simulator.New(&simulator.Config{
		Host:     simHost,
		Port:     simPort,
		IP:       simIP,
		MAC:      simMAC,
		Announce: simAnnounce,
		Instance: simInstance,
	})
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	details := []ui.Detail{
		{Key: "Listen", Value: fmt.Sprintf("%s:%d", hostLabel(simHost), simPort)},
		{Key: "MAC", Value: sim.MAC()},
		{Key: "mDNS", Value: strconv.FormatBool(simAnnounce)},
	}
	ui.NewPrinter(os.Stdout).PrintHeader("LED CONTROLLER SIMULATOR", "ledlink simulate", details...)
	fmt.Println("Press Ctrl+C to stop")

	return sim.Start(cmd.Context())
}

func runBridge(cmd *cobra.Command, args []string) error {
	server := bridge.New(&bridge.Config{
		Host:    bridgeHost,
		Port:    bridgePort,
		Version: version.Version,
	}, newClient())

	ui.NewPrinter(os.Stdout).PrintHeader("WEBSOCKET BRIDGE", "ledlink bridge",
		ui.Detail{Key: "Websocket", Value: fmt.Sprintf("ws://%s:%d/ws", bridgeHost, bridgePort)},
		ui.Detail{Key: "Metrics", Value: fmt.Sprintf("http://%s:%d/metrics", bridgeHost, bridgePort)},
	)
	fmt.Println("Press Ctrl+C to stop")

	return server.Start(cmd.Context())
}

func hostLabel(host string) string {
	if host == "" {
		return "0.0.0.0"
	}
	return host
}
