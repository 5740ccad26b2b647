package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/led"
	"github.com/muurk/ledlink/internal/logging"
	"github.com/muurk/ledlink/internal/ui"
)

// led get flags
var getFormat string

// led set flags
var (
	setEffect       string
	setBright       int
	setColor        string
	setBreath       bool
	setBreathFreq   int
	setDir          string
	setSpeed        int
	setCometLen     int
	setCometRainbow bool
	setActiveLen    int
	setTotalLEDs    int
	setNoRead       bool
	setSave         bool
	setHold         bool
)

// led save / wifi flags
var assumeYes bool

// led pixel flags
var pixelClear bool

var ledCmd = &cobra.Command{
	Use:   "led",
	Short: "Control an LED strip controller",
	Long: `Send structured commands to a controller. The target is --device, or
preferences.default_ip when no device is given.`,
}

var ledOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn every LED on",
	Args:  cobra.NoArgs,
	RunE:  simpleCommand(led.CmdAllOn, "LEDs On"),
}

var ledOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn every LED off",
	Args:  cobra.NoArgs,
	RunE:  simpleCommand(led.CmdAllOff, "LEDs Off"),
}

var ledSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist the running config to flash",
	Long: `Ask the controller to write its running config to flash so it survives
a power cycle. Prompts for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runLEDSave,
}

var ledGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Read and print the controller config",
	Example: `  ledlink led get
  ledlink led get --device shelf --format json`,
	Args: cobra.NoArgs,
	RunE: runLEDGet,
}

var ledSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change config fields and send the full config",
	Long: `Read the controller config, overlay the given flags, validate, and send
the result as a single config command.

With --hold the config is then re-sent on the heartbeat interval until
interrupted, which keeps the strip in sync if a datagram is lost.`,
	Example: `  ledlink led set --effect static --color '#ff8800'
  ledlink led set --bright 64 --breath=false --save
  ledlink led set --effect comet --speed 70 --hold`,
	Args: cobra.NoArgs,
	RunE: runLEDSet,
}

var ledPixelCmd = &cobra.Command{
	Use:   "pixel <idx> [<r> <g> <b>]",
	Short: "Set, fill or clear a single pixel",
	Long: `Set one pixel. With r g b the pixel gets that colour; with only an index
it takes the configured solid colour; with --clear it is turned off.`,
	Example: `  ledlink led pixel 3 255 0 0
  ledlink led pixel 3
  ledlink led pixel 3 --clear`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 4 {
			return fmt.Errorf("expected <idx> or <idx> <r> <g> <b>, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runLEDPixel,
}

var ledWiFiCmd = &cobra.Command{
	Use:   "wifi <ssid:pass>...",
	Short: "Replace the controller's WiFi station list",
	Long: `Send a new list of WiFi networks for the controller to join. Each
argument is ssid:pass; the password may be empty for open networks.
Prompts for confirmation unless --yes is given.`,
	Example: `  ledlink led wifi home:secret backup:other`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runLEDWiFi,
}

func init() {
	ledGetCmd.Flags().StringVar(&getFormat, "format", formatTable, "Output format (table, json)")

	f := ledSetCmd.Flags()
	f.StringVar(&setEffect, "effect", "", "Effect name or number ("+strings.Join(led.EffectNames(), ", ")+")")
	f.IntVar(&setBright, "bright", 0, "Brightness 0-255")
	f.StringVar(&setColor, "color", "", "Solid colour as #rrggbb")
	f.BoolVar(&setBreath, "breath", false, "Enable breathing")
	f.IntVar(&setBreathFreq, "breath-freq", 0, "Breathing frequency 5-60")
	f.StringVar(&setDir, "dir", "", "Flow direction (forward, reverse)")
	f.IntVar(&setSpeed, "speed", 0, "Flow speed 0-100")
	f.IntVar(&setCometLen, "comet-len", 0, "Comet tail length 1-30")
	f.BoolVar(&setCometRainbow, "comet-rainbow", false, "Rainbow comet tail")
	f.IntVar(&setActiveLen, "active-len", 0, "Number of lit LEDs")
	f.IntVar(&setTotalLEDs, "total-leds", 0, "Strip length")
	f.BoolVar(&setNoRead, "no-read", false, "Start from the remembered config instead of reading the device")
	f.BoolVar(&setSave, "save", false, "Persist to flash after applying")
	f.BoolVar(&setHold, "hold", false, "Keep re-sending the config until interrupted")

	ledSaveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	ledWiFiCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	ledPixelCmd.Flags().BoolVar(&pixelClear, "clear", false, "Turn the pixel off")

	ledCmd.AddCommand(ledOnCmd, ledOffCmd, ledSaveCmd, ledGetCmd, ledSetCmd, ledPixelCmd, ledWiFiCmd)
	rootCmd.AddCommand(ledCmd)
}

// newController builds a controller for --device seeded with the remembered config
func newController() *led.Controller {
	ip := resolveDevice()
	ctrl := led.NewController(ip, newClient())
	if _, dev, ok := registry.Lookup(ip); ok && dev.Config != nil {
		remembered := *dev.Config
		ctrl.Update(func(c *led.Config) { *c = remembered })
	}
	return ctrl
}

func simpleCommand(name, title string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctrl := newController()
		if err := ctrl.Command(cmd.Context(), name); err != nil {
			return err
		}
		ui.NewPrinter(os.Stdout).PrintSuccess(title, ui.Detail{Key: "Device", Value: ctrl.IP()})
		return nil
	}
}

func runLEDSave(cmd *cobra.Command, args []string) error {
	ctrl := newController()

	if !assumeYes {
		ok := ui.Confirm(os.Stdin, os.Stdout, "SAVE TO FLASH", []string{
			fmt.Sprintf("The running config on %s will be written to flash", ctrl.IP()),
			"It will be restored after the next power cycle",
		})
		if !ok {
			return nil
		}
	}

	if err := ctrl.Command(cmd.Context(), led.CmdSave); err != nil {
		return err
	}
	ui.NewPrinter(os.Stdout).PrintSuccess("Saved to Flash", ui.Detail{Key: "Device", Value: ctrl.IP()})
	return nil
}

func runLEDGet(cmd *cobra.Command, args []string) error {
	if getFormat != formatTable && getFormat != formatJSON {
		return fmt.Errorf("unknown format %q (valid: %s, %s)", getFormat, formatTable, formatJSON)
	}

	ctrl := newController()
	cfg, err := ctrl.Connect(cmd.Context())
	if err != nil {
		return err
	}
	rememberConfig(ctrl.IP(), cfg)

	if getFormat == formatJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	ui.NewPrinter(os.Stdout).PrintSuccess("Controller Config", configDetails(ctrl.IP(), cfg)...)
	return nil
}

// configDetails renders cfg as result box rows
func configDetails(ip string, cfg led.Config) []ui.Detail {
	return []ui.Detail{
		{Key: "Device", Value: ip},
		{Key: "Effect", Value: cfg.Effect.String()},
		{Key: "Brightness", Value: strconv.Itoa(cfg.Bright)},
		{Key: "Color", Value: cfg.Color()},
		{Key: "Breathing", Value: fmt.Sprintf("%t (freq %d)", cfg.BreathEnabled, cfg.BreathFreq)},
		{Key: "Direction", Value: directionLabel(cfg.Dir)},
		{Key: "Speed", Value: strconv.Itoa(cfg.FlowSpeed)},
		{Key: "Comet", Value: fmt.Sprintf("len %d, rainbow %t", cfg.CometLen, cfg.CometRainbow)},
		{Key: "LEDs", Value: fmt.Sprintf("%d of %d", cfg.ActiveLen, cfg.TotalLEDs)},
	}
}

func directionLabel(dir int) string {
	if dir == led.DirReverse {
		return "reverse"
	}
	return "forward"
}

func parseDirection(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "1", "+1":
		return led.DirForward, nil
	case "reverse", "rev", "-1":
		return led.DirReverse, nil
	default:
		return 0, led.NewValidationError("dir", fmt.Sprintf("unknown direction %q (valid: forward, reverse)", s))
	}
}

// applyFlags overlays every flag the user set onto cfg
func applyFlags(cmd *cobra.Command, cfg *led.Config) error {
	changed := cmd.Flags().Changed

	if changed("effect") {
		effect, err := led.ParseEffect(setEffect)
		if err != nil {
			return err
		}
		cfg.Effect = effect
	}
	if changed("color") {
		if err := cfg.SetColor(setColor); err != nil {
			return err
		}
	}
	if changed("dir") {
		dir, err := parseDirection(setDir)
		if err != nil {
			return err
		}
		cfg.Dir = dir
	}
	if changed("bright") {
		cfg.Bright = setBright
	}
	if changed("breath") {
		cfg.BreathEnabled = setBreath
	}
	if changed("breath-freq") {
		cfg.BreathFreq = setBreathFreq
	}
	if changed("speed") {
		cfg.FlowSpeed = setSpeed
	}
	if changed("comet-len") {
		cfg.CometLen = setCometLen
	}
	if changed("comet-rainbow") {
		cfg.CometRainbow = setCometRainbow
	}
	if changed("total-leds") {
		cfg.TotalLEDs = setTotalLEDs
	}
	if changed("active-len") {
		cfg.ActiveLen = setActiveLen
	}
	return nil
}

func runLEDSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ctrl := newController()

	if !setNoRead {
		if _, err := ctrl.Connect(ctx); err != nil {
			return err
		}
	}

	cfg := ctrl.Config()
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}
	ctrl.Update(func(c *led.Config) { *c = cfg })

	if err := ctrl.Apply(ctx); err != nil {
		return err
	}
	rememberConfig(ctrl.IP(), cfg)

	if setSave {
		if err := ctrl.Command(ctx, led.CmdSave); err != nil {
			return err
		}
	}

	printer := ui.NewPrinter(os.Stdout)
	details := configDetails(ctrl.IP(), cfg)
	if setSave {
		details = append(details, ui.Detail{Key: "Saved", Value: "yes"})
	}
	printer.PrintSuccess("Config Applied", details...)

	if setHold {
		return hold(cmd, ctrl)
	}
	return nil
}

// hold runs a heartbeat for ctrl until the command context is cancelled
func hold(cmd *cobra.Command, ctrl *led.Controller) error {
	ctx := cmd.Context()
	hb := led.NewHeartbeat(ctrl, registry.Preferences.HeartbeatInterval())
	hb.Start(ctx)
	defer hb.Stop()

	fmt.Printf("Holding config on %s every %s (Ctrl+C to stop)\n", ctrl.IP(), hb.Interval())
	<-ctx.Done()

	stats := hb.Stats()
	logging.Info("Heartbeat stopped",
		zap.Uint64("sent", stats.Sent),
		zap.Uint64("failed", stats.Failed))
	fmt.Printf("Sent %d heartbeats (%d failed)\n", stats.Sent, stats.Failed)
	return nil
}

func runLEDPixel(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return led.NewValidationError("idx", fmt.Sprintf("not a number: %q", args[0]))
	}

	ctx := cmd.Context()
	ctrl := newController()
	detail := ui.Detail{Key: "Pixel", Value: strconv.Itoa(idx)}

	switch {
	case pixelClear:
		if len(args) != 1 {
			return fmt.Errorf("--clear takes only a pixel index")
		}
		err = ctrl.ClearPixel(ctx, idx)
	case len(args) == 4:
		var rgb [3]int
		for i, arg := range args[1:] {
			if rgb[i], err = strconv.Atoi(arg); err != nil {
				return led.NewValidationError("rgb", fmt.Sprintf("not a number: %q", arg))
			}
		}
		err = ctrl.SetPixel(ctx, idx, rgb[0], rgb[1], rgb[2])
	default:
		err = ctrl.SetPixelToSolid(ctx, idx)
	}
	if err != nil {
		return err
	}

	ui.NewPrinter(os.Stdout).PrintSuccess("Pixel Updated", ui.Detail{Key: "Device", Value: ctrl.IP()}, detail)
	return nil
}

// parseNetworks turns ssid:pass arguments into station entries. The SSID is
// everything before the first colon.
func parseNetworks(args []string) ([]led.WiFiNetwork, error) {
	networks := make([]led.WiFiNetwork, 0, len(args))
	for _, arg := range args {
		ssid, pass, found := strings.Cut(arg, ":")
		if !found {
			return nil, led.NewValidationError("wifi", fmt.Sprintf("expected ssid:pass, got %q", arg))
		}
		networks = append(networks, led.WiFiNetwork{SSID: ssid, Pass: pass})
	}
	if errs := led.ValidateWiFi(networks); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return networks, nil
}

func runLEDWiFi(cmd *cobra.Command, args []string) error {
	networks, err := parseNetworks(args)
	if err != nil {
		return err
	}

	ctrl := newController()
	ssids := make([]string, len(networks))
	for i, n := range networks {
		ssids[i] = n.SSID
	}

	if !assumeYes && !ui.WiFiOverwriteConfirmation(os.Stdin, os.Stdout, ctrl.IP(), ssids) {
		return nil
	}

	if err := ctrl.SaveWiFi(cmd.Context(), networks); err != nil {
		return err
	}
	ui.NewPrinter(os.Stdout).PrintSuccess("WiFi Networks Sent",
		ui.Detail{Key: "Device", Value: ctrl.IP()},
		ui.Detail{Key: "Networks", Value: strings.Join(ssids, ", ")},
	)
	return nil
}

// rememberConfig stores cfg against the device at ip when it is known
func rememberConfig(ip string, cfg led.Config) {
	if registry.RememberConfig(ip, cfg) {
		saveRegistry()
	}
}
