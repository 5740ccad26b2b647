package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ledlink/internal/config"
	"github.com/muurk/ledlink/internal/ui"
)

var devicesFormat string

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage remembered controllers",
	Long: `Controllers found by scan or connected to are remembered in the config
file, keyed by MAC address. Nicknames can be used anywhere --device is
accepted.`,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered controllers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if devicesFormat != formatTable && devicesFormat != formatJSON {
			return fmt.Errorf("unknown format %q (valid: %s, %s)", devicesFormat, formatTable, formatJSON)
		}
		return printRows(registryRows(), devicesFormat)
	},
}

var devicesNicknameCmd = &cobra.Command{
	Use:   "nickname <mac|ip|nickname> <name>",
	Short: "Give a remembered controller a nickname",
	Example: `  ledlink devices nickname aa:bb:cc:dd:ee:ff shelf
  ledlink devices nickname 192.168.1.50 desk`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mac, _, ok := registry.Lookup(args[0])
		if !ok {
			if _, err := net.ParseMAC(args[0]); err != nil {
				return fmt.Errorf("unknown device %q (run 'ledlink scan' first or pass a MAC address)", args[0])
			}
			mac = args[0]
		}

		registry.SetNickname(mac, args[1])
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		ui.NewPrinter(os.Stdout).PrintSuccess("Nickname Saved",
			ui.Detail{Key: "MAC", Value: mac},
			ui.Detail{Key: "Nickname", Value: args[1]},
		)
		return nil
	},
}

var devicesDefaultCmd = &cobra.Command{
	Use:   "default <ip|mac|nickname>",
	Short: "Set the controller used when --device is not given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ip := registry.ResolveIP(args[0])
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("cannot resolve %q to an IP address", args[0])
		}

		if registry.Preferences == nil {
			registry.Preferences = config.NewRegistry().Preferences
		}
		registry.Preferences.DefaultIP = ip
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		ui.NewPrinter(os.Stdout).PrintSuccess("Default Device Set", ui.Detail{Key: "IP", Value: ip})
		return nil
	},
}

func init() {
	devicesListCmd.Flags().StringVar(&devicesFormat, "format", formatTable, "Output format (table, json)")

	devicesCmd.AddCommand(devicesListCmd, devicesNicknameCmd, devicesDefaultCmd)
	rootCmd.AddCommand(devicesCmd)
}
