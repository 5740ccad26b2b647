package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/bridge"
	"github.com/muurk/ledlink/internal/discovery"
	"github.com/muurk/ledlink/internal/logging"
	"github.com/muurk/ledlink/internal/udp"
	"github.com/muurk/ledlink/internal/ui"
	"github.com/muurk/ledlink/internal/urls"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

// Send/request flags
var (
	sendQuiet  bool
	requestRaw bool
)

// Scan flags
var (
	scanMDNS   bool
	scanFormat string
	scanWindow time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <data>",
	Short: "Send a raw datagram to a controller",
	Long: `Send a single datagram to the controller on UDP port 8888 without
waiting for a reply.`,
	Example: `  ledlink send '{"cmd":"all_on"}'
  ledlink send --device 192.168.1.50 '{"cmd":"save"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

var requestCmd = &cobra.Command{
	Use:   "request <data>",
	Short: "Send a datagram and print the reply",
	Long: `Send a datagram to the controller and wait for a single reply from
the same address. JSON replies are indented unless --raw is given.

Command reference: ` + urls.ProtocolReference,
	Example: `  ledlink request '{"cmd":"get_config"}'
  ledlink request --raw --timeout 5s '{"cmd":"get_config"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover controllers on the local network",
	Long: `Broadcast a discover request and collect replies for the scan window.

With --mdns, controllers advertising over mDNS are browsed at the same time
and merged into the result. Found controllers are remembered in the config
file so they can be addressed by nickname later.`,
	Example: `  ledlink scan
  ledlink scan --mdns --format json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	sendCmd.Flags().BoolVarP(&sendQuiet, "quiet", "q", false, "Print nothing on success")
	requestCmd.Flags().BoolVar(&requestRaw, "raw", false, "Print the reply exactly as received")

	scanCmd.Flags().BoolVar(&scanMDNS, "mdns", false, "Also browse for controllers over mDNS")
	scanCmd.Flags().StringVar(&scanFormat, "format", formatTable, "Output format (table, json)")
	scanCmd.Flags().DurationVar(&scanWindow, "window", udp.ScanWindow, "How long to collect discover replies")

	rootCmd.AddCommand(sendCmd, requestCmd, scanCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	ip := resolveDevice()
	logging.Debug("Sending datagram", zap.String("ip", ip), zap.Int("bytes", len(args[0])))

	if err := newClient().SendContext(cmd.Context(), ip, args[0]); err != nil {
		return err
	}
	if !sendQuiet {
		fmt.Println(bridge.SentResult)
	}
	return nil
}

func runRequest(cmd *cobra.Command, args []string) error {
	ip := resolveDevice()
	logging.Debug("Sending request", zap.String("ip", ip), zap.Int("bytes", len(args[0])))

	reply, err := newClient().SendAndReceiveContext(cmd.Context(), ip, args[0])
	if err != nil {
		return err
	}
	if requestRaw {
		fmt.Println(reply)
		return nil
	}
	fmt.Println(prettyJSON(reply))
	return nil
}

// prettyJSON indents s when it is valid JSON and returns it unchanged otherwise
func prettyJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanFormat != formatTable && scanFormat != formatJSON {
		return fmt.Errorf("unknown format %q (valid: %s, %s)", scanFormat, formatTable, formatJSON)
	}

	ctx := cmd.Context()
	client := newClient()
	client.ScanWindow = scanWindow

	var (
		wg        sync.WaitGroup
		mdns      []udp.DeviceRecord
		broadcast []udp.DeviceRecord
		scanErr   error
	)

	if scanMDNS {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scanner := discovery.NewScanner()
			if scanWindow > scanner.Timeout {
				scanner.Timeout = scanWindow
			}
			devices, err := scanner.ScanForDevicesWithContext(ctx)
			if err != nil {
				logging.Warn("mDNS browse failed", zap.Error(err))
				return
			}
			mdns = discovery.Records(devices)
		}()
	}

	broadcast, scanErr = client.ScanContext(ctx)
	wg.Wait()

	records := discovery.Merge(broadcast, mdns)
	logging.Info("Scan complete",
		zap.Int("broadcast", len(broadcast)),
		zap.Int("mdns", len(mdns)),
		zap.Int("total", len(records)))

	if len(records) > 0 {
		registry.RecordScan(records)
		saveRegistry()
	}

	if err := printRecords(records, scanFormat); err != nil {
		return err
	}
	return scanErr
}

// scanResult is the JSON shape printed by scan and devices list
type scanResult struct {
	IP       string     `json:"ip"`
	MAC      string     `json:"mac"`
	Nickname string     `json:"nickname,omitempty"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// deviceRows annotates records with what the registry knows about them
func deviceRows(records []udp.DeviceRecord) []ui.DeviceRow {
	rows := make([]ui.DeviceRow, 0, len(records))
	for _, r := range records {
		row := ui.DeviceRow{IP: r.IP, MAC: r.MAC}
		if dev := registry.GetDevice(r.MAC); dev != nil {
			row.Nickname = dev.Nickname
			row.LastSeen = dev.LastSeen
		}
		rows = append(rows, row)
	}
	return rows
}

func printRecords(records []udp.DeviceRecord, format string) error {
	return printRows(deviceRows(records), format)
}

func printRows(rows []ui.DeviceRow, format string) error {
	if format == formatJSON {
		out := make([]scanResult, 0, len(rows))
		for _, r := range rows {
			res := scanResult{IP: r.IP, MAC: r.MAC, Nickname: r.Nickname}
			if !r.LastSeen.IsZero() {
				seen := r.LastSeen
				res.LastSeen = &seen
			}
			out = append(out, res)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	ui.NewPrinter(os.Stdout).PrintDeviceTable(rows)
	return nil
}

// registryRows lists every remembered controller, most recently seen first
func registryRows() []ui.DeviceRow {
	rows := make([]ui.DeviceRow, 0, len(registry.Devices))
	for mac, dev := range registry.Devices {
		if dev == nil {
			continue
		}
		rows = append(rows, ui.DeviceRow{
			IP:       dev.LastIP,
			MAC:      strings.ToLower(mac),
			Nickname: dev.Nickname,
			LastSeen: dev.LastSeen,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].LastSeen.Equal(rows[j].LastSeen) {
			return rows[i].LastSeen.After(rows[j].LastSeen)
		}
		return rows[i].MAC < rows[j].MAC
	})
	return rows
}
