// Package ui provides styled terminal output for the ledlink CLI.
//
// Unlike the interactive TUI, these components print once and return. They
// use Lipgloss for layout and fall back to a 60 column width when stdout is
// not a terminal.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure and warning boxes with ordered details
//   - Device table: scan and registry listings
//   - Confirm: y/N prompt in front of operations that rewrite device flash
//
// Failure boxes built from UDP errors carry the troubleshooting bullets from
// udp.Hint, so every command reports transport problems the same way.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Send", "ledlink send", ui.Detail{Key: "Device", Value: ip})
//	if err := client.Send(ip, payload); err != nil {
//	    p.PrintError("Send failed", err)
//	    return err
//	}
//	p.PrintSuccess("Sent", ui.Detail{Key: "Bytes", Value: strconv.Itoa(len(payload))})
package ui
