// Package logging provides structured logging for ledlink.
//
// This package wraps a global zap logger with convenience functions used by
// the UDP operations, the LED controller, the simulator and the websocket
// bridge.
//
// # Log Levels
//
//   - Debug: packet dumps (hex and ascii), dropped discovery replies, poll timeouts
//   - Info: scans finished, bridge sessions, simulator lifecycle
//   - Warn: non-fatal issues (heartbeat send failures, mDNS browse errors)
//   - Error: startup failures
//
// # Silent By Default
//
// The CLI is silent unless a level is requested, either with --log-level or
// the LEDLINK_LOG_LEVEL environment variable:
//
//	LEDLINK_LOG_LEVEL=debug ledlink scan
//
// Logs go to stderr so that command output on stdout stays machine-readable
// (for example `ledlink scan --format json`).
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Scan finished", zap.Int("devices", 2))
//	logging.LogPacket("received", "192.168.1.20:8888", payload)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned.
package logging
