// Package config provides user configuration management for ledlink.
//
// This package manages a YAML file that remembers discovered LED controllers
// (keyed by MAC address) along with their nicknames, last known IP and last
// known config, plus application preferences.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ledlink/config.yaml or $HOME/.config/ledlink/config.yaml
//   - macOS: $HOME/.config/ledlink/config.yaml
//   - Windows: %LOCALAPPDATA%\ledlink\config.yaml
//
// Setting LEDLINK_CONFIG_DIR overrides the directory on every platform.
//
// # Security
//
// WiFi passwords are never written. led.WiFiNetwork omits its password from
// YAML and RememberConfig drops the WiFi list entirely.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	records, _ := udp.Scan()
//	registry.RecordScan(records)
//	registry.SetNickname("aa:bb:cc:dd:ee:ff", "Desk strip")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// File operations are serialized with a package mutex. The Registry value
// itself is not synchronized; callers that share one across goroutines must
// guard it.
package config
