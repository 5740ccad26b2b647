// Package tui implements the interactive terminal interface for ledlink.
//
// Built on Bubble Tea, it follows the Elm architecture: models hold all
// state, Update returns a new model plus commands, and View is a pure
// function of the model. Network work runs inside commands so the UI never
// blocks.
//
// # Screens
//
//  1. Discovery:
//     - Broadcasts a discover datagram on start and on 'r'
//     - Shows a spinner and a progress bar over the scan window
//     - Lists answering controllers with IP, MAC and stored nickname
//     - Accepts a manual IPv4 address with 'm'
//
//  2. Control:
//     - Reads the controller config with get_config on entry
//     - Starts a heartbeat that re-sends the full config while connected
//     - Adjusts brightness, effect, breathing, direction and speed locally;
//     the heartbeat delivers each change
//     - Sends all_on/all_off directly and asks before saving to flash
//     - Shows a status line with heartbeat counters
//
// Leaving the control screen, or quitting, stops its heartbeat.
//
// # Registry
//
// When Options.Registry is set, scan results and connected configs are
// recorded on the UI goroutine and persisted through Options.SaveRegistry.
// Nicknames from the registry label devices in the list.
//
// # Usage
//
//	err := tui.Run(tui.Options{
//	    Context:           ctx,
//	    Client:            udp.NewClient(),
//	    Registry:          registry,
//	    SaveRegistry:      (*config.Registry).Save,
//	    HeartbeatInterval: registry.Preferences.HeartbeatInterval(),
//	})
package tui
