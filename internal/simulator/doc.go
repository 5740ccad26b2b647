// Package simulator provides a stand-in LED strip controller.
//
// The simulator listens on UDP (port 8888 by default) and answers the same
// JSON commands as the firmware: discover, get_config, config, pixel, save,
// all_on and all_off. It keeps the resulting state in memory so tests and
// the `ledlink simulate` command can observe what a client did.
//
// # Usage Example
//
//	sim, err := simulator.New(&simulator.Config{Port: 8888, Announce: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sim.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package simulator
