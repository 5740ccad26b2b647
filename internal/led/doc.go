// Package led models the LED strip controller that sits behind the UDP
// transport: its configuration, the JSON commands it understands, and a
// Controller that keeps a local copy of the device state in sync.
//
// # Commands
//
// Every datagram is a JSON object with a "cmd" field:
//   - {"cmd":"get_config"} returns the current config as JSON
//   - {"cmd":"config", ...} sets any subset of the config fields
//   - {"cmd":"pixel","idx":N,"r":R,"g":G,"b":B} sets one pixel
//   - {"cmd":"save"}, {"cmd":"all_on"}, {"cmd":"all_off"} take no arguments
//
// Only get_config produces a reply. Everything else is fire-and-forget.
//
// # Usage Example
//
//	ctrl := led.NewController("192.168.1.117", udp.NewClient())
//	if _, err := ctrl.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	ctrl.Update(func(c *led.Config) {
//	    c.Effect = led.EffectComet
//	    c.CometLen = 10
//	})
//
//	hb := led.NewHeartbeat(ctrl, led.DefaultHeartbeatInterval)
//	hb.Start(ctx)
//	defer hb.Stop()
//
// The Heartbeat re-sends the full config on every tick while connected, so
// a lost datagram is corrected on the next one.
package led
