// Package udp implements the three datagram operations used to talk to LED
// controllers on the local network.
//
// Every controller listens on UDP port 8888. The operations are:
//
//   - Send: one datagram to ip:8888, no reply awaited
//   - SendAndReceive: one datagram, then wait up to 2s for a single reply
//   - Scan: broadcast {"cmd":"discover"} to 255.255.255.255:8888 and collect
//     {"ip","mac"} replies for 2s, polling every 100ms
//
// Each call opens its own ephemeral socket and closes it before returning, so
// calls are independent and may run concurrently.
//
// # Discovery
//
// A scan keeps the first record seen for each IP address, in arrival order.
// Replies that are not JSON objects with string "ip" and "mac" fields are
// dropped without failing the scan. A scan that hears nothing returns an
// empty slice and no error.
//
//	records, err := udp.Scan()
//	if err != nil {
//	    return err
//	}
//	for _, r := range records {
//	    fmt.Println(r.IP, r.MAC)
//	}
//
// # Errors
//
// All failures are *Error values with a Kind. Use IsTimeout to tell a silent
// device apart from a local failure, and ShortMessage or Hint for text meant
// for users.
package udp
