// Package discovery finds LED controllers over multicast DNS.
//
// It complements the UDP broadcast scan in package udp. Broadcasts do not
// cross subnets and some access points drop them, while mDNS is often
// relayed. Controllers (and the ledlink simulator) advertise the
// "_ledlink._udp" service with "ip" and "mac" TXT records.
//
// # Discovery Process
//
//  1. Browse for "_ledlink._udp.local." until the timeout expires
//  2. Take the address from the "ip" TXT record, else the advertised A/AAAA record
//  3. Keep the first entry seen for each IP
//
// # Usage Example
//
//	devices, err := discovery.ScanForDevices(3 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	broadcast, _ := udp.Scan()
//	for _, rec := range discovery.Merge(broadcast, discovery.Records(devices)) {
//	    fmt.Println(rec)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Firewall must allow mDNS (UDP port 5353)
package discovery
