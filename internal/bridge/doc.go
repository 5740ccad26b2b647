// Package bridge exposes the UDP controller operations over a websocket.
//
// A browser or desktop UI that cannot open UDP sockets itself connects to
// /ws and sends invocations:
//
//	{"id":"1","cmd":"send","args":{"ip":"192.168.1.117","data":"{\"cmd\":\"all_on\"}"}}
//	{"id":"2","cmd":"sendAndReceive","args":{"ip":"192.168.1.117","data":"{\"cmd\":\"get_config\"}"}}
//	{"id":"3","cmd":"scan"}
//
// The snake_case names send_udp, send_and_receive_udp and scan_devices are
// accepted as aliases. Every invocation runs on its own goroutine, so a
// 2 second scan does not hold up sends issued after it. Replies carry the
// request id and arrive in completion order:
//
//	{"id":"1","ok":true,"result":"Sent"}
//	{"id":"2","ok":false,"error":"Device not responding (timeout)","kind":"Timeout"}
//
// The server also serves Prometheus metrics at /metrics and a liveness
// probe at /healthz.
package bridge
