// Package ssdp implements the discovery responder: it answers SSDP M-SEARCH
// queries on behalf of a Hue bridge that multicast cannot reach.
//
// # Protocol Overview
//
// SSDP discovery is HTTP-over-UDP. An enumerator (an Amazon Echo, a Hue app)
// multicasts to 239.255.255.250:1900:
//
//	M-SEARCH * HTTP/1.1
//	HOST: 239.255.255.250:1900
//	MAN: "ssdp:discover"
//	ST: ssdp:all
//	MX: 2
//
// Devices matching the ST service type reply by unicast to the sender,
// spreading their replies over a random delay of at most MX seconds so a
// popular query does not trigger a synchronized burst. hued replies exactly
// like an IpBridge firmware: three datagrams (upnp:rootdevice, bare uuid,
// urn:schemas-upnp-org:device:basic:1) whose LOCATION header points the
// enumerator at the real bridge's description.xml.
//
// # Structure
//
//   - ParseQuery: request-line check, header tokenizing, ST/MX filtering.
//   - Scheduler: per-query jittered one-shot timers and the reply burst.
//   - Responder: multicast socket ownership, receive loop, graceful shutdown.
//
// Queries that are malformed, carry an unsupported ST, or lack a parseable
// MX are discarded without a reply, which is the correct SSDP behavior for
// a device the query was not aimed at.
package ssdp
