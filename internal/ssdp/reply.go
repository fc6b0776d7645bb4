package ssdp

import "fmt"

// All three reply datagrams share this header block. The LOCATION points at
// the configured bridge target verbatim, not at hued's own address, and the
// SERVER token matches what an IpBridge 1.24 firmware sends so enumerators
// like the Amazon Echo accept the reply.
const replyHeader = "HTTP/1.1 200 OK\r\n" +
	"HOST: 239.255.255.250:1900\r\n" +
	"CACHE-CONTROL: max-age=100\r\n" +
	"EXT:\r\n" +
	"LOCATION: http://%s:%s/description.xml\r\n" +
	"SERVER: Linux/3.14.0 UPnP/1.0 IpBridge/1.24.0\r\n" +
	"hue-bridgeid: %s\r\n"

// The three ST/USN variants a real bridge advertises.
const (
	replyRootDevice = "ST: upnp:rootdevice\r\n" +
		"USN: uuid:%s::upnp:rootdevice\r\n" +
		"\r\n"
	replyUUID = "ST: uuid:%s\r\n" +
		"USN: uuid:%s\r\n" +
		"\r\n"
	replyBasicDevice = "ST: urn:schemas-upnp-org:device:basic:1\r\n" +
		"USN: uuid:%s\r\n" +
		"\r\n"
)

// buildReplies renders the three reply datagrams for one query.
func buildReplies(host, service, bridgeID string) [3][]byte {
	header := fmt.Sprintf(replyHeader, host, service, bridgeID)
	return [3][]byte{
		[]byte(header + fmt.Sprintf(replyRootDevice, bridgeID)),
		[]byte(header + fmt.Sprintf(replyUUID, bridgeID, bridgeID)),
		[]byte(header + fmt.Sprintf(replyBasicDevice, bridgeID)),
	}
}
