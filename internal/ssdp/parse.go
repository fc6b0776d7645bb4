package ssdp

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

// requestLine is the only request line answered. The match is case-sensitive
// and anchored at the start of the datagram.
const requestLine = "M-SEARCH * HTTP/1.1"

// serviceTypes lists the ST values a Hue bridge answers to. Anything else is
// some other device class and gets no reply.
var serviceTypes = map[string]bool{
	"urn:schemas-upnp-org:device:Basic:1": true,
	"upnp:rootdevice":                     true,
	"ssdpsearch:all":                      true,
	"ssdp:all":                            true,
}

// Query is the parsed form of one accepted M-SEARCH datagram.
type Query struct {
	// ServiceType is the ST header value, one of serviceTypes.
	ServiceType string
	// MaxDelay is the MX header value: the number of seconds the reply may
	// be delayed to spread out responses from multiple devices.
	MaxDelay uint16
}

var (
	errNotMSearch             = errors.New("not an M-SEARCH request")
	errUnsupportedServiceType = errors.New("unsupported service type")
	errBadMaxDelay            = errors.New("missing or unparseable MX header")
)

// ParseQuery validates and parses one inbound datagram. Any error means the
// datagram is silently discarded by the caller; the errors only feed debug
// logging.
func ParseQuery(data []byte) (*Query, error) {
	if !bytes.HasPrefix(data, []byte(requestLine)) {
		return nil, errNotMSearch
	}

	headers := parseHeaders(string(data[len(requestLine):]))

	st := headers["ST"]
	if !serviceTypes[st] {
		return nil, errUnsupportedServiceType
	}

	mx, err := strconv.ParseUint(headers["MX"], 10, 16)
	if err != nil {
		return nil, errBadMaxDelay
	}

	return &Query{ServiceType: st, MaxDelay: uint16(mx)}, nil
}

// parseHeaders tokenizes "Name: value" pairs from the datagram remainder.
// Name and value are both runs of non-whitespace separated by a colon and
// whitespace; the last occurrence of a duplicate name wins and unknown
// headers are simply carried along unused.
func parseHeaders(s string) map[string]string {
	headers := make(map[string]string)
	fields := strings.Fields(s)
	for i := 0; i+1 < len(fields); i++ {
		name, ok := strings.CutSuffix(fields[i], ":")
		if !ok || name == "" {
			continue
		}
		headers[name] = fields[i+1]
		i++ // value token consumed
	}
	return headers
}
