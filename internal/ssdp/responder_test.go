package ssdp

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akschmitt/hued/internal/bridge"
)

const testDescription = `<?xml version="1.0" encoding="UTF-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
    <friendlyName>Philips hue</friendlyName>
    <UDN>uuid:ABC-123</UDN>
  </device>
</root>`

// newTestResponder wires a Responder against an httptest bridge serving the
// canned description document. The multicast socket is never bound; tests
// inject datagrams through handleDatagram.
func newTestResponder(t *testing.T) *Responder {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, testDescription)
	}))
	t.Cleanup(server.Close)

	host, port, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	if err != nil {
		t.Fatalf("failed to split test server address: %v", err)
	}

	r, err := New(&Config{
		ListenAddress:  "127.0.0.1",
		MulticastGroup: "239.255.255.250",
		Bridge:         bridge.Target{Host: host, Service: port},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Shutdown() })
	return r
}

func TestResponder_AcceptedQueryYieldsThreeReplies(t *testing.T) {
	r := newTestResponder(t)
	requester, addr := newTestRequester(t)

	// Prime the identity cache so the burst carries the fetched identifier
	// even when the jittered delay rounds down to zero.
	r.cache.EnsureFresh()
	if got := r.cache.Identifier(); got != "ABC-123" {
		t.Fatalf("cache.Identifier() = %q, want %q", got, "ABC-123")
	}

	datagram := "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"ST: ssdp:all\r\n" +
		"MX: 2\r\n" +
		"\r\n"
	r.handleDatagram([]byte(datagram), addr)

	datagrams := readDatagrams(t, requester, 3, 3*time.Second)

	wantVariants := map[string]string{
		"ST: upnp:rootdevice\r\n":                     "USN: uuid:ABC-123::upnp:rootdevice\r\n",
		"ST: uuid:ABC-123\r\n":                        "USN: uuid:ABC-123\r\n",
		"ST: urn:schemas-upnp-org:device:basic:1\r\n": "USN: uuid:ABC-123\r\n",
	}
	for _, d := range datagrams {
		if !strings.Contains(d, "hue-bridgeid: ABC-123\r\n") {
			t.Errorf("reply missing bridge id:\n%s", d)
		}
		matched := false
		for st, usn := range wantVariants {
			if strings.Contains(d, st) {
				matched = true
				if !strings.Contains(d, usn) {
					t.Errorf("reply with %q missing %q:\n%s", st, usn, d)
				}
				delete(wantVariants, st)
				break
			}
		}
		if !matched {
			t.Errorf("reply matches no expected variant:\n%s", d)
		}
	}
	if len(wantVariants) != 0 {
		t.Errorf("variants never seen: %v", wantVariants)
	}
}

func TestResponder_UnsupportedServiceTypeYieldsNothing(t *testing.T) {
	r := newTestResponder(t)
	requester, addr := newTestRequester(t)

	datagram := "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"ST: urn:some-other-device:1\r\n" +
		"MX: 2\r\n" +
		"\r\n"
	r.handleDatagram([]byte(datagram), addr)

	if got := r.scheduler.PendingCount(); got != 0 {
		t.Errorf("PendingCount() = %d, want 0", got)
	}

	_ = requester.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	buf := make([]byte, 2048)
	if n, _, err := requester.ReadFromUDP(buf); err == nil {
		t.Errorf("received %d bytes for unsupported service type, want none", n)
	}
}

func TestResponder_MalformedDatagramsAreDiscarded(t *testing.T) {
	r := newTestResponder(t)
	_, addr := newTestRequester(t)

	for _, datagram := range []string{
		"",
		"GET / HTTP/1.1\r\n\r\n",
		"M-SEARCH * HTTP/1.1\r\nST: ssdp:all\r\n", // no MX
		"M-SEARCH * HTTP/1.1\r\nMX: 2\r\n",        // no ST
	} {
		r.handleDatagram([]byte(datagram), addr)
	}

	if got := r.scheduler.PendingCount(); got != 0 {
		t.Errorf("PendingCount() = %d, want 0", got)
	}
}

func TestResponder_RepliesDegradeBeforeFirstFetch(t *testing.T) {
	// A query arriving before any successful fetch is still answered, with
	// an empty identifier.
	r := newTestResponder(t)
	requester, addr := newTestRequester(t)

	datagram := "M-SEARCH * HTTP/1.1\r\n" +
		"ST: ssdp:all\r\n" +
		"MX: 0\r\n" +
		"\r\n"
	r.handleDatagram([]byte(datagram), addr)

	datagrams := readDatagrams(t, requester, 3, 2*time.Second)
	for _, d := range datagrams {
		if !strings.HasPrefix(d, "HTTP/1.1 200 OK\r\n") {
			t.Errorf("degraded reply is malformed:\n%s", d)
		}
	}
}

func TestResponder_ShutdownWithoutStart(t *testing.T) {
	r := newTestResponder(t)
	if err := r.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestResponder_InvalidGroupFailsBind(t *testing.T) {
	r, err := New(&Config{
		ListenAddress:  "127.0.0.1",
		MulticastGroup: "not-an-address",
		Bridge:         bridge.Target{Host: "bridge.local", Service: "80"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = r.Shutdown() }()

	if err := r.bind(); err == nil {
		t.Error("bind() with invalid group succeeded, want error")
	}
}
