package ssdp

import (
	"strings"
	"testing"
)

func TestBuildReplies(t *testing.T) {
	replies := buildReplies("bridge.local", "80", "ABC-123")

	wantFirst := "HTTP/1.1 200 OK\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"CACHE-CONTROL: max-age=100\r\n" +
		"EXT:\r\n" +
		"LOCATION: http://bridge.local:80/description.xml\r\n" +
		"SERVER: Linux/3.14.0 UPnP/1.0 IpBridge/1.24.0\r\n" +
		"hue-bridgeid: ABC-123\r\n" +
		"ST: upnp:rootdevice\r\n" +
		"USN: uuid:ABC-123::upnp:rootdevice\r\n" +
		"\r\n"
	if got := string(replies[0]); got != wantFirst {
		t.Errorf("first reply =\n%q\nwant\n%q", got, wantFirst)
	}

	wantVariants := []struct {
		st  string
		usn string
	}{
		{"ST: upnp:rootdevice", "USN: uuid:ABC-123::upnp:rootdevice"},
		{"ST: uuid:ABC-123", "USN: uuid:ABC-123"},
		{"ST: urn:schemas-upnp-org:device:basic:1", "USN: uuid:ABC-123"},
	}
	for i, want := range wantVariants {
		reply := string(replies[i])
		if !strings.Contains(reply, want.st+"\r\n") {
			t.Errorf("reply %d missing %q:\n%s", i, want.st, reply)
		}
		if !strings.Contains(reply, want.usn+"\r\n") {
			t.Errorf("reply %d missing %q:\n%s", i, want.usn, reply)
		}
		if !strings.Contains(reply, "hue-bridgeid: ABC-123\r\n") {
			t.Errorf("reply %d missing bridge id:\n%s", i, reply)
		}
		if !strings.HasSuffix(reply, "\r\n\r\n") {
			t.Errorf("reply %d not terminated by blank line:\n%q", i, reply)
		}
	}
}

func TestBuildRepliesEmptyIdentifier(t *testing.T) {
	// Before the first successful fetch the identifier is empty; replies are
	// still well-formed, just degraded.
	replies := buildReplies("bridge.local", "80", "")
	if !strings.Contains(string(replies[0]), "hue-bridgeid: \r\n") {
		t.Errorf("expected empty bridge id header, got:\n%s", replies[0])
	}
	if !strings.Contains(string(replies[1]), "ST: uuid:\r\n") {
		t.Errorf("expected empty uuid ST, got:\n%s", replies[1])
	}
}
