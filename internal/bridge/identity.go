package bridge

import (
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akschmitt/hued/internal/logging"
)

// DescriptionPath is the well-known path of the bridge description document.
const DescriptionPath = "/description.xml"

// DefaultRefreshInterval is the minimum time between two description.xml
// fetches. Repeated discovery queries inside this window reuse the cached
// identifier so the bridge is not hammered by every M-SEARCH burst.
const DefaultRefreshInterval = 300 * time.Second

// deviceDescription maps the subset of description.xml we care about.
// The document is UPnP device description XML; only root.device.UDN is read.
type deviceDescription struct {
	XMLName xml.Name `xml:"root"`
	Device  struct {
		UDN string `xml:"UDN"`
	} `xml:"device"`
}

// Cache holds the bridge's unique identifier, refreshed from the bridge at
// most once per refresh interval.
//
// The refresh window is claimed before the fetch starts, so a failed fetch is
// not retried until the window elapses. That mirrors the behavior of a real
// deployment where the description document rarely changes and a flapping
// bridge should not be polled in a tight loop. On failure the previously
// cached identifier is kept (stale reads are fine, an empty reply burst is
// still a valid reply burst).
type Cache struct {
	target          Target
	refreshInterval time.Duration
	client          *http.Client

	// fetch is the identity fetch seam; tests and alternative transports
	// can replace it without touching the window gate.
	fetch func() (string, error)

	mu          sync.Mutex
	identifier  string
	nextRefresh time.Time
}

// NewCache creates a Cache for the given bridge target. A refreshInterval of
// zero selects DefaultRefreshInterval.
func NewCache(target Target, refreshInterval time.Duration) *Cache {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	c := &Cache{
		target:          target,
		refreshInterval: refreshInterval,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	c.fetch = c.fetchIdentifier
	return c
}

// Identifier returns the currently cached identifier. It is empty until the
// first successful fetch.
func (c *Cache) Identifier() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identifier
}

// EnsureFresh fetches the bridge identifier unless a fetch already ran within
// the current refresh window. Safe for concurrent use: the window is claimed
// under the lock before the fetch starts, so at most one fetch runs per
// window no matter how many queries arrive.
func (c *Cache) EnsureFresh() {
	c.mu.Lock()
	now := time.Now()
	if now.Before(c.nextRefresh) {
		c.mu.Unlock()
		return
	}
	c.nextRefresh = now.Add(c.refreshInterval)
	c.mu.Unlock()

	id, err := c.fetch()
	logging.LogRefresh(c.target.String(), id, err)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.identifier = id
	c.mu.Unlock()
}

// descriptionURL resolves the target's service (a port number or a service
// name like "http") and returns the URL of the description document.
func (c *Cache) descriptionURL() (string, error) {
	port, err := net.LookupPort("tcp", c.target.Service)
	if err != nil {
		return "", fmt.Errorf("cannot resolve service %q: %w", c.target.Service, err)
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(c.target.Host, strconv.Itoa(port)), DescriptionPath), nil
}

// fetchIdentifier downloads description.xml from the bridge and extracts the
// device UDN, with a leading "uuid:" prefix stripped.
func (c *Cache) fetchIdentifier() (string, error) {
	url, err := c.descriptionURL()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build description request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Close = true

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read description document: %w", err)
	}

	var desc deviceDescription
	if err := xml.Unmarshal(body, &desc); err != nil {
		return "", fmt.Errorf("failed to parse description document: %w", err)
	}

	udn := strings.TrimSpace(desc.Device.UDN)
	if udn == "" {
		return "", fmt.Errorf("description document has no device UDN")
	}

	return strings.TrimPrefix(udn, "uuid:"), nil
}
