package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lowapp/nodesim/internal/nodeconfig"
)

const (
	// DefaultDialTimeout bounds the WebSocket handshake
	DefaultDialTimeout = 5 * time.Second

	// requestTimeout bounds one request/response exchange
	requestTimeout = 10 * time.Second
)

// Client is a console session with a running node
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex // one request/response exchange at a time
}

// Dial connects to a node console. addr is a bare "host:port" or a URL in
// the ws or http scheme family.
func Dial(addr string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultDialTimeout)
	defer cancel()
	return DialContext(ctx, addr)
}

// DialContext connects with a caller-supplied context
func DialContext(ctx context.Context, addr string) (*Client, error) {
	u, err := endpointURL(addr, "ws", "/console")
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to node console at %s: %w", addr, err)
	}

	return &Client{conn: conn}, nil
}

// exchange sends one request line and waits for the matching response.
// The protocol pairs every request with exactly one in-order response, so
// serializing exchanges keeps the pairing trivial.
func (c *Client) exchange(request string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(requestTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(request)); err != nil {
		return "", fmt.Errorf("failed to send console request: %w", err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(requestTimeout))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("failed to read console response: %w", err)
	}

	return ParseResponse(string(data))
}

// Get returns the canonical rendering of one field
func (c *Client) Get(key string) (string, error) {
	return c.exchange("get " + key)
}

// Set writes one field on the node
func (c *Client) Set(key, value string) error {
	_, err := c.exchange("set " + key + ":" + value)
	return err
}

// SetVerified writes one field and reads it back, failing when the value
// the node stores does not match what was sent. The expected rendering is
// computed locally, so a malformed value fails before touching the network.
func (c *Client) SetVerified(key, value string) error {
	want, err := nodeconfig.Canonical(key, value)
	if err != nil {
		return err
	}
	if err := c.Set(key, value); err != nil {
		return err
	}
	got, err := c.Get(key)
	if err != nil {
		return fmt.Errorf("readback after set failed: %w", err)
	}
	if got != want {
		return fmt.Errorf("verification failed for %s: sent %s, node stores %s", key, want, got)
	}
	return nil
}

// Keys returns the field keys the node accepts, in record order
func (c *Client) Keys() ([]string, error) {
	payload, err := c.exchange("keys")
	if err != nil {
		return nil, err
	}
	return strings.Fields(payload), nil
}

// Identity returns the node's identifier
func (c *Client) Identity() (string, error) {
	return c.exchange("id")
}

// Save asks the node to persist its record and returns the path written
func (c *Client) Save() (string, error) {
	return c.exchange("save")
}

// Close ends the console session
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

// FetchSnapshot retrieves the JSON status document a node serves at its
// console root. addr takes the same forms as Dial.
func FetchSnapshot(addr string) (*Snapshot, error) {
	u, err := endpointURL(addr, "http", "/")
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: DefaultDialTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch node snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("node snapshot request returned %s", resp.Status)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode node snapshot: %w", err)
	}
	return &snap, nil
}

// endpointURL normalizes addr into a URL in the given scheme family
// ("ws" or "http") pointing at path. Bare host:port addresses and URLs from
// either family are accepted, so a registry entry, an mDNS result, or a
// pasted snapshot URL all work.
func endpointURL(addr, scheme, path string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("node console address is empty")
	}
	if !strings.Contains(addr, "://") {
		return scheme + "://" + addr + path, nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid console address %q: %w", addr, err)
	}

	secure := false
	switch u.Scheme {
	case "ws", "http":
	case "wss", "https":
		secure = true
	default:
		return "", fmt.Errorf("invalid console address %q: unsupported scheme %q", addr, u.Scheme)
	}

	u.Scheme = scheme
	if secure {
		u.Scheme += "s"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = path
	}
	return u.String(), nil
}
