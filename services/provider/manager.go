package provider

import (
	"context"
	"log"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"subresolver/models"
)

const defaultClientCacheSize = 256

// Manager hands out one Client per caller key so each caller gets its own
// rate limiter and queue. Clients are kept in a bounded LRU.
type Manager struct {
	opts       Options
	httpClient *http.Client

	mu      sync.Mutex
	clients *lru.Cache[string, *Client]
}

// NewManager creates a Manager. httpClient is shared by every caller's client
// and may be nil.
func NewManager(opts Options, maxClients int, httpClient *http.Client) *Manager {
	opts = normalizeOptions(opts)
	if maxClients <= 0 {
		maxClients = defaultClientCacheSize
	}
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeout)
	}
	clients, err := lru.New[string, *Client](maxClients)
	if err != nil {
		// Only reachable with a non-positive size, which is ruled out above.
		panic(err)
	}
	return &Manager{opts: opts, httpClient: httpClient, clients: clients}
}

// Client returns the caller's client, creating it on first use.
func (m *Manager) Client(callerKey string) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.clients.Get(callerKey); ok {
		return c
	}
	c := NewClient(callerKey, m.opts, m.httpClient)
	m.clients.Add(callerKey, c)
	log.Printf("[provider] created client (active clients: %d)", m.clients.Len())
	return c
}

// SearchByCatalogID searches the provider with the caller's credential.
func (m *Manager) SearchByCatalogID(ctx context.Context, callerKey, mediaID string) ([]models.SubtitleRecord, error) {
	return m.Client(callerKey).Search(ctx, mediaID)
}

// FetchPageMetadata scrapes a record page with the caller's credential.
func (m *Manager) FetchPageMetadata(ctx context.Context, callerKey, pageURL string) (models.PageMetadata, error) {
	return m.Client(callerKey).PageMetadata(ctx, pageURL)
}

// DownloadArchive downloads a record's archive through the caller's queue.
func (m *Manager) DownloadArchive(ctx context.Context, callerKey, recordID string) ([]byte, error) {
	return m.Client(callerKey).Download(ctx, recordID)
}

// QueueDepth reports the caller's pending request count without creating a client.
func (m *Manager) QueueDepth(callerKey string) int {
	m.mu.Lock()
	c, ok := m.clients.Peek(callerKey)
	m.mu.Unlock()
	if !ok {
		return 0
	}
	return c.QueueDepth()
}
