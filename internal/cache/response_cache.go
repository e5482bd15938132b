package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
)

const originalMessageLimit = 100

// Payload is the minimal slice of a chat response worth keeping around for
// replays and degraded-mode fallbacks.
type Payload struct {
	Reply             string                    `json:"reply"`
	TranslationInfo   *models.TranslationInfo   `json:"translation_info,omitempty"`
	ExplanationResult *models.ExplanationResult `json:"explanation_result,omitempty"`
	FinalApproved     bool                      `json:"final_approved"`
	Success           bool                      `json:"success"`
	IsFallback        bool                      `json:"is_fallback,omitempty"`
}

type entry struct {
	payload   Payload
	createdAt time.Time
	ttl       time.Duration
	// Truncated original message, kept for similarity matching.
	originalMessage string
}

type Stats struct {
	TotalEntries   int   `json:"total_entries"`
	ActiveEntries  int   `json:"active_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	MaxEntries     int   `json:"max_entries"`
	DefaultTTLSecs int64 `json:"default_ttl_seconds"`
}

// ResponseCache is a process-local, TTL- and size-bounded store of prior
// successful chat responses. One instance is constructed in main and shared
// by every request; all mutation happens under mu so an entry is published
// whole or not at all.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
	defaultTTL time.Duration
	now        func() time.Time
	log        *logrus.Logger
}

func New(maxEntries int, defaultTTL time.Duration, log *logrus.Logger) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if log == nil {
		log = logrus.New()
	}
	return &ResponseCache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		now:        time.Now,
		log:        log,
	}
}

// SetClock overrides the time source. Intended for tests.
func (c *ResponseCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func normalizeKey(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func cacheKey(message string, hasDocument bool) string {
	data := normalizeKey(message) + "|doc:" + strconv.FormatBool(hasDocument)
	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])[:16]
}

// Put stores a response under the normalized message key with the default TTL.
func (c *ResponseCache) Put(message string, p Payload, hasDocument bool) {
	c.PutTTL(message, p, hasDocument, 0)
}

// PutTTL stores a response with a TTL override (0 means default). After the
// insert, expired entries are expunged and the oldest entries are evicted
// until the size bound holds.
func (c *ResponseCache) PutTTL(message string, p Payload, hasDocument bool, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	original := message
	if len(original) > originalMessageLimit {
		original = original[:originalMessageLimit]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(message, hasDocument)] = entry{
		payload:         p,
		createdAt:       c.now(),
		ttl:             ttl,
		originalMessage: original,
	}
	c.expungeExpiredLocked()
	c.enforceSizeLimitLocked()
}

// Get returns the stored payload for the message, deleting and reporting a
// miss when the entry's TTL has elapsed.
func (c *ResponseCache) Get(message string, hasDocument bool) (Payload, bool) {
	key := cacheKey(message, hasDocument)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Payload{}, false
	}
	if c.now().Sub(e.createdAt) > e.ttl {
		delete(c.entries, key)
		return Payload{}, false
	}
	return e.payload, true
}

// FindSimilar scans every stored entry and returns the payload whose original
// message has the highest token-set Jaccard similarity with the input, if any
// scores at or above threshold.
func (c *ResponseCache) FindSimilar(message string, threshold float64) (Payload, bool) {
	inputWords := tokenSet(normalizeKey(message))

	c.mu.Lock()
	defer c.mu.Unlock()

	var best Payload
	bestScore := 0.0
	found := false

	for _, e := range c.entries {
		cachedWords := tokenSet(normalizeKey(e.originalMessage))
		if len(cachedWords) == 0 {
			continue
		}
		score := jaccard(inputWords, cachedWords)
		if score >= threshold && score > bestScore {
			bestScore = score
			best = e.payload
			found = true
		}
	}
	return best, found
}

// FallbackResponse synthesizes a degraded-mode reply: a similar cached
// response when one exists, otherwise a structured canned reply embedding the
// original message and the reason code. It is always marked successful so the
// caller still has something to present.
func (c *ResponseCache) FallbackResponse(message, reason string) Payload {
	if similar, ok := c.FindSimilar(message, 0.3); ok {
		similar.Reply = "[Cached Response] Service temporarily unavailable. Here's a previous similar response:\n\n" + similar.Reply
		similar.IsFallback = true
		return similar
	}

	c.mu.Lock()
	total := len(c.entries)
	ts := c.now().UTC().Format(time.RFC3339)
	c.mu.Unlock()

	sections := []string{
		"Summary:",
		"The AI service is temporarily unavailable, but here is a structured response.",
		"",
		"Your Request:",
		message,
		"",
		"Key Points:",
		"- Your message has been received and processed locally",
		"- This is a temporary fallback response",
		"- Full AI capabilities will return when the service reconnects",
		"",
		"Status Information:",
		fmt.Sprintf("reason=%s timestamp=%s message_length=%d cache_entries=%d",
			reason, ts, len(message), total),
		"",
		"Next Steps:",
		"- Try your request again in a few moments",
		"- The system will automatically reconnect when available",
	}

	return Payload{
		Reply:         strings.Join(sections, "\n"),
		Success:       true,
		FinalApproved: true,
		IsFallback:    true,
	}
}

func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for _, e := range c.entries {
		if now.Sub(e.createdAt) > e.ttl {
			expired++
		}
	}
	return Stats{
		TotalEntries:   len(c.entries),
		ActiveEntries:  len(c.entries) - expired,
		ExpiredEntries: expired,
		MaxEntries:     c.maxEntries,
		DefaultTTLSecs: int64(c.defaultTTL.Seconds()),
	}
}

func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.log.Info("response cache cleared")
}

func (c *ResponseCache) expungeExpiredLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.createdAt) > e.ttl {
			delete(c.entries, k)
		}
	}
}

// Eviction is oldest-by-insertion-timestamp, not least-recently-read.
func (c *ResponseCache) enforceSizeLimitLocked() {
	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.createdAt.Before(oldest) {
				oldestKey = k
				oldest = e.createdAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
