// Package voices manages the set of registered voice models and bounds how
// many of them hold a live inference session at once.
package voices

import (
	"fmt"
	"sync"

	"github.com/kanade-tts/kanade/internal/archive"
	"github.com/kanade-tts/kanade/internal/core"
	"github.com/kanade-tts/kanade/internal/style"
)

// SessionFactory instantiates an inference session from in-memory ONNX
// weights.
type SessionFactory func(weights []byte) (core.Vocoder, error)

// Voice is one registered model. Weights and style vectors stay resident
// for the voice's whole lifetime; only the session comes and goes.
type Voice struct {
	ident   string
	styles  *style.Vectors
	weights []byte
	session core.Vocoder
}

// Ident returns the voice's registration identifier.
func (v *Voice) Ident() string {
	return v.ident
}

// Styles returns the voice's style-vector matrix.
func (v *Voice) Styles() *style.Vectors {
	return v.styles
}

// Session returns the live inference session, or nil for a cold voice.
func (v *Voice) Session() core.Vocoder {
	return v.session
}

// Cache is a bounded registry of voices. With a positive limit, at most
// that many voices keep a live session; registration and readiness evict
// older sessions to stay under it. A zero limit disables eviction.
type Cache struct {
	mu      sync.Mutex
	factory SessionFactory
	maxLive int
	voices  []*Voice
}

// NewCache creates a voice cache. maxLive bounds concurrent live sessions;
// zero means unbounded.
func NewCache(factory SessionFactory, maxLive int) *Cache {
	return &Cache{factory: factory, maxLive: maxLive}
}

// Register adds a voice from raw weights and style vectors. Registering an
// existing identifier is a no-op. The new voice receives a session
// immediately unless the cache is saturated, in which case it stays cold
// until first use.
func (c *Cache) Register(ident string, styleVectors, weights []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lookup(ident) != nil {
		return nil
	}

	styles, err := style.Parse(styleVectors)
	if err != nil {
		return fmt.Errorf("failed to parse styles for voice %q: %w", ident, err)
	}

	voice := &Voice{ident: ident, styles: styles, weights: weights}

	if c.maxLive == 0 || c.countLive() < c.maxLive {
		session, err := c.factory(weights)
		if err != nil {
			return fmt.Errorf("failed to create session for voice %q: %w", ident, err)
		}

		voice.session = session
	}

	c.voices = append(c.voices, voice)

	return nil
}

// RegisterPackage adds a voice from an in-memory voice package.
func (c *Cache) RegisterPackage(ident string, raw []byte) error {
	pkg, err := archive.Unpack(raw)
	if err != nil {
		return fmt.Errorf("failed to unpack voice %q: %w", ident, err)
	}

	return c.Register(ident, pkg.StyleVectors, pkg.Weights)
}

// RegisterPackageFile adds a voice from a voice package on disk.
func (c *Cache) RegisterPackageFile(ident, filePath string) error {
	pkg, err := archive.UnpackFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to unpack voice %q: %w", ident, err)
	}

	return c.Register(ident, pkg.StyleVectors, pkg.Weights)
}

// Unregister removes a voice and closes its session if live. Unknown
// identifiers are a no-op.
func (c *Cache) Unregister(ident string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, voice := range c.voices {
		if voice.ident != ident {
			continue
		}

		if voice.session != nil {
			voice.session.Close()
			voice.session = nil
		}

		c.voices = append(c.voices[:i], c.voices[i+1:]...)

		return
	}
}

// EnsureReady guarantees the named voice has a live session, reviving a
// cold voice from its resident weights. The new session is created before
// any eviction, so a factory failure leaves every other voice untouched.
func (c *Cache) EnsureReady(ident string) (*Voice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	voice := c.lookup(ident)
	if voice == nil {
		return nil, fmt.Errorf("%w: %q", core.ErrModelNotFound, ident)
	}

	if voice.session != nil {
		return voice, nil
	}

	session, err := c.factory(voice.weights)
	if err != nil {
		return nil, fmt.Errorf("failed to revive voice %q: %w", ident, err)
	}

	if c.maxLive > 0 && c.countLive() >= c.maxLive-1 {
		c.evictOther(ident)
	}

	voice.session = session

	return voice, nil
}

// Get returns a registered voice without changing its session state.
func (c *Cache) Get(ident string) (*Voice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	voice := c.lookup(ident)
	if voice == nil {
		return nil, fmt.Errorf("%w: %q", core.ErrModelNotFound, ident)
	}

	return voice, nil
}

// Idents lists registered voices in registration order.
func (c *Cache) Idents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	idents := make([]string, len(c.voices))
	for i, voice := range c.voices {
		idents[i] = voice.ident
	}

	return idents
}

// LiveCount reports how many voices currently hold a session. An unbounded
// cache reports its total voice count.
func (c *Cache) LiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxLive == 0 {
		return len(c.voices)
	}

	return c.countLive()
}

// IsSaturated reports whether the live-session bound has been reached.
func (c *Cache) IsSaturated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.maxLive > 0 && c.countLive() >= c.maxLive
}

// Close shuts down every live session.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, voice := range c.voices {
		if voice.session != nil {
			voice.session.Close()
			voice.session = nil
		}
	}
}

func (c *Cache) lookup(ident string) *Voice {
	for _, voice := range c.voices {
		if voice.ident == ident {
			return voice
		}
	}

	return nil
}

func (c *Cache) countLive() int {
	live := 0

	for _, voice := range c.voices {
		if voice.session != nil {
			live++
		}
	}

	return live
}

// evictOther drops the session of the first live voice other than keep.
func (c *Cache) evictOther(keep string) {
	for _, voice := range c.voices {
		if voice.ident == keep || voice.session == nil {
			continue
		}

		voice.session.Close()
		voice.session = nil

		return
	}
}
