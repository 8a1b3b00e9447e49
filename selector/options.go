package selector

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/npillmayer/selquery/dom/host"
)

// Option configures an engine.
type Option func(*config) error

// config holds the engine configuration.
type config struct {
	host      host.Host
	registry  *Registry
	cacheSize int
	docSize   int
	native    bool
	buggy     []string
}

func defaultConfig() config {
	return config{
		cacheSize: DefaultCacheSize,
		docSize:   DefaultDocumentCacheSize,
		native:    true,
	}
}

// WithHost sets the host primitives the engine delegates to.
// The default is host.NewHTML(), which is backed by cascadia.
func WithHost(h host.Host) Option {
	return func(c *config) error {
		if h == nil {
			return errors.New("host must not be nil")
		}
		c.host = h
		return nil
	}
}

// WithRegistry sets the pseudo-class registry. The default is a private
// copy of DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(c *config) error {
		if r == nil {
			return errors.New("registry must not be nil")
		}
		c.registry = r
		return nil
	}
}

// WithCacheSize sets the capacity of each of the token, selector and
// non-native caches.
func WithCacheSize(size int) Option {
	return func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("cache size must be positive, is %d", size)
		}
		c.cacheSize = size
		return nil
	}
}

// WithDocumentCacheSize sets the number of documents the engine keeps probed
// host capabilities for.
func WithDocumentCacheSize(size int) Option {
	return func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("document cache size must be positive, is %d", size)
		}
		c.docSize = size
		return nil
	}
}

// WithNativeQueries enables or disables delegation to the host's native
// query and match primitives.
func WithNativeQueries(enable bool) Option {
	return func(c *config) error {
		c.native = enable
		return nil
	}
}

// WithBuggyPatterns adds regular expressions (regexp2 syntax) of selectors
// which must not be delegated to the host, in addition to the patterns the
// host reports itself.
func WithBuggyPatterns(patterns ...string) Option {
	return func(c *config) error {
		for _, p := range patterns {
			if _, err := regexp2.Compile(p, regexp2.None); err != nil {
				return fmt.Errorf("invalid buggy pattern %q: %w", p, err)
			}
		}
		c.buggy = append(c.buggy, patterns...)
		return nil
	}
}
