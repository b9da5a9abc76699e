// Package staticabi serves the bundled fallback ABI definitions for
// well-known system contracts. They are needed when an account's ABI cannot
// be queried, most notably to decode the system contract's own setabi action.
package staticabi

import (
	"context"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

//go:embed abis/*.abi.json
var abiFS embed.FS

var (
	cacheOnce sync.Once
	cache     *bigcache.BigCache
	cacheErr  error
)

// sharedCache is process wide and read-through; the underlying definitions
// are immutable so sharing across requests is safe.
func sharedCache() (*bigcache.BigCache, error) {
	cacheOnce.Do(func() {
		cache, cacheErr = bigcache.New(context.Background(), bigcache.DefaultConfig(time.Hour))
	})

	return cache, cacheErr
}

// Load returns the bundled ABI JSON for an account, or an error when none is
// bundled for it.
func Load(account string) ([]byte, error) {
	c, err := sharedCache()
	if err != nil {
		return nil, fmt.Errorf("static abi cache: %w", err)
	}

	if data, err := c.Get(account); err == nil {
		return data, nil
	}

	data, err := abiFS.ReadFile("abis/" + account + ".abi.json")
	if err != nil {
		return nil, fmt.Errorf("no bundled ABI for account %q", account)
	}

	_ = c.Set(account, data)

	return data, nil
}
