package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeRender()
	c.normalizeStopwords()
	return c.normalizePaths()
}

func (c *Config) normalizeRender() {
	r := &c.Render
	r.Background = strings.ToLower(strings.TrimSpace(r.Background))
	r.Colormap = strings.ToLower(strings.TrimSpace(r.Colormap))
	r.Font = strings.ToLower(strings.TrimSpace(r.Font))
	if r.Scale == 0 {
		r.Scale = defaultScale
	}
}

func (c *Config) normalizeStopwords() {
	words := c.Stopwords.Extra[:0]
	for _, w := range c.Stopwords.Extra {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	c.Stopwords.Extra = words
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Stopwords.File, err = expandPath(strings.TrimSpace(c.Stopwords.File)); err != nil {
		return fmt.Errorf("stopwords.file: %w", err)
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	c.Storage.DSN = strings.TrimSpace(c.Storage.DSN)
	if c.Storage.DSN == "" {
		c.Storage.DSN = defaultStorePath()
	}
	// Only plain paths are expanded; URLs are handed to the store as is.
	if !strings.Contains(c.Storage.DSN, "://") {
		if c.Storage.DSN, err = expandPath(c.Storage.DSN); err != nil {
			return fmt.Errorf("storage.dsn: %w", err)
		}
	}
	c.Cache.RedisAddr = strings.TrimSpace(c.Cache.RedisAddr)
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	return nil
}
