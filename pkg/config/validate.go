package config

import (
	"github.com/matzehuels/surveycloud/pkg/errors"
)

// Validate ensures the configuration is usable. Errors carry the
// INVALID_CONFIG code and name the offending key.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateStopwords(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.Width > maxCanvasSide || r.Height > maxCanvasSide {
		return errors.New(errors.ErrCodeInvalidConfig, "render: canvas %dx%d exceeds %d pixels per side", r.Width, r.Height, maxCanvasSide)
	}
	if r.Scale < 1 || r.Scale > maxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be between 1 and %d, got %d", maxScale, r.Scale)
	}
	if err := c.LayoutConfig().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render")
	}
	return nil
}

func (c *Config) validateStopwords() error {
	if c.Stopwords.MinLength < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "stopwords.min_length must be at least 1, got %d", c.Stopwords.MinLength)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLHours < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl_hours cannot be negative, got %d", c.Cache.TTLHours)
	}
	return nil
}
