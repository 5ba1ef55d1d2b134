package main

import (
	"flag"
	"fmt"
)

// Config holds the server settings
type Config struct {
	Addr      string  // Listen address
	TileSize  float64 // Pixels per map tile
	Width     int     // Canvas width in pixels
	Height    int     // Canvas height in pixels
	MapFile   string  // Optional map loaded into the first session on startup
	RateLimit float64 // Requests per second on compute endpoints, 0 disables
	RateBurst int
}

// Defaults match the 1024x768 canvas with 32 pixel tiles
const (
	defaultAddr     = ":8080"
	defaultTileSize = 32
	defaultWidth    = 1024
	defaultHeight   = 768
	defaultRate     = 20
	defaultBurst    = 40
)

// ParseConfig reads the configuration from command-line arguments
func ParseConfig(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("pathfinder", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", defaultAddr, "listen address")
	fs.Float64Var(&cfg.TileSize, "tile", defaultTileSize, "tile size in pixels")
	fs.IntVar(&cfg.Width, "width", defaultWidth, "canvas width in pixels")
	fs.IntVar(&cfg.Height, "height", defaultHeight, "canvas height in pixels")
	fs.StringVar(&cfg.MapFile, "map", "", "map file to load on startup")
	fs.Float64Var(&cfg.RateLimit, "rate", defaultRate, "requests per second on compute endpoints (0 disables)")
	fs.IntVar(&cfg.RateBurst, "burst", defaultBurst, "rate limiter burst size")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and fills in defaults for zero values
func (c *Config) Validate() error {
	// Set defaults
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.TileSize == 0 {
		c.TileSize = defaultTileSize
	}
	if c.Width == 0 {
		c.Width = defaultWidth
	}
	if c.Height == 0 {
		c.Height = defaultHeight
	}
	if c.RateBurst == 0 {
		c.RateBurst = defaultBurst
	}

	if c.TileSize < 0 {
		return fmt.Errorf("tile size must be positive, got %g", c.TileSize)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %g", c.RateLimit)
	}
	return nil
}

// GridWidth returns the canvas width in tiles
func (c Config) GridWidth() int {
	return int(float64(c.Width) / c.TileSize)
}

// GridHeight returns the canvas height in tiles
func (c Config) GridHeight() int {
	return int(float64(c.Height) / c.TileSize)
}
