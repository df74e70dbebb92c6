// Package config loads the site configuration: embedded YAML defaults,
// optionally overlaid by a user file and then by environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prakash023/portfolio/internal/hero"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Site     SiteConfig      `yaml:"site"`
	Map      MapConfig       `yaml:"map"`
	Hero     HeroConfig      `yaml:"hero"`
	Admin    AdminConfig     `yaml:"admin"`
	Projects []ProjectConfig `yaml:"projects"`
}

type ServerConfig struct {
	Port      string `yaml:"port"`
	Mode      string `yaml:"mode"`
	Database  string `yaml:"database"`
	StaticDir string `yaml:"static_dir"`
	ImagesDir string `yaml:"images_dir"`
}

type SiteConfig struct {
	Owner   string `yaml:"owner"`
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	About   string `yaml:"about"`
	GitHub  string `yaml:"github"`
}

// MapConfig pins the embedded map to one coordinate and zoom level.
type MapConfig struct {
	Element         string        `yaml:"element"`
	Latitude        float64       `yaml:"latitude"`
	Longitude       float64       `yaml:"longitude"`
	Zoom            int           `yaml:"zoom"`
	Popup           string        `yaml:"popup"`
	TileURL         string        `yaml:"tile_url"`
	Attribution     string        `yaml:"attribution"`
	Dragging        bool          `yaml:"dragging"`
	ScrollWheelZoom bool          `yaml:"scroll_wheel_zoom"`
	TouchZoom       bool          `yaml:"touch_zoom"`
	InvalidateDelay time.Duration `yaml:"invalidate_delay"`
}

type HeroConfig struct {
	Slots []SlotConfig `yaml:"slots"`
}

// SlotConfig places one effect in one hero canvas. Zero tuning values keep
// the effect's defaults.
type SlotConfig struct {
	Name              string  `yaml:"name"`
	Element           string  `yaml:"element"`
	Effect            string  `yaml:"effect"`
	Weight            float64 `yaml:"weight"`
	Density           float64 `yaml:"density"`
	Damping           float64 `yaml:"damping"`
	InfluenceRadius   float64 `yaml:"influence_radius"`
	InfluenceStrength float64 `yaml:"influence_strength"`
	TimeStep          float64 `yaml:"time_step"`
	Seed              uint64  `yaml:"seed"`
}

type AdminConfig struct {
	Retention time.Duration `yaml:"retention"`
}

type ProjectConfig struct {
	Key             string `yaml:"key"`
	Image           string `yaml:"image"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Tools           string `yaml:"tools"`
	Link            string `yaml:"link"`
	StaticPreview   string `yaml:"static_preview"`
	AnimatedPreview string `yaml:"animated_preview"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the embedded defaults and overlays the file at path, if any.
// Lists in the file replace the default lists as a whole.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides server settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := getenv("PORTFOLIO_DB"); v != "" {
		c.Server.Database = v
	}
}

func (c *Config) Validate() error {
	if c.Map.Latitude < -90 || c.Map.Latitude > 90 {
		return fmt.Errorf("map latitude %v out of range", c.Map.Latitude)
	}
	if c.Map.Longitude < -180 || c.Map.Longitude > 180 {
		return fmt.Errorf("map longitude %v out of range", c.Map.Longitude)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		return fmt.Errorf("map zoom %d out of range", c.Map.Zoom)
	}

	slots := make(map[string]bool, len(c.Hero.Slots))
	for _, s := range c.Hero.Slots {
		if s.Name == "" {
			return fmt.Errorf("hero slot without a name")
		}
		if slots[s.Name] {
			return fmt.Errorf("duplicate hero slot %q", s.Name)
		}
		slots[s.Name] = true
		if err := s.Renderer().Validate(); err != nil {
			return fmt.Errorf("hero slot %q: %w", s.Name, err)
		}
	}

	keys := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.Key == "" {
			return fmt.Errorf("project %q without a key", p.Title)
		}
		if keys[p.Key] {
			return fmt.Errorf("duplicate project key %q", p.Key)
		}
		keys[p.Key] = true
	}
	return nil
}

// Slot finds a hero slot by name.
func (c *Config) Slot(name string) (SlotConfig, bool) {
	for _, s := range c.Hero.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotConfig{}, false
}

// Renderer turns the slot into a renderer configuration on top of the
// effect's defaults.
func (s SlotConfig) Renderer() hero.Config {
	cfg := hero.DefaultConfig(s.Effect)
	if s.Density > 0 {
		cfg.Density = s.Density
	}
	if s.Damping > 0 {
		cfg.Damping = s.Damping
	}
	if s.InfluenceRadius > 0 {
		cfg.InfluenceRadius = s.InfluenceRadius
	}
	if s.InfluenceStrength > 0 {
		cfg.InfluenceStrength = s.InfluenceStrength
	}
	if s.TimeStep > 0 {
		cfg.TimeStep = s.TimeStep
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg
}
