package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultPrefix is used when neither the startup file nor the guild defines one
const DefaultPrefix = "ma!"

// File is the startup configuration file (config.yaml)
type File struct {
	GlobalPrefix     string        `yaml:"globalPrefix"`
	Version          string        `yaml:"version"`
	Embeds           Embeds        `yaml:"embeds"`
	PrefixCacheTTL   time.Duration `yaml:"prefixCacheTTL"`
	CollectorTimeout time.Duration `yaml:"collectorTimeout"`
}

// Embeds holds the embed palette and assets
type Embeds struct {
	Colors   Palette `yaml:"colors"`
	ErrorImg string  `yaml:"errorImg"`
}

// Palette holds the embed colors as hex strings ("#5865F2")
type Palette struct {
	Main    string `yaml:"main"`
	Success string `yaml:"success"`
	Error   string `yaml:"error"`
	Warning string `yaml:"warning"`
}

// DefaultFile returns the values used when config.yaml is absent
func DefaultFile() *File {
	return &File{
		GlobalPrefix: DefaultPrefix,
		Version:      Version,
		Embeds: Embeds{
			Colors: Palette{
				Main:    "#5865F2",
				Success: "#57F287",
				Error:   "#ED4245",
				Warning: "#FEE75C",
			},
			ErrorImg: "assets/command-images/error-icon.png",
		},
		PrefixCacheTTL:   5 * time.Minute,
		CollectorTimeout: 15 * time.Second,
	}
}

// LoadFile reads the YAML startup file at path, filling unset values with
// defaults. A missing file yields the defaults.
func LoadFile(path string) (*File, error) {
	f := DefaultFile()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return DefaultFile(), fmt.Errorf("parsing %s: %w", path, err)
	}

	def := DefaultFile()
	if strings.TrimSpace(f.GlobalPrefix) == "" {
		f.GlobalPrefix = def.GlobalPrefix
	}
	if f.PrefixCacheTTL <= 0 {
		f.PrefixCacheTTL = def.PrefixCacheTTL
	}
	if f.CollectorTimeout <= 0 {
		f.CollectorTimeout = def.CollectorTimeout
	}
	fillColor(&f.Embeds.Colors.Main, def.Embeds.Colors.Main)
	fillColor(&f.Embeds.Colors.Success, def.Embeds.Colors.Success)
	fillColor(&f.Embeds.Colors.Error, def.Embeds.Colors.Error)
	fillColor(&f.Embeds.Colors.Warning, def.Embeds.Colors.Warning)

	for name, c := range map[string]string{
		"main":    f.Embeds.Colors.Main,
		"success": f.Embeds.Colors.Success,
		"error":   f.Embeds.Colors.Error,
		"warning": f.Embeds.Colors.Warning,
	} {
		if _, err := ParseColor(c); err != nil {
			return DefaultFile(), fmt.Errorf("embeds.colors.%s: %w", name, err)
		}
	}

	return f, nil
}

func fillColor(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}

// ParseColor converts "#RRGGBB" or "RRGGBB" into an embed color
func ParseColor(hex string) (int, error) {
	h := strings.TrimSpace(hex)
	if !utils.IsValidColorHex(h) {
		return 0, fmt.Errorf("invalid color %q", hex)
	}
	h = strings.TrimPrefix(h, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", hex)
	}
	return int(v), nil
}

// Color returns the palette color by name, falling back to main
func (p Palette) Color(name string) int {
	var hex string
	switch name {
	case "success":
		hex = p.Success
	case "error":
		hex = p.Error
	case "warning":
		hex = p.Warning
	default:
		hex = p.Main
	}
	c, err := ParseColor(hex)
	if err != nil {
		return 0x5865F2
	}
	return c
}
