// Package presets holds the catalog of known cassettes and wheel sizes that
// the calculator offers as shortcuts. The catalog is reference data: it is
// seeded at startup and only ever read by request handlers.
package presets

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gearrange/gearrange/internal/gearing"
)

// Cassette is a named set of rear cogs.
type Cassette struct {
	Slug string `yaml:"slug" json:"slug"`
	Name string `yaml:"name" json:"name"`
	Cogs []int  `yaml:"cogs" json:"cogs"`
}

// Speeds returns the number of cogs.
func (c Cassette) Speeds() int {
	return len(c.Cogs)
}

// Range returns a label such as "11-34".
func (c Cassette) Range() string {
	if len(c.Cogs) == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", slices.Min(c.Cogs), slices.Max(c.Cogs))
}

// WheelSize is a named rim diameter and tyre offset.
type WheelSize struct {
	Slug         string  `yaml:"slug" json:"slug"`
	Name         string  `yaml:"name" json:"name"`
	DiameterMm   float64 `yaml:"diameter_mm" json:"diameter_mm"`
	TyreOffsetMm float64 `yaml:"tyre_offset_mm" json:"tyre_offset_mm"`
}

// Wheel converts the preset into engine input.
func (w WheelSize) Wheel() gearing.Wheel {
	return gearing.Wheel{DiameterMm: w.DiameterMm, TyreOffsetMm: w.TyreOffsetMm}
}

// Catalog is a set of cassette and wheel presets.
type Catalog struct {
	Cassettes []Cassette  `yaml:"cassettes" json:"cassettes"`
	Wheels    []WheelSize `yaml:"wheels" json:"wheels"`
}

// Cassette looks up a cassette preset by slug.
func (c Catalog) Cassette(slug string) (Cassette, bool) {
	for _, cs := range c.Cassettes {
		if cs.Slug == slug {
			return cs, true
		}
	}
	return Cassette{}, false
}

// Wheel looks up a wheel preset by slug.
func (c Catalog) Wheel(slug string) (WheelSize, bool) {
	for _, w := range c.Wheels {
		if w.Slug == slug {
			return w, true
		}
	}
	return WheelSize{}, false
}

// Validate checks every preset against the engine's input rules.
func (c Catalog) Validate() error {
	seen := make(map[string]bool)
	for _, cs := range c.Cassettes {
		if strings.TrimSpace(cs.Slug) == "" || strings.TrimSpace(cs.Name) == "" {
			return fmt.Errorf("cassette preset %q: slug and name are required", cs.Slug)
		}
		if seen["cassette:"+cs.Slug] {
			return fmt.Errorf("cassette preset %q: duplicate slug", cs.Slug)
		}
		seen["cassette:"+cs.Slug] = true
		if len(cs.Cogs) == 0 {
			return fmt.Errorf("cassette preset %q: %w", cs.Slug, gearing.ErrEmptyInputSet)
		}
		for _, cog := range cs.Cogs {
			if cog <= 0 {
				return fmt.Errorf("cassette preset %q: cog %d: %w", cs.Slug, cog, gearing.ErrInvalidToothCount)
			}
		}
	}
	for _, w := range c.Wheels {
		if strings.TrimSpace(w.Slug) == "" || strings.TrimSpace(w.Name) == "" {
			return fmt.Errorf("wheel preset %q: slug and name are required", w.Slug)
		}
		if seen["wheel:"+w.Slug] {
			return fmt.Errorf("wheel preset %q: duplicate slug", w.Slug)
		}
		seen["wheel:"+w.Slug] = true
		if _, err := w.Wheel().Circumference(); err != nil {
			return fmt.Errorf("wheel preset %q: %w", w.Slug, err)
		}
	}
	return nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode presets yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadFile reads a YAML catalog from path. An empty path yields an empty catalog.
func LoadFile(path string) (Catalog, error) {
	if path == "" {
		return Catalog{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read presets file: %w", err)
	}
	return Parse(data)
}

// Merge returns c extended with other; entries of other replace those with the same slug.
func (c Catalog) Merge(other Catalog) Catalog {
	out := Catalog{
		Cassettes: slices.Clone(c.Cassettes),
		Wheels:    slices.Clone(c.Wheels),
	}
	for _, cs := range other.Cassettes {
		if i := slices.IndexFunc(out.Cassettes, func(x Cassette) bool { return x.Slug == cs.Slug }); i >= 0 {
			out.Cassettes[i] = cs
			continue
		}
		out.Cassettes = append(out.Cassettes, cs)
	}
	for _, w := range other.Wheels {
		if i := slices.IndexFunc(out.Wheels, func(x WheelSize) bool { return x.Slug == w.Slug }); i >= 0 {
			out.Wheels[i] = w
			continue
		}
		out.Wheels = append(out.Wheels, w)
	}
	return out
}

// EncodeCogs renders cogs the way the catalog database stores them.
func EncodeCogs(cogs []int) string {
	parts := make([]string, len(cogs))
	for i, c := range cogs {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

func decodeCogs(raw string) ([]int, error) {
	var cogs []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("decode cog %q: %w", part, err)
		}
		cogs = append(cogs, n)
	}
	return cogs, nil
}
