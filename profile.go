/*

Loading a Config from a profile file.

*/

package bitcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// EnvProfile names a profile file read by LoadConfigFromEnv.
	EnvProfile = "BITCODEC_PROFILE"
	// EnvLogLevel overrides the log_level of any loaded profile.
	// An empty value leaves the profile's level in place.
	EnvLogLevel = "BITCODEC_LOG_LEVEL"
)

// Profile is the file form of a Config. Unset keys keep DefaultConfig values.
//
//	bit_order    = "lsb"    # or "msb"
//	word_width   = 8        # 8, 16, 32 or 64
//	byte_order   = "little" # or "big"
//	length_width = 32       # 1..64
//	log_level    = "debug"  # zerolog level; empty disables logging
type Profile struct {
	BitOrder    *string `toml:"bit_order" yaml:"bit_order"`
	WordWidth   *int    `toml:"word_width" yaml:"word_width"`
	ByteOrder   *string `toml:"byte_order" yaml:"byte_order"`
	LengthWidth *int    `toml:"length_width" yaml:"length_width"`
	LogLevel    *string `toml:"log_level" yaml:"log_level"`
}

// LoadConfig reads a profile file and returns the Config it describes.
// The format is chosen by extension: .toml, .yaml or .yml.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load profile: %w", err)
	}
	var p Profile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		p, err = ParseTOML(data)
	case ".yaml", ".yml":
		p, err = ParseYAML(data)
	default:
		return Config{}, fmt.Errorf("load profile %s: unknown extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load profile %s: %w", path, err)
	}
	return p.Config()
}

// LoadConfigFromEnv loads the profile named by BITCODEC_PROFILE.
// Without it, DefaultConfig is returned with the BITCODEC_LOG_LEVEL override
// applied.
func LoadConfigFromEnv() (Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvProfile))
	if path == "" {
		return Profile{}.Config()
	}
	return LoadConfig(path)
}

// ParseTOML decodes a TOML profile.
func ParseTOML(data []byte) (Profile, error) {
	var raw struct {
		BitOrder    string `toml:"bit_order"`
		WordWidth   int    `toml:"word_width"`
		ByteOrder   string `toml:"byte_order"`
		LengthWidth int    `toml:"length_width"`
		LogLevel    string `toml:"log_level"`
	}
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Profile{}, fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Profile{}, fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
	}

	var p Profile
	if meta.IsDefined("bit_order") {
		p.BitOrder = &raw.BitOrder
	}
	if meta.IsDefined("word_width") {
		p.WordWidth = &raw.WordWidth
	}
	if meta.IsDefined("byte_order") {
		p.ByteOrder = &raw.ByteOrder
	}
	if meta.IsDefined("length_width") {
		p.LengthWidth = &raw.LengthWidth
	}
	if meta.IsDefined("log_level") {
		p.LogLevel = &raw.LogLevel
	}
	return p, nil
}

// ParseYAML decodes a YAML profile.
func ParseYAML(data []byte) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("parse yaml: %w", err)
	}
	return p, nil
}

// Config converts the profile to a Config, starting from DefaultConfig.
func (p Profile) Config() (Config, error) {
	cfg := DefaultConfig()

	if p.BitOrder != nil {
		switch strings.ToLower(strings.TrimSpace(*p.BitOrder)) {
		case "lsb", "lsb0", "lsbfirst":
			cfg.Layout.Order = LSBFirst
		case "msb", "msb0", "msbfirst":
			cfg.Layout.Order = MSBFirst
		default:
			return Config{}, fmt.Errorf("profile: invalid bit_order %q", *p.BitOrder)
		}
	}

	if p.WordWidth != nil {
		if *p.WordWidth < 0 || *p.WordWidth > 64 {
			return Config{}, fmt.Errorf("profile: invalid word_width %d", *p.WordWidth)
		}
		cfg.Layout.Word = WordWidth(*p.WordWidth)
		if err := cfg.Layout.Validate(); err != nil {
			return Config{}, fmt.Errorf("profile: %w", err)
		}
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if p.ByteOrder != nil {
		switch strings.ToLower(strings.TrimSpace(*p.ByteOrder)) {
		case "little", "le":
			order = binary.LittleEndian
		case "big", "be":
			order = binary.BigEndian
		default:
			return Config{}, fmt.Errorf("profile: invalid byte_order %q", *p.ByteOrder)
		}
	}
	lenBits := 32
	if p.LengthWidth != nil {
		lenBits = *p.LengthWidth
	}
	enc, err := NewEndianEncoding(order, lenBits)
	if err != nil {
		return Config{}, fmt.Errorf("profile: %w", err)
	}
	cfg.Encoding = enc

	level := ""
	if p.LogLevel != nil {
		level = *p.LogLevel
	}
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		level = env
	}
	if level = strings.TrimSpace(level); level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return Config{}, fmt.Errorf("profile: invalid log_level: %w", err)
		}
		logger := zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(lvl).With().Timestamp().Str("component", "bitcodec").Logger()
		cfg.Logger = &logger
	}
	return cfg, nil
}
