// Package config holds the settings of the command line, which may
// be preloaded from a YAML file.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/thelolagemann/coreboy/internal/ppu/palette"
	"github.com/thelolagemann/coreboy/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the configuration of the emulator frontends.
type Config struct {
	ROM  string `yaml:"rom"`
	Boot string `yaml:"boot"`
	// State is a save state file to start from, or "latest" for
	// the newest state in Saves.
	State string `yaml:"state"`
	Saves string `yaml:"saves"`

	// Frames is the number of frames run headless.
	Frames     int    `yaml:"frames"`
	Screenshot string `yaml:"screenshot"`
	Scale      int    `yaml:"scale"`
	Format     string `yaml:"format"`
	SaveState  string `yaml:"save_state"`
	Serial     bool   `yaml:"serial"`

	Listen string `yaml:"listen"`
	Speed  uint   `yaml:"speed"`

	Palette  string `yaml:"palette"`
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Frames:   60,
		Scale:    1,
		Format:   "png",
		Listen:   ":8090",
		Speed:    1,
		Palette:  "greyscale",
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, c.Validate()
}

// Validate reports every setting out of range.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Frames < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames))
	}
	if c.Scale < 1 || c.Scale > utils.MaxScale {
		result = multierror.Append(result, fmt.Errorf("%w: scale %d, must be 1-%d", ErrInvalid, c.Scale, utils.MaxScale))
	}
	switch strings.ToLower(c.Format) {
	case "png", "bmp":
	default:
		result = multierror.Append(result, fmt.Errorf("%w: format %q", ErrInvalid, c.Format))
	}
	if c.Speed > 255 {
		result = multierror.Append(result, fmt.Errorf("%w: speed %d", ErrInvalid, c.Speed))
	}
	if _, ok := palette.ByName(c.Palette); !ok {
		result = multierror.Append(result, fmt.Errorf("%w: palette %q", ErrInvalid, c.Palette))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if c.State == "latest" && c.Saves == "" {
		result = multierror.Append(result, fmt.Errorf("%w: state \"latest\" needs a saves folder", ErrInvalid))
	}
	return result.ErrorOrNil()
}

// RegisterFlags binds every setting to a flag of fs, defaulting to
// the current value.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ROM, "rom", c.ROM, "The rom file to load")
	fs.StringVar(&c.Boot, "boot", c.Boot, "The boot rom file to load")
	fs.StringVar(&c.State, "state", c.State, "The state file to load, or \"latest\" for the newest in -saves")
	fs.StringVar(&c.Saves, "saves", c.Saves, "The folder save states are kept in")
	fs.IntVar(&c.Frames, "frames", c.Frames, "The number of frames to run")
	fs.StringVar(&c.Screenshot, "screenshot", c.Screenshot, "Write the last frame to this image file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "The scale of the screenshot")
	fs.StringVar(&c.Format, "format", c.Format, "The screenshot format when the file has no extension, png or bmp")
	fs.StringVar(&c.SaveState, "save-state", c.SaveState, "Write a save state to this file when done")
	fs.BoolVar(&c.Serial, "serial", c.Serial, "Print the bytes sent over the serial port")
	fs.StringVar(&c.Listen, "listen", c.Listen, "The address the web streamer listens on")
	fs.UintVar(&c.Speed, "speed", c.Speed, "The speed to run the emulator at, 0 for unlimited")
	fs.StringVar(&c.Palette, "palette", c.Palette, "The palette to draw with")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "The log level: debug, info, warn or error")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Log every instruction executed")
}
