// Command coreboy runs Game Boy ROMs headless, or streams them to a
// browser.
//
// Usage:
//
//	coreboy run   [flags]   run -frames frames and print a hash of the last
//	coreboy serve [flags]   stream the emulator over websockets on -listen
//
// Flags may be preloaded from a YAML file with -config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cespare/xxhash"
	"github.com/sirupsen/logrus"
	"github.com/thelolagemann/coreboy/internal/gameboy"
	"github.com/thelolagemann/coreboy/internal/ppu"
	"github.com/thelolagemann/coreboy/internal/ppu/palette"
	"github.com/thelolagemann/coreboy/pkg/config"
	"github.com/thelolagemann/coreboy/pkg/display/web"
	"github.com/thelolagemann/coreboy/pkg/emulator"
	"github.com/thelolagemann/coreboy/pkg/log"
	"github.com/thelolagemann/coreboy/pkg/utils"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "coreboy:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: coreboy run|serve [flags]")
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage()
		return errors.New("no command given")
	}

	cfg, err := parse(args[0], args[1:])
	if err != nil {
		return err
	}
	logger, err := log.NewWithLevel(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch args[0] {
	case "run":
		return headless(cfg, logger, stdout)
	case "serve":
		return serve(ctx, cfg, logger)
	}
	usage()
	return fmt.Errorf("unknown command %q", args[0])
}

// parse parses the flags of a command. A -config file is loaded
// first, with the flags given overriding it.
func parse(name string, args []string) (config.Config, error) {
	var path string
	flagSet := func(cfg *config.Config) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.StringVar(&path, "config", path, "A YAML file to load the flags from")
		cfg.RegisterFlags(fs)
		return fs
	}

	cfg := config.Default()
	if err := flagSet(&cfg).Parse(args); err != nil {
		return cfg, err
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		if err := flagSet(&cfg).Parse(args); err != nil {
			return cfg, err
		}
	}

	if cfg.ROM == "" {
		return cfg, errors.New("no rom given, set -rom")
	}
	return cfg, cfg.Validate()
}

// newGameBoy builds a GameBoy from the ROM, boot ROM and state
// named by cfg.
func newGameBoy(cfg config.Config, logger *logrus.Logger, stdout io.Writer) (*gameboy.GameBoy, error) {
	rom, err := utils.LoadFile(cfg.ROM)
	if err != nil {
		return nil, err
	}

	opts := []gameboy.Opt{gameboy.WithLogger(logger)}
	if cfg.Boot != "" {
		boot, err := utils.LoadFile(cfg.Boot)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithBootROM(boot))
	}
	if cfg.State != "" && cfg.State != "latest" {
		state, err := utils.LoadFile(cfg.State)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithState(state))
	}
	if cfg.Serial {
		opts = append(opts, gameboy.WithSerialOutput(stdout))
	}
	if p, ok := palette.ByName(cfg.Palette); ok {
		opts = append(opts, gameboy.WithPalette(p))
	}
	if cfg.Debug {
		opts = append(opts, gameboy.Debug())
	}

	gb, err := gameboy.NewGameBoy(rom, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.State == "latest" {
		state, err := emulator.NewSaves(cfg.Saves).Latest(gb.Cartridge.Header().Title)
		if err != nil {
			return nil, err
		}
		if err := gb.LoadState(state); err != nil {
			return nil, err
		}
	}
	return gb, nil
}

// headless runs cfg.Frames frames and prints the hash of the last.
func headless(cfg config.Config, logger *logrus.Logger, stdout io.Writer) error {
	gb, err := newGameBoy(cfg, logger, stdout)
	if err != nil {
		return err
	}

	var frame ppu.Frame
	for i := 0; i < cfg.Frames; i++ {
		if frame, err = gb.Frame(); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "%016x\n", xxhash.Sum64(frame[:]))

	if cfg.Screenshot != "" {
		name := cfg.Screenshot
		if filepath.Ext(name) == "" {
			name += "." + cfg.Format
		}
		if err := utils.SaveImage(name, utils.Scale(utils.FrameToImage(&frame), cfg.Scale)); err != nil {
			return err
		}
		logger.Infof("coreboy: wrote %s", name)
	}

	return saveState(cfg, logger, gb.Cartridge.Header().Title, gb.SaveState)
}

// serve streams the emulator until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	gb, err := newGameBoy(cfg, logger, io.Discard)
	if err != nil {
		return err
	}

	emu := emulator.New(gb, emulator.WithLogger(logger), emulator.WithSpeed(uint8(cfg.Speed)))
	emu.Start(ctx)

	serveErr := web.ListenAndServe(ctx, cfg.Listen, emu, logger)

	err = saveState(cfg, logger, emu.Title(), func() ([]byte, error) {
		resp := emu.Send(emulator.CommandSaveState, nil)
		return resp.Data, resp.Error
	})
	emu.Send(emulator.CommandClose, nil)
	if waitErr := emu.Wait(); waitErr != nil {
		logger.Warnf("coreboy: emulator stopped: %v", waitErr)
	}

	if serveErr != nil {
		return serveErr
	}
	return err
}

// saveState writes a save state to cfg.SaveState and the saves
// folder, when either is set.
func saveState(cfg config.Config, logger *logrus.Logger, title string, save func() ([]byte, error)) error {
	if cfg.SaveState == "" && cfg.Saves == "" {
		return nil
	}
	state, err := save()
	if err != nil {
		return err
	}

	if cfg.SaveState != "" {
		if err := os.WriteFile(cfg.SaveState, state, 0o644); err != nil {
			return err
		}
		logger.Infof("coreboy: wrote %s", cfg.SaveState)
	}
	if cfg.Saves != "" {
		path, err := emulator.NewSaves(cfg.Saves).Write(title, state)
		if err != nil {
			return err
		}
		logger.Infof("coreboy: wrote %s", path)
	}
	return nil
}
