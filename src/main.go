package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"lifepaint/src/config"
	"lifepaint/src/universe"
	"lifepaint/src/view"
	"lifepaint/src/view/gui"
)

func main() {
	log.SetPrefix("lifepaint: ")

	cfg, err := config.Parse("lifepaint", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		log.Printf("%v", err)
		closeLog()
		os.Exit(1)
	}
}

//newLogger returns the universe logger
//the terminal front-end owns the screen, so its log goes to the file or nowhere
func newLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return log.New(f, log.Prefix(), log.LstdFlags), func() { _ = f.Close() }, nil
	}
	if cfg.FrontEnd == config.FrontEndTerminal {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	return log.Default(), func() {}, nil
}

//newUniverse creates the configured engine and settles the startup data
func newUniverse(cfg *config.Config, logger *log.Logger) (universe.Universe, error) {
	u := universe.Engines[cfg.Engine](cfg.UniverseOptions(logger), nil)
	for _, t := range universe.BuiltinTemplates {
		u.AddTemplate(t)
	}
	if cfg.Load != "" {
		if err := u.LoadFile(cfg.Load); err != nil {
			return nil, err
		}
	}
	if cfg.Template != "" && !u.SettleTemplate(cfg.Template) {
		return nil, errors.Errorf("unknown template %q", cfg.Template)
	}
	return u, nil
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer) error {
	u, err := newUniverse(cfg, logger)
	if err != nil {
		return err
	}
	defer u.Close()

	switch cfg.FrontEnd {
	case config.FrontEndHeadless:
		return runHeadless(ctx, u, out)
	case config.FrontEndTerminal:
		v, err := view.NewViewTerminal(cfg.GridFile, cfg.PercentAlive)
		if err != nil {
			return errors.Wrap(err, "terminal")
		}
		u.RegisterViewer(v)
		return v.Start()
	default:
		return gui.Run(u, gui.Options{
			Width:    cfg.WindowWidth,
			Height:   cfg.WindowHeight,
			GridFile: cfg.GridFile,
			Percent:  cfg.PercentAlive,
			Title:    "lifepaint - " + cfg.Engine,
		})
	}
}

//runHeadless runs the simulation until it is finished or ctx is done
func runHeadless(ctx context.Context, u universe.Universe, out io.Writer) error {
	c := view.NewConsoleOut(out, 10)
	u.RegisterViewer(c)
	if err := c.Start(); err != nil {
		return err
	}
	u.Run()
	select {
	case <-c.Done():
	case <-ctx.Done():
		u.Stop()
	}
	return nil
}
