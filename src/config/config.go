package config

import (
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"lifepaint/src/universe"
)

//front-ends
const (
	FrontEndHeadless = "headless"
	FrontEndTerminal = "terminal"
	FrontEndGUI      = "gui"
)

var FrontEnds = []string{FrontEndHeadless, FrontEndTerminal, FrontEndGUI}

//Config is the application configuration
//values come from the LIFEPAINT_* environment first and the command line overrides them
type Config struct {
	Width        int    `env:"LIFEPAINT_WIDTH"          envDefault:"100"`
	Height       int    `env:"LIFEPAINT_HEIGHT"         envDefault:"100"`
	PercentAlive int    `env:"LIFEPAINT_PERCENT_ALIVE"  envDefault:"0"`
	Rate         int    `env:"LIFEPAINT_RATE"           envDefault:"5"`
	MaxSteps     int    `env:"LIFEPAINT_MAX_STEPS"      envDefault:"0"`
	MaxCells     int    `env:"LIFEPAINT_MAX_CELLS"      envDefault:"10000000"`
	Seed         int64  `env:"LIFEPAINT_SEED"           envDefault:"0"`
	StopOnStable bool   `env:"LIFEPAINT_STOP_ON_STABLE" envDefault:"false"`
	Engine       string `env:"LIFEPAINT_ENGINE"         envDefault:"simple"`
	FrontEnd     string `env:"LIFEPAINT_FRONTEND"       envDefault:"terminal"`
	Template     string `env:"LIFEPAINT_TEMPLATE"`
	Load         string `env:"LIFEPAINT_LOAD"` //grid file loaded at startup
	GridFile     string `env:"LIFEPAINT_GRID_FILE"      envDefault:"lifepaint.grid"`
	LogFile      string `env:"LIFEPAINT_LOG"`
	WindowWidth  int    `env:"LIFEPAINT_WINDOW_WIDTH"   envDefault:"1280"`
	WindowHeight int    `env:"LIFEPAINT_WINDOW_HEIGHT"  envDefault:"720"`
}

//FromEnv reads the configuration from the environment
func FromEnv() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return &c, nil
}

//Bind binds the command line flags to the configuration fields
func (c *Config) Bind(p *flaggy.Parser) {
	p.Int(&c.Width, "x", "width", "Width of a simulation field")
	p.Int(&c.Height, "y", "height", "Height of a simulation field")
	p.Int(&c.PercentAlive, "p", "percent", "Percent of live cells settled at start")
	p.Int(&c.Rate, "r", "rate", "Simulation speed in generations per second")
	p.Int(&c.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 - unlimited")
	p.Int(&c.MaxCells, "", "maxCells", "Limit the field to maxCells cells")
	p.Int64(&c.Seed, "", "seed", "Random seed, 0 - seeded from the clock")
	p.Bool(&c.StopOnStable, "", "stopOnStable", "Finish when the field is dead or doesn't change")
	p.String(&c.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	p.String(&c.FrontEnd, "f", "frontend", "Front-end to use ["+strings.Join(FrontEnds, "|")+"]")
	p.String(&c.Template, "t", "template", "Settle the named template at start")
	p.String(&c.Load, "l", "load", "Load the grid file at start")
	p.String(&c.GridFile, "g", "grid", "Grid file used by the load and export commands")
	p.String(&c.LogFile, "", "log", "Write the log to the file")
	p.Int(&c.WindowWidth, "", "windowWidth", "Window width of the gui front-end")
	p.Int(&c.WindowHeight, "", "windowHeight", "Window height of the gui front-end")
}

//Parse reads the environment and then the command line arguments
func Parse(name string, args []string) (*Config, error) {
	c, err := FromEnv()
	if err != nil {
		return nil, err
	}
	p := flaggy.NewParser(name)
	p.Description = "Conway's Game of Life sandbox"
	p.ShowHelpOnUnexpected = true
	c.Bind(p)
	if err := p.ParseArgs(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

//Validate checks the values which have no sane fallback
func (c *Config) Validate() error {
	if _, ok := universe.Engines[c.Engine]; !ok {
		return errors.Errorf("unknown engine %q", c.Engine)
	}
	known := false
	for _, f := range FrontEnds {
		known = known || f == c.FrontEnd
	}
	if !known {
		return errors.Errorf("unknown front-end %q", c.FrontEnd)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(universe.ErrInvalidDimensions, "%d x %d", c.Width, c.Height)
	}
	if c.FrontEnd == FrontEndHeadless && c.MaxSteps <= 0 && !c.StopOnStable {
		return errors.New("headless front-end needs maxSteps or stopOnStable")
	}
	return nil
}

//UniverseOptions converts the configuration to the universe options
func (c *Config) UniverseOptions(logger *log.Logger) *universe.Options {
	return &universe.Options{
		Width:        c.Width,
		Height:       c.Height,
		PercentAlive: c.PercentAlive,
		Rate:         c.Rate,
		MaxSteps:     c.MaxSteps,
		MaxCells:     c.MaxCells,
		Seed:         c.Seed,
		StopOnStable: c.StopOnStable,
		Logger:       logger,
	}
}
