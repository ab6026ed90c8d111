// Command ls-timing draws spaceborne radar PRF timing diagrams: transmit
// eclipse bands and nadir returns over a sweep of pulse repetition
// frequencies.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-timing/internal/config"
	"github.com/litescript/ls-timing/internal/logging"
	"github.com/litescript/ls-timing/internal/plot"
	"github.com/litescript/ls-timing/internal/timing"
	"github.com/litescript/ls-timing/internal/ui"
	"github.com/litescript/ls-timing/internal/version"
)

// CLI flags. Values only override the configuration when set explicitly.
var (
	configPath  string
	prfStart    float64
	prfStop     float64
	prfStep     float64
	dutyCycle   float64
	height      float64
	earthRadius float64
	imagePath   string
	imageWidth  int
	imageHeight int
	exportPath  string
	summaryMode bool
	asciiMode   bool
	logLevel    string
	logFile     string
	showVersion bool
)

// Size of the -ascii canvas when stdout is not a terminal.
const (
	asciiWidth  = 100
	asciiHeight = 30
)

func main() {
	d := config.Default()
	flag.StringVar(&configPath, "config", "", "Config file (default: ./ls-timing.toml or user config dir)")
	flag.Float64Var(&prfStart, "prf-start", d.Sweep.Start, "First PRF of the sweep [Hz]")
	flag.Float64Var(&prfStop, "prf-stop", d.Sweep.Stop, "Last PRF of the sweep [Hz]")
	flag.Float64Var(&prfStep, "prf-step", d.Sweep.Step, "PRF sweep step [Hz]")
	flag.Float64Var(&dutyCycle, "duty", d.Radar.DutyCycle, "Transmit duty cycle (fraction of the PRI)")
	flag.Float64Var(&height, "height", d.Platform.Height, "Platform height [m]")
	flag.Float64Var(&earthRadius, "earth-radius", d.Platform.EarthRadius, "Earth radius [m]")
	flag.StringVar(&imagePath, "out", "", "Write the diagram as an image (.png or .svg)")
	flag.IntVar(&imageWidth, "width", d.Output.Width, "Image width [px]")
	flag.IntVar(&imageHeight, "height-px", d.Output.Height, "Image height [px]")
	flag.StringVar(&exportPath, "export", "", "Export diagram data (.json or .msgpack, - for JSON on stdout)")
	flag.BoolVar(&summaryMode, "summary", false, "Print clear-swath summary table instead of TUI")
	flag.BoolVar(&asciiMode, "ascii", false, "Print the diagram as text instead of TUI")
	flag.StringVar(&logLevel, "log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-timing v%s\n", version.Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	if cfg.Log.File != "" {
		logger.SetFile(cfg.Log.File)
	}
	defer logger.Close()

	params := ui.Params{
		Start:     cfg.Sweep.Start,
		Stop:      cfg.Sweep.Stop,
		Step:      cfg.Sweep.Step,
		DutyCycle: cfg.Radar.DutyCycle,
		Platform:  cfg.PlatformGeometry(),
	}
	logger.Debug("parameters: %s", params)

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := summaryMode || asciiMode || cfg.Output.Image != "" || cfg.Output.Export != ""
	if !headless && isTTY {
		return runTUI(params, logger, cfg.Log.File != "")
	}
	return runHeadless(cfg, logger, isTTY)
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "prf-start":
			cfg.Sweep.Start = prfStart
		case "prf-stop":
			cfg.Sweep.Stop = prfStop
		case "prf-step":
			cfg.Sweep.Step = prfStep
		case "duty":
			cfg.Radar.DutyCycle = dutyCycle
		case "height":
			cfg.Platform.Height = height
		case "earth-radius":
			cfg.Platform.EarthRadius = earthRadius
		case "out":
			cfg.Output.Image = imagePath
		case "width":
			cfg.Output.Width = imageWidth
		case "height-px":
			cfg.Output.Height = imageHeight
		case "export":
			cfg.Output.Export = exportPath
		case "log-level":
			cfg.Log.Level = logLevel
		case "log-file":
			cfg.Log.File = logFile
		}
	})
}

func runTUI(params ui.Params, logger *logging.Logger, toFile bool) error {
	// Log lines would tear the alternate screen.
	if !toFile {
		logger.SetOutput(io.Discard)
	}

	model, err := ui.New(params, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(cfg config.Config, logger *logging.Logger, isTTY bool) error {
	axis, err := cfg.PRFAxis()
	if err != nil {
		return err
	}
	d, err := timing.Build(axis, cfg.Radar.DutyCycle, cfg.PlatformGeometry())
	if err != nil {
		return err
	}
	logger.Info("diagram: %d PRF samples, %d nadir paths, %d transmit orders",
		len(d.PRF), len(d.Nadir), len(d.Transmit))

	wrote := false

	if cfg.Output.Image != "" {
		if err := writeImage(d, cfg.Output); err != nil {
			return err
		}
		logger.Info("wrote %s", cfg.Output.Image)
		wrote = true
	}

	if cfg.Output.Export != "" {
		if err := writeExport(d, cfg.Output.Export); err != nil {
			return err
		}
		if cfg.Output.Export != "-" {
			logger.Info("exported %s", cfg.Output.Export)
		}
		wrote = true
	}

	if asciiMode {
		width, height := asciiWidth, asciiHeight
		if isTTY {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width, height = w, h-1
			}
		}
		canvas := plot.NewCanvas(width, height)
		if err := d.Draw(canvas); err != nil {
			return fmt.Errorf("draw diagram: %w", err)
		}
		if isTTY {
			fmt.Println(canvas.Render())
		} else {
			fmt.Println(canvas.Plain())
		}
		wrote = true
	}

	// Summary is the fallback when no other output was asked for.
	if summaryMode || !wrote {
		if asciiMode {
			fmt.Println()
		}
		timing.WriteSummaryTable(os.Stdout, d)
	}
	return nil
}

func writeImage(d *timing.Diagram, out config.OutputConfig) error {
	format, err := plot.FormatForPath(out.Image)
	if err != nil {
		return err
	}
	chart := plot.NewChart(out.Width, out.Height, format)
	chart.Title = fmt.Sprintf("Timing diagram  %s  duty %.1f%%", d.Platform, d.DutyCycle*100)
	if err := d.Draw(chart); err != nil {
		return fmt.Errorf("draw diagram: %w", err)
	}

	f, err := os.Create(out.Image)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	if err := chart.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("write image: %w", err)
	}
	return f.Close()
}

func writeExport(d *timing.Diagram, path string) error {
	export := d.Export()
	if path == "-" {
		if err := export.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = export.WriteJSON
	case ".msgpack", ".mpk":
		write = export.WriteMsgpack
	default:
		return errors.New("export path must end in .json or .msgpack")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}
