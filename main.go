package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soocke/gauge-reader-go/app"
	"github.com/soocke/gauge-reader-go/config"
	"github.com/soocke/gauge-reader-go/debug"
	"github.com/soocke/gauge-reader-go/domain/gauge"
	"github.com/soocke/gauge-reader-go/domain/video"
	"github.com/soocke/gauge-reader-go/report"
	"github.com/soocke/gauge-reader-go/store"
	"github.com/soocke/gauge-reader-go/timeline"
)

func main() {
	var (
		output     = flag.String("o", "health_timeline.csv", "output CSV path")
		intervalMS = flag.Int64("i", 100, "sampling interval in milliseconds")
		configPath = flag.String("config", "", "JSON config path (missing file uses defaults)")
		p1Bar      = flag.String("p1-bar", "", "P1 bar rectangle override: x1,y1,x2,y2 on the 1920x1080 reference canvas")
		p2Bar      = flag.String("p2-bar", "", "P2 bar rectangle override: x1,y1,x2,y2 on the 1920x1080 reference canvas")
		eventsPath = flag.String("events", "", "also extract match events to this CSV path")
		dbPath     = flag.String("db", "", "also record the readings in this sqlite database")
		chartPath  = flag.String("chart", "", "also render the health chart to this HTML path")
		debugTime  = flag.Float64("debug-time", -1, "analyze the single frame at this time (seconds) and exit")
		debugFrame = flag.Int("debug-frame", -1, "analyze the single frame with this index and exit")
		debugMode  = flag.Bool("debug", false, "verbose per-frame logging and memory stats")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <video>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	videoPath := flag.Arg(0)

	level := slog.LevelInfo
	if *debugMode {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	cfg, err := loadConfig(*configPath, *p1Bar, *p2Bar, *debugMode)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, videoPath, runOptions{
		output:     *output,
		intervalMS: *intervalMS,
		eventsPath: *eventsPath,
		dbPath:     *dbPath,
		chartPath:  *chartPath,
		debugTime:  *debugTime,
		debugFrame: *debugFrame,
	}); err != nil {
		logger.Error("analysis failed", "err", err)
		os.Exit(1)
	}
}

type runOptions struct {
	output     string
	intervalMS int64
	eventsPath string
	dbPath     string
	chartPath  string
	debugTime  float64
	debugFrame int
}

func loadConfig(path, p1Bar, p2Bar string, debugMode bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if p1Bar != "" {
		r, err := parseBarRect(p1Bar)
		if err != nil {
			return nil, fmt.Errorf("-p1-bar: %w", err)
		}
		cfg.P1Bar = r
	}
	if p2Bar != "" {
		r, err := parseBarRect(p2Bar)
		if err != nil {
			return nil, fmt.Errorf("-p2-bar: %w", err)
		}
		cfg.P2Bar = r
	}
	cfg.Debug = debugMode
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseBarRect parses a "x1,y1,x2,y2" rectangle.
func parseBarRect(s string) ([4]int, error) {
	var r [4]int
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return r, fmt.Errorf("want x1,y1,x2,y2, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return r, fmt.Errorf("coordinate %d of %q: %w", i+1, s, err)
		}
		r[i] = v
	}
	return r, nil
}

func run(cfg *config.Config, logger *slog.Logger, videoPath string, opts runOptions) error {
	src, err := video.Open(videoPath)
	if err != nil {
		return err
	}
	defer src.Close()

	logger.Info("video opened",
		"path", videoPath,
		"resolution", fmt.Sprintf("%dx%d", src.Width(), src.Height()),
		"fps", fmt.Sprintf("%.2f", src.FPS()),
		"frames", src.FrameCount(),
		"duration_ms", src.DurationMS(),
	)

	if cfg.Debug {
		debug.StartMemstatsLogger(2*time.Second, logger)
	}

	pipeline := app.NewPipeline(cfg, logger)

	if opts.debugFrame >= 0 {
		if src.FPS() <= 0 {
			return fmt.Errorf("cannot map frame %d to a timestamp: fps unknown", opts.debugFrame)
		}
		sec := float64(opts.debugFrame) / src.FPS()
		return pipeline.DebugFrame(src, int64(sec*1000), ".")
	}
	if opts.debugTime >= 0 {
		return pipeline.DebugFrame(src, int64(opts.debugTime*1000), ".")
	}

	logger.Info("analysis started",
		"run_id", pipeline.RunID().String(),
		"interval_ms", opts.intervalMS,
	)
	readings := pipeline.Run(src, opts.intervalMS)

	out, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := timeline.WriteReadings(out, readings); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("timeline written", "path", opts.output, "readings", len(readings))

	if opts.eventsPath != "" {
		if err := writeEvents(logger, opts.eventsPath, readings); err != nil {
			return err
		}
	}
	if opts.dbPath != "" {
		db, err := store.NewDB(opts.dbPath)
		if err != nil {
			return fmt.Errorf("open db %s: %w", opts.dbPath, err)
		}
		defer db.Close()
		if err := db.RecordRun(pipeline.RunID(), videoPath, opts.intervalMS, readings); err != nil {
			return err
		}
		logger.Info("readings recorded", "db", opts.dbPath, "run_id", pipeline.RunID().String())
	}
	if opts.chartPath != "" {
		if err := report.WriteHealthChart(opts.chartPath, readings); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		logger.Info("chart written", "path", opts.chartPath)
	}
	return nil
}

func writeEvents(logger *slog.Logger, path string, readings []gauge.Reading) error {
	events := timeline.ExtractEvents(readings, timeline.DefaultMinDamage, timeline.DefaultMergeWindowMS)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := timeline.WriteEvents(f, events); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	s := timeline.Summarize(events)
	logger.Info("events extracted",
		"path", path,
		"events", s.Events,
		"rounds", s.Rounds,
		"kos", s.KOs,
		"exchanges", s.Exchanges,
		"p1_hits", s.P1Hits,
		"p2_hits", s.P2Hits,
		"mean_damage", fmt.Sprintf("%.1f", s.MeanDamage),
		"max_damage", fmt.Sprintf("%.1f", s.MaxDamage),
	)
	return nil
}
