package app

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soocke/gauge-reader-go/config"
	"github.com/soocke/gauge-reader-go/domain/gauge"
	"github.com/soocke/gauge-reader-go/domain/video"
)

// Pipeline runs the full health-bar analysis over one video stream: region
// extraction and the column vote per frame, then the sequential temporal
// filter and phase detection fold. The per-frame stages are stateless; the
// fold owns all mutable state, so a Pipeline is single-use — build a fresh
// one per video.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	analyzer *gauge.Analyzer
	detector *gauge.PhaseDetector
	filter   *gauge.TemporalFilter
	runID    uuid.UUID
}

// NewPipeline wires the analysis stages from a validated configuration.
func NewPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	analyzer := gauge.NewAnalyzer(cfg)
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		analyzer: analyzer,
		detector: gauge.NewPhaseDetector(cfg, analyzer),
		filter:   gauge.NewTemporalFilter(cfg),
		runID:    uuid.New(),
	}
}

// RunID identifies this analysis run in logs and the readings store. It is
// metadata only and never influences the readings themselves.
func (p *Pipeline) RunID() uuid.UUID { return p.runID }

// Run samples src every intervalMS milliseconds and returns the ordered,
// filtered reading sequence. Frames that cannot be decoded or whose bar
// regions fall outside the frame degrade to a default intro reading; the
// batch never aborts on a single bad frame.
func (p *Pipeline) Run(src video.Source, intervalMS int64) []gauge.Reading {
	it := video.NewIterator(src, intervalMS)
	durationMS := src.DurationMS()

	var readings []gauge.Reading
	frames := 0
	for {
		ts, frame, ok := it.Next()
		if !ok {
			break
		}
		frames++
		readings = append(readings, p.processFrame(ts, frame))
		video.RecycleFrame(frame)

		if frames%100 == 0 && durationMS > 0 {
			p.logger.Info("analyzing",
				"percent", fmt.Sprintf("%.1f", float64(ts)/float64(durationMS)*100),
				"timestamp_ms", ts,
				"round", p.filter.Round(),
			)
		}
	}

	p.logger.Info("analysis complete",
		"run_id", p.runID.String(),
		"frames", frames,
		"readings", len(readings),
		"rounds", p.filter.Round()+1,
		"corrections", p.filter.Corrections(),
	)
	return readings
}

func (p *Pipeline) processFrame(ts int64, frame *image.RGBA) gauge.Reading {
	if frame == nil {
		return p.filter.Unavailable(ts)
	}
	p1Raw, p2Raw, ok := p.analyzer.AnalyzeFrame(frame)
	if !ok {
		return p.filter.Unavailable(ts)
	}
	brightness := gauge.MeanBrightness(frame)
	visible := p.detector.GaugeVisible(frame)
	flash := false
	if visible {
		flash = p.detector.ScreenFlash(frame)
	}
	r := p.filter.Apply(ts, p1Raw, p2Raw, brightness, visible, flash)
	if p.cfg.Debug {
		p.logger.Debug("frame",
			"timestamp_ms", ts,
			"phase", r.Phase.String(),
			"round", r.Round,
			"p1_health", r.P1Health,
			"p2_health", r.P2Health,
			"brightness", fmt.Sprintf("%.1f", brightness),
			"flash", flash,
		)
	}
	return r
}

// DebugFrame analyzes a single timestamp, logs the raw signals without
// running the temporal filter, and writes the annotated frame, bar crops and
// per-class masks as PNGs into outDir. Useful for tuning color bounds and
// bar regions against a specific moment in the video.
func (p *Pipeline) DebugFrame(src video.Source, timestampMS int64, outDir string) error {
	frame, ok := src.Frame(timestampMS)
	if !ok || frame == nil {
		return fmt.Errorf("no decodable frame at %dms", timestampMS)
	}
	p1Raw, p2Raw, ok := p.analyzer.AnalyzeFrame(frame)
	if !ok {
		return fmt.Errorf("bar regions out of bounds for %dx%d frame",
			frame.Rect.Dx(), frame.Rect.Dy())
	}
	if err := writeDebugImages(p.cfg, p.analyzer, frame, outDir); err != nil {
		return fmt.Errorf("write debug images: %w", err)
	}
	p.logger.Info("frame diagnostic",
		"timestamp_ms", timestampMS,
		"images_dir", outDir,
		"gauge_visible", p.detector.GaugeVisible(frame),
		"brightness", fmt.Sprintf("%.1f", gauge.MeanBrightness(frame)),
		"top_band_brightness", fmt.Sprintf("%.1f", gauge.TopBandBrightness(frame)),
		"p1_health", p1Raw.Health,
		"p1_damage", p1Raw.Damage,
		"p1_confirmed", p1Raw.ConfirmedDamage,
		"p1_full", p1Raw.IsFull,
		"p2_health", p2Raw.Health,
		"p2_damage", p2Raw.Damage,
		"p2_confirmed", p2Raw.ConfirmedDamage,
		"p2_full", p2Raw.IsFull,
	)
	return nil
}
