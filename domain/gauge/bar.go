package gauge

import (
	"image"

	"github.com/soocke/gauge-reader-go/config"
)

// Analyzer measures health bars in cropped regions using a per-column vote.
// The color classes and thresholds are derived from the configuration once at
// construction and never change afterwards.
type Analyzer struct {
	cfg    *config.Config
	gold   ColorClass
	health ColorClass
	damage ColorClass
	lost   ColorClass
}

// NewAnalyzer derives the color classes from cfg. cfg must already be
// validated and is treated as read-only.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		gold:   NewColorClass(cfg.GoldLower, cfg.GoldUpper),
		health: NewColorClass(cfg.HealthLower, cfg.HealthUpper),
		damage: NewWrappedColorClass(cfg.DamageLower1, cfg.DamageUpper1, cfg.DamageLower2, cfg.DamageUpper2),
		lost:   NewColorClass(cfg.LostLower, cfg.LostUpper),
	}
}

// AnalyzeBar runs the column vote over a cropped bar image. A column is
// "active" for a class when at least ColumnThresholdRatio of its pixels match
// the class; the vote tolerates partial vertical occlusion by sprites since a
// minority of matching pixels still registers the column.
//
// Health is inferred purely from the complement of the damage and lost
// columns. A bar with no matching color in any class therefore reads as 100%
// health; that inference rule is intentional and must not be "fixed" here.
func (a *Analyzer) AnalyzeBar(bar *image.RGBA) BarState {
	b := bar.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return BarState{Health: 100}
	}

	threshold := int(float64(h) * a.cfg.ColumnThresholdRatio)

	blackCols, redCols, goldCols := 0, 0, 0
	for x := 0; x < w; x++ {
		blackCount, redCount, goldCount := 0, 0, 0
		for y := 0; y < h; y++ {
			i := y*bar.Stride + x*4
			hh, ss, vv := rgbToHSV(bar.Pix[i], bar.Pix[i+1], bar.Pix[i+2])
			if a.lost.Contains(hh, ss, vv) {
				blackCount++
			}
			if a.damage.Contains(hh, ss, vv) {
				redCount++
			}
			if a.gold.Contains(hh, ss, vv) {
				goldCount++
			}
		}
		if blackCount >= threshold {
			blackCols++
		}
		if redCount >= threshold {
			redCols++
		}
		if goldCount >= threshold {
			goldCols++
		}
	}

	confirmed := float64(blackCols) / float64(w) * 100
	damage := float64(redCols) / float64(w) * 100
	health := clamp(100-confirmed-damage, 0, 100)

	return BarState{
		Health:          health,
		Damage:          clamp(damage, 0, 100),
		ConfirmedDamage: clamp(confirmed, 0, 100),
		IsFull:          float64(goldCols) > float64(w)*a.cfg.FullBarColumnRatio,
	}
}

// ClassMasks renders the gold, health and damage masks of a cropped bar as
// grayscale images for the debug dump.
func (a *Analyzer) ClassMasks(bar *image.RGBA) (gold, health, damage *image.Gray) {
	b := bar.Bounds()
	w, h := b.Dx(), b.Dy()
	gold = MaskImage(Mask(bar, a.gold), w, h)
	health = MaskImage(Mask(bar, a.health), w, h)
	damage = MaskImage(Mask(bar, a.damage), w, h)
	return gold, health, damage
}

// Visible reports whether a cropped bar region contains enough gauge-colored
// pixels (gold, health gradient or red) to be considered on screen.
func (a *Analyzer) Visible(bar *image.RGBA) bool {
	b := bar.Bounds()
	total := b.Dx() * b.Dy()
	if total <= 0 {
		return false
	}
	valid := countMask(Mask(bar, a.gold)) +
		countMask(Mask(bar, a.health)) +
		countMask(Mask(bar, a.damage))
	return float64(valid) > float64(total)*a.cfg.MinGaugePixelsRatio
}

// AnalyzeFrame extracts and measures both players' bars. ok is false when
// either bar region falls outside the frame.
func (a *Analyzer) AnalyzeFrame(frame *image.RGBA) (p1, p2 BarState, ok bool) {
	p1Bar, ok1 := ExtractBarRegion(frame, a.cfg.P1Bar)
	p2Bar, ok2 := ExtractBarRegion(frame, a.cfg.P2Bar)
	if !ok1 || !ok2 {
		return BarState{}, BarState{}, false
	}
	return a.AnalyzeBar(p1Bar), a.AnalyzeBar(p2Bar), true
}

// GaugeVisible reports whether both players' bar regions pass the visibility
// check. Frames failing this are intro/transition footage.
func (a *Analyzer) GaugeVisible(frame *image.RGBA) bool {
	p1Bar, ok1 := ExtractBarRegion(frame, a.cfg.P1Bar)
	p2Bar, ok2 := ExtractBarRegion(frame, a.cfg.P2Bar)
	if !ok1 || !ok2 {
		return false
	}
	return a.Visible(p1Bar) && a.Visible(p2Bar)
}
