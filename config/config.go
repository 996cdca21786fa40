package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Reference canvas against which bar rectangles are defined. Coordinates are
// scaled to the actual frame resolution at extraction time.
const (
	ReferenceWidth  = 1920
	ReferenceHeight = 1080
)

// Factory defaults for the HSV color classes (OpenCV convention: H 0-180,
// S 0-255, V 0-255). Red wraps around hue zero, so the uncommitted-damage
// class needs two intervals.
var (
	defaultGoldLower = [3]int{15, 50, 150}
	defaultGoldUpper = [3]int{35, 255, 255}

	defaultHealthLower = [3]int{15, 40, 120}
	defaultHealthUpper = [3]int{65, 255, 255}

	defaultDamageLower1 = [3]int{0, 80, 100}
	defaultDamageUpper1 = [3]int{15, 255, 255}
	defaultDamageLower2 = [3]int{170, 80, 100}
	defaultDamageUpper2 = [3]int{180, 255, 255}

	defaultLostLower = [3]int{0, 0, 0}
	defaultLostUpper = [3]int{180, 100, 40}
)

// Default bar rectangles (x1,y1,x2,y2 on the 1920x1080 reference canvas).
// Trimmed a few pixels vertically to exclude the dark gauge frame.
var (
	defaultP1Bar = [4]int{160, 95, 892, 113}
	defaultP2Bar = [4]int{1035, 95, 1768, 113}
)

// Config holds the analyzer configuration: bar rectangles, HSV bounds for the
// four color classes and detection thresholds. It is constructed once (from
// defaults, optionally a JSON file, then flag overrides), validated, and never
// mutated after the pipeline starts.
type Config struct {
	Debug bool `json:"debug"`

	// HSV bounds per color class, each {H, S, V}.
	GoldLower    [3]int `json:"gold_lower"`
	GoldUpper    [3]int `json:"gold_upper"`
	HealthLower  [3]int `json:"health_lower"`
	HealthUpper  [3]int `json:"health_upper"`
	DamageLower1 [3]int `json:"damage_lower_1"`
	DamageUpper1 [3]int `json:"damage_upper_1"`
	DamageLower2 [3]int `json:"damage_lower_2"`
	DamageUpper2 [3]int `json:"damage_upper_2"`
	LostLower    [3]int `json:"lost_lower"`
	LostUpper    [3]int `json:"lost_upper"`

	// Bar rectangles on the reference canvas.
	P1Bar [4]int `json:"p1_bar"`
	P2Bar [4]int `json:"p2_bar"`

	// A column counts as a color class when at least this fraction of its
	// pixels match the class.
	ColumnThresholdRatio float64 `json:"column_threshold_ratio"`
	// A bar region is visible when gold+health+damage pixels exceed this
	// fraction of its area.
	MinGaugePixelsRatio float64 `json:"min_gauge_pixels_ratio"`
	// The bar is "full" when more than this fraction of columns are gold.
	FullBarColumnRatio float64 `json:"full_bar_column_ratio"`

	// Screen-flash detection over the top band of the frame.
	FlashBrightnessThreshold float64 `json:"flash_brightness_threshold"`
	FlashDiffThreshold       float64 `json:"flash_diff_threshold"`
	// Mean full-frame brightness below which the frame counts as a blackout.
	BlackoutBrightness float64 `json:"blackout_brightness"`
}

// DefaultConfig returns a Config populated with the factory defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                    false,
		GoldLower:                defaultGoldLower,
		GoldUpper:                defaultGoldUpper,
		HealthLower:              defaultHealthLower,
		HealthUpper:              defaultHealthUpper,
		DamageLower1:             defaultDamageLower1,
		DamageUpper1:             defaultDamageUpper1,
		DamageLower2:             defaultDamageLower2,
		DamageUpper2:             defaultDamageUpper2,
		LostLower:                defaultLostLower,
		LostUpper:                defaultLostUpper,
		P1Bar:                    defaultP1Bar,
		P2Bar:                    defaultP2Bar,
		ColumnThresholdRatio:     0.30,
		MinGaugePixelsRatio:      0.05,
		FullBarColumnRatio:       0.80,
		FlashBrightnessThreshold: 200,
		FlashDiffThreshold:       50,
		BlackoutBrightness:       30,
	}
}

// Validate reports the first invalid setting. Unlike detection noise, a bad
// configuration is a user error and must abort before any frame is processed.
func (c *Config) Validate() error {
	ranges := []struct {
		name         string
		lower, upper [3]int
	}{
		{"gold", c.GoldLower, c.GoldUpper},
		{"health", c.HealthLower, c.HealthUpper},
		{"damage_1", c.DamageLower1, c.DamageUpper1},
		{"damage_2", c.DamageLower2, c.DamageUpper2},
		{"lost", c.LostLower, c.LostUpper},
	}
	for _, r := range ranges {
		if err := validateHSV(r.name, r.lower, r.upper); err != nil {
			return err
		}
	}
	if err := validateBar("p1_bar", c.P1Bar); err != nil {
		return err
	}
	if err := validateBar("p2_bar", c.P2Bar); err != nil {
		return err
	}
	if c.ColumnThresholdRatio <= 0 || c.ColumnThresholdRatio > 1 {
		return fmt.Errorf("column_threshold_ratio %v outside (0,1]", c.ColumnThresholdRatio)
	}
	if c.MinGaugePixelsRatio <= 0 || c.MinGaugePixelsRatio > 1 {
		return fmt.Errorf("min_gauge_pixels_ratio %v outside (0,1]", c.MinGaugePixelsRatio)
	}
	if c.FullBarColumnRatio <= 0 || c.FullBarColumnRatio > 1 {
		return fmt.Errorf("full_bar_column_ratio %v outside (0,1]", c.FullBarColumnRatio)
	}
	if c.FlashDiffThreshold <= 0 || c.FlashBrightnessThreshold <= 0 {
		return fmt.Errorf("flash thresholds must be positive (diff=%v brightness=%v)",
			c.FlashDiffThreshold, c.FlashBrightnessThreshold)
	}
	if c.BlackoutBrightness < 0 || c.BlackoutBrightness > 255 {
		return fmt.Errorf("blackout_brightness %v outside [0,255]", c.BlackoutBrightness)
	}
	return nil
}

func validateHSV(name string, lower, upper [3]int) error {
	limits := [3]int{180, 255, 255}
	axes := [3]string{"H", "S", "V"}
	for i := 0; i < 3; i++ {
		if lower[i] < 0 || lower[i] > limits[i] {
			return fmt.Errorf("%s lower %s=%d outside [0,%d]", name, axes[i], lower[i], limits[i])
		}
		if upper[i] < 0 || upper[i] > limits[i] {
			return fmt.Errorf("%s upper %s=%d outside [0,%d]", name, axes[i], upper[i], limits[i])
		}
		if lower[i] > upper[i] {
			return fmt.Errorf("%s %s bounds inverted: %d > %d", name, axes[i], lower[i], upper[i])
		}
	}
	return nil
}

func validateBar(name string, r [4]int) error {
	x1, y1, x2, y2 := r[0], r[1], r[2], r[3]
	if x1 < 0 || y1 < 0 {
		return fmt.Errorf("%s has negative origin (%d,%d)", name, x1, y1)
	}
	if x1 >= x2 || y1 >= y2 {
		return fmt.Errorf("%s is degenerate: (%d,%d,%d,%d)", name, x1, y1, x2, y2)
	}
	if x2 > ReferenceWidth || y2 > ReferenceHeight {
		return fmt.Errorf("%s exceeds the %dx%d reference canvas: (%d,%d,%d,%d)",
			name, ReferenceWidth, ReferenceHeight, x1, y1, x2, y2)
	}
	return nil
}

// Load reads configuration from the given JSON file path. A missing file
// yields the defaults; a malformed file or invalid values are errors.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
