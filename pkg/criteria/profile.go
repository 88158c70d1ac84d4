package criteria

import "fmt"

// AspectBand is an inclusive acceptance range for the box aspect ratio.
// Max <= 0 marks an open-ended band.
type AspectBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SideViewPolicy selects between a single global aspect-ratio threshold and
// band-based acceptance. Bands win when present.
type SideViewPolicy struct {
	MinAspectRatio float64      `json:"min_aspect_ratio"`
	Bands          []AspectBand `json:"bands,omitempty"`
}

// SpaceRatioBands maps the left/right empty-space ratio onto facing-score
// contributions. The values were calibrated against a small set of reference
// listing photos and should be treated as calibration constants, not ground
// truth.
type SpaceRatioBands struct {
	TightMax     float64 `json:"tight_max"`     // +2: car flush against the left edge
	BalancedLow  float64 `json:"balanced_low"`  // +2: near-symmetric margins
	BalancedHigh float64 `json:"balanced_high"`
	ModerateLow  float64 `json:"moderate_low"` // +1: moderate left margin
	ModerateHigh float64 `json:"moderate_high"`
}

// FacingPolicy configures the facing-left criterion. The simple policy uses
// only [MinRelPos, MaxRelPos] on the box center; the scored policy combines
// the center window [CenterLow, CenterHigh] with SpaceBands and passes at
// MinScore.
type FacingPolicy struct {
	MinRelPos float64 `json:"min_rel_pos"`
	MaxRelPos float64 `json:"max_rel_pos"`

	CenterLow  float64         `json:"center_low"`
	CenterHigh float64         `json:"center_high"`
	SpaceBands SpaceRatioBands `json:"space_bands"`
	MinScore   int             `json:"min_score"`
}

// Profile bundles every criterion threshold for one pipeline operating point.
type Profile struct {
	MinAreaRatio      float64        `json:"min_area_ratio"`
	MinBackgroundMean float64        `json:"min_background_mean"`
	MaxChannelSpread  float64        `json:"max_channel_spread"` // 0 disables the balance sub-check
	SideView          SideViewPolicy `json:"side_view"`
	Facing            FacingPolicy   `json:"facing"`
}

// BoxProfile returns the thresholds of the bounding-box pipeline: box-area
// coverage, brightness-only background, a single side-view threshold, and the
// simple position-window facing check.
func BoxProfile() Profile {
	return Profile{
		MinAreaRatio:      0.25,
		MinBackgroundMean: 180,
		MaxChannelSpread:  0,
		SideView: SideViewPolicy{
			MinAspectRatio: 1.8,
		},
		Facing: FacingPolicy{
			MinRelPos: 0.3,
			MaxRelPos: 0.8,
		},
	}
}

// MaskProfile returns the thresholds of the mask pipeline: mask-area
// coverage, balanced-white background, band-based side-view acceptance, and
// the scored facing check.
func MaskProfile() Profile {
	return Profile{
		MinAreaRatio:      0.20,
		MinBackgroundMean: 200,
		MaxChannelSpread:  20,
		SideView: SideViewPolicy{
			Bands: []AspectBand{
				{Min: 2.9, Max: 0},    // open-ended: clear side profiles
				{Min: 2.15, Max: 2.2}, // compact models; the 2.3-2.7 mid-range stays rejected
			},
		},
		Facing: FacingPolicy{
			CenterLow:  0.48,
			CenterHigh: 0.51,
			SpaceBands: SpaceRatioBands{
				TightMax:     0.15,
				BalancedLow:  0.7,
				BalancedHigh: 1.0,
				ModerateLow:  0.4,
				ModerateHigh: 0.69,
			},
			MinScore: 2,
		},
	}
}

// Validate checks that the profile describes a usable operating point.
func (p Profile) Validate() error {
	if p.MinAreaRatio <= 0 || p.MinAreaRatio > 1 {
		return fmt.Errorf("criteria: min_area_ratio must be in (0,1]")
	}
	if p.MinBackgroundMean <= 0 || p.MinBackgroundMean >= 255 {
		return fmt.Errorf("criteria: min_background_mean must be in (0,255)")
	}
	if p.SideView.MinAspectRatio <= 0 && len(p.SideView.Bands) == 0 {
		return fmt.Errorf("criteria: side view policy needs a threshold or bands")
	}
	for _, band := range p.SideView.Bands {
		if band.Max > 0 && band.Max < band.Min {
			return fmt.Errorf("criteria: side view band [%v,%v] is empty", band.Min, band.Max)
		}
	}
	return nil
}
