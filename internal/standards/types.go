package standards

import "errors"

// ErrNotFound is returned when a queried combination is absent from the
// loaded tables. Callers must supply their own fallback policy; the table
// never guesses a value.
var ErrNotFound = errors.New("standards entry not found")

// MemberType identifies the structural member a query concerns.
type MemberType string

const (
	MemberColumn MemberType = "column"
	MemberWall   MemberType = "wall"
	MemberSlab   MemberType = "slab"
	MemberBeam   MemberType = "beam"
	MemberJoist  MemberType = "joist"
)

// Vertical reports whether the member is a vertical element whose forms
// do not carry slab loads (fixed-hour removal per ACI 347-04).
func (m MemberType) Vertical() bool {
	return m == MemberColumn || m == MemberWall
}

// LoadCondition is the live-to-dead load ratio class used by the
// ACI 347-04 form removal tables.
type LoadCondition string

const (
	LiveLessThanDead LoadCondition = "live_less_than_dead"
	LiveMoreThanDead LoadCondition = "live_more_than_dead"
)

// SpanBucket is the span class used by the ACI 347-04 soffit tables.
type SpanBucket string

const (
	SpanUnder10ft SpanBucket = "under_10ft"
	Span10to20ft  SpanBucket = "10_to_20ft"
	SpanOver20ft  SpanBucket = "over_20ft"
)

// BucketForSpan maps a span in feet onto its ACI 347-04 table bucket.
func BucketForSpan(spanFt float64) SpanBucket {
	switch {
	case spanFt < 10:
		return SpanUnder10ft
	case spanFt <= 20:
		return Span10to20ft
	default:
		return SpanOver20ft
	}
}

// LoadingMode selects a strength-reduction (phi) factor row from
// ACI 318-19 Table 21.2.1.
type LoadingMode string

const (
	ModeMomentAxial     LoadingMode = "moment_axial"
	ModeShear           LoadingMode = "shear"
	ModeTorsion         LoadingMode = "torsion"
	ModeBearing         LoadingMode = "bearing"
	ModePostTensioned   LoadingMode = "post_tensioned_anchorage"
	ModeBracketsCorbels LoadingMode = "brackets_corbels"
	ModeCompressionTied LoadingMode = "compression_tied"
)

// Confidence tags where a value came from. Code-table values are high
// confidence; productivity-derived estimates are low.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Ref identifies the standard and section a value was taken from.
type Ref struct {
	Standard string `json:"standard"`
	Section  string `json:"section,omitempty"`
}

// PhiFactor is a strength-reduction factor entry.
type PhiFactor struct {
	Phi         float64 `json:"phi"`
	Description string  `json:"description"`
	Ref         Ref     `json:"ref"`
}

// FormRemoval is a resolved minimum form-removal time.
type FormRemoval struct {
	Days         float64    `json:"days"`
	MinimumDays  float64    `json:"minimum_days,omitempty"`
	Bucket       SpanBucket `json:"span_bucket,omitempty"`
	ColdAdjusted bool       `json:"cold_adjusted"`
	Ref          Ref        `json:"ref"`
}

// Rate is a labor productivity rate, per worker per 8-hour day.
type Rate struct {
	PerWorkerDay float64    `json:"per_worker_day"`
	Unit         string     `json:"unit"`
	Confidence   Confidence `json:"confidence"`
	Ref          Ref        `json:"ref"`
}

// LateralPressure is the resolved formwork lateral pressure.
type LateralPressure struct {
	Psf             float64 `json:"psf"`
	UncappedPsf     float64 `json:"uncapped_psf"`
	PlacementRateFt float64 `json:"placement_rate_ft_hr"`
	TemperatureF    float64 `json:"temperature_f"`
	HeadGovrns      bool    `json:"head_governs"`
	Ref             Ref     `json:"ref"`
}

// Material holds concrete grade properties.
type Material struct {
	Grade  string  `json:"grade"`
	FcMPa  float64 `json:"fc_mpa"`
	FcPsi  float64 `json:"fc_psi"`
	EcPsi  float64 `json:"ec_psi"`
	Weight string  `json:"weight_class"`
	Ref    Ref     `json:"ref"`
}
