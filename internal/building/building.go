// Package building defines the building-parameter record supplied by
// geometry collaborators and validates it before any computation runs.
package building

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/elbasanier-main/dlarc/internal/standards"
)

// ErrInvalidInput marks parameters rejected before computation starts.
var ErrInvalidInput = errors.New("invalid building input")

// Params describes one building to be sequenced. Distances are metric
// except TypicalSpanFt, which the ACI 347 tables key in feet.
type Params struct {
	Name             string  `json:"name"`
	Floors           int     `json:"floors"`
	FloorAreaM2      float64 `json:"floor_area_m2"`
	SlabThicknessMM  float64 `json:"slab_thickness_mm"`
	WallThicknessM   float64 `json:"wall_thickness_m"`
	FloorHeightM     float64 `json:"floor_height_m"`
	TypicalSpanFt    float64 `json:"typical_span_ft"`
	LengthM          float64 `json:"length_m"`
	WidthM           float64 `json:"width_m"`
	CrewSize         int     `json:"crew_size"`
	AmbientTempF     float64 `json:"ambient_temp_f"`
	StructuralSystem string  `json:"structural_system"`

	// Optional; zero values mean "not supplied".
	ConcreteStrengthPsi float64 `json:"concrete_strength_psi,omitempty"`
	RebarGrade          string  `json:"rebar_grade,omitempty"`
	ConcreteVolumeM3    float64 `json:"concrete_volume_m3,omitempty"`

	LoadCondition standards.LoadCondition `json:"load_condition"`
	UseReshores   bool                    `json:"use_reshores"`
}

// Validate rejects parameters the engine cannot sequence. Nothing is
// partially applied: the first violation aborts.
func (p *Params) Validate() error {
	switch {
	case p.Floors <= 0:
		return fmt.Errorf("%w: floors must be positive, got %d", ErrInvalidInput, p.Floors)
	case p.FloorAreaM2 <= 0:
		return fmt.Errorf("%w: floor area must be positive, got %.1f", ErrInvalidInput, p.FloorAreaM2)
	case p.SlabThicknessMM <= 0:
		return fmt.Errorf("%w: slab thickness must be positive, got %.1f", ErrInvalidInput, p.SlabThicknessMM)
	case p.WallThicknessM <= 0:
		return fmt.Errorf("%w: wall thickness must be positive, got %.2f", ErrInvalidInput, p.WallThicknessM)
	case p.FloorHeightM <= 0:
		return fmt.Errorf("%w: floor height must be positive, got %.2f", ErrInvalidInput, p.FloorHeightM)
	case p.TypicalSpanFt <= 0:
		return fmt.Errorf("%w: typical span must be positive, got %.1f", ErrInvalidInput, p.TypicalSpanFt)
	case p.CrewSize <= 0:
		return fmt.Errorf("%w: crew size must be positive, got %d", ErrInvalidInput, p.CrewSize)
	case p.AmbientTempF <= 0:
		return fmt.Errorf("%w: ambient temperature must be positive, got %.1f", ErrInvalidInput, p.AmbientTempF)
	case p.LengthM <= 0 || p.WidthM <= 0:
		return fmt.Errorf("%w: footprint dimensions must be positive, got %.1fm x %.1fm", ErrInvalidInput, p.LengthM, p.WidthM)
	}
	switch p.LoadCondition {
	case standards.LiveLessThanDead, standards.LiveMoreThanDead:
	default:
		return fmt.Errorf("%w: unknown load condition %q", ErrInvalidInput, p.LoadCondition)
	}
	return nil
}

// SlabVolumeM3 is the concrete volume of one floor slab.
func (p *Params) SlabVolumeM3() float64 {
	return p.FloorAreaM2 * p.SlabThicknessMM / 1000
}

// WallAreaM2 estimates the wall face area of one floor. Collaborator
// extractions rarely carry explicit wall areas, so 40% of the floor
// plate is used, matching the upstream CAD-extraction heuristic.
func (p *Params) WallAreaM2() float64 {
	return p.FloorAreaM2 * 0.4
}

// TotalHeightM is the overall building height.
func (p *Params) TotalHeightM() float64 {
	return float64(p.Floors) * p.FloorHeightM
}

// Parse extracts Params from a collaborator JSON document. Required
// fields missing from the document surface through Validate; optional
// fields get documented defaults here.
func Parse(data []byte) (*Params, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidInput)
	}
	doc := gjson.ParseBytes(data)

	p := &Params{
		Name:             doc.Get("name").String(),
		Floors:           int(doc.Get("floors").Int()),
		FloorAreaM2:      doc.Get("floor_area_m2").Float(),
		SlabThicknessMM:  doc.Get("slab_thickness_mm").Float(),
		WallThicknessM:   doc.Get("wall_thickness_m").Float(),
		FloorHeightM:     doc.Get("floor_height_m").Float(),
		TypicalSpanFt:    doc.Get("typical_span_ft").Float(),
		LengthM:          doc.Get("length_m").Float(),
		WidthM:           doc.Get("width_m").Float(),
		CrewSize:         int(doc.Get("crew_size").Int()),
		AmbientTempF:     doc.Get("ambient_temp_f").Float(),
		StructuralSystem: doc.Get("structural_system").String(),

		ConcreteStrengthPsi: doc.Get("concrete_strength_psi").Float(),
		RebarGrade:          doc.Get("rebar_grade").String(),
		ConcreteVolumeM3:    doc.Get("concrete_volume_m3").Float(),
	}

	if p.Name == "" {
		p.Name = "unnamed"
	}
	if p.StructuralSystem == "" {
		p.StructuralSystem = "shear_wall"
	}
	if p.FloorHeightM == 0 {
		p.FloorHeightM = 3.5
	}
	if p.AmbientTempF == 0 {
		p.AmbientTempF = 70
	}
	if lc := doc.Get("load_condition").String(); lc != "" {
		p.LoadCondition = standards.LoadCondition(lc)
	} else {
		p.LoadCondition = standards.LiveLessThanDead
	}
	if r := doc.Get("use_reshores"); r.Exists() {
		p.UseReshores = r.Bool()
	} else {
		p.UseReshores = true
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseFile reads and parses a building JSON file.
func ParseFile(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read building file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
