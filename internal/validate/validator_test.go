package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/cpm"
	"github.com/elbasanier-main/dlarc/internal/network"
	"github.com/elbasanier-main/dlarc/internal/standards"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testValidator(t *testing.T) *Validator {
	t.Helper()
	table, err := standards.Load()
	require.NoError(t, err)
	v := New(table)
	v.now = func() time.Time { return fixedNow }
	return v
}

// cleanParams passes every geometric check; only the fc'-not-supplied
// info issue remains.
func cleanParams() *building.Params {
	return &building.Params{
		Name:            "low-rise",
		Floors:          3,
		FloorAreaM2:     72,
		SlabThicknessMM: 250,
		WallThicknessM:  0.3,
		FloorHeightM:    3.0,
		TypicalSpanFt:   15,
		LengthM:         12,
		WidthM:          6,
		CrewSize:        6,
		AmbientTempF:    70,
		LoadCondition:   standards.LiveLessThanDead,
		UseReshores:     true,
	}
}

func issuesFor(t *testing.T, res *Result, prefix string) []Issue {
	t.Helper()
	var out []Issue
	for _, issue := range res.Issues {
		if len(issue.ID) >= len(prefix) && issue.ID[:len(prefix)] == prefix {
			out = append(out, issue)
		}
	}
	return out
}

func TestRun_CleanBuilding(t *testing.T) {
	v := testValidator(t)

	res, err := v.Run(cleanParams(), nil, nil)
	require.NoError(t, err)

	assert.True(t, res.Constructable)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, fixedNow, res.Timestamp)
	assert.Equal(t, "low-rise", res.ProjectName)
	assert.NotEmpty(t, res.StandardsChecked)

	// fc' unverified is the only finding, and it is informational
	require.Len(t, res.Issues, 1)
	assert.Equal(t, SeverityInfo, res.Issues[0].Severity)
	assert.Equal(t, 1, res.CountsBySeverity["info"])
}

func TestWallSlenderness(t *testing.T) {
	v := testValidator(t)

	t.Run("within limit", func(t *testing.T) {
		p := cleanParams()
		p.FloorHeightM = 4.0
		p.WallThicknessM = 0.3 // h/t = 13.3

		res, err := v.Run(p, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, issuesFor(t, res, "wall_slenderness"))
	})

	t.Run("over limit", func(t *testing.T) {
		p := cleanParams()
		p.FloorHeightM = 4.0
		p.WallThicknessM = 0.1 // h/t = 40 > 30

		res, err := v.Run(p, nil, nil)
		require.NoError(t, err)

		found := issuesFor(t, res, "wall_slenderness")
		require.Len(t, found, 1)
		assert.Equal(t, SeverityCritical, found[0].Severity)
		assert.Equal(t, CategoryStructural, found[0].Category)
		assert.Equal(t, "ACI 318-19", found[0].CodeRef.Standard)
		assert.Equal(t, "Table 11.3.1.1", found[0].CodeRef.Section)
		assert.Contains(t, found[0].Calculated, "40.0")

		assert.False(t, res.Constructable)
	})

	t.Run("near limit", func(t *testing.T) {
		p := cleanParams()
		p.FloorHeightM = 3.0
		p.WallThicknessM = 0.105 // h/t = 28.6, inside the 90% band

		res, err := v.Run(p, nil, nil)
		require.NoError(t, err)

		found := issuesFor(t, res, "wall_slenderness")
		require.Len(t, found, 1)
		assert.Equal(t, SeverityMedium, found[0].Severity)
		assert.True(t, res.Constructable)
	})
}

func TestSlabSpanDepth(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.SlabThicknessMM = 150 // 6m / 0.15m = 40 > 33

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)

	found := issuesFor(t, res, "slab_span_depth")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityHigh, found[0].Severity)
	assert.Equal(t, "Table 8.3.1.1", found[0].CodeRef.Section)
	assert.True(t, res.Constructable) // high is not critical
}

func TestConcreteStrength(t *testing.T) {
	v := testValidator(t)

	t.Run("below minimum", func(t *testing.T) {
		p := cleanParams()
		p.ConcreteStrengthPsi = 2000

		res, err := v.Run(p, nil, nil)
		require.NoError(t, err)

		found := issuesFor(t, res, "concrete_strength")
		require.Len(t, found, 1)
		assert.Equal(t, SeverityCritical, found[0].Severity)
		assert.Equal(t, "Section 19.2.1.1", found[0].CodeRef.Section)
		assert.False(t, res.Constructable)
	})

	t.Run("acceptable", func(t *testing.T) {
		p := cleanParams()
		p.ConcreteStrengthPsi = 4000

		res, err := v.Run(p, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, issuesFor(t, res, "concrete_strength"))
		assert.Equal(t, 1.0, res.Score)
	})

	t.Run("above practical limit", func(t *testing.T) {
		p := cleanParams()
		p.ConcreteStrengthPsi = 12000

		res, err := v.Run(p, nil, nil)
		require.NoError(t, err)

		found := issuesFor(t, res, "concrete_strength")
		require.Len(t, found, 1)
		assert.Equal(t, SeverityHigh, found[0].Severity)
	})
}

func TestBuildingAspect(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.Floors = 15 // 45m tall over a 6m narrow dimension

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)

	found := issuesFor(t, res, "building_aspect")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityHigh, found[0].Severity)

	// 15 floors also crosses the reshoring threshold
	assert.Len(t, issuesFor(t, res, "reshoring"), 1)
}

func TestLateralPressureColdWeather(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.AmbientTempF = 8 // p = 150 + 9000*2/8 = 2400 psf

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)

	found := issuesFor(t, res, "lateral_pressure")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityHigh, found[0].Severity)
	assert.Equal(t, CategoryFormwork, found[0].Category)
}

func TestPourHeight(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.FloorHeightM = 5.0 // 4.5m lift limit

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)
	require.Len(t, issuesFor(t, res, "pour_height"), 1)
}

func TestFloorPlateAspect(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.LengthM = 60
	p.WidthM = 10

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)
	found := issuesFor(t, res, "floor_plate_aspect")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityMedium, found[0].Severity)
}

func TestVolumeSanity(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.ConcreteVolumeM3 = 200 // 200/3/72 = 0.93 m3/m2

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)
	found := issuesFor(t, res, "volume_sanity")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityLow, found[0].Severity)
}

func TestFloorSequence(t *testing.T) {
	v := testValidator(t)

	acts := []*network.Activity{
		{ID: "c1", Phase: network.PhaseFloorCuring, Floor: 1},
		{ID: "w2", Phase: network.PhaseFloorWalls, Floor: 2},
	}
	net := &network.Network{Activities: acts}

	t.Run("violated", func(t *testing.T) {
		sched := &cpm.Result{ByID: map[string]*cpm.Entry{
			"c1": {ActivityID: "c1", EF: 20},
			"w2": {ActivityID: "w2", ES: 15}, // starts before curing ends
		}}
		res, err := v.Run(cleanParams(), net, sched)
		require.NoError(t, err)

		found := issuesFor(t, res, "floor_sequence")
		require.Len(t, found, 1)
		assert.Equal(t, SeverityCritical, found[0].Severity)
		assert.Equal(t, CategorySchedule, found[0].Category)
		assert.False(t, res.Constructable)
	})

	t.Run("honored", func(t *testing.T) {
		sched := &cpm.Result{ByID: map[string]*cpm.Entry{
			"c1": {ActivityID: "c1", EF: 20},
			"w2": {ActivityID: "w2", ES: 20},
		}}
		res, err := v.Run(cleanParams(), net, sched)
		require.NoError(t, err)
		assert.Empty(t, issuesFor(t, res, "floor_sequence"))
	})
}

func TestScoreMonotonic(t *testing.T) {
	v := testValidator(t)

	clean, err := v.Run(cleanParams(), nil, nil)
	require.NoError(t, err)

	bad := cleanParams()
	bad.WallThicknessM = 0.05 // slender walls, critical
	worse, err := v.Run(bad, nil, nil)
	require.NoError(t, err)

	assert.Less(t, worse.Score, clean.Score)
	assert.True(t, clean.Constructable)
	assert.False(t, worse.Constructable)
	assert.InDelta(t, clean.Score-0.25, worse.Score, 1e-9)
}

func TestScoreNeverNegative(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.Floors = 40
	p.FloorHeightM = 5.0
	p.WallThicknessM = 0.05
	p.SlabThicknessMM = 100
	p.AmbientTempF = 8
	p.LengthM = 60
	p.WidthM = 2
	p.ConcreteStrengthPsi = 2000
	p.ConcreteVolumeM3 = 50000

	res, err := v.Run(p, nil, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.False(t, res.Constructable)
}

func TestRun_Deterministic(t *testing.T) {
	v := testValidator(t)

	first, err := v.Run(cleanParams(), nil, nil)
	require.NoError(t, err)
	second, err := v.Run(cleanParams(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_RejectsInvalidParams(t *testing.T) {
	v := testValidator(t)

	p := cleanParams()
	p.Floors = 0
	_, err := v.Run(p, nil, nil)
	assert.ErrorIs(t, err, building.ErrInvalidInput)
}

func TestRunCheckRecoversPanic(t *testing.T) {
	v := testValidator(t)

	exploding := check{name: "exploding", fn: func(*Validator, input) []Issue {
		panic("boom")
	}}
	issues := v.runCheck(exploding, input{})

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Contains(t, issues[0].Description, "exploding")
	assert.Contains(t, issues[0].Description, "boom")
}
