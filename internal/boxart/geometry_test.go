package boxart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPlan(t *testing.T, w, h int, mode FitMode) TransformPlan {
	t.Helper()
	plan, err := Plan(Dimensions{Width: w, Height: h}, mode, TransparentBackground)
	require.NoError(t, err)
	return plan
}

func TestPadCoverExample(t *testing.T) {
	plan := mustPlan(t, 128, 115, ModePad)
	layout, err := plan.Layout(Dimensions{Width: 800, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, Dimensions{Width: 128, Height: 96}, layout.Scaled)
	assert.Equal(t, 0, layout.OffsetX)
	assert.Equal(t, 9, layout.OffsetY)
	bottom := 115 - 96 - layout.OffsetY
	assert.InDelta(t, layout.OffsetY, bottom, 1)
	assert.True(t, plan.ForceAlpha)
}

func TestPadNeverOverflowsAndTouchesOneSide(t *testing.T) {
	sources := []Dimensions{{800, 600}, {600, 800}, {1, 1}, {3000, 7}, {7, 3000}, {250, 288}, {1920, 1080}}
	targets := []Dimensions{{128, 115}, {250, 288}, {1, 1}, {250, 350}, {1000, 10}}

	for _, target := range targets {
		plan := mustPlan(t, target.Width, target.Height, ModePad)
		for _, src := range sources {
			layout, err := plan.Layout(src)
			require.NoError(t, err)

			assert.Equal(t, target, plan.Canvas)
			assert.LessOrEqual(t, layout.Scaled.Width, target.Width, "src %v target %v", src, target)
			assert.LessOrEqual(t, layout.Scaled.Height, target.Height, "src %v target %v", src, target)
			touches := layout.Scaled.Width == target.Width || layout.Scaled.Height == target.Height
			assert.True(t, touches, "src %v target %v scaled %v", src, target, layout.Scaled)
			assert.Equal(t, (target.Width-layout.Scaled.Width)/2, layout.OffsetX)
			assert.Equal(t, (target.Height-layout.Scaled.Height)/2, layout.OffsetY)
		}
	}
}

func TestCropCoversAndCentres(t *testing.T) {
	sources := []Dimensions{{800, 600}, {600, 800}, {1, 1}, {3000, 7}, {7, 3000}, {250, 288}}
	targets := []Dimensions{{128, 115}, {250, 288}, {1, 1}, {250, 350}}

	for _, target := range targets {
		plan := mustPlan(t, target.Width, target.Height, ModeCrop)
		for _, src := range sources {
			layout, err := plan.Layout(src)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, layout.Scaled.Width, target.Width)
			assert.GreaterOrEqual(t, layout.Scaled.Height, target.Height)
			assert.Equal(t, (layout.Scaled.Width-target.Width)/2, layout.CropX)
			assert.Equal(t, (layout.Scaled.Height-target.Height)/2, layout.CropY)
			assert.Zero(t, layout.OffsetX)
			assert.Zero(t, layout.OffsetY)
		}
	}
}

func TestCropLandscapeIntoPortrait(t *testing.T) {
	plan := mustPlan(t, 250, 350, ModeCrop)
	layout, err := plan.Layout(Dimensions{Width: 800, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, Dimensions{Width: 467, Height: 350}, layout.Scaled)
	assert.Equal(t, 108, layout.CropX)
	assert.Equal(t, 0, layout.CropY)
}

func TestStretchAlwaysMatchesTarget(t *testing.T) {
	plan := mustPlan(t, 128, 115, ModeStretch)
	for _, src := range []Dimensions{{800, 600}, {1, 5000}, {128, 115}} {
		layout, err := plan.Layout(src)
		require.NoError(t, err)
		assert.Equal(t, Dimensions{Width: 128, Height: 115}, layout.Scaled)
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	_, err := Plan(Dimensions{Width: 0, Height: 10}, ModePad, TransparentBackground)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Plan(Dimensions{Width: MaxDimension + 1, Height: 10}, ModePad, TransparentBackground)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Plan(Dimensions{Width: 10, Height: 10}, FitMode(9), TransparentBackground)
	assert.ErrorIs(t, err, ErrConfig)

	plan := mustPlan(t, 10, 10, ModePad)
	_, err = plan.Layout(Dimensions{})
	assert.ErrorIs(t, err, ErrConfig)

	big := mustPlan(t, MaxDimension, MaxDimension, ModeCrop)
	layout, err := big.Layout(Dimensions{Width: 200000, Height: 3})
	assert.NoError(t, err)
	assert.Equal(t, MaxDimension, layout.Scaled.Height)
	assert.GreaterOrEqual(t, layout.Scaled.Width, MaxDimension)
}

func TestParseFitMode(t *testing.T) {
	mode, err := ParseFitMode(" Crop ")
	require.NoError(t, err)
	assert.Equal(t, ModeCrop, mode)

	_, err = ParseFitMode("zoom")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "pad, crop, stretch")
}
