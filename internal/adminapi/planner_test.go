package adminapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/voltdesk/internal/planner"
)

func TestApplySelections(t *testing.T) {
	state := planner.NewState()
	err := applySelections(state, []plannerSelection{
		{ContainerID: planner.WiringComplexID, OptionID: "add-outlet", Enabled: true, Quantity: 3},
		{ContainerID: planner.WiringComplexID, OptionID: "breaker-install", Enabled: true},
	})
	require.NoError(t, err)

	view := plannerViewOf(state)
	assert.True(t, view.GrandTotal > 0)
	assert.Equal(t, 21, view.EstimatedCableMeters)
	assert.Equal(t, float64(2100), view.CableCost)
}

func TestApplySelectionsUnknownOption(t *testing.T) {
	state := planner.NewState()
	err := applySelections(state, []plannerSelection{
		{ContainerID: planner.WiringComplexID, OptionID: "no-such-option", Enabled: true},
	})
	assert.Error(t, err)
}

func TestApplySelectionsVoltage(t *testing.T) {
	state := planner.NewState()
	err := applySelections(state, []plannerSelection{
		{ContainerID: planner.WiringComplexID, OptionID: "meter-230v", Voltage: "380V", Enabled: true},
	})
	require.NoError(t, err)

	view := plannerViewOf(state)
	var found bool
	for _, cv := range view.Containers {
		for _, opt := range cv.Options {
			if opt.ID == "meter-380v" {
				found = true
				assert.Equal(t, float64(3500), opt.Price)
				assert.Equal(t, "380V", opt.SelectedVoltage)
			}
		}
	}
	assert.True(t, found)
}
