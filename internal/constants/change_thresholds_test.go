package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultChangeThresholds(t *testing.T) {
	t.Run("Constants have expected values", func(t *testing.T) {
		assert.Equal(t, 0.1, DefaultMinorChangeThreshold)
		assert.Equal(t, 0.5, DefaultModerateChangeThreshold)
	})

	t.Run("Constants are in correct order", func(t *testing.T) {
		assert.Greater(t, DefaultModerateChangeThreshold, DefaultMinorChangeThreshold,
			"Moderate threshold should be > Minor threshold")
		assert.Greater(t, DefaultMinorChangeThreshold, 0.0)
	})

	t.Run("Every level is described", func(t *testing.T) {
		for _, level := range []string{"None", "Minor", "Moderate", "Major"} {
			assert.NotEmpty(t, ChangeLevelDescriptions[level], "missing description for %s", level)
		}
	})
}
