package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("RI_STR", "  value ")
	t.Setenv("RI_INT", "7")
	t.Setenv("RI_BAD_INT", "seven")
	t.Setenv("RI_BOOL", "true")
	t.Setenv("RI_DUR", "45s")
	t.Setenv("RI_BAD_DUR", "soon")

	assert.Equal(t, "value", getEnv("RI_STR", "x"))
	assert.Equal(t, "x", getEnv("RI_MISSING", "x"))
	assert.Equal(t, 7, getEnvInt("RI_INT", 1))
	assert.Equal(t, 1, getEnvInt("RI_BAD_INT", 1))
	assert.True(t, getEnvBool("RI_BOOL", false))
	assert.False(t, getEnvBool("RI_MISSING", false))
	assert.Equal(t, 45*time.Second, getEnvDuration("RI_DUR", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("RI_BAD_DUR", time.Second))
}
