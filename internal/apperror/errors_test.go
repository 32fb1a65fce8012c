package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("generate: %w", New(KindModelInvocation, "gemini call failed", cause))

	assert.Equal(t, KindModelInvocation, KindOf(err))
	assert.True(t, errors.Is(err, ErrModelInvocation))
	assert.False(t, errors.Is(err, ErrMalformedResponse))
	assert.True(t, errors.Is(err, cause))

	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "missing-identity", ErrMissingIdentity.Error())
	assert.Equal(t, "staging: disk full", New(KindStaging, "disk full", nil).Error())
	assert.Equal(t, "store: insert profile: boom", New(KindStore, "insert profile", errors.New("boom")).Error())
}
