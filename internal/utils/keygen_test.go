package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTerminalKeys(t *testing.T) {
	live, err := GenerateLiveKey()
	require.NoError(t, err)
	training, err := GenerateTrainingKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(live, "nt_live_"))
	assert.True(t, strings.HasPrefix(training, "nt_train_"))
	assert.Len(t, strings.TrimPrefix(live, "nt_live_"), 64)

	again, err := GenerateLiveKey()
	require.NoError(t, err)
	assert.NotEqual(t, live, again)
}
