package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Setup("debug", false)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Setup("warn", true)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Setup("chatty", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
