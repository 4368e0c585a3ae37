package logging

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHook_RetainsEntries(t *testing.T) {
	hook := NewMemoryHook(10)
	logger := quietLogger()
	logger.AddHook(hook)

	logger.Info("GPS MESSAGE: ANTSTATUS=OK")
	logger.WithFields(logrus.Fields{"line": 3, "error": "nmea: checksum mismatch"}).Warn("Decode failed")
	logger.Debug("not retained below the logger level")

	entries := hook.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "GPS MESSAGE: ANTSTATUS=OK", entries[0].Message)
	assert.False(t, entries[0].Time.IsZero())

	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, "Decode failed error=nmea: checksum mismatch line=3", entries[1].Message)
}

func TestMemoryHook_Capacity(t *testing.T) {
	hook := NewMemoryHook(3)
	logger := quietLogger()
	logger.AddHook(hook)

	for i := 0; i < 5; i++ {
		logger.Infof("entry %d", i)
	}

	entries := hook.Entries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("entry %d", i+2), e.Message)
	}
}

func TestMemoryHook_WithError(t *testing.T) {
	hook := NewMemoryHook(1)
	logger := quietLogger()
	logger.AddHook(hook)

	logger.WithError(errors.New("port closed")).Error("Read failed")

	entries := hook.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Read failed error=port closed", entries[0].Message)
}
