package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUTC(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, loc)

	got := FormatUTC(ts)
	assert.Equal(t, "2024-05-01T09:30:00Z", got)
	assert.True(t, strings.HasSuffix(got, "Z"))
	assert.Equal(t, "", FormatUTC(time.Time{}))
	assert.Nil(t, FormatUTCPtr(nil))
}

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	assert.True(t, IsUUID(id))
	assert.False(t, IsUUID("test-123"))
	assert.Len(t, GenerateShortUUID(), 32)
}
