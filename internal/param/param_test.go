package param

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-mcp/internal/apperr"
)

func src(m map[string]string) Source {
	return SourceFunc(func(name string) string { return m[name] })
}

func TestParseIntBounds(t *testing.T) {
	rules := []Rule{
		{Name: "deleteMessageSeconds", Type: Int, Bounded: true, Min: 0, Max: 604800, Hint: "7 days"},
	}

	v, err := Parse(src(map[string]string{"deleteMessageSeconds": "604800"}), rules)
	require.NoError(t, err)
	assert.Equal(t, int64(604800), v.Int("deleteMessageSeconds"))

	_, err = Parse(src(map[string]string{"deleteMessageSeconds": "604801"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "between 0 and 604800")
	assert.Contains(t, err.Error(), "7 days")

	_, err = Parse(src(map[string]string{"deleteMessageSeconds": "-1"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestParseTimeoutDurationEdges(t *testing.T) {
	rules := []Rule{
		{Name: "durationSeconds", Type: Int, Required: true, Bounded: true, Min: 1, Max: 2419200, Hint: "28 days"},
	}

	for _, ok := range []string{"1", "2419200"} {
		_, err := Parse(src(map[string]string{"durationSeconds": ok}), rules)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"0", "2419201"} {
		_, err := Parse(src(map[string]string{"durationSeconds": bad}), rules)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), bad)
	}
}

func TestParseIntSyntax(t *testing.T) {
	rules := []Rule{{Name: "limit", Type: Int}}

	_, err := Parse(src(map[string]string{"limit": "ten"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "limit")
}

func TestParsePositive(t *testing.T) {
	rules := []Rule{{Name: "limit", Type: Int, Positive: true}}

	_, err := Parse(src(map[string]string{"limit": "0"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "positive")

	v, err := Parse(src(map[string]string{"limit": "7"}), rules)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Int("limit"))
}

func TestParseRequired(t *testing.T) {
	rules := []Rule{{Name: "userId", Type: String, Required: true}}

	_, err := Parse(src(nil), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "userId cannot be empty")
}

func TestParseDefaults(t *testing.T) {
	rules := []Rule{
		{Name: "limit", Type: Int, Default: int64(100)},
		{Name: "withCounts", Type: Bool, Default: true},
		{Name: "topic", Type: String},
	}

	v, err := Parse(src(nil), rules)
	require.NoError(t, err)
	assert.Equal(t, int64(100), v.Int("limit"))
	assert.True(t, v.Bool("withCounts"))
	assert.False(t, v.Has("topic"))
}

func TestParseBool(t *testing.T) {
	rules := []Rule{{Name: "temporary", Type: Bool}}

	v, err := Parse(src(map[string]string{"temporary": "true"}), rules)
	require.NoError(t, err)
	assert.True(t, v.Bool("temporary"))

	_, err = Parse(src(map[string]string{"temporary": "yes"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestParseTimestamp(t *testing.T) {
	rules := []Rule{{Name: "scheduledStartTime", Type: Timestamp}}

	v, err := Parse(src(map[string]string{"scheduledStartTime": "2026-05-01T18:00:00+02:00"}), rules)
	require.NoError(t, err)
	want := time.Date(2026, 5, 1, 18, 0, 0, 0, time.FixedZone("", 2*3600))
	assert.True(t, want.Equal(v.Time("scheduledStartTime")))

	_, err = Parse(src(map[string]string{"scheduledStartTime": "tomorrow at noon"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "ISO-8601")
}

func TestParseIntEnum(t *testing.T) {
	rules := []Rule{
		{Name: "entityType", Type: IntEnum, Enum: []int64{1, 2, 3}, EnumHint: "1 (Stage), 2 (Voice), or 3 (External)"},
	}

	v, err := Parse(src(map[string]string{"entityType": "3"}), rules)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int("entityType"))

	_, err = Parse(src(map[string]string{"entityType": "5"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "1 (Stage), 2 (Voice), or 3 (External)")
}

func TestParseRequiredWhen(t *testing.T) {
	rules := []Rule{
		{Name: "entityType", Type: IntEnum, Required: true, Enum: []int64{1, 2, 3}, EnumHint: "1, 2, or 3"},
		{Name: "channelId", Type: String, RequiredWhen: func(v Values) string {
			if et := v.Int("entityType"); et == 1 || et == 2 {
				return "for stage and voice events"
			}
			return ""
		}},
		{Name: "location", Type: String, RequiredWhen: func(v Values) string {
			if v.Int("entityType") == 3 {
				return "for external events"
			}
			return ""
		}},
	}

	// Voice event without a channel.
	_, err := Parse(src(map[string]string{"entityType": "2"}), rules)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "channelId is required for stage and voice events")

	// External event without a location.
	_, err = Parse(src(map[string]string{"entityType": "3"}), rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location is required for external events")

	// Fully specified external event.
	v, err := Parse(src(map[string]string{"entityType": "3", "location": "Town hall"}), rules)
	require.NoError(t, err)
	assert.Equal(t, "Town hall", v.Str("location"))
	assert.False(t, v.Has("channelId"))
}
