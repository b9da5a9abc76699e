package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/antelope-tools/msigview/internal/utils/safecast"
)

// Antelope timestamps are rendered without a timezone suffix and are always
// UTC.
const (
	timeFormat       = "2006-01-02T15:04:05"
	timeFormatMillis = "2006-01-02T15:04:05.000"
)

// blockTimestampEpochMS is the block timestamp epoch, 2000-01-01T00:00:00 UTC,
// in milliseconds since the Unix epoch.
const blockTimestampEpochMS = 946684800000

// TimePointSec is a second-resolution timestamp, seconds since the Unix epoch.
type TimePointSec uint32

func (t TimePointSec) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t TimePointSec) String() string {
	return t.Time().Format(timeFormat)
}

func (t TimePointSec) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimePointSec) UnmarshalJSON(data []byte) error {
	parsed, err := parseTimestamp(data)
	if err != nil {
		return err
	}

	secs, err := safecast.Int64ToUint32(parsed.Unix())
	if err != nil {
		return fmt.Errorf("timestamp %q out of range: %w", parsed.Format(timeFormat), err)
	}
	*t = TimePointSec(secs)

	return nil
}

// TimePoint is a microsecond-resolution timestamp, microseconds since the
// Unix epoch.
type TimePoint int64

func (t TimePoint) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

func (t TimePoint) String() string {
	return t.Time().Format(timeFormatMillis)
}

func (t TimePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimePoint) UnmarshalJSON(data []byte) error {
	parsed, err := parseTimestamp(data)
	if err != nil {
		return err
	}
	*t = TimePoint(parsed.UnixMicro())

	return nil
}

// BlockTimestamp is a half-second-resolution timestamp counting 500ms slots
// since the block timestamp epoch.
type BlockTimestamp uint32

func (t BlockTimestamp) Time() time.Time {
	return time.UnixMilli(blockTimestampEpochMS + int64(t)*500).UTC()
}

func (t BlockTimestamp) String() string {
	return t.Time().Format(timeFormatMillis)
}

func (t BlockTimestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func parseTimestamp(data []byte) (time.Time, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, err
	}

	for _, layout := range []string{timeFormatMillis, timeFormat} {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
