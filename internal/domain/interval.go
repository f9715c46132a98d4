package domain

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("invalid interval")

// Interval is a kline granularity supported by the venue. The duration is
// nominal for calendar-sized intervals (a month is counted as 30 days).
type Interval time.Duration

func (i Interval) String() string {
	return intervalToString[i]
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

func ParseInterval(s string) (Interval, error) {
	i, ok := stringToInterval[s]
	if !ok {
		return 0, ErrInvalidInterval
	}
	return i, nil
}

var intervalToString = map[Interval]string{
	Interval(time.Minute):         "1m",
	Interval(time.Minute * 3):     "3m",
	Interval(time.Minute * 5):     "5m",
	Interval(time.Minute * 15):    "15m",
	Interval(time.Minute * 30):    "30m",
	Interval(time.Hour):           "1h",
	Interval(time.Hour * 2):       "2h",
	Interval(time.Hour * 4):       "4h",
	Interval(time.Hour * 6):       "6h",
	Interval(time.Hour * 8):       "8h",
	Interval(time.Hour * 12):      "12h",
	Interval(time.Hour * 24):      "1d",
	Interval(time.Hour * 24 * 3):  "3d",
	Interval(time.Hour * 24 * 7):  "1w",
	Interval(time.Hour * 24 * 30): "1M",
}

var stringToInterval = map[string]Interval{
	"1m":  Interval(time.Minute),
	"3m":  Interval(time.Minute * 3),
	"5m":  Interval(time.Minute * 5),
	"15m": Interval(time.Minute * 15),
	"30m": Interval(time.Minute * 30),
	"1h":  Interval(time.Hour),
	"2h":  Interval(time.Hour * 2),
	"4h":  Interval(time.Hour * 4),
	"6h":  Interval(time.Hour * 6),
	"8h":  Interval(time.Hour * 8),
	"12h": Interval(time.Hour * 12),
	"1d":  Interval(time.Hour * 24),
	"3d":  Interval(time.Hour * 24 * 3),
	"1w":  Interval(time.Hour * 24 * 7),
	"1M":  Interval(time.Hour * 24 * 30),
}
