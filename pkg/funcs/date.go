package funcs

import (
	"fmt"
	"time"

	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareDate() {
	r.declare(Definition{Name: "timestamp", Namespace: []string{"date"}, Impl: r.timestamp})
	r.declare(Definition{Name: "timeadd", Namespace: []string{"date"}, Params: []ParamType{TypeNumber, TypeString}, Impl: timeadd})
	r.declare(Definition{Name: "format", Namespace: []string{"date"}, Params: []ParamType{TypeString, TypeNumber}, Impl: formatDate})
	r.declare(Definition{Name: "duration", Namespace: []string{"date"}, Params: []ParamType{TypeString}, Impl: parseDurationFn})
}

func (r *Registry) timestamp(_ []value.Value) (value.Value, error) {
	return value.Int(r.now().Unix()), nil
}

func timeadd(args []value.Value) (value.Value, error) {
	ts := args[0].AsNumber().Int64()
	d, err := parseDuration(args[1].AsString())
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid duration: %w", err)
	}
	return value.Int(time.Unix(ts, 0).UTC().Add(d).Unix()), nil
}

// formatDate renders a Unix timestamp in UTC using a Go reference-time
// layout, e.g. "2006-01-02 15:04:05".
func formatDate(args []value.Value) (value.Value, error) {
	layout := args[0].AsString()
	ts := args[1].AsNumber().Int64()
	return value.String(time.Unix(ts, 0).UTC().Format(layout)), nil
}

func parseDurationFn(args []value.Value) (value.Value, error) {
	d, err := parseDuration(args[0].AsString())
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid duration: %w", err)
	}
	return value.Int(int64(d / time.Second)), nil
}

// parseDuration reads a sequence of <integer><unit> terms with units
// s, m, h and d. Trailing digits without a unit, unknown unit letters
// and inputs carrying no terms at all are errors.
func parseDuration(s string) (time.Duration, error) {
	var total time.Duration
	var digits []byte
	terms := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= '0' && ch <= '9' {
			digits = append(digits, ch)
			continue
		}
		if len(digits) == 0 {
			return 0, fmt.Errorf("invalid duration number")
		}
		var num int64
		for _, d := range digits {
			num = num*10 + int64(d-'0')
		}
		digits = digits[:0]
		switch ch {
		case 's':
			total += time.Duration(num) * time.Second
		case 'm':
			total += time.Duration(num) * time.Minute
		case 'h':
			total += time.Duration(num) * time.Hour
		case 'd':
			total += time.Duration(num) * 24 * time.Hour
		default:
			return 0, fmt.Errorf("invalid duration unit: %c", ch)
		}
		terms++
	}
	if len(digits) > 0 {
		return 0, fmt.Errorf("duration string ended unexpectedly")
	}
	if terms == 0 {
		return 0, fmt.Errorf("empty duration")
	}
	return total, nil
}
