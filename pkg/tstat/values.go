package tstat

import (
	"encoding/json"
	"strconv"
)

// Float64 converts a raw numeric value, as returned by Client.Get, to a float64.
func Float64(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Minutes converts a runtime value to minutes. The thermostat reports runtimes either as a number of minutes,
// or as an object holding hours and minutes:
//
//	{"hour": 1, "minute": 25}
func Minutes(value any) (float64, bool) {
	if object, ok := value.(map[string]any); ok {
		hour, ok1 := Float64(object["hour"])
		minute, ok2 := Float64(object["minute"])
		return 60*hour + minute, ok1 && ok2
	}
	return Float64(value)
}
