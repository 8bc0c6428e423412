package data

import "time"

// Backends that hold absolute timestamps store them in UTC. A timestamp
// carrying no explicit zone is interpreted as local time unless the caller
// asked for UTC interpretation.

// NormalizeTime prepares a timestamp for storage. Zero-location ("naive")
// times are first anchored in local time, or in UTC when treatAsUTC is set,
// then converted to UTC.
func NormalizeTime(t time.Time, treatAsUTC bool) time.Time {
	if treatAsUTC {
		// Reinterpret the wall clock as UTC without shifting the instant.
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC()
}

// PresentTime converts a stored UTC timestamp for return to the caller:
// local time by default, UTC when tzAware is set.
func PresentTime(t time.Time, tzAware bool) time.Time {
	if tzAware {
		return t.UTC()
	}
	return t.Local()
}

// NormalizeValue applies NormalizeTime to every timestamp in a value.
// Non-datetime values pass through unchanged.
func NormalizeValue(v Value, treatAsUTC bool) Value {
	switch v.Kind() {
	case KindDateTime:
		if v.IsNull() {
			return v
		}
		return TimeValue(NormalizeTime(v.Time(), treatAsUTC))
	case KindDateTimeList:
		times := v.Times()
		for i := range times {
			times[i] = NormalizeTime(times[i], treatAsUTC)
		}
		return TimeListValue(times...)
	}
	return v
}

// PresentValue applies PresentTime to every timestamp in a value.
func PresentValue(v Value, tzAware bool) Value {
	switch v.Kind() {
	case KindDateTime:
		if v.IsNull() {
			return v
		}
		return TimeValue(PresentTime(v.Time(), tzAware))
	case KindDateTimeList:
		times := v.Times()
		for i := range times {
			times[i] = PresentTime(times[i], tzAware)
		}
		return TimeListValue(times...)
	}
	return v
}
