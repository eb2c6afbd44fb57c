package repository

import (
	"os"
	"strconv"
	"time"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Monetary values are stored as strings to avoid float drift in DynamoDB
// number attributes.
func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringToFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func floatPtrToString(v *float64) *string {
	if v == nil {
		return nil
	}
	s := floatToString(*v)
	return &s
}

func stringPtrToFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	v := stringToFloat(*s)
	return &v
}

func timeToString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func stringToTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timeToString(*t)
	return &s
}

func stringPtrToTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := stringToTime(*s)
	return &t
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
