package trip

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wayfarer/internal/ai"
)

const (
	travelToolName = "Travel"
	dateLayout     = "2006-01-02"
)

// LatestTravelArgs scans assistant messages newest first and returns the
// arguments of the first Travel tool call found.
func LatestTravelArgs(messages []ai.Message) (map[string]any, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role != ai.RoleAssistant {
			continue
		}
		for _, call := range m.ToolCalls {
			if call.Name == travelToolName {
				return call.Args, true
			}
		}
	}
	return nil, false
}

// Apply merges Travel arguments into rec. Non-empty values overwrite, empty
// or absent ones never clear a field, and NeedsDirections only latches on.
// Defaults fill whatever is still missing and the duration is derived from the
// dates when it is unset or a sentinel. On a coercion error rec is returned
// unchanged together with the error.
func Apply(rec Record, args map[string]any) (Record, error) {
	next := rec

	stringFields := []struct {
		key string
		dst *string
	}{
		{"depart", &next.Origin},
		{"destination", &next.Destination},
		{"duration", &next.Duration},
		{"budget", &next.Budget},
		{"departureDate", &next.DepartureDate},
		{"returnDate", &next.ReturnDate},
		{"interests", &next.Interests},
	}
	for _, f := range stringFields {
		v, ok := present(args, f.key)
		if !ok {
			continue
		}
		s, err := coerceString(v)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", f.key, err)
		}
		if s = strings.TrimSpace(s); s != "" {
			*f.dst = s
		}
	}

	if v, ok := present(args, "adults"); ok {
		n, err := coerceInt(v)
		if err != nil {
			return rec, fmt.Errorf("adults: %w", err)
		}
		if n >= 1 {
			next.Adults = n
		}
	}

	if v, ok := present(args, "needs_directions"); ok {
		b, err := coerceBool(v)
		if err != nil {
			return rec, fmt.Errorf("needs_directions: %w", err)
		}
		next.NeedsDirections = next.NeedsDirections || b
	}

	if next.Adults < 1 {
		next.Adults = DefaultAdults
	}
	if next.Interests == "" {
		next.Interests = DefaultInterests
	}
	if next.Duration == "" || isDurationSentinel(next.Duration) {
		next.Duration = deriveDuration(next.DepartureDate, next.ReturnDate)
	}
	return next, nil
}

// present returns the value for key when it is set and not an empty string.
func present(args map[string]any, key string) (any, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}

func deriveDuration(departure, ret string) string {
	switch {
	case departure != "" && ret != "":
		dep, err := time.Parse(dateLayout, departure)
		if err != nil {
			return DurationParseError
		}
		back, err := time.Parse(dateLayout, ret)
		if err != nil {
			return DurationParseError
		}
		days := int(back.Sub(dep).Hours() / 24)
		if days <= 0 {
			return DurationInvalid
		}
		return fmt.Sprintf("%d days", days)
	case departure != "":
		return DurationFlexible
	default:
		return DurationNotSpecified
	}
}

func coerceString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", fmt.Errorf("%w: %T", ErrCoercion, v)
}

func coerceInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrCoercion, t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrCoercion, v)
}

func coerceBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true"), nil
	case float64:
		return t != 0, nil
	}
	return false, fmt.Errorf("%w: %T", ErrCoercion, v)
}
