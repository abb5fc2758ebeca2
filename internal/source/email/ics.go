package email

import (
	"strings"
	"time"
)

// icsEvent is one VEVENT pulled out of an iCalendar payload.
type icsEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// parseICS extracts the VEVENT blocks from an iCalendar payload.
// All-day events (VALUE=DATE) and events whose timestamps cannot be
// parsed are dropped. The parser covers the subset of RFC 5545 that
// invite emails actually use; it is not a general iCalendar reader.
func parseICS(payload string) []icsEvent {
	lines := unfoldICSLines(payload)

	var events []icsEvent
	var cur *icsEvent
	valid := true

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			cur = &icsEvent{}
			valid = true

		case line == "END:VEVENT":
			if cur != nil && valid && !cur.Start.IsZero() && !cur.End.IsZero() {
				events = append(events, *cur)
			}
			cur = nil

		case cur != nil:
			name, params, value, ok := splitICSLine(line)
			if !ok {
				continue
			}

			switch name {
			case "UID":
				cur.UID = value
			case "SUMMARY":
				cur.Summary = unescapeICS(value)
			case "DESCRIPTION":
				cur.Description = unescapeICS(value)
			case "DTSTART", "DTEND":
				if params["VALUE"] == "DATE" {
					// All-day event; no instant to schedule against.
					valid = false
					continue
				}
				t, err := parseICSTime(value, params["TZID"])
				if err != nil {
					valid = false
					continue
				}
				if name == "DTSTART" {
					cur.Start = t
				} else {
					cur.End = t
				}
			}
		}
	}

	return events
}

// unfoldICSLines splits the payload into logical lines, joining
// continuation lines that begin with a space or tab (RFC 5545 §3.1).
func unfoldICSLines(payload string) []string {
	raw := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")

	var lines []string
	for _, line := range raw {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			if len(lines) > 0 {
				lines[len(lines)-1] += line[1:]
			}
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines
}

// splitICSLine splits "NAME;PARAM=VAL;...:value" into its parts.
func splitICSLine(line string) (
	name string, params map[string]string, value string, ok bool,
) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", nil, "", false
	}

	head := line[:colon]
	value = line[colon+1:]

	parts := strings.Split(head, ";")
	name = strings.ToUpper(parts[0])
	params = make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		if eq := strings.Index(p, "="); eq > 0 {
			params[strings.ToUpper(p[:eq])] = strings.Trim(p[eq+1:], `"`)
		}
	}
	return name, params, value, true
}

// parseICSTime parses an iCalendar date-time. The UTC form carries a
// trailing Z; the floating/local form may carry a TZID parameter which
// is resolved against the IANA database, falling back to local time
// when the zone is unknown.
func parseICSTime(value, tzid string) (time.Time, error) {
	if strings.HasSuffix(value, "Z") {
		return time.Parse("20060102T150405Z", value)
	}

	loc := time.Local
	if tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}
	return time.ParseInLocation("20060102T150405", value, loc)
}

// unescapeICS reverses RFC 5545 text escaping.
func unescapeICS(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case ',', ';', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
