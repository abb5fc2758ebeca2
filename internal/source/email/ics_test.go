package email

import (
	"testing"
	"time"
)

func TestParseICSUTCEvent(t *testing.T) {
	payload := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:abc-123@example.com\r\n" +
		"SUMMARY:Team Sync\r\n" +
		"DESCRIPTION:Weekly catch-up\r\n" +
		"DTSTART:20260310T140000Z\r\n" +
		"DTEND:20260310T143000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events := parseICS(payload)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	if ev.UID != "abc-123@example.com" {
		t.Errorf("UID = %q", ev.UID)
	}
	if ev.Summary != "Team Sync" {
		t.Errorf("Summary = %q", ev.Summary)
	}

	wantStart := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", ev.Start, wantStart)
	}
	if got := ev.End.Sub(ev.Start); got != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", got)
	}
}

func TestParseICSTZIDEvent(t *testing.T) {
	payload := "BEGIN:VEVENT\n" +
		"UID:tz-1\n" +
		"SUMMARY:Standup\n" +
		"DTSTART;TZID=America/New_York:20260310T090000\n" +
		"DTEND;TZID=America/New_York:20260310T091500\n" +
		"END:VEVENT\n"

	events := parseICS(payload)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	wantStart := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	if !events[0].Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", events[0].Start, wantStart)
	}
}

func TestParseICSSkipsAllDayAndMalformed(t *testing.T) {
	payload := "BEGIN:VEVENT\n" +
		"UID:allday\n" +
		"SUMMARY:Holiday\n" +
		"DTSTART;VALUE=DATE:20260310\n" +
		"DTEND;VALUE=DATE:20260311\n" +
		"END:VEVENT\n" +
		"BEGIN:VEVENT\n" +
		"UID:broken\n" +
		"SUMMARY:Bad timestamp\n" +
		"DTSTART:not-a-time\n" +
		"DTEND:20260310T100000Z\n" +
		"END:VEVENT\n" +
		"BEGIN:VEVENT\n" +
		"UID:good\n" +
		"SUMMARY:Real Meeting\n" +
		"DTSTART:20260310T090000Z\n" +
		"DTEND:20260310T100000Z\n" +
		"END:VEVENT\n"

	events := parseICS(payload)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UID != "good" {
		t.Errorf("kept UID %q, want %q", events[0].UID, "good")
	}
}

func TestParseICSUnfoldsAndUnescapes(t *testing.T) {
	payload := "BEGIN:VEVENT\r\n" +
		"UID:fold-1\r\n" +
		"SUMMARY:Planning\\, part one\\; with agenda\r\n" +
		"DESCRIPTION:First line\\nSecond li\r\n" +
		" ne continues here\r\n" +
		"DTSTART:20260401T100000Z\r\n" +
		"DTEND:20260401T110000Z\r\n" +
		"END:VEVENT\r\n"

	events := parseICS(payload)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if got, want := events[0].Summary, "Planning, part one; with agenda"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if got, want := events[0].Description, "First line\nSecond line continues here"; got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestParseICSMissingEnd(t *testing.T) {
	payload := "BEGIN:VEVENT\n" +
		"UID:no-end\n" +
		"SUMMARY:Open ended\n" +
		"DTSTART:20260310T090000Z\n" +
		"END:VEVENT\n"

	if events := parseICS(payload); len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}
