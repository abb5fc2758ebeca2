package google

// EventsResponse is the response from GET /calendars/{id}/events.
type EventsResponse struct {
	Kind          string  `json:"kind"`
	Summary       string  `json:"summary"`
	TimeZone      string  `json:"timeZone"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	Items         []Event `json:"items"`
}

// Event represents a single Google Calendar event.
type Event struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	ColorID     string    `json:"colorId,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime is either a timed instant (DateTime set) or an all-day
// marker (Date set). Exactly one of the two fields is populated.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Calendar is the response from GET /calendars/{id}.
type Calendar struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	TimeZone string `json:"timeZone"`
}

// ColorsResponse is the response from GET /colors. Only the event
// palette is used.
type ColorsResponse struct {
	Event map[string]ColorDefinition `json:"event"`
}

// ColorDefinition holds the hex values of one palette entry.
type ColorDefinition struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// ErrorResponse is the standard Google API error envelope.
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
