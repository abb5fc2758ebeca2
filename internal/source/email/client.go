package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/source"
)

// IMAPClient wraps go-imap v2 for connecting to an IMAP server and
// pulling calendar invite payloads out of recent mail.
type IMAPClient struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// NewIMAPClient creates a new IMAP client configuration.
func NewIMAPClient(
	host, port, username, password string, tls bool,
) *IMAPClient {
	return &IMAPClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      tls,
	}
}

// Connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout on the returned client.
func (c *IMAPClient) Connect(
	_ context.Context,
) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &source.AuthError{
			Provider: model.ProviderEmail,
			Message: fmt.Sprintf(
				"authentication failed for %s: %v",
				c.username, err,
			),
		}
	}

	return client, nil
}

// FetchInvitePayloads connects to IMAP, selects INBOX, searches for
// messages received since the given time, and returns the raw ICS
// payloads found in their MIME parts. Messages without a calendar
// part are skipped.
func (c *IMAPClient) FetchInvitePayloads(
	ctx context.Context, since time.Time,
) ([]string, error) {
	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	criteria := &imap.SearchCriteria{
		Since: since,
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}

	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var payloads []string
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		rawBody := buf.FindBodySection(bodySection)
		if rawBody == nil {
			continue
		}

		if ics := extractCalendarPart(rawBody); ics != "" {
			payloads = append(payloads, ics)
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return payloads, fmt.Errorf("fetching messages: %w", err)
	}

	return payloads, nil
}

// extractCalendarPart parses a raw RFC 2822 message with go-message
// and returns the first text/calendar part, whether inline or attached
// as an .ics file. Returns "" when the message carries no invite.
func extractCalendarPart(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			if !strings.HasPrefix(contentType, "text/calendar") {
				continue
			}
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			return string(body)

		case *mail.AttachmentHeader:
			contentType, _, _ := h.ContentType()
			filename, _ := h.Filename()
			isCalendar := strings.HasPrefix(contentType, "text/calendar") ||
				strings.HasPrefix(contentType, "application/ics") ||
				strings.HasSuffix(strings.ToLower(filename), ".ics")
			if !isCalendar {
				continue
			}
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			return string(body)
		}
	}

	return ""
}
