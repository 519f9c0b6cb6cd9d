// Package chat keeps the HR messaging history: a fixed contact directory and
// the messages exchanged with each contact.
package chat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnknownContact is returned for contact ids outside the directory.
	ErrUnknownContact = errors.New("unknown contact")
	// ErrEmptyMessage is returned when the text to send is blank.
	ErrEmptyMessage = errors.New("message must not be empty")
)

const (
	textPrefix = "You: "
	filePrefix = "You sent a file: "
)

// Kind distinguishes how a message was produced.
type Kind string

const (
	KindText     Kind = "text"
	KindFile     Kind = "file"
	KindIncoming Kind = "incoming"
)

// Contact is one entry of the contact list.
type Contact struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	LastMessage string     `json:"last_message"`
	LastAt      *time.Time `json:"last_at,omitempty"`
}

var directory = []Contact{
	{ID: 1, Name: "Employee-1", LastMessage: "Hey, how are you?"},
	{ID: 2, Name: "Employee-2", LastMessage: "Let's catch up soon!"},
	{ID: 3, Name: "Employee-3", LastMessage: "Meeting at 3 PM."},
	{ID: 4, Name: "Employee-4", LastMessage: "Don't forget the report."},
	{ID: 5, Name: "Employee-5", LastMessage: "See you tomorrow!"},
	{ID: 6, Name: "Employee-6", LastMessage: "Thanks for the update."},
	{ID: 7, Name: "Employee-7", LastMessage: "Can you send me the file?"},
}

// Directory returns a copy of the contact directory.
func Directory() []Contact {
	out := make([]Contact, len(directory))
	copy(out, directory)
	return out
}

func known(contactID int) bool {
	for _, c := range directory {
		if c.ID == contactID {
			return true
		}
	}
	return false
}

// Message is one stored chat line. Text carries the display prefix of
// outgoing messages.
type Message struct {
	ID        string    `json:"id"`
	ContactID int       `json:"contact_id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

// NewText builds an outgoing text message.
func NewText(contactID int, input string, now time.Time) (Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Message{}, ErrEmptyMessage
	}
	return newMessage(contactID, KindText, textPrefix+input, now)
}

// NewFile builds the message recorded after sending a file.
func NewFile(contactID int, filename string, now time.Time) (Message, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return Message{}, errors.New("file name must not be empty")
	}
	return newMessage(contactID, KindFile, filePrefix+filename, now)
}

// NewIncoming builds a message received from the contact.
func NewIncoming(contactID int, text string, now time.Time) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}
	return newMessage(contactID, KindIncoming, text, now)
}

func newMessage(contactID int, kind Kind, text string, now time.Time) (Message, error) {
	if !known(contactID) {
		return Message{}, fmt.Errorf("contact %d: %w", contactID, ErrUnknownContact)
	}
	return Message{ID: uuid.NewString(), ContactID: contactID, Kind: kind, Text: text, SentAt: now.UTC()}, nil
}

// Rendered is a message prepared for display.
type Rendered struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Outgoing bool      `json:"outgoing"`
	File     bool      `json:"file"`
	SentAt   time.Time `json:"sent_at"`
}

// Render strips the outgoing prefixes: text loses "You: ", files become
// "File: name". Outgoing messages align right. Incoming text is shown as is.
func Render(m Message) Rendered {
	r := Rendered{ID: m.ID, Text: m.Text, SentAt: m.SentAt}
	switch m.Kind {
	case KindFile:
		r.Text = "File: " + strings.TrimPrefix(m.Text, filePrefix)
		r.File = true
		r.Outgoing = true
	case KindText:
		r.Text = strings.TrimPrefix(m.Text, textPrefix)
		r.Outgoing = true
	}
	return r
}

// History is the message log of one user, keyed by contact.
type History struct {
	mu       sync.RWMutex
	messages map[int][]Message
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{messages: make(map[int][]Message)}
}

// Add appends a message to its contact's thread.
func (h *History) Add(m Message) error {
	if !known(m.ContactID) {
		return fmt.Errorf("contact %d: %w", m.ContactID, ErrUnknownContact)
	}
	h.mu.Lock()
	h.messages[m.ContactID] = append(h.messages[m.ContactID], m)
	h.mu.Unlock()
	return nil
}

// Replace swaps the whole log, e.g. after reading it back from storage.
// Messages for unknown contacts are dropped.
func (h *History) Replace(msgs []Message) {
	next := make(map[int][]Message)
	for _, m := range msgs {
		if known(m.ContactID) {
			next[m.ContactID] = append(next[m.ContactID], m)
		}
	}
	for id := range next {
		thread := next[id]
		sort.SliceStable(thread, func(i, j int) bool { return thread[i].SentAt.Before(thread[j].SentAt) })
	}
	h.mu.Lock()
	h.messages = next
	h.mu.Unlock()
}

// Messages returns the thread with one contact, oldest first.
func (h *History) Messages(contactID int) ([]Message, error) {
	if !known(contactID) {
		return nil, fmt.Errorf("contact %d: %w", contactID, ErrUnknownContact)
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.messages[contactID]))
	copy(out, h.messages[contactID])
	return out, nil
}

// Contacts returns the directory with previews taken from the latest
// message, most recent conversation first. Contacts without messages keep
// directory order after those with messages.
func (h *History) Contacts() []Contact {
	h.mu.RLock()
	out := Directory()
	for i := range out {
		thread := h.messages[out[i].ID]
		if len(thread) == 0 {
			continue
		}
		last := thread[len(thread)-1]
		at := last.SentAt
		out[i].LastMessage = last.Text
		out[i].LastAt = &at
	}
	h.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastAt, out[j].LastAt
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})
	return out
}
