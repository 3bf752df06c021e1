package models

import (
	"encoding/json"
)

// ExportRecord is one exported conversation file.
type ExportRecord struct {
	Title        string        `json:"title"`
	Participants []Participant `json:"participants" validate:"required,min=1,dive"`
	Messages     []Message     `json:"messages" validate:"dive"`
}

type Participant struct {
	Name string `json:"name" validate:"required"`
}

type Message struct {
	SenderName  string            `json:"sender_name" validate:"required"`
	TimestampMs int64             `json:"timestamp_ms" validate:"required"`
	Content     Content           `json:"content"`
	Photos      []json.RawMessage `json:"photos,omitempty"`
	Videos      []json.RawMessage `json:"videos,omitempty"`
	AudioFiles  []json.RawMessage `json:"audio_files,omitempty"`
	Share       *Share            `json:"share,omitempty"`
	Reactions   []Reaction        `json:"reactions"`
}

type Share struct {
	Link string `json:"link,omitempty"`
}

type Reaction struct {
	Actor    string `json:"actor"`
	Reaction string `json:"reaction"`
}

// Content holds a message body. Exports occasionally carry non-string
// values here; those decode as unset instead of failing the whole file.
type Content struct {
	Value string
	Set   bool
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = Content{}
		return nil
	}
	*c = Content{Value: s, Set: true}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Text returns the message body when it is a non-empty string.
func (m *Message) Text() (string, bool) {
	if !m.Content.Set || m.Content.Value == "" {
		return "", false
	}
	return m.Content.Value, true
}

// ParticipantNames returns the names in record order.
func (r *ExportRecord) ParticipantNames() []string {
	names := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		names = append(names, p.Name)
	}
	return names
}
