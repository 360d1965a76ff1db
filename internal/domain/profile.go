package domain

import "fmt"

// ChannelProfile is the normalized view of a channel returned by the gateway.
// Provider-native "channel" and "chat" objects are mapped into this single
// shape at the directory boundary; nothing downstream sees raw provider types.
type ChannelProfile struct {
	ID                int64  `json:"id"`
	Username          string `json:"username,omitempty"`
	Title             string `json:"title"`
	About             string `json:"about,omitempty"`
	ParticipantsCount int    `json:"participants_count"`
	Verified          bool   `json:"verified,omitempty"`
	Scam              bool   `json:"scam,omitempty"`
	Fake              bool   `json:"fake,omitempty"`
}

// Link returns the canonical public link, or "" for channels without a username.
func (p *ChannelProfile) Link() string {
	if p == nil || p.Username == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s", p.Username)
}

// DisplayTitle returns the title with the verification mark used in exports
// and chat output.
func (p *ChannelProfile) DisplayTitle() string {
	if p == nil {
		return ""
	}
	if p.Verified {
		return p.Title + " ✅"
	}
	return p.Title
}
