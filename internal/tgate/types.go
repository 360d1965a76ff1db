package tgate

// ChannelRaw is the gateway's wire representation of a channel or chat. The
// session process forwards MTProto entities as-is, so most fields are optional
// and inconsistently populated between broadcast channels and megagroups.
type ChannelRaw struct {
	ID                int64   `json:"id"`
	Username          *string `json:"username,omitempty"`
	Title             string  `json:"title"`
	About             *string `json:"about,omitempty"`
	ParticipantsCount *int    `json:"participants_count,omitempty"`
	Verified          *bool   `json:"verified,omitempty"`
	Scam              *bool   `json:"scam,omitempty"`
	Fake              *bool   `json:"fake,omitempty"`
	Broadcast         *bool   `json:"broadcast,omitempty"`
}

// ParticipantRaw is one sampled member of a channel.
type ParticipantRaw struct {
	UserID int64 `json:"user_id"`
	Bot    bool  `json:"bot,omitempty"`
}

type ResolveRequest struct {
	Username string `json:"username"`
}

type ResolveResponse struct {
	Channel *ChannelRaw `json:"channel"`
}

type RecommendationsRequest struct {
	ChannelID int64 `json:"channel_id"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type ChannelsResponse struct {
	Channels []ChannelRaw `json:"channels"`
}

type ParticipantsRequest struct {
	ChannelID int64 `json:"channel_id"`
	Limit     int   `json:"limit"`
}

type ParticipantsResponse struct {
	Participants []ParticipantRaw `json:"participants"`
}

type SendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type SendDocumentRequest struct {
	ChatID   int64  `json:"chat_id"`
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64
	Caption  string `json:"caption,omitempty"`
}

type HealthResponse struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"session_id,omitempty"`
}

// Update is a message pushed over the gateway websocket.
type Update struct {
	ChatID   int64  `json:"chat_id"`
	SenderID int64  `json:"sender_id"`
	Sender   string `json:"sender,omitempty"`
	Text     string `json:"text"`
	Date     int64  `json:"date,omitempty"`
}

type WebSocketState string

const (
	WSStateConnecting   WebSocketState = "CONNECTING"
	WSStateConnected    WebSocketState = "CONNECTED"
	WSStateDisconnected WebSocketState = "DISCONNECTED"
	WSStateReconnecting WebSocketState = "RECONNECTING"
	WSStateFailed       WebSocketState = "FAILED"
)

func (s WebSocketState) String() string {
	return string(s)
}
