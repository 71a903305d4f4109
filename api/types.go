package api

type slashCommand struct {
	ChannelID   string
	UserID      string
	Text        string
	ResponseURL string
}

type urlVerification struct {
	Challenge string `json:"challenge"`
	Type      string `json:"type"`
}

type eventCallback struct {
	Type           string          `json:"type"`
	TeamID         string          `json:"team_id"`
	Event          memberEvent     `json:"event"`
	Authorizations []authorization `json:"authorizations"`
}

type authorization struct {
	UserID string `json:"user_id"`
}

type memberEvent struct {
	Type        string `json:"type"`
	User        string `json:"user"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type"`
	// Actor is the user who removed the member, when the platform supplies
	// it on member_left_channel.
	Actor string `json:"actor"`
}
