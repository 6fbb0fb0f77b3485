package domain

import (
	"time"
)

type Queue string

const (
	QueueSolo Queue = "RANKED_SOLO_5x5"
	QueueFlex Queue = "RANKED_FLEX_SR"
)

// Riot match queue ids as reported in match payloads and live status.
const (
	QueueIDSolo = 420
	QueueIDFlex = 440
)

func (q Queue) Label() string {
	if q == QueueFlex {
		return "Flex"
	}
	return "SoloQ"
}

func (q Queue) Valid() bool {
	return q == QueueSolo || q == QueueFlex
}

// QueueFromID maps a numeric Riot queue id to a Queue, or "" when unknown.
func QueueFromID(id int) Queue {
	switch id {
	case QueueIDSolo:
		return QueueSolo
	case QueueIDFlex:
		return QueueFlex
	}
	return ""
}

type Player struct {
	ID           string
	DisplayName  string
	RiotGameName string
	RiotTagLine  string
	Active       bool
	CreatedAt    time.Time
}

type RankSnapshot struct {
	PlayerID  string
	Queue     Queue
	Tier      string
	Division  string
	LP        *int
	Wins      *int
	Losses    *int
	UpdatedAt time.Time
}

type MatchOutcome struct {
	Win   *bool // nil when the source value was not a boolean
	Queue Queue
}

type MatchHistory struct {
	PlayerID  string
	Queue     Queue
	Games     []MatchOutcome // newest first
	Malformed bool
	FetchedAt time.Time
}

type PresenceRecord struct {
	PlayerID  string
	InGame    bool
	QueueID   *int
	CheckedAt time.Time
	LastError string
}

type FormGlyph string

const (
	GlyphWin    FormGlyph = "🟩"
	GlyphLoss   FormGlyph = "🟥"
	GlyphOther  FormGlyph = "⬛"
	GlyphNoData FormGlyph = "—"
)

// DisplayRow is derived on every projection and never mutated after it is published.
type DisplayRow struct {
	Player         Player      `json:"-"`
	PlayerID       string      `json:"player_id"`
	DisplayName    string      `json:"display_name"`
	RiotID         string      `json:"riot_id"`
	Tier           string      `json:"tier,omitempty"`
	Division       string      `json:"division,omitempty"`
	LP             *int        `json:"lp"`
	Wins           *int        `json:"wins"`
	Losses         *int        `json:"losses"`
	WinRate        *int        `json:"win_rate"`
	RankLabel      string      `json:"rank_label"`
	WinLoss        string      `json:"wl"`
	WinRateText    string      `json:"wr"`
	RecentForm     []FormGlyph `json:"recent_form"`
	RecentFormText string      `json:"recent_form_text"`
	Score          int         `json:"score"`
	Ranked         bool        `json:"ranked"`
	InGame         bool        `json:"in_game"`
	PresenceKnown  bool        `json:"presence_known"`
	ProfileURL     string      `json:"profile_url,omitempty"`
	RankIconURL    string      `json:"rank_icon_url"`
}

type Summary struct {
	PlayerCount int        `json:"player_count"`
	Queue       Queue      `json:"queue"`
	QueueLabel  string     `json:"queue_label"`
	LastFetchAt *time.Time `json:"last_fetch_at"`
	Loading     bool       `json:"loading"`
}

type BannerKind string

const (
	BannerInfo  BannerKind = "info"
	BannerError BannerKind = "error"
)

type Banner struct {
	Kind    BannerKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Notice is a short-lived message for the trigger surface (toast).
type Notice struct {
	Kind    BannerKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}
