package models

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ChatTypeAgency  = "agency"
	ChatTypeChatter = "chatter"

	DefaultWhaleThreshold = 4
	MaxWhaleThreshold     = 5
)

var SupportedPlatforms = []string{"onlyfans", "fansly"}

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrAlreadyLinked       = errors.New("model already linked to this chat")
	ErrNicknameTaken       = errors.New("nickname collides with a model already linked to this chat")
	ErrUnknownModel        = errors.New("model is not linked to this chat")
	ErrNotLinked           = errors.New("chat is not linked to any model")
	ErrBadThreshold        = fmt.Errorf("whale alert threshold must be between 0 and %d", MaxWhaleThreshold)
	ErrBadSetting          = errors.New("unknown config setting")
)

// ModelLink binds a chat to one tracked platform account. Nickname, when
// set, is a case-insensitive alternate lookup key within the chat.
type ModelLink struct {
	Platform  string `json:"platform"`
	AccountID string `json:"platform_account_id"`
	Nickname  string `json:"nickname,omitempty"`
}

func (m *ModelLink) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.AccountID
}

// Matches reports whether the identifier names this link, by account id or
// nickname, case-insensitively.
func (m *ModelLink) Matches(identifier string) bool {
	if strings.EqualFold(m.AccountID, identifier) {
		return true
	}
	return m.Nickname != "" && strings.EqualFold(m.Nickname, identifier)
}

// ChatMapping is the durable configuration of one chat: which accounts it
// tracks and which reports it receives. A mapping with no models does not
// exist; removing the last model deletes the mapping.
type ChatMapping struct {
	Models              []*ModelLink `json:"models"`
	ChatType            string       `json:"chat_type"`
	EnableDailyReport   bool         `json:"enable_daily_report"`
	EnableWeeklyReport  bool         `json:"enable_weekly_report"`
	EnableWhaleAlerts   bool         `json:"enable_whale_alerts"`
	EnableChatterReport bool         `json:"enable_chatter_report"`
	WhaleAlertThreshold int          `json:"whale_alert_threshold"`
}

// NewChatMapping applies the chat-type feature defaults. They only matter at
// creation; every toggle stays independently mutable afterwards.
func NewChatMapping(chatType string) *ChatMapping {
	cm := &ChatMapping{
		ChatType:            chatType,
		WhaleAlertThreshold: DefaultWhaleThreshold,
	}
	switch chatType {
	case ChatTypeChatter:
		cm.EnableWhaleAlerts = true
	default:
		cm.ChatType = ChatTypeAgency
		cm.EnableDailyReport = true
		cm.EnableWeeklyReport = true
	}
	return cm
}

func IsSupportedPlatform(platform string) bool {
	for _, p := range SupportedPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// AddModel appends a link, rejecting duplicates of (platform, account id)
// within the chat. A nickname must not shadow any existing nickname or
// account id; lookups resolve by first match, so a collision would make one
// of the two models unreachable.
func (cm *ChatMapping) AddModel(link *ModelLink) error {
	for _, m := range cm.Models {
		if m.Platform == link.Platform && m.AccountID == link.AccountID {
			return ErrAlreadyLinked
		}
		if link.Nickname != "" && m.Matches(link.Nickname) {
			return ErrNicknameTaken
		}
	}
	cm.Models = append(cm.Models, link)
	return nil
}

// RemoveModel drops the link named by identifier and reports whether the
// mapping still has models left.
func (cm *ChatMapping) RemoveModel(identifier string) (removed *ModelLink, remaining int, err error) {
	for i, m := range cm.Models {
		if m.Matches(identifier) {
			cm.Models = append(cm.Models[:i], cm.Models[i+1:]...)
			return m, len(cm.Models), nil
		}
	}
	return nil, len(cm.Models), ErrUnknownModel
}

func (cm *ChatMapping) FindModel(identifier string) *ModelLink {
	for _, m := range cm.Models {
		if m.Matches(identifier) {
			return m
		}
	}
	return nil
}

func (cm *ChatMapping) SetThreshold(threshold int) error {
	if threshold < 0 || threshold > MaxWhaleThreshold {
		return ErrBadThreshold
	}
	cm.WhaleAlertThreshold = threshold
	return nil
}

// SetFeature toggles one of the report features by its command name.
func (cm *ChatMapping) SetFeature(setting string, enabled bool) error {
	switch setting {
	case "daily":
		cm.EnableDailyReport = enabled
	case "weekly":
		cm.EnableWeeklyReport = enabled
	case "whale":
		cm.EnableWhaleAlerts = enabled
	case "chatter_report":
		cm.EnableChatterReport = enabled
	default:
		return ErrBadSetting
	}
	return nil
}
