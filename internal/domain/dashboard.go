package domain

import "time"

// InboxViews are the three dashboard tabs derived from one newest-first list
type InboxViews struct {
	All       []*InboxMessage `json:"all"`
	Favorites []*InboxMessage `json:"favorites"`
	Archived  []*InboxMessage `json:"archived"`
}

// DashboardStats summary cards on the owner dashboard
type DashboardStats struct {
	TotalMessages int64      `json:"total_messages"`
	Unread        int64      `json:"unread"`
	Favorites     int64      `json:"favorites"`
	Archived      int64      `json:"archived"`
	ProfileViews  int64      `json:"profile_views"`
	LastActivity  *time.Time `json:"last_activity"`
}

// UnknownUsername labels account ids with no matching profile
const UnknownUsername = "Unknown"

// AdminMessage is a message joined with sender and receiver usernames
type AdminMessage struct {
	*Message
	ReceiverUsername string  `json:"receiver_username"`
	SenderUsername   *string `json:"sender_username"`
}

// AdminUser is a profile with its roles
type AdminUser struct {
	*Profile
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"is_admin"`
}

// AdminStats moderation console counters
type AdminStats struct {
	TotalMessages      int64 `json:"total_messages"`
	AnonymousMessages  int64 `json:"anonymous_messages"`
	RegisteredMessages int64 `json:"registered_messages"`
	UnreadMessages     int64 `json:"unread_messages"`
	TotalUsers         int64 `json:"total_users"`
}

// MessageCounts aggregate flags for one receiver
type MessageCounts struct {
	Total     int64
	Unread    int64
	Favorites int64
	Archived  int64
}
