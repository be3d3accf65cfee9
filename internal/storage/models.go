package storage

import "time"

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Course is one stored course record, keyed by its resolved document ID.
type Course struct {
	DocID       string
	College     string
	Department  string
	Number      string
	Title       string
	Description string
	Tag         string
	PreReqs     string
}

// ChatTurn is one message in a user's conversation.
type ChatTurn struct {
	Role      Role
	Message   string
	Timestamp time.Time
}

// ChatHistory is a user's conversation state: the accumulated turns
// plus the summary left behind by the last compaction, if any.
type ChatHistory struct {
	Turns   []ChatTurn
	Summary string
}
