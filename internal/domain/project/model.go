package project

// Ref points at another document by id.
type Ref struct {
	ID string `json:"id"`
}

// Project is a named mailbox-like entity: a watcher list plus the history
// of conversations started in it. Its id is the project name.
type Project struct {
	Watchers      []string `json:"watchers,omitempty"`
	Conversations []Ref    `json:"conversations,omitempty"`
}

// Conversation is one thread created from an inbound email.
type Conversation struct {
	Subject string `json:"subject"`
	Entries []Ref  `json:"entries"`
}

// Entry links a conversation to one archived email.
type Entry struct {
	SourceEmail string `json:"source_email"`
}

// EmailRecord archives the original message bytes, base64-encoded so the
// blob embeds safely in a JSON string.
type EmailRecord struct {
	RawEmail string `json:"raw_email"`
}
