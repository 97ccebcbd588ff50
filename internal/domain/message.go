package domain

import "time"

// ChatMessage is the relayed form of a chat event. The relay forwards
// it best-effort and hands a copy to the archive; it never persists or
// retries on its own.
type ChatMessage struct {
	ID       string
	RoomID   RoomID
	SenderID ClientID
	Sender   Identity
	Payload  []byte
	SentAt   time.Time
}
