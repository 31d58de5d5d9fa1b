package chat

import (
	"time"

	"github.com/avaedu/ava/internal/protocol"
)

// historyReplayedMsg carries the reconstructed conversation when the
// screen opens.
type historyReplayedMsg struct {
	Turns []protocol.Turn
	Err   error
}

// turnDoneMsg is sent when a submitted turn completes, successfully or not.
type turnDoneMsg struct {
	Turn protocol.Turn
	Err  error
}

// uploadDoneMsg is sent when a /upload completes. Turns holds the recorded
// user turn and the acknowledgement, in transcript order.
type uploadDoneMsg struct {
	Turns []protocol.Turn
	Err   error
}

// spinnerTickMsg animates the typing indicator while a reply is pending.
type spinnerTickMsg time.Time
