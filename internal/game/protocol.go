package game

// Outbound messages. Every message carries a "type" discriminator so
// clients can switch on it; payload fields follow the wire contract of
// the original socket protocol.

// PlayerJoinedMessage is broadcast to the room when a player joins.
type PlayerJoinedMessage struct {
	Type string `json:"type"` // "player_joined"
	Name string `json:"name"`
}

// PlayerLeftMessage is broadcast to the room when a player disconnects.
type PlayerLeftMessage struct {
	Type string `json:"type"` // "player_left"
	Name string `json:"name"`
}

// NextQuestionMessage pushes the new current question to the whole room.
// The correct answer never leaves the server.
type NextQuestionMessage struct {
	Type    string            `json:"type"` // "next_question"
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options,omitempty"`
}

// AnswerResultMessage is sent only to the submitting connection.
type AnswerResultMessage struct {
	Type    string `json:"type"` // "answer_result"
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
}

// QuizFinishedMessage carries the final standings, player name to total.
type QuizFinishedMessage struct {
	Type   string         `json:"type"` // "quiz_finished"
	Scores map[string]int `json:"scores"`
}

// ErrorMessage reports a rejected request back to the offending
// connection only. It never aborts the room.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Sender delivers outbound messages to connections. Delivery is
// best-effort and must not block: a stalled connection in one room must
// never delay another room's progress.
type Sender interface {
	// ToConn delivers to a single connection.
	ToConn(connID string, msg any)
	// ToRoom delivers to every connection currently attached to the
	// room, skipping any connection IDs listed in exclude.
	ToRoom(code string, msg any, exclude ...string)
}

// send is one pending delivery, produced under the session lock and
// flushed after it is released.
type send struct {
	connID string // empty means the whole room
	msg    any
}
