package domain

type ConversationRole string

const (
	RoleUser  ConversationRole = "user"
	RoleModel ConversationRole = "model"
)

// ConversationTurn is one turn of a chat session. The full ordered history
// is supplied by the caller on every request; the server keeps no session
// state.
type ConversationTurn struct {
	Role ConversationRole `json:"role"`
	Text string           `json:"text"`
}
