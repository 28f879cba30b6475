package gateway

import "encoding/json"

// InboundEnvelope reads only the fields every inbound frame share.
// Handler-specific fields are decoded from the raw message by the
// handler itself.
type InboundEnvelope struct {
	Type string `json:"type"`
}

// AuthMessage is the required first frame on every connection.
type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// OutboundUser is the user block embedded in auth_success.
type OutboundUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func authSuccess(user OutboundUser) []byte {
	return mustJSON(map[string]interface{}{
		"type": "auth_success",
		"user": user,
	})
}

func errorFrame(msgType, reason string) []byte {
	return mustJSON(map[string]interface{}{
		"type":  msgType,
		"error": reason,
	})
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Only hand-built maps of primitives reach here; a marshal
		// failure would be a programming error, not a runtime one.
		panic(err)
	}
	return b
}
