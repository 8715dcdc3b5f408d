package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEdit(t *testing.T) {
	edit, ok := parseEdit([]any{map[string]interface{}{"id": "e1", "value": "admin"}}, "role")
	assert.True(t, ok)
	assert.Equal(t, "e1", edit.ID)
	assert.Equal(t, "admin", edit.Value)

	// Legacy shape: the value sits under the field name.
	edit, ok = parseEdit([]any{map[string]interface{}{"id": "e2", "department": "Sales"}}, "department")
	assert.True(t, ok)
	assert.Equal(t, "Sales", edit.Value)

	_, ok = parseEdit(nil, "role")
	assert.False(t, ok)
}

func TestFirstValueFromMultiMap(t *testing.T) {
	values := map[string][]string{
		"Authorization": {"Bearer abc"},
		"token":         {""},
	}

	assert.Equal(t, "Bearer abc", firstValueFromMultiMap(values, "authorization"))
	assert.Equal(t, "", firstValueFromMultiMap(values, "token"))
	assert.Equal(t, "", firstValueFromMultiMap(nil, "token"))
}

func TestClientCounting(t *testing.T) {
	h := &Hub{
		sidRoom:   make(map[string]string),
		roomCount: make(map[string]int),
	}

	h.registerClient(clientMeta{sid: "a", room: RoomWeb})
	h.registerClient(clientMeta{sid: "b", room: RoomWeb})
	h.registerClient(clientMeta{sid: "c", room: RoomAdmin})
	assert.Equal(t, 2, h.ClientCount(RoomWeb))
	assert.Equal(t, 1, h.ClientCount(RoomAdmin))
	assert.Equal(t, 3, h.ClientCount(""))

	// Re-registering the same sid must not double count.
	h.registerClient(clientMeta{sid: "a", room: RoomWeb})
	assert.Equal(t, 2, h.ClientCount(RoomWeb))

	h.unregisterClient(clientMeta{sid: "a", room: RoomWeb})
	h.unregisterClient(clientMeta{sid: "a", room: RoomWeb})
	assert.Equal(t, 1, h.ClientCount(RoomWeb))
	assert.Equal(t, 2, h.ClientCount(""))
}
