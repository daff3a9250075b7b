package mqtt

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicMatch(t *testing.T) {
	cases := []struct {
		pattern, topic string
		want           bool
	}{
		{"music/status", "music/status", true},
		{"music/+", "music/status", true},
		{"music/+", "music/status/extra", false},
		{"music/#", "music", true},
		{"music/#", "music/a/b", true},
		{"#", "anything/at/all", true},
		{"guild/+/prefix", "guild/123/prefix", true},
		{"guild/+/prefix", "guild/123/welcome", false},
		{"a/b/c", "a/b", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, topicMatch(tc.pattern, tc.topic), "%s vs %s", tc.pattern, tc.topic)
	}
}

func TestOfflineCommunicator(t *testing.T) {
	c := &Communicator{pending: map[string]chan Response{}, handlers: map[string]RequestHandler{}}
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.Publish("x", 1), ErrNotConnected)

	var nilComm *Communicator
	assert.False(t, nilComm.IsConnected())
}

func TestHandleRequest(t *testing.T) {
	c := &Communicator{pending: map[string]chan Response{}, handlers: map[string]RequestHandler{}}
	c.handlers["guild/+/prefix"] = func(payload map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"topic": payload["_topic"], "guild": payload["guild"]}, nil
	}
	c.handlers["fail"] = func(map[string]interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	}

	raw, _ := json.Marshal(Request{CorrelationID: "abc", Payload: map[string]interface{}{"guild": "1"}})
	topic, body, ok := c.handleRequest("mabot/request/guild/1/prefix", raw)
	require.True(t, ok)
	assert.Equal(t, "mabot/response/guild/1/prefix/abc", topic)

	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "abc", resp.CorrelationID)
	assert.Equal(t, map[string]interface{}{"topic": "guild/1/prefix", "guild": "1"}, resp.Data)

	raw, _ = json.Marshal(Request{CorrelationID: "def"})
	_, body, ok = c.handleRequest("mabot/request/fail", raw)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "boom", resp.Error)

	_, _, ok = c.handleRequest("mabot/request/unknown", raw)
	assert.False(t, ok)

	_, _, ok = c.handleRequest("mabot/request/fail", []byte("{"))
	assert.False(t, ok)
}

func TestDeliverIgnoresUnknownCorrelation(t *testing.T) {
	ch := make(chan Response, 1)
	c := &Communicator{pending: map[string]chan Response{"a": ch}, handlers: map[string]RequestHandler{}}

	c.deliver(Response{CorrelationID: "b"})
	c.deliver(Response{CorrelationID: "a", Data: "ok"})
	c.deliver(Response{CorrelationID: "a", Data: "dup"})

	resp := <-ch
	assert.Equal(t, "ok", resp.Data)
	assert.Empty(t, ch)
}
