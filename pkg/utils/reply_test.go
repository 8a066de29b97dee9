package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredReply_FencedObject(t *testing.T) {
	reply := ParseStructuredReply("```json\n{\"script\": \"Call the customer.\", \"estimatedCost\": 250}\n```")

	require.True(t, reply.Parsed)
	assert.Equal(t, "Call the customer.", reply.TextOr("script", ""))

	cost, ok := reply.Text("estimatedCost")
	assert.True(t, ok)
	assert.Equal(t, "250", cost)

	assert.Equal(t, "Unknown", reply.TextOr("estimatedTimeDelay", "Unknown"))
}

func TestParseStructuredReply_Malformed(t *testing.T) {
	for name, text := range map[string]string{
		"prose":     "Sorry, I cannot help with that.",
		"truncated": "```json\n{\"step1\": {\"warning\": \"W\"",
		"array":     "[1, 2, 3]",
		"null":      "null",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			reply := ParseStructuredReply(text)
			assert.False(t, reply.Parsed)
			assert.Equal(t, text, reply.Raw)
			assert.False(t, reply.Has("step1"))
		})
	}
}

func TestStructuredReply_NestedAccess(t *testing.T) {
	reply := ParseStructuredReply(`{"step1": {"warning": "W", "alternative": null}, "steps": [{"name": "Flight"}, "junk"]}`)
	require.True(t, reply.Parsed)

	step, ok := reply.Object("step1")
	require.True(t, ok)
	assert.Equal(t, "W", step.TextOr("warning", ""))
	_, ok = step.Text("alternative")
	assert.False(t, ok, "null members read as absent")

	items, ok := reply.Array("steps")
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "Flight", items[0].TextOr("name", ""))
	assert.False(t, items[1].Parsed)

	_, ok = reply.Object("steps")
	assert.False(t, ok)
}
