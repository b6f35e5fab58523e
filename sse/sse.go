// Package sse decodes chat-completion streams made of newline-delimited
// "data:" frames into text deltas.
//
// The [Decoder] is push-based: callers feed raw chunks of any size and get
// back the deltas each chunk completes. Chunk boundaries carry no meaning;
// they may split a line, a JSON payload, or a multi-byte character. The
// [Reader] adapts a Decoder to a pull model over an [io.Reader].
//
// Frame rules:
//
//	: comment          ignored
//	(blank)            ignored
//	event: x           ignored (not a data frame)
//	data: [DONE]       ends the stream; nothing after it is processed
//	data: {json}       emits choices[0].delta.content when non-empty
package sse

const (
	dataPrefix = "data: "
	sentinel   = "[DONE]"

	defaultChunkSize = 4096
)

// chunkPayload is the subset of a chat-completion chunk that carries text.
type chunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}
