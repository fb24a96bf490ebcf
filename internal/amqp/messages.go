package amqp

import (
	"encoding/json"
	"errors"
	"fmt"

	"wastechart/internal/core"
)

// EncodeRenderEvent converts an event to its JSON wire form.
func EncodeRenderEvent(e core.RenderEvent) ([]byte, error) {
	return json.Marshal(e)
}

// DecodeRenderEvent parses a message body, rejecting events without an ID or kind.
func DecodeRenderEvent(data []byte) (*core.RenderEvent, error) {
	var e core.RenderEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode render event: %w", err)
	}
	if e.ID == "" {
		return nil, errors.New("render event without id")
	}
	if e.Kind == "" {
		return nil, errors.New("render event without kind")
	}
	return &e, nil
}
