package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodePayload decodes a message payload into out. Payloads arriving from
// declarative or network sources (chart files, the HTTP adapter) are generic
// maps; handlers use this to recover their typed view, matching fields via
// "mapstructure" tags.
func DecodePayload(msg *Message, out any) error {
	if msg == nil || msg.Payload == nil {
		return nil
	}
	if err := mapstructure.Decode(msg.Payload, out); err != nil {
		return fmt.Errorf("decode payload for %s: %w", msg.Event, err)
	}
	return nil
}
