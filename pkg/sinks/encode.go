package sinks

import (
	"fmt"

	"github.com/bytedance/sonic"
)

func encodeEvent(evt Event) ([]byte, error) {
	raw, err := sonic.ConfigStd.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return raw, nil
}
