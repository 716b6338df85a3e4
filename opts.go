package quartz

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Opts configures a Client.
type Opts struct {
	// Username is the profile name used to log in.
	Username string `yaml:"username"`
	// ProtocolVersion is the protocol number declared during the handshake.
	ProtocolVersion int32 `yaml:"protocol_version"`
	// ConnectTimeout bounds a single connection attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// EventQueueDepth is the capacity of each direction of the event bus.
	EventQueueDepth int `yaml:"event_queue_depth"`
	// CloseOnChunkError closes the connection when a chunk column fails to
	// decode instead of dropping the column.
	CloseOnChunkError bool `yaml:"close_on_chunk_error"`
}

// DefaultOpts returns the default client options.
func DefaultOpts() *Opts {
	return &Opts{
		Username:        "quartz",
		ProtocolVersion: 498,
		ConnectTimeout:  time.Second * 10,
		EventQueueDepth: 256,
	}
}

// LoadOpts reads options from a YAML file, filling unset fields with the
// defaults.
func LoadOpts(path string) (*Opts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read opts: %w", err)
	}

	opts := DefaultOpts()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parse opts: %w", err)
	}
	return opts, nil
}
