package session

import (
	"context"
	"errors"

	"github.com/quartzmc/quartz/event"
	"github.com/quartzmc/quartz/network"
)

// handleInbound reads frames in arrival order and feeds them through the
// state machine until the connection terminates.
func (s *Session) handleInbound(ctx context.Context) {
	for {
		frame, err := s.conn.ReadFrame(ctx)
		if err != nil {
			var connErr *network.ConnectionError
			switch {
			case errors.As(err, &connErr):
				s.finish("connection error", connErr)
			case errors.Is(err, network.ErrConnectionClosed):
				s.finish("connection closed", nil)
			default:
				s.finish("cancelled", err)
			}
			return
		}

		if err := s.handleFrame(frame); err != nil {
			var unexpected *UnexpectedMessageError
			if errors.As(err, &unexpected) {
				s.finish("protocol violation", unexpected)
			} else {
				s.finish("translation failed", err)
			}
			return
		}

		if s.State() == StateDisconnected {
			return
		}
	}
}

// handleOutbound drains the application's serverbound events and translates
// them into wire packets.
func (s *Session) handleOutbound(ctx context.Context) {
	for {
		select {
		case ev := <-s.bus.PollServerbound():
			if _, ok := ev.(event.Disconnect); ok {
				s.finish("disconnect requested", nil)
				return
			}
			if err := s.translateServerbound(ev); err != nil {
				s.logger.Error("failed to send packet", "err", err)
				return
			}
		case <-s.conn.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}
