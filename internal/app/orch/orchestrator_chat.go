package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/core"
	"github.com/teleclinic/rtc/internal/domain"
)

const archiveTimeout = 5 * time.Second

// RelayChat fans a chat frame out to every member of roomID except the
// sender. An unknown or empty room is a silent no-op: realtime
// delivery is advisory and the sender gets no confirmation either way.
func (o *Orchestrator) RelayChat(from domain.ClientID, roomID domain.RoomID, frame core.Frame) core.PublishResult {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return core.PublishResult{}
	}
	res := room.Relay(from, frame)
	o.applyBackpressure(room, res)
	return res
}

// ArchiveChat hands a forwarded message to the archive without
// blocking the relay path. Archive failures are logged and dropped:
// persistence is a collaborator concern, not a delivery guarantee.
func (o *Orchestrator) ArchiveChat(msg domain.ChatMessage) {
	if o.Archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := o.Archive.Save(ctx, msg); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("message_id", msg.ID).Msg("archive save failed")
		}
	}()
}
