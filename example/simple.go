package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quartzmc/quartz"
	"github.com/quartzmc/quartz/event"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	opts := quartz.DefaultOpts()
	opts.Username = "quartz"

	client := quartz.NewClient(logger, opts, nil)
	if err := client.Connect(context.Background(), "127.0.0.1:25565"); err != nil {
		logger.Error("failed to connect", "err", err)
		return
	}

	for ev := range client.Poll() {
		switch ev := ev.(type) {
		case event.JoinGame:
			logger.Info("joined game", "entity_id", ev.EntityID)
			client.Send(event.ChatSend{Text: "hello from quartz"})
			client.Send(event.PlayerMove{Position: mgl64.Vec3{8, 64, 8}, OnGround: true})
		case event.ChunkPresence:
			logger.Info("chunk column", "x", ev.ChunkX, "z", ev.ChunkZ, "mask", ev.Mask)
		case event.ChatMessage:
			logger.Info("chat", "text", ev.Text)
		case event.Disconnected:
			logger.Info("disconnected", "reason", ev.Reason, "err", ev.Err)
			return
		}
	}
}
