package mq

import (
	"context"
	"encoding/json"
	"log"

	"talentclub/models"
	"talentclub/rdx"
)

const seatChannel = "seat-events"

// EmitSeatUpdate publishes a committed seat change to Redis pub/sub. Losing
// an event only delays live subscribers until their next refresh, so publish
// failures are logged and swallowed.
func EmitSeatUpdate(ctx context.Context, update models.SeatUpdate) {
	if rdx.Conn == nil {
		return
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("[mq] marshal seat update: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, seatChannel, data).Err(); err != nil {
		log.Printf("[mq] publish seat update: %v", err)
	}
}

// StartSeatWorker subscribes to seat events and hands each one to handle.
// Runs until the context is cancelled; callers start it in a goroutine.
func StartSeatWorker(ctx context.Context, handle func(models.SeatUpdate)) {
	if rdx.Conn == nil {
		return
	}
	sub := rdx.Conn.Subscribe(ctx, seatChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[mq] seat worker listening")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var update models.SeatUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				log.Printf("[mq] bad seat event payload: %v", err)
				continue
			}
			handle(update)
		}
	}
}
