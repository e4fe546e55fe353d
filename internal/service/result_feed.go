package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/opec-platform/opec-backend/internal/config"
	ws "github.com/opec-platform/opec-backend/internal/websocket"
)

// ResultFeed fans finalized results out over Redis PubSub, one channel per exam.
type ResultFeed struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewResultFeed(rdb *redis.Client, log zerolog.Logger) *ResultFeed {
	return &ResultFeed{
		rdb: rdb,
		log: log.With().Str("component", "result_feed").Logger(),
	}
}

// Publish sends the event to the exam's channel.
func (f *ResultFeed) Publish(ctx context.Context, event ws.ResultEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal result event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.ExamResultsChannel(event.ExamID), payload).Err()
}

// Subscribe streams the exam's result events until ctx is done. The
// returned channel is closed when the subscription ends.
func (f *ResultFeed) Subscribe(ctx context.Context, examID int) (<-chan ws.ResultEvent, error) {
	sub := f.rdb.Subscribe(ctx, config.CacheKey.ExamResultsChannel(examID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan ws.ResultEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event ws.ResultEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.log.Warn().Err(err).Str("channel", msg.Channel).Msg("Dropping malformed result event")
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
