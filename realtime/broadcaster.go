package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	channelPrefix  = "live-stream-"
	publishTimeout = 5 * time.Second
)

// Event identifies the kind of a broadcast payload.
type Event string

const (
	EventMessageNew  Event = "message:new"
	EventViewerCount Event = "viewer:count"
	EventStreamStart Event = "stream:start"
	EventStreamEnd   Event = "stream:end"
)

// Publisher is what handlers depend on. Delivery is fire-and-forget:
// at-most-once, no ordering, errors are the caller's to log and ignore.
type Publisher interface {
	Publish(ctx context.Context, streamID string, event Event, payload interface{}) error
}

// envelope is the wire shape on the Redis channel.
type envelope struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    int64           `json:"at"`
}

// Broadcaster fans out stream-scoped events over Redis pub/sub. It holds
// no state beyond the client handle; missed events are not replayable,
// clients recover by re-fetching current state.
type Broadcaster struct {
	client *redis.Client
	logger *logrus.Entry
}

func NewBroadcaster(client *redis.Client, logger *logrus.Entry) *Broadcaster {
	return &Broadcaster{client: client, logger: logger}
}

// ChannelFor derives the channel name from the stream id, so any
// subscriber that knows the stream id can join without a lookup.
func ChannelFor(streamID string) string {
	return channelPrefix + streamID
}

func (b *Broadcaster) Publish(ctx context.Context, streamID string, event Event, payload interface{}) error {
	body, err := marshalEnvelope(event, payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, ChannelFor(streamID), body).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event, ChannelFor(streamID), err)
	}
	return nil
}

// Subscribe attaches a handler to a stream's channel and returns a cancel
// function. Used by the websocket edge to relay events to connected
// clients.
func (b *Broadcaster) Subscribe(streamID string, handler func(event Event, data []byte)) (func(), error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := b.client.Subscribe(ctx, ChannelFor(streamID))
	if _, err := pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, fmt.Errorf("subscribe %s: %w", ChannelFor(streamID), err)
	}

	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					b.logger.Warn("dropping malformed broadcast payload: ", err)
					continue
				}
				handler(env.Event, env.Data)
			}
		}
	}()

	return cancelCtx, nil
}

func marshalEnvelope(event Event, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: data, At: time.Now().Unix()})
}
