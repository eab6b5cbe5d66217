package publisher

import (
	"context"
	"strconv"

	"lendledger/core"
	"lendledger/pkg/id"

	"github.com/fox-one/msgpack"
	"github.com/go-redis/redis"
)

// Message entry as pushed to the list, amounts in smallest units
type Message struct {
	// MessageID stable per entry so consumers can drop redeliveries
	MessageID string `msgpack:"message_id"`
	ID        int64  `msgpack:"id"`
	TraceID   string `msgpack:"trace_id"`
	Reason    string `msgpack:"reason"`
	Side      string `msgpack:"side"`
	Kind      string `msgpack:"kind"`
	Customer  string `msgpack:"customer"`
	Asset     string `msgpack:"asset"`
	Amount    string `msgpack:"amount"`
	Balance   string `msgpack:"balance"`
	Block     int64  `msgpack:"block"`
	Time      int64  `msgpack:"time"`
}

// NewMessage message of entry
func NewMessage(entry *core.Entry) Message {
	return Message{
		MessageID: messageID(entry),
		ID:        entry.ID,
		TraceID:   entry.TraceID,
		Reason:    entry.Reason.String(),
		Side:      entry.Side.String(),
		Kind:      entry.Kind.String(),
		Customer:  entry.Customer,
		Asset:     entry.Asset,
		Amount:    entry.Amount.String(),
		Balance:   entry.Balance.String(),
		Block:     entry.Block,
		Time:      entry.CreatedAt.Unix(),
	}
}

func messageID(entry *core.Entry) string {
	modifier := "entry:" + strconv.FormatInt(entry.ID, 10)
	if id.Valid(entry.TraceID) {
		return id.Modify(entry.TraceID, modifier)
	}

	return id.TraceIDFrom(modifier)
}

type redisPublisher struct {
	client *redis.Client
	key    string
}

// NewRedis publisher appending msgpack encoded entries to the redis list key
func NewRedis(client *redis.Client, key string) core.EntryPublisher {
	if key == "" {
		key = "lendledger:entries"
	}

	return &redisPublisher{client: client, key: key}
}

func (p *redisPublisher) Publish(ctx context.Context, entries []*core.Entry) error {
	values := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		data, err := msgpack.Marshal(NewMessage(entry))
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	return p.client.WithContext(ctx).RPush(p.key, values...).Err()
}
