// Package realtime fans collection-change events out over Redis pub/sub.
// Every successful mutation publishes an event on its collection's channel;
// live WebSocket streams subscribed to the channel respond by pushing a
// complete fresh snapshot to their clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StreamClasses     = "classes"
	StreamSupervisors = "supervisors"
	StreamActivity    = "activity"
)

// ChangeEvent carries no document data on purpose: subscribers always
// re-query and replace their whole snapshot.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

func Channel(stream string) string {
	return fmt.Sprintf("live:%s", stream)
}

type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// CollectionChanged notifies subscribers of the given stream. Publishing is
// best effort: without Redis, or on a publish error, the mutation itself has
// already succeeded and stays successful.
func (p *Publisher) CollectionChanged(ctx context.Context, stream string) {
	if p == nil || p.rdb == nil {
		return
	}

	payload, err := json.Marshal(ChangeEvent{Collection: stream, At: time.Now()})
	if err != nil {
		return
	}

	if err := p.rdb.Publish(ctx, Channel(stream), payload).Err(); err != nil {
		log.Printf("failed to publish change event for %s: %v", stream, err)
	}
}
