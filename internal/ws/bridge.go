package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/momconnect/backend/internal/lib/sl"
)

const bridgeChannel = "momconnect:broadcast"

// bridgeFrame — сообщение моста между процессами. Origin нужен, чтобы
// процесс не доставлял собственные кадры второй раз.
type bridgeFrame struct {
	Origin  string          `json:"origin"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBridge транслирует кадры рассылки через redis pub/sub, чтобы
// несколько процессов бэкенда видели единое широковещание.
type RedisBridge struct {
	rdb    *redis.Client
	origin string
	log    *slog.Logger
}

// NewRedisBridge создает новый RedisBridge.
func NewRedisBridge(rdb *redis.Client, log *slog.Logger) *RedisBridge {
	return &RedisBridge{
		rdb:    rdb,
		origin: uuid.NewString(),
		log:    log,
	}
}

// Publish отправляет кадр остальным процессам.
func (b *RedisBridge) Publish(room string, payload []byte) error {
	frame, err := json.Marshal(bridgeFrame{
		Origin:  b.origin,
		Room:    room,
		Payload: payload,
	})
	if err != nil {
		return err
	}
	return b.rdb.Publish(context.Background(), bridgeChannel, frame).Err()
}

// Run подписывается на канал моста и доставляет кадры других процессов
// локальным подключениям хаба. Блокируется до отмены контекста.
func (b *RedisBridge) Run(ctx context.Context, hub *Hub) {
	sub := b.rdb.Subscribe(ctx, bridgeChannel)
	defer func() {
		_ = sub.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var frame bridgeFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				b.log.Error("failed to unmarshal bridge frame", sl.Err(err))
				continue
			}
			if frame.Origin == b.origin {
				continue
			}
			hub.DeliverLocal(frame.Room, frame.Payload)
		case <-ctx.Done():
			return
		}
	}
}
