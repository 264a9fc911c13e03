// Package ws реализует realtime-рассылку: реестр подключений с логическими
// комнатами (чаты) и широковещанием, с опциональным мостом через redis
// pub/sub для согласованной рассылки между несколькими процессами.
package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/momconnect/backend/internal/lib/sl"
)

// Envelope — кадр протокола server->client: имя события и полезная нагрузка.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRequest struct {
	client *Client
	room   string
}

type broadcast struct {
	room    string // пустая строка — рассылка всем подключениям
	payload []byte
}

// Bridge — межпроцессный транспорт рассылки. Publish отправляет кадр
// остальным процессам.
type Bridge interface {
	Publish(room string, payload []byte) error
}

// Hub — реестр подключений. Все изменения состояния выполняются в
// единственной горутине Run, внешние вызовы общаются с ней через каналы.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	local      chan broadcast
	bridge     Bridge // nil — рассылка только внутри процесса
	log        *slog.Logger
}

// NewHub создает новый Hub. Мост может быть nil: тогда рассылка
// деградирует до локальной, это ожидаемый режим, а не ошибка.
func NewHub(bridge Bridge, log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		local:      make(chan broadcast),
		bridge:     bridge,
		log:        log,
	}
}

// Run обрабатывает события реестра до закрытия канала регистрации.
// Запускается одной горутиной при старте приложения.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for _, members := range h.rooms {
					delete(members, client)
				}
				close(client.send)
			}
		case req := <-h.join:
			// Повторный вход в комнату идемпотентен.
			members, ok := h.rooms[req.room]
			if !ok {
				members = make(map[*Client]bool)
				h.rooms[req.room] = members
			}
			members[req.client] = true
		case msg := <-h.local:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg broadcast) {
	targets := h.clients
	if msg.room != "" {
		targets = h.rooms[msg.room]
	}
	for client := range targets {
		select {
		case client.send <- msg.payload:
		default:
			close(client.send)
			delete(h.clients, client)
			for _, members := range h.rooms {
				delete(members, client)
			}
		}
	}
}

// BroadcastToRoom рассылает событие всем подключениям комнаты,
// включая подключения других процессов при наличии моста.
func (h *Hub) BroadcastToRoom(room, event string, payload any) {
	h.emit(room, event, payload)
}

// BroadcastAll рассылает событие всем подключениям без привязки к комнате.
func (h *Hub) BroadcastAll(event string, payload any) {
	h.emit("", event, payload)
}

func (h *Hub) emit(room, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal event payload", sl.Err(err))
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.log.Error("failed to marshal event frame", sl.Err(err))
		return
	}

	h.local <- broadcast{room: room, payload: frame}
	if h.bridge != nil {
		if err := h.bridge.Publish(room, frame); err != nil {
			h.log.Error("failed to publish to bridge", sl.Err(err))
		}
	}
}

// DeliverLocal доставляет кадр только локальным подключениям. Используется
// мостом при получении кадра от другого процесса.
func (h *Hub) DeliverLocal(room string, payload []byte) {
	h.local <- broadcast{room: room, payload: payload}
}
