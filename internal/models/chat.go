package models

import "time"

// Chat — диалог ровно между двумя участниками. Пара участников уникальна
// без учёта порядка: повторное создание для той же пары возвращает
// существующий чат.
type Chat struct {
	ID           string        `json:"id"`
	Participants []*PublicUser `json:"participants"`
	LastMessage  *Message      `json:"lastMessage,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Message — сообщение в чате с отправителем, текстом и типом содержимого.
type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}
