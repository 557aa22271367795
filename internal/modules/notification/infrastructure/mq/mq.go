package mq

import "context"

// Header 消息头，按写入顺序保留
type Header struct {
	Key   string
	Value string
}

// Message 发往通知主题的一条记录。Key 决定分区，通知场景下是接收者 id
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers []Header
}

// PublishResult 写入位置，只用于日志
type PublishResult struct {
	Partition int32
	Offset    int64
}

// Publisher 同步发布，返回 nil 时消息已被 broker 确认
type Publisher interface {
	Publish(ctx context.Context, msg Message) (PublishResult, error)
	Close() error
}
