package admin

import (
	"sync"
	"time"
)

type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

type Message struct {
	Text  string
	Level Level
}

type stopper interface {
	Stop() bool
}

// Banner показывает одно сообщение за раз. Новое сообщение заменяет
// текущее и перезапускает таймер скрытия.
type Banner struct {
	mu       sync.Mutex
	ttl      time.Duration
	current  *Message
	seq      uint64
	timer    stopper
	onChange func()
	after    func(d time.Duration, f func()) stopper
}

func NewBanner(ttl time.Duration, onChange func()) *Banner {
	return &Banner{
		ttl:      ttl,
		onChange: onChange,
		after: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

func (b *Banner) Show(text string, level Level) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.current = &Message{Text: text, Level: level}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = b.after(b.ttl, func() { b.expire(seq) })
	b.mu.Unlock()

	b.notify()
}

func (b *Banner) expire(seq uint64) {
	b.mu.Lock()
	if b.seq != seq || b.current == nil {
		b.mu.Unlock()
		return
	}
	b.current = nil
	b.timer = nil
	b.mu.Unlock()

	b.notify()
}

func (b *Banner) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Message{}, false
	}
	return *b.current, true
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	b.seq++
	had := b.current != nil
	b.current = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	if had {
		b.notify()
	}
}

func (b *Banner) notify() {
	if b.onChange != nil {
		b.onChange()
	}
}
