package tools_test

import (
	"context"
	"sync"
)

type notification struct {
	Title   string
	Message string
}

type fakeNotifier struct {
	ch chan notification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan notification, 8)}
}

func (n *fakeNotifier) Notify(_ context.Context, title, message string) error {
	n.ch <- notification{Title: title, Message: message}
	return nil
}

type fakeLauncher struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (l *fakeLauncher) Open(_ context.Context, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.opened = append(l.opened, url)
	return nil
}

func (l *fakeLauncher) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.opened) == 0 {
		return ""
	}
	return l.opened[len(l.opened)-1]
}
