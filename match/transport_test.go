package match

import (
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/Zereker/boggle"
)

type pendingReceive struct {
	onLine  boggle.ReceiveCallback
	payload any
}

// fakeTransport records sends and hands out lines on demand. Callbacks run
// synchronously on the goroutine that delivers the line.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []string
	pending []pendingReceive
	closed  bool
}

func (f *fakeTransport) Send(text string, onSent boggle.SendCallback, payload any) {
	f.mu.Lock()
	closed := f.closed
	if !closed {
		f.sent = append(f.sent, text)
	}
	f.mu.Unlock()

	if onSent == nil {
		return
	}
	if closed {
		onSent(boggle.ErrConnectionClosed, payload)
		return
	}
	onSent(nil, payload)
}

func (f *fakeTransport) Receive(onLine boggle.ReceiveCallback, payload any) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		onLine("", io.EOF, payload)
		return
	}
	f.pending = append(f.pending, pendingReceive{onLine: onLine, payload: payload})
	f.mu.Unlock()
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	for _, p := range pending {
		p.onLine("", io.EOF, p.payload)
	}
	return nil
}

// next pops the oldest pending receive.
func (f *fakeTransport) next(t *testing.T) pendingReceive {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		t.Fatal("no pending receive")
	}
	p := f.pending[0]
	f.pending = f.pending[1:]
	return p
}

// deliver hands line to the oldest pending receive.
func (f *fakeTransport) deliver(t *testing.T, line string) {
	t.Helper()
	p := f.next(t)
	p.onLine(line, nil, p.payload)
}

// fail settles the oldest pending receive with err.
func (f *fakeTransport) fail(t *testing.T, err error) {
	t.Helper()
	p := f.next(t)
	p.onLine("", err, p.payload)
}

func (f *fakeTransport) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeTransport) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

// count returns how many sent lines start with prefix.
func (f *fakeTransport) count(prefix string) int {
	n := 0
	for _, line := range f.lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeTransport) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
