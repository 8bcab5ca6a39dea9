package match

import (
	"slices"
	"sync"

	"github.com/Zereker/boggle"
)

// Transport is the line transport a player is connected through.
// *boggle.Conn implements it.
type Transport interface {
	Send(text string, onSent boggle.SendCallback, payload any)
	Receive(onLine boggle.ReceiveCallback, payload any)
	Close() error
}

// Player is one side of a match. Its score and word sets belong to the
// session and are only touched under the session lock.
type Player struct {
	name      string
	transport Transport

	score   int
	unique  map[string]struct{}
	illegal map[string]struct{}

	// standing is set while a receive armed by stand is outstanding. A
	// callback registered through receive in the meantime takes its line.
	mu        sync.Mutex
	standing  bool
	idle      boggle.ReceiveCallback
	claim     boggle.ReceiveCallback
	claimWith any
}

// NewPlayer creates a player that has announced itself under name.
func NewPlayer(name string, t Transport) *Player {
	return &Player{
		name:      name,
		transport: t,
		unique:    make(map[string]struct{}),
		illegal:   make(map[string]struct{}),
	}
}

// Name returns the player's announced name.
func (p *Player) Name() string {
	return p.name
}

// hold marks p as having a standing receive for idle. arm issues it.
func (p *Player) hold(idle boggle.ReceiveCallback) {
	p.mu.Lock()
	p.standing = true
	p.idle = idle
	p.claim, p.claimWith = nil, nil
	p.mu.Unlock()
}

func (p *Player) arm() {
	p.transport.Receive(p.onStanding, nil)
}

// onStanding routes the standing receive's line to the callback that claimed
// it, or to idle with p as payload.
func (p *Player) onStanding(line string, err error, _ any) {
	p.mu.Lock()
	cb, payload := p.claim, p.claimWith
	if cb == nil {
		cb, payload = p.idle, p
	}
	p.standing = false
	p.idle, p.claim, p.claimWith = nil, nil, nil
	p.mu.Unlock()

	cb(line, err, payload)
}

// receive asks for p's next line. It takes over the standing receive when one
// is outstanding so lines keep their order.
func (p *Player) receive(onLine boggle.ReceiveCallback, payload any) {
	p.mu.Lock()
	if p.standing {
		p.claim, p.claimWith = onLine, payload
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.transport.Receive(onLine, payload)
}

func (p *Player) send(text string) {
	p.transport.Send(text, nil, nil)
}

// has reports whether word was already recorded for p.
func (p *Player) has(word string) bool {
	if _, ok := p.unique[word]; ok {
		return true
	}
	_, ok := p.illegal[word]
	return ok
}

func sortedWords(set map[string]struct{}) []string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
