package timeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
)

const (
	textNoteKind   = 1
	connectTimeout = 5 * time.Second
)

// NoteHandler receives notes as relay listeners deliver them.
type NoteHandler func(Kind, Note)

// managedRelay wraps a nostr.Relay together with its live subscriptions.
type managedRelay struct {
	url       string
	relay     *nostr.Relay
	latency   time.Duration
	connected bool
	subs      map[Kind]*nostr.Subscription
	mu        sync.Mutex
}

// Pool owns the relay connections and the per-kind subscriptions on them.
// The channel model never holds a Pool; it is passed in per call.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	relays map[string]*managedRelay
	kinds  map[Kind]struct{}
	onNote NoteHandler

	wg sync.WaitGroup
}

func NewPool(parent context.Context) *Pool {
	ctx, cancel := context.WithCancel(parent)
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		relays: make(map[string]*managedRelay),
		kinds:  make(map[Kind]struct{}),
	}
}

func (p *Pool) SetNoteHandler(fn NoteHandler) {
	p.mu.Lock()
	p.onNote = fn
	p.mu.Unlock()
}

// SetRelays reconciles the connection set against urls: new relays are
// dialed and subscribed to every active kind, unneeded ones are closed.
func (p *Pool) SetRelays(urls []string) {
	desired := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		desired[u] = struct{}{}
	}

	p.mu.Lock()
	for url, mr := range p.relays {
		if _, ok := desired[url]; !ok {
			log.Printf("Disconnecting from unneeded relay: %s", url)
			mr.close()
			delete(p.relays, url)
		}
	}
	var missing []string
	for url := range desired {
		if _, ok := p.relays[url]; !ok {
			missing = append(missing, url)
		}
	}
	p.mu.Unlock()

	for _, url := range missing {
		go p.connect(url)
	}
}

func (p *Pool) connect(url string) {
	ctx, cancel := context.WithTimeout(p.ctx, connectTimeout)
	defer cancel()

	start := time.Now()
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		log.Printf("Failed to connect to %s: %v", url, err)
		return
	}
	latency := time.Since(start)
	log.Printf("Connected to %s (%dms)", url, latency.Milliseconds())

	mr := &managedRelay{
		url:       url,
		relay:     relay,
		latency:   latency,
		connected: true,
		subs:      make(map[Kind]*nostr.Subscription),
	}

	p.mu.Lock()
	if _, exists := p.relays[url]; exists {
		p.mu.Unlock()
		relay.Close()
		return
	}
	p.relays[url] = mr
	kinds := make([]Kind, 0, len(p.kinds))
	for k := range p.kinds {
		kinds = append(kinds, k)
	}
	p.mu.Unlock()

	for _, kind := range kinds {
		if err := p.subscribeOn(mr, kind); err != nil {
			log.Printf("Subscription for %s failed on %s: %v", kind, url, err)
		}
	}
}

// Subscribe opens the kind's filter on every connected relay. An error is
// returned only when every relay refused; partial success is good enough
// for a live feed.
func (p *Pool) Subscribe(kind Kind) error {
	p.mu.Lock()
	p.kinds[kind] = struct{}{}
	relays := make([]*managedRelay, 0, len(p.relays))
	for _, mr := range p.relays {
		relays = append(relays, mr)
	}
	p.mu.Unlock()

	if len(relays) == 0 {
		return nil
	}

	var lastErr error
	okCount := 0
	for _, mr := range relays {
		if err := p.subscribeOn(mr, kind); err != nil {
			lastErr = err
			continue
		}
		okCount++
	}
	if okCount == 0 && lastErr != nil {
		return fmt.Errorf("subscribe %s: %w", kind, lastErr)
	}
	return nil
}

func (p *Pool) subscribeOn(mr *managedRelay, kind Kind) error {
	mr.mu.Lock()
	if _, ok := mr.subs[kind]; ok {
		mr.mu.Unlock()
		return nil
	}
	mr.mu.Unlock()

	now := nostr.Now()
	filter := nostr.Filter{
		Kinds: []int{textNoteKind},
		Tags:  nostr.TagMap{"t": kind.Hashtags()},
		Since: &now,
	}

	sub, err := mr.relay.Subscribe(p.ctx, nostr.Filters{filter})
	if err != nil {
		return err
	}

	mr.mu.Lock()
	mr.subs[kind] = sub
	mr.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.listen(mr, kind, sub)
	}()
	return nil
}

func (p *Pool) listen(mr *managedRelay, kind Kind, sub *nostr.Subscription) {
	for {
		select {
		case <-p.ctx.Done():
			return
		case ev, ok := <-sub.Events:
			if !ok {
				mr.mu.Lock()
				if mr.subs[kind] == sub {
					delete(mr.subs, kind)
					mr.connected = false
				}
				mr.mu.Unlock()
				return
			}
			if ev == nil {
				continue
			}
			p.deliver(kind, ev)
		}
	}
}

func (p *Pool) deliver(kind Kind, ev *nostr.Event) {
	p.mu.Lock()
	fn := p.onNote
	p.mu.Unlock()
	if fn == nil {
		return
	}

	root := ""
	if eTag := ev.Tags.Find("e"); len(eTag) > 1 {
		root = eTag[1]
	}
	fn(kind, Note{
		ID:        ev.ID,
		Author:    ev.PubKey,
		Content:   ev.Content,
		CreatedAt: int64(ev.CreatedAt),
		Root:      root,
	})
}

// Unsubscribe drops the kind's subscription from every relay.
func (p *Pool) Unsubscribe(kind Kind) error {
	p.mu.Lock()
	delete(p.kinds, kind)
	relays := make([]*managedRelay, 0, len(p.relays))
	for _, mr := range p.relays {
		relays = append(relays, mr)
	}
	p.mu.Unlock()

	for _, mr := range relays {
		mr.mu.Lock()
		if sub, ok := mr.subs[kind]; ok {
			sub.Unsub()
			delete(mr.subs, kind)
		}
		mr.mu.Unlock()
	}
	return nil
}

// RelayInfo describes one pooled connection for display.
type RelayInfo struct {
	URL       string
	Latency   time.Duration
	Connected bool
}

func (p *Pool) Relays() []RelayInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]RelayInfo, 0, len(p.relays))
	for _, mr := range p.relays {
		mr.mu.Lock()
		out = append(out, RelayInfo{URL: mr.url, Latency: mr.latency, Connected: mr.connected})
		mr.mu.Unlock()
	}
	return out
}

func (p *Pool) Close() {
	p.cancel()
	p.mu.Lock()
	for _, mr := range p.relays {
		mr.close()
	}
	p.relays = make(map[string]*managedRelay)
	p.mu.Unlock()
	p.wg.Wait()
}

func (mr *managedRelay) close() {
	mr.mu.Lock()
	for kind, sub := range mr.subs {
		sub.Unsub()
		delete(mr.subs, kind)
	}
	if mr.relay != nil {
		mr.relay.Close()
	}
	mr.connected = false
	mr.mu.Unlock()
}
