package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/negan-1/lockme-discord-bot/internal/discord"
	"github.com/negan-1/lockme-discord-bot/internal/domain"
)

type delivery struct {
	Destination string
	Content     string
	Mentions    discord.MentionPolicy
}

type fakeSink struct {
	mu     sync.Mutex
	sent   []delivery
	failOn map[string]error // destination -> error
}

func (s *fakeSink) Deliver(_ context.Context, destination, content string, mentions discord.MentionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failOn[destination]; ok {
		return err
	}
	s.sent = append(s.sent, delivery{destination, content, mentions})
	return nil
}

func (s *fakeSink) to(destination string) []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []delivery
	for _, d := range s.sent {
		if d.Destination == destination {
			out = append(out, d)
		}
	}
	return out
}

func (s *fakeSink) containing(sub string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.sent {
		if strings.Contains(d.Content, sub) {
			n++
		}
	}
	return n
}

type fakeProvider struct {
	mu           sync.Mutex
	detail       *domain.EventDetail
	fetchErr     error
	ackErr       error
	delay        time.Duration
	panicky      bool
	panicOnFetch bool
	fetches      int
	acks         []string
}

func (p *fakeProvider) Fetch(_ context.Context, id string) (*domain.EventDetail, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++
	if p.panicOnFetch {
		panic("provider exploded")
	}
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	if p.panicky {
		return nil, nil // nil detail makes classification blow up
	}
	d := *p.detail
	return &d, nil
}

func (p *fakeProvider) Acknowledge(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acks = append(p.acks, id)
	return p.ackErr
}

func (p *fakeProvider) counts() (fetches, acks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches, len(p.acks)
}

type memStore struct {
	mu         sync.Mutex
	ids        map[string]int
	hasErr     error
	recErr     error
	panicOnHas bool
	lookups    int
}

func newMemStore() *memStore { return &memStore{ids: map[string]int{}} }

func (s *memStore) Has(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.panicOnHas {
		panic("store exploded")
	}
	if s.hasErr != nil {
		return false, s.hasErr
	}
	return s.ids[id] > 0, nil
}

func (s *memStore) Record(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recErr != nil {
		return s.recErr
	}
	if s.ids[id] == 0 {
		s.ids[id] = 1
	}
	return nil
}

func (s *memStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id] > 0
}

func (s *memStore) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

var testDest = Destinations{Today: "today", CatchAll: "all", Alert: "alerts"}

func newTestNotifier(sink *fakeSink) *Notifier {
	return &Notifier{Sink: sink, Dest: testDest, Log: zerolog.Nop()}
}
