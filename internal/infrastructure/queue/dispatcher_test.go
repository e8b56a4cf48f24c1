package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier/marketplace-api/internal/core/domain"
)

type memRepo struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	err    error
	gate   chan struct{}
}

func (m *memRepo) Insert(_ context.Context, event domain.ActivityEvent) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *memRepo) bySubject(subject string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.Subject == subject {
			out = append(out, e.Metadata["seq"])
		}
	}
	return out
}

func TestDispatcher_PreservesPerSubjectOrder(t *testing.T) {
	repo := &memRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	subjects := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}
	for i := 0; i < 20; i++ {
		for _, s := range subjects {
			d.Record(domain.ActivityEvent{
				Type:     domain.ActivityLoginSuccess,
				Subject:  s,
				Metadata: map[string]string{"seq": fmt.Sprint(i)},
			})
		}
	}

	cancel()
	d.Wait()

	for _, s := range subjects {
		got := repo.bySubject(s)
		if len(got) != 20 {
			t.Fatalf("%s: expected 20 events, got %d", s, len(got))
		}
		for i, seq := range got {
			if seq != fmt.Sprint(i) {
				t.Fatalf("%s: out of order at %d: %v", s, i, got)
			}
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &memRepo{}, zerolog.Nop())
	first := d.shardIndex("a@x.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("a@x.com") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
	if NewDispatcher(0, &memRepo{}, zerolog.Nop()).workers == nil {
		t.Fatalf("expected default workers")
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &memRepo{gate: make(chan struct{})}
	var buf bytes.Buffer
	d := NewDispatcher(1, repo, zerolog.New(&buf))

	for i := 0; i < channelBuffer+1; i++ {
		d.Record(domain.ActivityEvent{Type: domain.ActivityLoginFailure, Subject: "a@x.com"})
	}

	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("expected full buffer, got %d", n)
	}
	if !bytes.Contains(buf.Bytes(), []byte("event dropped")) {
		t.Fatalf("expected drop warning, got %s", buf.String())
	}
	close(repo.gate)
}

func TestDispatcher_StoreErrorLogged(t *testing.T) {
	repo := &memRepo{err: errors.New("write failed")}
	var buf bytes.Buffer
	d := NewDispatcher(1, repo, zerolog.New(&buf))
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.ActivityEvent{Type: domain.ActivityUserDeleted, Subject: "a@x.com"})
	cancel()
	d.Wait()

	if !bytes.Contains(buf.Bytes(), []byte("activity persistence failed")) {
		t.Fatalf("expected error log, got %s", buf.String())
	}
}

func TestLogActivityRepository(t *testing.T) {
	var buf bytes.Buffer
	repo := NewLogActivityRepository(zerolog.New(&buf))

	err := repo.Insert(context.Background(), domain.ActivityEvent{
		Type:       domain.ActivityUserCreated,
		Subject:    "d@x.com",
		Actor:      "root@x.com",
		Metadata:   map[string]string{"role": "designer"},
		OccurredAt: time.Unix(0, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["type"] != "user.created" || line["actor"] != "root@x.com" || line["role"] != "designer" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
