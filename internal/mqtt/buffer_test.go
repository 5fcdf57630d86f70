package mqtt

import (
	"bytes"
	"fmt"
	"testing"
)

func TestReplayBufferEmpty(t *testing.T) {
	b := newReplayBuffer(10)
	if b.len() != 0 {
		t.Errorf("new buffer len = %d, want 0", b.len())
	}
	if got := b.drain(); got != nil {
		t.Errorf("drain of empty buffer = %v, want nil", got)
	}
}

func TestReplayBufferFIFO(t *testing.T) {
	b := newReplayBuffer(10)

	for i := 0; i < 3; i++ {
		b.push(outbound{topic: Topic, payload: []byte(fmt.Sprintf("msg-%d", i))})
	}
	if b.len() != 3 {
		t.Fatalf("len = %d, want 3", b.len())
	}

	msgs := b.drain()
	if len(msgs) != 3 {
		t.Fatalf("drained %d messages, want 3", len(msgs))
	}
	for i, m := range msgs {
		want := []byte(fmt.Sprintf("msg-%d", i))
		if !bytes.Equal(m.payload, want) {
			t.Errorf("message %d payload = %s, want %s", i, m.payload, want)
		}
	}

	if b.len() != 0 {
		t.Errorf("len after drain = %d, want 0", b.len())
	}
}

func TestReplayBufferOverflowDropsOldest(t *testing.T) {
	b := newReplayBuffer(3)

	for i := 0; i < 5; i++ {
		b.push(outbound{payload: []byte(fmt.Sprintf("msg-%d", i))})
	}

	if b.len() != 3 {
		t.Fatalf("len = %d, want capacity 3", b.len())
	}

	msgs := b.drain()
	want := []string{"msg-2", "msg-3", "msg-4"}
	for i, m := range msgs {
		if string(m.payload) != want[i] {
			t.Errorf("message %d = %s, want %s", i, m.payload, want[i])
		}
	}
}

func TestReplayBufferRefillAfterDrain(t *testing.T) {
	b := newReplayBuffer(2)

	b.push(outbound{payload: []byte("a")})
	b.drain()

	b.push(outbound{payload: []byte("b")})
	b.push(outbound{payload: []byte("c")})
	b.push(outbound{payload: []byte("d")}) // overflows, drops b

	msgs := b.drain()
	if len(msgs) != 2 {
		t.Fatalf("drained %d messages, want 2", len(msgs))
	}
	if string(msgs[0].payload) != "c" || string(msgs[1].payload) != "d" {
		t.Errorf("messages = [%s %s], want [c d]", msgs[0].payload, msgs[1].payload)
	}
}

func TestReplayBufferPreservesAttributes(t *testing.T) {
	b := newReplayBuffer(2)
	b.push(outbound{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})

	m := b.drain()[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("attributes not preserved: %+v", m)
	}
}
