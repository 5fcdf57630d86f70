package mqtt

import "log"

// outbound is a serialized MQTT message held for replay after
// reconnection.
type outbound struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// replayBuffer is a bounded FIFO holding messages produced while the
// broker connection is down. When full, the oldest message is dropped.
// Not safe for concurrent use — caller must synchronize.
type replayBuffer struct {
	msgs    []outbound
	limit   int
	dropped int // messages lost to overflow since the last drain
}

func newReplayBuffer(limit int) *replayBuffer {
	return &replayBuffer{limit: limit}
}

func (b *replayBuffer) push(msg outbound) {
	if len(b.msgs) == b.limit {
		if b.dropped == 0 {
			log.Printf("mqtt: replay buffer full (%d messages), dropping oldest", b.limit)
		}
		b.dropped++
		copy(b.msgs, b.msgs[1:])
		b.msgs[len(b.msgs)-1] = msg
		return
	}
	b.msgs = append(b.msgs, msg)
}

// drain returns the buffered messages oldest-first and empties the
// buffer.
func (b *replayBuffer) drain() []outbound {
	if len(b.msgs) == 0 {
		return nil
	}
	out := b.msgs
	b.msgs = make([]outbound, 0, b.limit)
	b.dropped = 0
	return out
}

func (b *replayBuffer) len() int {
	return len(b.msgs)
}
