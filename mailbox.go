package loosemac

import "sort"

// mailItem is what a single recipient slot in the Mailbox holds: either
// nothing, a pristine Message, or the Corrupt sentinel produced when two
// sends land on the same recipient in the same tick.
type mailItem struct {
	present bool
	corrupt bool
	msg     Message
}

// Mailbox is the single-tick, one-writer-per-recipient broadcast medium.
// It is reset at the start of every tick and must be empty again before
// the next one begins.
type Mailbox struct {
	items map[int]mailItem
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{items: make(map[int]mailItem)}
}

// Put delivers msg to recipient. A first put records the message; any
// later put to the same recipient within the same tick fuses into
// Corrupt regardless of the new message's contents (collision fusion is
// idempotent: once Corrupt, it stays Corrupt).
func (m *Mailbox) Put(recipient int, msg Message) {
	if existing, ok := m.items[recipient]; ok {
		if existing.corrupt {
			return
		}
		m.items[recipient] = mailItem{present: true, corrupt: true}
		return
	}
	m.items[recipient] = mailItem{present: true, msg: msg}
}

// Get returns the item stored for recipient, if any. ok is false if the
// recipient has no mailbox entry this tick.
func (m *Mailbox) Get(recipient int) (msg Message, corrupt bool, ok bool) {
	item, present := m.items[recipient]
	if !present {
		return Message{}, false, false
	}
	return item.msg, item.corrupt, true
}

// Recipients returns the ids that have a mailbox entry this tick, in
// ascending order.
func (m *Mailbox) Recipients() []int {
	ids := make([]int, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Reset empties the mailbox; called once at the start of every tick.
func (m *Mailbox) Reset() {
	for k := range m.items {
		delete(m.items, k)
	}
}

// Empty reports whether the mailbox holds no entries.
func (m *Mailbox) Empty() bool {
	return len(m.items) == 0
}
