// Package catalog folds extracted call sites into an ordered message table.
package catalog

import (
	"fmt"

	"github.com/minios-linux/themekit/extract"
	"github.com/minios-linux/themekit/pofile"
)

// KeyPolicy selects the table key used to deduplicate messages.
type KeyPolicy string

const (
	// KeyMsgID keys by msgid alone: two call sites with the same msgid
	// collapse into one message whatever their context or plural form,
	// and the later one wins.
	KeyMsgID KeyPolicy = "msgid"
	// KeyMsgIDContext keys by (msgctxt, msgid), the uniqueness key of the
	// PO format itself.
	KeyMsgIDContext KeyPolicy = "msgid+msgctxt"
)

// ParseKeyPolicy validates a policy name. Empty selects KeyMsgID.
func ParseKeyPolicy(s string) (KeyPolicy, error) {
	switch KeyPolicy(s) {
	case "", KeyMsgID:
		return KeyMsgID, nil
	case KeyMsgIDContext:
		return KeyMsgIDContext, nil
	default:
		return "", fmt.Errorf("unknown key policy %q (valid: %s, %s)", s, KeyMsgID, KeyMsgIDContext)
	}
}

// Message is one translatable message.
type Message struct {
	MsgID       string
	MsgIDPlural string
	MsgCtxt     string
	// MsgStr is the translation slots; a single empty string until the
	// table is sized for a locale.
	MsgStr []string
	// References holds the location of the call site that produced the
	// message.
	References []string
}

// IsPlural reports whether the message has a plural form.
func (m *Message) IsPlural() bool {
	return m.MsgIDPlural != ""
}

func (m *Message) clone() *Message {
	c := *m
	c.MsgStr = append([]string(nil), m.MsgStr...)
	c.References = append([]string(nil), m.References...)
	return &c
}

// Table is an insertion-ordered mapping from key to message. Setting an
// existing key replaces the message but keeps its original position.
type Table struct {
	policy KeyPolicy
	keys   []string
	items  map[string]*Message
}

// NewTable creates an empty table using the given key policy.
func NewTable(policy KeyPolicy) *Table {
	if policy == "" {
		policy = KeyMsgID
	}
	return &Table{policy: policy, items: make(map[string]*Message)}
}

// Policy returns the table's key policy.
func (t *Table) Policy() KeyPolicy {
	return t.policy
}

// Key returns the table key for a message under the table's policy.
func (t *Table) Key(m *Message) string {
	if t.policy == KeyMsgIDContext {
		return pofile.Key(m.MsgCtxt, m.MsgID)
	}
	return m.MsgID
}

// Set inserts or replaces a message.
func (t *Table) Set(m *Message) {
	k := t.Key(m)
	if _, ok := t.items[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.items[k] = m
}

// Get returns the message stored under a key.
func (t *Table) Get(key string) (*Message, bool) {
	m, ok := t.items[key]
	return m, ok
}

// Len returns the number of messages.
func (t *Table) Len() int {
	return len(t.keys)
}

// Messages returns the messages in table order.
func (t *Table) Messages() []*Message {
	out := make([]*Message, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.items[k])
	}
	return out
}

// ForLocale returns a copy of the table where every message has exactly
// nplurals empty translation slots if it is plural, and one otherwise.
// Out-of-range counts fall back to pofile.DefaultNPlurals.
// The receiver is not modified.
func (t *Table) ForLocale(nplurals int) *Table {
	if nplurals < 1 || nplurals > pofile.MaxNPlurals {
		nplurals = pofile.DefaultNPlurals
	}
	out := &Table{
		policy: t.policy,
		keys:   append([]string(nil), t.keys...),
		items:  make(map[string]*Message, len(t.items)),
	}
	for k, m := range t.items {
		c := m.clone()
		n := 1
		if c.IsPlural() {
			n = nplurals
		}
		c.MsgStr = make([]string, n)
		out.items[k] = c
	}
	return out
}

// Build folds matches into a table in scan order. Each match produces a
// fresh message carrying only the plural and context fields present on
// that match; nothing is reconciled with an earlier message under the
// same key.
func Build(matches []extract.Match, policy KeyPolicy) *Table {
	t := NewTable(policy)
	for _, m := range matches {
		msg := &Message{
			MsgID:       m.MsgID,
			MsgIDPlural: m.MsgIDPlural,
			MsgCtxt:     m.MsgCtxt,
			MsgStr:      []string{""},
		}
		if ref := m.Reference(); ref != "" {
			msg.References = []string{ref}
		}
		t.Set(msg)
	}
	return t
}
