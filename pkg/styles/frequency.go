package styles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FrequencyMap counts style tokens and remembers the order in which each
// token was first seen. Consumption order is count descending with ties
// resolved by that encounter order.
type FrequencyMap struct {
	order  []string
	counts map[string]int
}

// TokenCount is one entry of a FrequencyMap.
type TokenCount struct {
	Token string
	Count int
}

// NewFrequencyMap creates an empty FrequencyMap.
func NewFrequencyMap() *FrequencyMap {
	return &FrequencyMap{counts: make(map[string]int)}
}

// Add increments token by one.
func (m *FrequencyMap) Add(token string) {
	m.AddN(token, 1)
}

// AddN increments token by n. Non-positive n is ignored.
func (m *FrequencyMap) AddN(token string, n int) {
	if n <= 0 {
		return
	}
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	if _, ok := m.counts[token]; !ok {
		m.order = append(m.order, token)
	}
	m.counts[token] += n
}

// Count returns the number of occurrences of token (0 if unseen).
func (m *FrequencyMap) Count(token string) int {
	if m == nil {
		return 0
	}
	return m.counts[token]
}

// Len returns the number of distinct tokens.
func (m *FrequencyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Entries returns all tokens in encounter order.
func (m *FrequencyMap) Entries() []TokenCount {
	if m == nil {
		return nil
	}
	out := make([]TokenCount, 0, len(m.order))
	for _, tok := range m.order {
		out = append(out, TokenCount{Token: tok, Count: m.counts[tok]})
	}
	return out
}

// Sorted returns all tokens ordered by count descending. Equal counts keep
// encounter order.
func (m *FrequencyMap) Sorted() []TokenCount {
	out := m.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Top returns at most n tokens from Sorted. n <= 0 means no limit.
func (m *FrequencyMap) Top(n int) []TokenCount {
	sorted := m.Sorted()
	if n > 0 && len(sorted) > n {
		return sorted[:n]
	}
	return sorted
}

// Map returns a plain map copy of the counts.
func (m *FrequencyMap) Map() map[string]int {
	out := make(map[string]int, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// merge adds every count of other into m, in other's encounter order.
func (m *FrequencyMap) merge(other *FrequencyMap) {
	for _, e := range other.Entries() {
		m.AddN(e.Token, e.Count)
	}
}

// MarshalJSON writes the map as a JSON object in encounter order.
func (m *FrequencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Token)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of token → count, keeping key order.
// Negative counts are rejected.
func (m *FrequencyMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = FrequencyMap{counts: make(map[string]int)}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("frequency map: expected object, got %v", tok)
	}

	fresh := FrequencyMap{counts: make(map[string]int)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("frequency map: expected string key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("frequency map: count for %q: %w", key, err)
		}
		if count < 0 {
			return fmt.Errorf("frequency map: negative count for %q", key)
		}
		if _, seen := fresh.counts[key]; !seen {
			fresh.order = append(fresh.order, key)
		}
		fresh.counts[key] = count
	}
	*m = fresh
	return nil
}
