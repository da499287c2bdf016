package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Package canonical produces a stable serialization of JSON-compatible values
// so that structurally equal documents hash identically regardless of the key
// order they arrived in.

// Canonicalize serializes v into a deterministic JSON string. Object keys are
// sorted lexicographically ascending, array element order is preserved, and no
// whitespace is emitted. Primitives use their standard JSON literal encoding.
func Canonicalize(v any) (string, error) {
	var b strings.Builder
	if err := write(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ContentHash computes the deduplication digest for a submission: the SHA-256
// of the canonical form of {title, payload}, hex-encoded lowercase.
func ContentHash(title string, payload any) (string, error) {
	canon, err := Canonicalize(map[string]any{
		"title":   title,
		"payload": payload,
	})
	if err != nil {
		return "", fmt.Errorf("canonicalize submission: %w", err)
	}
	sum := sha256.Sum256([]byte(canon))
	return hex.EncodeToString(sum[:]), nil
}

func write(b *strings.Builder, v any) error {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("marshal object key %q: %w", k, err)
			}
			b.Write(kb)
			b.WriteByte(':')
			if err := write(b, t[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := write(b, el); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal value: %w", err)
		}
		b.Write(raw)
	}
	return nil
}
