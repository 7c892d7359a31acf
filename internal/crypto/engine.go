// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the client's cryptography: PBKDF2 key
// derivation, metadata and file data encryption, RSA key pairs and trial
// decryption over a master key ring.
package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/MKhiriev/go-sync-client/internal/utils"
)

const (
	defaultRSABits = 4096
	ivLength       = 12
	ivAlphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Option customises an [Engine] built by [NewEngine].
type Option func(*engine)

// WithRSABits changes the modulus size of generated key pairs.
func WithRSABits(bits int) Option {
	return func(e *engine) {
		e.rsaBits = bits
	}
}

// WithRandom replaces the randomness source.
func WithRandom(r io.Reader) Option {
	return func(e *engine) {
		e.random = r
	}
}

// engine is the private implementation of [Engine].
type engine struct {
	rsaBits int
	random  io.Reader

	// cache holds decrypt results keyed by a fingerprint of the operation,
	// the input and the key material. Entries are never evicted.
	cache sync.Map
}

// NewEngine constructs an [Engine] with 4096-bit RSA key pairs and the OS
// CSPRNG. The engine is safe for concurrent use.
func NewEngine(opts ...Option) Engine {
	e := &engine{
		rsaBits: defaultRSABits,
		random:  rand.Reader,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// cached returns the value stored under the fingerprint of parts, computing
// and storing it on a miss. Stored values must be immutable.
func cached[T any](e *engine, compute func() T, parts ...string) T {
	key := utils.Fingerprint(parts...)
	if v, ok := e.cache.Load(key); ok {
		return v.(T)
	}

	v := compute()
	actual, _ := e.cache.LoadOrStore(key, v)
	return actual.(T)
}

// randomString returns n characters drawn uniformly from ivAlphabet.
func (e *engine) randomString(n int) (string, error) {
	const limit = 256 - 256%len(ivAlphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(e.random, buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, ivAlphabet[int(b)%len(ivAlphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
