package jwtx

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

type verificationKey struct {
	alg string
	key any
}

// KeySet holds verification keys in memory, indexed by kid. It's
// thread-safe so it can be shared by any number of verifiers.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]verificationKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{
		keys: make(map[string]verificationKey),
	}
}

// AddSigner registers a local signer's verification key under its kid.
// Remote signers hold no key material and are rejected.
func (k *KeySet) AddSigner(s Signer) error {
	holder, ok := s.(KeyHolder)
	if !ok {
		return fmt.Errorf("%w: signer %q (%s) exposes no verification key", ErrNoKey, s.KID(), s.Alg())
	}
	return k.Add(s.KID(), s.Alg(), holder.VerificationKey())
}

// Add registers a verification key for kid and alg.
func (k *KeySet) Add(kid, alg string, key any) error {
	if key == nil {
		return fmt.Errorf("%w: nil key for kid %q", ErrInvalidKey, kid)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[kid] = verificationKey{alg: alg, key: key}
	return nil
}

// Get returns the key and algorithm registered for kid.
func (k *KeySet) Get(kid string) (any, string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if vk, ok := k.keys[kid]; ok {
		return vk.key, vk.alg, nil
	}
	return nil, "", ErrNoKey
}

// Len returns the number of registered keys.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}
