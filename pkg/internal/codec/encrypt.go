package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseAESKey accepts a raw, hex or base64 AES key of 16, 24 or 32 bytes.
func ParseAESKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("codec: encryption key is empty")
	}
	valid := func(n int) bool { return n == 16 || n == 24 || n == 32 }
	if b, err := hex.DecodeString(s); err == nil && valid(len(b)) {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil && valid(len(b)) {
		return b, nil
	}
	if valid(len(s)) {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("codec: invalid AES key length %d; need 16/24/32 bytes or hex/base64 of those", len(s))
}

// SealAESGCM returns nonce || ciphertext.
func SealAESGCM(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenAESGCM reverses SealAESGCM.
func OpenAESGCM(sealed, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	ns := gcm.NonceSize()
	if len(sealed) < ns+gcm.Overhead() {
		return nil, errors.New("codec: ciphertext too short")
	}
	return gcm.Open(nil, sealed[:ns], sealed[ns:], nil)
}
