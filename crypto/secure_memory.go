package crypto

import (
	"errors"
	"runtime"
)

// SecureWipe overwrites the contents of a byte slice holding sensitive data
// with zeros. It returns an error if the slice is nil.
//
//export OpenChatSecureWipe
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	for i := range data {
		data[i] = 0
	}

	// Keep the slice reachable so the zeroing writes are not elided.
	runtime.KeepAlive(data)

	return nil
}

// ZeroBytes erases the contents of a byte slice containing sensitive data.
// This is a convenience function that ignores the error from SecureWipe.
//
//export OpenChatZeroBytes
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}

// WipeKeyPair securely erases the private key in a KeyPair.
// This should be called when a KeyPair is no longer needed.
//
//export OpenChatWipeKeyPair
func WipeKeyPair(kp *KeyPair) error {
	if kp == nil {
		return errors.New("cannot wipe nil KeyPair")
	}
	return SecureWipe(kp.Private[:])
}
