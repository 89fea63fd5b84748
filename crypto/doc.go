// Package crypto implements the cryptographic primitives for the OpenChat
// group messaging core.
//
// This package provides key pair generation, the epoch key schedule,
// authenticated message encryption, and one-shot sealing of welcome secrets
// to a recipient's public key using the NaCl and Noise primitives from Go's
// x/crypto and flynn/noise packages.
//
// The key schedule is a linear one-way chain: every group state transition
// replaces the group secret with a hash of the previous secret, so a party
// holding epoch n secrets cannot recover epoch n-1 secrets, and a removed
// party cannot derive any epoch after its removal.
//
// Example:
//
//	keys, err := crypto.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Public key:", hex.EncodeToString(keys.Public[:]))
//
//	next := crypto.DeriveNextSecret(current)
//	appSecret := crypto.DeriveApplicationSecret(next, epoch)
package crypto
