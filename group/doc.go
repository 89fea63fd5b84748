// Package group implements the forward-secret group state machine for the
// OpenChat messaging core.
//
// A Group tracks identity, membership, an epoch counter and the secrets of
// the current epoch. Every state-changing operation (adding or removing a
// member, a self-triggered key update, or applying a commit received from
// another member) advances the epoch by exactly one and replaces the group
// secret through a one-way derivation, so secrets captured at one epoch are
// useless for any later epoch.
//
// Mutating operations emit a serializable artifact for out-of-band delivery:
// AddMember produces a Welcome for the new member, RemoveMember and
// UpdateKeys produce a Commit for every existing member. Transport of those
// artifacts is the caller's concern; this package is pure computation.
//
// Example:
//
//	g, err := group.Create("Friends", alice)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Wipe()
//
//	welcome, err := g.AddMember(bob)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... deliver the welcome to bob out of band ...
//	bobGroup, err := group.FromWelcome(welcome, bob)
//
//	msg, err := g.EncryptMessage("hello group", alice)
//	sender, plaintext, epoch, err := bobGroup.DecryptMessage(msg)
package group
