// Package openchat implements the core of the OpenChat group messaging
// system: forward-secret groups whose members share an evolving symmetric
// state, advanced one way on every membership change.
//
// The root package provides the Client facade that owns a member identity
// and a registry of groups, layered over two leaf packages: group, the
// epoch-based state machine, and crypto, the primitives backing it.
// Delivery of the artifacts the state machine emits (welcomes, commits,
// encrypted messages) is left entirely to the caller; every operation here
// is synchronous local computation.
//
// Example:
//
//	client, err := openchat.New(openchat.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Kill()
//
//	g, err := client.CreateGroup("Friends")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	welcome, err := client.AddMember(g.ID(), bobIdentity)
//	// ... deliver welcome to bob, who calls JoinGroup(welcome) ...
//
//	msg, err := client.EncryptMessage(g.ID(), "hello group")
//	// ... deliver msg; recipients call DecryptMessage(groupID, msg) ...
//
//	// Persist everything across restarts:
//	savedata := client.GetSavedata()
package openchat
