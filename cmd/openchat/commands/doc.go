// Package commands wires the openchat CLI: every subcommand loads the
// client savedata from the home directory, performs one library operation,
// persists the updated savedata and writes any produced artifact (welcome,
// commit, message) to a file for out-of-band delivery. Two home directories
// on one machine are enough to play a full multi-party session.
package commands
