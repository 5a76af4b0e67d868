package idl

import "github.com/gagliardetto/solana-go"

// Pubkey is the engine's address type, an alias of solana-go's own
// 32-byte public key so callers never have to convert between the two
// (spec.md §6's "32-byte keys" collaborator type).
type Pubkey = solana.PublicKey

// ParsePubkey decodes a base58-encoded address.
func ParsePubkey(s string) (Pubkey, error) {
	return solana.PublicKeyFromBase58(s)
}

// FindProgramAddress derives a PDA, delegating to the collaborator
// operation spec.md §4.7/§6 names explicitly.
func FindProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, uint8, error) {
	return solana.FindProgramAddress(seeds, programID)
}
