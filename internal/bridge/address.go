package bridge

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const (
	LedgerSeed = "bridge_state"
	EscrowSeed = "escrow"

	// DefaultProgramID is the address the bridge program is deployed at
	DefaultProgramID = "9q5thPnZG7FKKNr61wceXdfuy2QRLYky8RTJonh2YzyB"
)

// Addresses are the deterministic accounts of one deployment. They are
// derived from the program id alone, never supplied by callers.
type Addresses struct {
	ProgramID  solana.PublicKey `json:"program_id"`
	Ledger     solana.PublicKey `json:"ledger"`
	LedgerBump uint8            `json:"ledger_bump"`
	Escrow     solana.PublicKey `json:"escrow"`
	EscrowBump uint8            `json:"escrow_bump"`
}

func DeriveAddresses(programID solana.PublicKey) (*Addresses, error) {
	ledger, ledgerBump, err := solana.FindProgramAddress([][]byte{[]byte(LedgerSeed)}, programID)
	if err != nil {
		return nil, fmt.Errorf("derive ledger address: %w", err)
	}

	escrow, escrowBump, err := solana.FindProgramAddress([][]byte{[]byte(EscrowSeed)}, programID)
	if err != nil {
		return nil, fmt.Errorf("derive escrow address: %w", err)
	}

	return &Addresses{
		ProgramID:  programID,
		Ledger:     ledger,
		LedgerBump: ledgerBump,
		Escrow:     escrow,
		EscrowBump: escrowBump,
	}, nil
}
