// Package testing provides test infrastructure for Anchor programs running
// on an in-process Solana VM.
//
// The VM itself is a collaborator behind the VM interface; this package
// supplies everything around it.
//
// # Overview
//
// The testing package provides:
//   - Context: Builds, signs and executes transactions for one program
//   - ContextBuilder: Deploys programs and returns a Context
//   - Account: Deterministic test accounts with keypairs
//   - TxResult: An immutable view of an executed transaction
//   - Assertions: Test assertion helpers for common checks
//
// # Basic Usage
//
//	func TestMake(t *testing.T) {
//	    ctx, err := testing.NewContextBuilder(vm).
//	        DeployProgramFile(escrowID, "target/deploy/escrow.so").
//	        WithOptions(testing.WithIDL(doc)).
//	        Build(t)
//	    require.NoError(t, err)
//
//	    maker := testing.NewAccount("maker")
//	    ix, err := ctx.Program().
//	        Accounts(instruction.Roles{"maker": maker.PublicKey(), "escrow": escrow}).
//	        Args(Make{Seed: 1, Receive: 10}).
//	        Instruction()
//	    require.NoError(t, err)
//
//	    result := ctx.ExecuteInstruction(ix, maker)
//	    testing.RequireTxSuccess(t, result)
//
//	    ev := testing.RequireEventEmitted[TransferEvent](t, result, ctx.ProgramID())
//	    state := testing.RequireAccount[Escrow](t, ctx, escrow)
//	}
//
// # Accounts
//
// NewAccount derives the keypair from sha256 of the name, so the same name
// always yields the same address across runs.
//
// # Assertions
//
// The Require* helpers fail the test immediately through testify's require
// package. Failure messages include the transaction logs.
package testing
