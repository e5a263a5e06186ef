/*
Package smc implements semi-honest secure multiparty computation of
arithmetic circuits over Z_p.

Values are N-of-N additively shared: every party holds one share and the
shares sum to the secret modulo the field prime. Addition and scaling by
public constants are local; multiplication of two shared values consumes
one Beaver triplet obtained from a trusted dealer and costs one broadcast
round. Circuits are arenas of Scalar, Secret, Add and Mul nodes forming a
DAG; every party evaluates the same circuit depth-first, exchanging
messages over labeled write-once mailbox slots.

Usage example:

	circuit := smc.NewCircuit()
	a := circuit.Secret() // owned by alice
	b := circuit.Secret() // owned by bob
	root := circuit.Mul(a, b)

	results, _ := smc.RunLocal(ctx, smc.NewContext(smc.DefaultModulus),
		smc.Spec{
			Parties: []smc.PartyID{"alice", "bob"},
			Circuit: circuit,
			Root:    root,
		},
		smc.Inputs{
			"alice": {a: big.NewInt(4)},
			"bob":   {b: big.NewInt(6)},
		}, nil)
	// every party reconstructs 24

The dealer is trusted and offline with respect to the computation; the
parties are assumed semi-honest. If any party aborts, the others block on
their mailbox reads until the run context is cancelled.
*/
package smc
