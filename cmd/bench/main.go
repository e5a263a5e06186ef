// Command bench times the core protocol operations and renders the
// latencies as a bar chart.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/anonloc-labs/anonloc/pkg/locservice"
	"github.com/anonloc-labs/anonloc/ps"
	"github.com/anonloc-labs/anonloc/smc"
)

func main() {
	attributes := flag.Int("attributes", 6, "number of attribute slots")
	disclosed := flag.Int("disclosed", 1, "number of attributes to disclose in showings")
	iterations := flag.Int("iterations", 20, "iterations per operation")
	parties := flag.Int("parties", 3, "SMC party count")
	output := flag.String("output", "bench.png", "chart output path (empty for text only)")
	flag.Parse()

	if *attributes < 3 {
		fmt.Fprintln(os.Stderr, "Error: at least 3 attribute slots required")
		os.Exit(1)
	}
	if *disclosed < 0 || *disclosed >= *attributes {
		fmt.Fprintf(os.Stderr, "Error: disclosed must be in [0, %d)\n", *attributes)
		os.Exit(1)
	}

	results, err := run(*attributes, *disclosed, *iterations, *parties)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("%-12s %10.3f ms\n", r.Label, r.Value)
	}

	if *output == "" {
		return
	}
	if err := render(results, *output); err != nil {
		fmt.Fprintln(os.Stderr, "Error rendering chart:", err)
		os.Exit(1)
	}
	fmt.Println("Chart written to", *output)
}

func run(attributes, disclosed, iterations, parties int) ([]chart.Value, error) {
	sk, pk, err := ps.GenerateKey(attributes, nil)
	if err != nil {
		return nil, err
	}

	msgs := make([][]byte, attributes)
	for i := range msgs {
		msgs[i] = []byte(fmt.Sprintf("attribute-%d", i))
	}

	var results []chart.Value

	results = append(results, timeOp("keygen", iterations, func() error {
		_, _, err := ps.GenerateKey(attributes, nil)
		return err
	}))

	var sig *ps.Signature
	results = append(results, timeOp("sign", iterations, func() error {
		sig, err = ps.Sign(sk, msgs)
		return err
	}))

	results = append(results, timeOp("verify", iterations, func() error {
		return ps.Verify(pk, sig, msgs)
	}))

	// Full issuance round trip through the facade.
	subs := make([]string, attributes-2)
	for i := range subs {
		subs[i] = fmt.Sprintf("sub-%d", i)
	}
	skBytes, bundleBytes, err := locservice.GenerateCA(subs, nil)
	if err != nil {
		return nil, err
	}
	n := 0
	results = append(results, timeOp("issuance", iterations, func() error {
		n++
		server := locservice.NewServer(nil)
		client, err := locservice.NewClient(fmt.Sprintf("user-%d", n), nil)
		if err != nil {
			return err
		}
		req, err := client.PrepareRegistration(bundleBytes, subs[:1])
		if err != nil {
			return err
		}
		resp, err := server.ProcessRegistration(skBytes, bundleBytes, req, client.Username(), subs[:1])
		if err != nil {
			return err
		}
		_, err = client.ProcessRegistrationResponse(bundleBytes, resp)
		return err
	}))

	// Showing over a raw credential.
	fullAttrs := make(ps.AttributeMap, attributes)
	for i := 0; i < attributes; i++ {
		fullAttrs[i] = msgs[i]
	}
	cred := &ps.Credential{Sig: *sig, Attrs: fullAttrs}
	discloseIdx := make([]int, disclosed)
	for i := range discloseIdx {
		discloseIdx[i] = i
	}
	var proof *ps.DisclosureProof
	results = append(results, timeOp("show", iterations, func() error {
		proof, err = ps.CreateDisclosureProof(pk, cred, discloseIdx, []byte("bench"), nil)
		return err
	}))
	results = append(results, timeOp("check", iterations, func() error {
		return ps.VerifyDisclosureProof(pk, proof, []byte("bench"))
	}))

	results = append(results, timeOp("smc-mul", iterations, func() error {
		c := smc.NewCircuit()
		ids := make([]smc.PartyID, parties)
		inputs := make(smc.Inputs, parties)
		var root smc.NodeID
		for i := range ids {
			ids[i] = smc.PartyID(fmt.Sprintf("party-%02d", i))
			secret := c.Secret()
			inputs[ids[i]] = map[smc.NodeID]*big.Int{secret: big.NewInt(int64(i + 2))}
			if i == 0 {
				root = secret
			} else {
				root = c.Mul(root, secret)
			}
		}
		_, err := smc.RunLocal(context.Background(), smc.NewContext(smc.DefaultModulus), smc.Spec{
			Parties: ids,
			Circuit: c,
			Root:    root,
		}, inputs, nil)
		return err
	}))

	return results, nil
}

func timeOp(label string, iterations int, op func() error) chart.Value {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := op(); err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", label, err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)
	return chart.Value{
		Label: label,
		Value: float64(elapsed.Microseconds()) / 1000.0 / float64(iterations),
	}
}

func render(values []chart.Value, path string) error {
	graph := chart.BarChart{
		Title:    "Operation latency (ms)",
		Height:   512,
		BarWidth: 60,
		Bars:     values,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}
