package main

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonloc-labs/anonloc/smc"
)

var (
	smcInputs  []string
	smcExpr    string
	smcTimeout time.Duration

	smcCmd = &cobra.Command{
		Use:   "smc",
		Short: "Run a local multi-party computation",
		Long: `Evaluate an arithmetic expression over secret inputs with one party
per input, all running in-process over an in-memory bus.

The expression uses +, -, * with parentheses; party names stand for
their secret input and bare integers are public scalars:

  anonloc smc -i alice=3 -i bob=14 -i charlie=2 -e "(alice+bob)+charlie"`,
		RunE: runSMC,
	}
)

func init() {
	smcCmd.Flags().StringSliceVarP(&smcInputs, "input", "i", nil, "party=value secret input (repeatable)")
	smcCmd.Flags().StringVarP(&smcExpr, "expr", "e", "", "arithmetic expression")
	smcCmd.Flags().DurationVar(&smcTimeout, "timeout", 30*time.Second, "abort the run after this long")
}

func runSMC(cmd *cobra.Command, args []string) error {
	if len(smcInputs) < 2 {
		return fmt.Errorf("at least two --input parties are required")
	}
	if smcExpr == "" {
		return fmt.Errorf("--expr is required")
	}

	values := make(map[string]*big.Int, len(smcInputs))
	parties := make([]smc.PartyID, 0, len(smcInputs))
	for _, in := range smcInputs {
		name, val, ok := strings.Cut(in, "=")
		if !ok {
			return fmt.Errorf("input %q is not party=value", in)
		}
		v, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return fmt.Errorf("input %q has a non-integer value", in)
		}
		values[name] = v
		parties = append(parties, smc.PartyID(name))
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i] < parties[j] })

	circuit := smc.NewCircuit()
	secrets := make(map[string]smc.NodeID, len(values))
	for _, p := range parties {
		secrets[string(p)] = circuit.Secret()
	}
	root, err := parseExpr(circuit, secrets, smcExpr)
	if err != nil {
		return err
	}

	inputs := make(smc.Inputs, len(parties))
	for _, p := range parties {
		inputs[p] = map[smc.NodeID]*big.Int{secrets[string(p)]: values[string(p)]}
	}

	ctx, cancel := context.WithTimeout(context.Background(), smcTimeout)
	defer cancel()

	results, err := smc.RunLocal(ctx, smc.NewContext(smc.DefaultModulus), smc.Spec{
		Parties: parties,
		Circuit: circuit,
		Root:    root,
	}, inputs, nil)
	if err != nil {
		return err
	}

	for _, p := range parties {
		fmt.Printf("%s reconstructs %s\n", p, results[p])
	}
	return nil
}

// parseExpr builds circuit nodes from a +,-,* expression by recursive
// descent with the usual precedence.
func parseExpr(c *smc.Circuit, secrets map[string]smc.NodeID, src string) (smc.NodeID, error) {
	p := &exprParser{c: c, secrets: secrets, src: src}
	id, err := p.sum()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	return id, nil
}

type exprParser struct {
	c       *smc.Circuit
	secrets map[string]smc.NodeID
	src     string
	pos     int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) sum() (smc.NodeID, error) {
	left, err := p.product()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || (p.src[p.pos] != '+' && p.src[p.pos] != '-') {
			return left, nil
		}
		op := p.src[p.pos]
		p.pos++
		right, err := p.product()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left = p.c.Add(left, right)
		} else {
			left = p.c.Sub(left, right)
		}
	}
}

func (p *exprParser) product() (smc.NodeID, error) {
	left, err := p.atom()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '*' {
			return left, nil
		}
		p.pos++
		right, err := p.atom()
		if err != nil {
			return 0, err
		}
		left = p.c.Mul(left, right)
	}
}

func (p *exprParser) atom() (smc.NodeID, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, fmt.Errorf("unexpected end of expression")
	}
	if p.src[p.pos] == '(' {
		p.pos++
		id, err := p.sum()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return id, nil
	}

	start := p.pos
	for p.pos < len(p.src) && (isAlnum(p.src[p.pos]) || p.src[p.pos] == '_') {
		p.pos++
	}
	token := p.src[start:p.pos]
	if token == "" {
		return 0, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	if id, ok := p.secrets[token]; ok {
		return id, nil
	}
	if v, err := strconv.ParseInt(token, 10, 64); err == nil {
		return p.c.Scalar(big.NewInt(v)), nil
	}
	return 0, fmt.Errorf("unknown party %q", token)
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
