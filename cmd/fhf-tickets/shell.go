package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/desk"
)

const shellHelp = `Commands:
  connect substrate [wallet]   Connect a keystore wallet
  connect evm                  Connect the EVM wallet provider
  accounts                     List connected accounts (* = selected)
  select <n|address>           Select the acting account
  sign <message>               Sign a message with the selected account
  issue <to> <count>           Issue tickets to an address
  redeem <token id>            Redeem (use) a ticket
  tokens [address]             List tickets (default: selected account)
  token <id>                   Show ticket data
  quit                         Leave the shell
`

// shell is an interactive session over one desk. It plays the role of the
// demo page: one account picker, one action at a time.
type shell struct {
	d        *desk.Desk
	out      io.Writer
	selected string
}

func runShell(ctx context.Context, d *desk.Desk, in io.Reader, out io.Writer) error {
	sh := &shell{d: d, out: out}
	fmt.Fprintf(out, "Ticket desk session %s. Type \"help\" for commands.\n", d.Session().ID())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := sh.exec(ctx, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (sh *shell) exec(ctx context.Context, cmd string, args []string) error {
	s := sh.d.Session()
	switch cmd {
	case "help":
		fmt.Fprint(sh.out, shellHelp)
	case "connect":
		return sh.connect(ctx, args)
	case "accounts":
		for i, a := range s.Accounts() {
			mark := " "
			if a.Address == sh.selected {
				mark = "*"
			}
			fmt.Fprintf(sh.out, "%s %d. %s (%s)\n", mark, i+1, a.Label(), a.Kind)
		}
	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <n|address>")
		}
		return sh.selectAccount(args[0])
	case "sign":
		if len(args) == 0 {
			return fmt.Errorf("usage: sign <message>")
		}
		sig, err := s.Sign(ctx, sh.selected, []byte(strings.Join(args, " ")))
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, sig)
	case "issue":
		if len(args) != 2 {
			return fmt.Errorf("usage: issue <to> <count>")
		}
		count, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid count %q", args[1])
		}
		r, err := s.IssueTickets(ctx, sh.selected, args[0], uint32(count))
		if err != nil {
			return err
		}
		sh.printReceipt(r)
	case "redeem":
		if len(args) != 1 {
			return fmt.Errorf("usage: redeem <token id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id %q", args[0])
		}
		r, err := s.RedeemTicket(ctx, sh.selected, id)
		if err != nil {
			return err
		}
		sh.printReceipt(r)
	case "tokens":
		addr := sh.selected
		if len(args) > 0 {
			addr = args[0]
		}
		if addr == "" {
			return fmt.Errorf("no account selected")
		}
		refs, err := sh.d.Tokens(ctx, addr)
		if err != nil {
			return err
		}
		for _, line := range desk.TokenLines(refs) {
			fmt.Fprintln(sh.out, line)
		}
	case "token":
		if len(args) != 1 {
			return fmt.Errorf("usage: token <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token id %q", args[0])
		}
		tok, err := sh.d.Token(ctx, id)
		if err != nil {
			return err
		}
		for _, line := range desk.ViewToken(tok).Lines() {
			fmt.Fprintln(sh.out, line)
		}
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (sh *shell) connect(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: connect <substrate [wallet]|evm>")
	}
	kind, err := account.ParseKind(args[0])
	if err != nil {
		return err
	}
	source := ""
	if kind == account.SubstrateExtension {
		source = sh.d.Config().Keystore.DefaultWallet
		if len(args) > 1 {
			source = args[1]
		}
		if source == "" {
			return fmt.Errorf("usage: connect substrate <wallet>")
		}
	}

	added, err := sh.d.Session().Connect(ctx, kind, source)
	if err != nil {
		return err
	}
	for _, a := range added {
		fmt.Fprintf(sh.out, "Connected %s\n", a.Label())
	}
	if sh.selected == "" {
		sh.selected = added[0].Address
	}
	return nil
}

func (sh *shell) selectAccount(arg string) error {
	accts := sh.d.Session().Accounts()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(accts) {
			return fmt.Errorf("no account %d", n)
		}
		sh.selected = accts[n-1].Address
		return nil
	}
	acct, err := sh.d.Session().Lookup(arg)
	if err != nil {
		return err
	}
	sh.selected = acct.Address
	return nil
}

func (sh *shell) printReceipt(r *account.Receipt) {
	fmt.Fprintf(sh.out, "Confirmed via %s: %s\n", r.Kind, r.TxHash)
	for _, id := range r.TokenIDs {
		fmt.Fprintf(sh.out, "  token %d\n", id)
	}
}
