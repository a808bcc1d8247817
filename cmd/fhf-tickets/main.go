// fhf-tickets is a command-line ticket desk: it connects keystore and EVM
// wallet accounts, shows the tickets they hold, signs messages and issues or
// redeems tickets on the Opal network.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/Klingon-tech/fhf-tickets/config"
	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/desk"
)

const version = "0.1.0"

func main() {
	cfg, flags, err := config.Load("fhf-tickets", os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		usage()
		return
	}
	if err != nil {
		fatal("%v", err)
	}
	if flags.Version {
		fmt.Println("fhf-tickets version " + version)
		return
	}
	if flags.Help || len(flags.Args) == 0 {
		usage()
		if len(flags.Args) == 0 && !flags.Help {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := desk.New(cfg, desk.Options{Password: promptPassword})
	if err != nil {
		fatal("%v", err)
	}
	defer d.Close()

	cmd := flags.Args[0]
	cmdArgs := flags.Args[1:]

	switch cmd {
	case "wallet":
		err = cmdWallet(d, cmdArgs)
	case "tokens":
		err = cmdTokens(ctx, d, cmdArgs)
	case "token":
		err = cmdToken(ctx, d, cmdArgs)
	case "sign":
		err = cmdSign(ctx, d, cmdArgs)
	case "issue":
		err = cmdIssue(ctx, d, cmdArgs)
	case "redeem":
		err = cmdRedeem(ctx, d, cmdArgs)
	case "shell":
		err = runShell(ctx, d, os.Stdin, os.Stdout)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		d.Close()
		os.Exit(1)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		d.Close()
		fatal("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: fhf-tickets [global flags] <command> [flags]

Global flags:
  --datadir <path>      Data directory (default: ~/.fhf-tickets)
  --config, -c <file>   Config file (default: <datadir>/fhf-tickets.conf)
  --sdk <url>           REST SDK base URL (default: Opal)
  --provider <url>      EVM wallet provider (default: http://127.0.0.1:1248)
  --issue-mode <mode>   Substrate issue mode: mint (default) or contract
  --wallet <name>       Default keystore wallet for the shell
  --timeout <dur>       Maximum duration of one wallet action (default: none)
  --log-level <lvl>     debug, info, warn, error (default: info)
  --log-file <path>     Log file (default: <datadir>/logs/fhf-tickets.log)
  --log-json            Output logs as JSON
  --version             Show version

Commands:
  wallet create --name <n>          Create a keystore wallet
  wallet import --name <n> --mnemonic "..."
                                    Import a wallet from its mnemonic
  wallet list                       List keystore wallets
  wallet accounts --wallet <w>      List a wallet's accounts
  wallet new-account --wallet <w> [--label <l>]
                                    Derive the next account

  tokens <address>                  List tickets held by address
  token <id>                        Show ticket data

  sign (--wallet <w> | --evm) [--from <addr>] --message <text>
                                    Sign a message
  issue (--wallet <w> | --evm) [--from <addr>] --to <addr> --count <n>
                                    Issue tickets to an address
  redeem (--wallet <w> | --evm) [--from <addr>] --token <id>
                                    Redeem (use) a ticket

  shell                             Interactive session
`)
}

// ── Account selection ───────────────────────────────────────────────────

type accountFlags struct {
	wallet string
	evm    bool
	from   string
}

func (a *accountFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&a.wallet, "wallet", "", "Keystore wallet to connect")
	fs.BoolVar(&a.evm, "evm", false, "Connect the EVM wallet provider")
	fs.StringVar(&a.from, "from", "", "Account address (default: first connected)")
}

// connect connects the selected wallet and resolves the acting address.
func (a *accountFlags) connect(ctx context.Context, s *account.Session) (string, error) {
	var (
		accts []account.Account
		err   error
	)
	switch {
	case a.evm && a.wallet != "":
		return "", fmt.Errorf("use either --wallet or --evm, not both")
	case a.evm:
		accts, err = s.Connect(ctx, account.InjectedEVMProvider, "")
	case a.wallet != "":
		accts, err = s.Connect(ctx, account.SubstrateExtension, a.wallet)
	default:
		return "", fmt.Errorf("--wallet <name> or --evm is required")
	}
	if err != nil {
		return "", err
	}
	if a.from != "" {
		return a.from, nil
	}
	return accts[0].Address, nil
}

// ── tokens / token ──────────────────────────────────────────────────────

func cmdTokens(ctx context.Context, d *desk.Desk, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fhf-tickets tokens <address>")
	}
	refs, err := d.Tokens(ctx, args[0])
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		fmt.Println("No tickets found.")
		return nil
	}
	for _, line := range desk.TokenLines(refs) {
		fmt.Println(line)
	}
	return nil
}

func cmdToken(ctx context.Context, d *desk.Desk, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fhf-tickets token <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid token id %q", args[0])
	}
	tok, err := d.Token(ctx, id)
	if err != nil {
		return err
	}
	for _, line := range desk.ViewToken(tok).Lines() {
		fmt.Println(line)
	}
	return nil
}

// ── sign / issue / redeem ───────────────────────────────────────────────

func cmdSign(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	var sel accountFlags
	sel.register(fs)
	message := fs.String("message", "", "Message to sign")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, err := sel.connect(ctx, d.Session())
	if err != nil {
		return err
	}
	sig, err := d.Session().Sign(ctx, from, []byte(*message))
	if err != nil {
		return err
	}
	fmt.Println(sig)
	return nil
}

func cmdIssue(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	var sel accountFlags
	sel.register(fs)
	to := fs.String("to", "", "Recipient address (ethereum or substrate)")
	countArg := fs.String("count", "", "Number of tickets")
	if err := fs.Parse(args); err != nil {
		return err
	}
	count, err := parseCount(*countArg)
	if err != nil {
		return err
	}

	from, err := sel.connect(ctx, d.Session())
	if err != nil {
		return err
	}
	receipt, err := d.Session().IssueTickets(ctx, from, *to, count)
	if err != nil {
		return err
	}
	printReceipt(receipt)
	return nil
}

func cmdRedeem(ctx context.Context, d *desk.Desk, args []string) error {
	fs := flag.NewFlagSet("redeem", flag.ContinueOnError)
	var sel accountFlags
	sel.register(fs)
	tokenID := fs.Uint64("token", 0, "Ticket token id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, err := sel.connect(ctx, d.Session())
	if err != nil {
		return err
	}
	receipt, err := d.Session().RedeemTicket(ctx, from, *tokenID)
	if err != nil {
		return err
	}
	printReceipt(receipt)
	return nil
}

// parseCount parses a ticket count. An empty count is left to the session,
// which reports it as missing.
func parseCount(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: must be between 1 and %d", s, uint32(math.MaxUint32))
	}
	return uint32(n), nil
}

func printReceipt(r *account.Receipt) {
	fmt.Printf("Confirmed via %s\n", r.Kind)
	fmt.Printf("  Tx:    %s\n", r.TxHash)
	if r.BlockHash != "" {
		fmt.Printf("  Block: %s\n", r.BlockHash)
	}
	if r.BlockNumber != 0 {
		fmt.Printf("  Height: %d\n", r.BlockNumber)
	}
	for _, id := range r.TokenIDs {
		fmt.Printf("  Token: %d\n", id)
	}
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func promptPassword(_ context.Context, walletName string) ([]byte, error) {
	return readPassword(fmt.Sprintf("Password for wallet %q: ", walletName))
}

func readNewPassword() ([]byte, error) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if string(password) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
