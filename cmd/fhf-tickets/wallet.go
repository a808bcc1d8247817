package main

import (
	"flag"
	"fmt"

	"github.com/Klingon-tech/fhf-tickets/internal/desk"
	"github.com/Klingon-tech/fhf-tickets/internal/wallet"
)

const walletUsage = "usage: fhf-tickets wallet <create|import|list|accounts|new-account> [flags]"

func cmdWallet(d *desk.Desk, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(walletUsage)
	}

	ks := d.Keystore()
	switch args[0] {
	case "create":
		return cmdWalletCreate(ks, args[1:])
	case "import":
		return cmdWalletImport(ks, args[1:])
	case "list":
		return cmdWalletList(ks)
	case "accounts":
		return cmdWalletAccounts(ks, args[1:])
	case "new-account":
		return cmdWalletNewAccount(ks, args[1:])
	default:
		return fmt.Errorf("unknown wallet command: %s\n%s", args[0], walletUsage)
	}
}

func cmdWalletCreate(ks *wallet.Keystore, args []string) error {
	fs := flag.NewFlagSet("wallet create", flag.ContinueOnError)
	name := fs.String("name", "", "Wallet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("usage: fhf-tickets wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return fmt.Errorf("generate mnemonic: %w", err)
	}
	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	entry, err := ks.Create(*name, mnemonic, password)
	if err != nil {
		return err
	}

	fmt.Printf("\nWallet created: %s\n", *name)
	fmt.Printf("Address: %s\n", entry.Address)
	return nil
}

func cmdWalletImport(ks *wallet.Keystore, args []string) error {
	fs := flag.NewFlagSet("wallet import", flag.ContinueOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *mnemonic == "" {
		return fmt.Errorf("usage: fhf-tickets wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		return fmt.Errorf("invalid mnemonic")
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	entry, err := ks.Create(*name, *mnemonic, password)
	if err != nil {
		return err
	}

	fmt.Printf("Wallet imported: %s\n", *name)
	fmt.Printf("Address: %s\n", entry.Address)
	return nil
}

func cmdWalletList(ks *wallet.Keystore) error {
	names, err := ks.List()
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func cmdWalletAccounts(ks *wallet.Keystore, args []string) error {
	fs := flag.NewFlagSet("wallet accounts", flag.ContinueOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: fhf-tickets wallet accounts --wallet <name>")
	}
	accounts, err := ks.Accounts(*walletName)
	if err != nil {
		return err
	}
	for _, acct := range accounts {
		fmt.Printf("  [%d] %-10s %s\n", acct.Index, acct.Name, acct.Address)
	}
	return nil
}

func cmdWalletNewAccount(ks *wallet.Keystore, args []string) error {
	fs := flag.NewFlagSet("wallet new-account", flag.ContinueOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	label := fs.String("label", "", "Account label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *walletName == "" {
		return fmt.Errorf("usage: fhf-tickets wallet new-account --wallet <name> [--label <label>]")
	}
	password, err := readPassword("Enter password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	entry, err := ks.NewAccount(*walletName, *label, password)
	if err != nil {
		return err
	}
	fmt.Printf("New account [%d] %s: %s\n", entry.Index, entry.Name, entry.Address)
	return nil
}
