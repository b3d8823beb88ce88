// Package console is the interactive text front end: a numbered main menu, an
// account-opening sub-menu, and prompts for the data each operation needs.
// It only talks to the account service and renders results; every error is
// shown to the user and the loop continues.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/amirasaad/banco/pkg/dto"
	"github.com/amirasaad/banco/pkg/service/account"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	optOpen = iota + 1
	optList
	optShow
	optDeposit
	optWithdraw
	optBalance
	optExit
)

const (
	optSavings = iota + 1
	optPersonal
	optBusiness
	optBack
)

const mainMenu = `
    1. Open a new account.
    2. List accounts (IBAN, holder and current balance).
    3. Show an account (by IBAN or holder name).
    4. Deposit into an account.
    5. Withdraw cash from an account.
    6. Check the balance of an account.
    7. Exit.
`

const accountMenu = `
    1. Open a savings account.
    2. Open a personal checking account.
    3. Open a business checking account.
    4. Back.
`

// Console runs the menu loop against an account service.
type Console struct {
	svc    *account.Service
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger

	title   *color.Color
	success *color.Color
	failure *color.Color
	hint    *color.Color
}

// New creates a Console reading from in and writing to out. Colours are
// enabled only when out is a terminal.
func New(svc *account.Service, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Console{
		svc:     svc,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger.With("component", "console"),
		title:   color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		hint:    color.New(color.FgYellow),
	}
	if !isTerminal(out) {
		for _, col := range []*color.Color{c.title, c.success, c.failure, c.hint} {
			col.DisableColor()
		}
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run shows the main menu until the user picks exit, the input ends or ctx
// is cancelled. End of input is a normal way to stop and returns nil.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.title.Fprint(c.out, mainMenu)
		opt, err := c.readOption("\nSelect an option from the main menu: ", optOpen, optExit)
		if err != nil {
			return ignoreEOF(err)
		}

		switch opt {
		case optOpen:
			err = c.accountMenu(ctx)
		case optList:
			c.list()
		case optShow:
			err = c.show()
		case optDeposit:
			err = c.deposit(ctx)
		case optWithdraw:
			err = c.withdraw(ctx)
		case optBalance:
			err = c.balance(ctx)
		case optExit:
			fmt.Fprintln(c.out, "Leaving the application. Goodbye!")
			return nil
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func (c *Console) accountMenu(ctx context.Context) error {
	for {
		c.title.Fprint(c.out, accountMenu)
		opt, err := c.readOption("\nSelect an option from the accounts menu: ", optSavings, optBack)
		if err != nil {
			return err
		}
		var variant string
		switch opt {
		case optSavings:
			variant = "savings"
		case optPersonal:
			variant = "personal_checking"
		case optBusiness:
			variant = "business_checking"
		case optBack:
			fmt.Fprintln(c.out, "Back to the main menu...")
			return nil
		}
		if err := c.open(ctx, variant); err != nil {
			return err
		}
	}
}

func (c *Console) open(ctx context.Context, variant string) error {
	if c.svc.Count() >= c.svc.Capacity() {
		c.failure.Fprintf(c.out, "The bank has reached its limit of %d accounts.\n", c.svc.Capacity())
		return nil
	}
	iban, err := c.readLine("Enter the IBAN: ")
	if err != nil {
		return err
	}
	if c.svc.IsIBANInUse(iban) {
		c.failure.Fprintln(c.out, "An account with that IBAN already exists.")
		return nil
	}
	req := dto.OpenAccountRequest{Variant: variant, IBAN: iban}
	if req.HolderName, err = c.readLine("Enter the holder name: "); err != nil {
		return err
	}
	if req.NationalID, err = c.readLine("Enter the holder national ID (optional): "); err != nil {
		return err
	}
	if req.InitialBalance, err = c.readLine(fmt.Sprintf("Enter the initial balance in %s (blank for 0): ", c.svc.Currency())); err != nil {
		return err
	}

	switch variant {
	case "savings":
		if req.InterestRate, err = c.readLine("Enter the annual interest rate, e.g. 0.02 (blank for default): "); err != nil {
			return err
		}
	case "personal_checking":
		if req.MaintenanceFee, err = c.readLine("Enter the maintenance fee (blank for default): "); err != nil {
			return err
		}
		if req.AuthorizedEntities, err = c.readList("Enter the authorized entities, comma separated (optional): "); err != nil {
			return err
		}
	case "business_checking":
		if req.OverdraftLimit, err = c.readLine("Enter the overdraft limit (blank for default): "); err != nil {
			return err
		}
		if req.AuthorizedEntities, err = c.readList("Enter the authorized entities, comma separated (optional): "); err != nil {
			return err
		}
	}

	acc, err := c.svc.Open(ctx, req)
	if err != nil {
		c.report(err)
		return nil
	}
	c.success.Fprintf(c.out, "Account %s opened for %s with balance %s.\n", acc.IBAN(), acc.Holder.Name, acc.Balance())
	return nil
}

func (c *Console) list() {
	accounts := c.svc.List()
	if len(accounts) == 0 {
		c.hint.Fprintln(c.out, "There are no accounts yet.")
		return
	}
	fmt.Fprintln(c.out, renderList(dto.FromAccounts(accounts)))
}

func (c *Console) show() error {
	query, err := c.readLine("Enter the IBAN or the holder name: ")
	if err != nil {
		return err
	}
	acc, err := c.svc.FindByIBAN(query)
	if err != nil {
		acc, err = c.svc.FindByHolder(query)
	}
	if err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprint(c.out, renderDetail(dto.FromAccount(acc)))
	return nil
}

func (c *Console) deposit(ctx context.Context) error {
	iban, ok, err := c.selectAccount()
	if err != nil || !ok {
		return err
	}
	amount, err := c.readLine("Enter the amount to deposit: ")
	if err != nil {
		return err
	}
	acc, err := c.svc.Deposit(ctx, iban, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.success.Fprintf(c.out, "Deposit completed. New balance: %s\n", acc.Balance())
	return nil
}

func (c *Console) withdraw(ctx context.Context) error {
	iban, ok, err := c.selectAccount()
	if err != nil || !ok {
		return err
	}
	amount, err := c.readLine("Enter the amount to withdraw: ")
	if err != nil {
		return err
	}
	acc, err := c.svc.Withdraw(ctx, iban, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.success.Fprintf(c.out, "Withdrawal completed. New balance: %s\n", acc.Balance())
	return nil
}

func (c *Console) balance(ctx context.Context) error {
	iban, ok, err := c.selectAccount()
	if err != nil || !ok {
		return err
	}
	bal, err := c.svc.Balance(ctx, iban)
	if err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintf(c.out, "Current balance: %s\n", bal)
	return nil
}

// selectAccount asks for an IBAN and reports whether it names an account.
func (c *Console) selectAccount() (string, bool, error) {
	iban, err := c.readLine("Enter the account IBAN: ")
	if err != nil {
		return "", false, err
	}
	if !c.svc.IsIBANInUse(iban) {
		c.failure.Fprintln(c.out, "No account found with that IBAN.")
		return "", false, nil
	}
	return iban, true, nil
}

// readOption prompts until the user enters an integer in [lo, hi].
func (c *Console) readOption(prompt string, lo, hi int) (int, error) {
	for {
		text, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		c.hint.Fprintf(c.out, "Please enter a valid number between %d and %d.\n", lo, hi)
	}
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readList(prompt string) ([]string, error) {
	text, err := c.readLine(prompt)
	if err != nil || text == "" {
		return nil, err
	}
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func (c *Console) report(err error) {
	c.logger.Debug("operation failed", "error", err)
	c.failure.Fprintln(c.out, userMessage(err, c.svc.Capacity()))
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
