package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/source"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagTxCategory  string
	flagTxMerchant  string
	flagTxNotes     string
	flagTxDate      string
	flagTxIncome    bool
	flagTxRecurring bool
	flagTxAccount   string
)

var addCmd = &cobra.Command{
	Use:   "add [AMOUNT]",
	Short: "Record a transaction in the ledger (interactive without AMOUNT)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagTxCategory, "category", "c", "", "Spending category")
	addCmd.Flags().StringVarP(&flagTxMerchant, "merchant", "m", "", "Merchant or payee")
	addCmd.Flags().StringVar(&flagTxNotes, "notes", "", "Free-form note")
	addCmd.Flags().StringVar(&flagTxDate, "date", "", "Transaction date, YYYY-MM-DD (default today)")
	addCmd.Flags().BoolVar(&flagTxIncome, "income", false, "Record income instead of an expense")
	addCmd.Flags().BoolVar(&flagTxRecurring, "recurring", false, "Mark as a recurring transaction")
	addCmd.Flags().StringVarP(&flagTxAccount, "account", "a", "personal", "Ledger account (subdirectory)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	now := time.Now()
	tx := model.Transaction{
		ID:        uuid.NewString(),
		Date:      now,
		Kind:      model.KindExpense,
		Category:  flagTxCategory,
		Merchant:  flagTxMerchant,
		Notes:     flagTxNotes,
		Recurring: flagTxRecurring,
	}
	if flagTxIncome {
		tx.Kind = model.KindIncome
	}
	if flagTxDate != "" {
		d, err := time.ParseInLocation(dateLayout, flagTxDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagTxDate)
		}
		tx.Date = d
	}

	if len(args) == 1 {
		v, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		tx.Amount = v
	} else if err := transactionForm(&tx); err != nil {
		return err
	}

	if tx.Amount <= 0 {
		return errors.New("amount must be above zero")
	}
	if tx.Kind == model.KindIncome && tx.Category == "" {
		tx.Category = "salary"
	}
	tx.Category = source.NormalizeCategory(tx.Category)

	path := ledgerFile(ledgerDir(), flagTxAccount, tx.Date)
	if err := source.AppendTransaction(path, tx); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "id": tx.ID}).Info("appended transaction")

	verb := "Spent"
	if tx.Kind == model.KindIncome {
		verb = "Received"
	}
	fmt.Printf("\n  %s %s on %s", verb, cli.FormatMoney(tx.Amount), source.CategoryName(tx.Category))
	if tx.Merchant != "" {
		fmt.Printf(" at %s", tx.Merchant)
	}
	fmt.Printf(" (%s)\n\n", cli.FormatDate(tx.Date))
	return nil
}

// ledgerFile returns the monthly JSONL file for an account:
// <ledger>/<account>/<YYYY-MM>.jsonl.
func ledgerFile(dir, account string, date time.Time) string {
	account = strings.TrimSpace(account)
	if account == "" || strings.ContainsAny(account, `/\`) || strings.HasPrefix(account, ".") {
		account = "personal"
	}
	return filepath.Join(dir, account, date.Format("2006-01")+".jsonl")
}

// transactionForm asks for the amount and details interactively.
func transactionForm(tx *model.Transaction) error {
	suggestions := make([]string, 0, len(source.AmountPresets))
	for _, p := range source.AmountPresets {
		suggestions = append(suggestions, strconv.FormatFloat(p, 'f', -1, 64))
	}

	catOpts := make([]huh.Option[string], 0, len(source.Categories)+1)
	for _, c := range source.Categories {
		catOpts = append(catOpts, huh.NewOption(c.Name, c.ID))
	}
	catOpts = append(catOpts, huh.NewOption("Other", source.UncategorizedID))
	if tx.Category == "" {
		tx.Category = source.Categories[0].ID
	}

	amount := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Description("Tab to accept a quick amount").
				Suggestions(suggestions).
				Value(&amount).
				Validate(func(s string) error {
					v, err := parseAmount(s)
					if err != nil || v <= 0 {
						return errors.New("enter an amount above zero")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(catOpts...).
				Value(&tx.Category),
			huh.NewInput().
				Title("Merchant").
				Description("Optional").
				Value(&tx.Merchant),
		),
	).WithShowHelp(true)

	if err := form.Run(); err != nil {
		return fmt.Errorf("transaction form: %w", err)
	}
	tx.Amount, _ = parseAmount(amount)
	return nil
}
