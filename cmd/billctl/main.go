// Command billctl inspects and mutates the bill ledger from the terminal,
// operating directly on the database file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/tonyh/billdivide/internal/calculator"
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/money"
	"github.com/tonyh/billdivide/internal/service"
	"github.com/tonyh/billdivide/internal/storage/sqlite"
	"github.com/tonyh/billdivide/pkg/logging"
)

var dbPath = flag.String("db", envOr("DB_PATH", "./data/bills.db"), "path to the database file")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&listCmd{}, "ledger")
	subcommands.Register(&balancesCmd{}, "ledger")
	subcommands.Register(&settleCmd{}, "ledger")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

func openStore() (*sqlite.SQLiteStore, string, error) {
	store, err := sqlite.New(*dbPath)
	if err != nil {
		return nil, "", err
	}
	prefs, err := store.Preferences(context.Background())
	if err != nil {
		store.Close()
		return nil, "", err
	}
	return store, prefs.Currency, nil
}

type listCmd struct {
	status string
	query  string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list bills, most recent first" }
func (*listCmd) Usage() string {
	return `list [-status pending|partial|settled] [-q text]:
  Print the bill ledger.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "", "only bills in this settlement state")
	f.StringVar(&c.query, "q", "", "only bills whose title contains this text")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, currency, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	svc := service.NewBillService(store, nil)
	bills, err := svc.ListBills(ctx, service.ListFilter{
		Status: models.Status(c.status),
		Query:  c.query,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tTOTAL\tSTATUS")
	for _, b := range bills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Date, b.Title, money.Format(b.Total, currency), b.Status)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type balancesCmd struct{}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show who owes whom across the ledger" }
func (*balancesCmd) Usage() string {
	return `balances:
  Print aggregated debts and your net position.
`
}
func (*balancesCmd) SetFlags(*flag.FlagSet) {}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, currency, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	bills, err := store.ListBills(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	balances := calculator.CalculateBalances(bills)
	if len(balances) == 0 {
		fmt.Println("all settled up")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, b := range balances {
		fmt.Fprintf(w, "%s\towes\t%s\t%s\n",
			b.FromName, b.ToName, money.Format(b.Amount, currency))
	}
	w.Flush()

	summary := calculator.Summarize(balances)
	fmt.Printf("\nyou owe %s, owed to you %s, net %s\n",
		money.Format(summary.YouOwe, currency),
		money.Format(summary.OwedToYou, currency),
		money.Format(summary.Net, currency))
	return subcommands.ExitSuccess
}

type settleCmd struct {
	all bool
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "settle a share of a bill, or the whole bill" }
func (*settleCmd) Usage() string {
	return `settle [-all] <bill-id> [user-id]:
  Mark a participant's share paid (your own when user-id is omitted), or the
  whole bill with -all.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "settle every share of the bill")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "settle: bill id required")
		return subcommands.ExitUsageError
	}
	billID := f.Arg(0)
	userID := f.Arg(1)
	if userID == "" {
		userID = models.CurrentUserID
	}

	store, currency, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	svc := service.NewBillService(store, nil)
	var bill *models.Bill
	if c.all {
		bill, err = svc.SettleBill(ctx, billID)
	} else {
		bill, err = svc.SettleShare(ctx, billID, userID)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if bill == nil {
		fmt.Println("no such bill")
		return subcommands.ExitSuccess
	}

	fmt.Printf("%s: %s (%s)\n", bill.Title, bill.Status, money.Format(bill.Total, currency))
	for i := range bill.Participants {
		p := &bill.Participants[i]
		state := "owes " + money.Format(p.Outstanding(), currency)
		if p.Settled() {
			state = "settled"
		}
		fmt.Printf("  %s\t%s\n", p.Name, state)
	}
	return subcommands.ExitSuccess
}
