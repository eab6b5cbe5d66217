package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"lendledger/core"
	"lendledger/pkg/id"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var ledgerCmd = &cobra.Command{
	Use:     "ledger",
	Aliases: []string{"l"},
	Short:   "inspect and operate the ledger",
}

func printFields(cmd *cobra.Command, v interface{}) {
	fields := structs.Map(v)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%-28s %v\n", k, fields[k])
	}
}

func printJSON(cmd *cobra.Command, v interface{}) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		panic(err)
	}

	cmd.Println(string(data))
}

func amountFlag(cmd *cobra.Command) decimal.Decimal {
	s, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Errorf("invalid amount %q: %w", s, err))
	}

	return amount
}

var balanceCmd = &cobra.Command{
	Use:   "balance <customer> <kind> <asset> [block]",
	Short: "balance of one account, interest included",
	Args:  cobra.RangeArgs(3, 4),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)

		kind, err := core.ParseAccountKind(args[1])
		if err != nil {
			panic(err)
		}

		checkpoint, err := n.ledger.GetCheckpoint(ctx, args[0], kind, args[2])
		if err != nil {
			panic(err)
		}
		printFields(cmd, checkpoint)

		var side core.RateSide
		switch kind {
		case core.AccountBorrow:
			side = core.RateSideBorrow
		case core.AccountDeposit, core.AccountSupply, core.AccountLoan:
			side = core.RateSideSupply
		default:
			return
		}

		block, err := n.blocks.CurrentBlock(ctx)
		if err != nil {
			panic(err)
		}

		if len(args) == 4 {
			block = cast.ToInt64(args[3])
		}

		balance, err := n.interest.GetBalanceAt(ctx, args[2], side, checkpoint.Block, checkpoint.Balance, block)
		if err != nil {
			panic(err)
		}

		cmd.Printf("%-28s %v\n", "balance_with_interest", balance)
	},
}

var sheetCmd = &cobra.Command{
	Use:   "sheet <asset>",
	Short: "protocol balance sheet of asset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)

		for _, kind := range core.AllAccountKinds {
			balance, err := n.ledger.GetBalanceSheetBalance(ctx, args[0], kind)
			if err != nil {
				panic(err)
			}

			cmd.Printf("%-28s %v\n", kind, balance)
		}
	},
}

var liquidityCmd = &cobra.Command{
	Use:   "liquidity <customer>",
	Short: "collateral position of customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)

		liquidity, healthy, err := n.borrower.AccountHealth(cmd.Context(), args[0])
		if err != nil {
			panic(err)
		}

		printFields(cmd, liquidity)
		cmd.Printf("%-28s %v\n", "healthy", healthy)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [asset...]",
	Short: "record the current rates of every or the given assets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)

		if len(args) == 0 {
			assets, err := n.market.All(ctx)
			if err != nil {
				panic(err)
			}

			for _, asset := range assets {
				args = append(args, asset.ID)
			}
		}

		for _, asset := range args {
			if err := n.interest.SnapshotMarket(ctx, asset); err != nil {
				panic(err)
			}
			cmd.Println("snapshot", asset)
		}
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries <trace_id>",
	Short: "entries posted by one operation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)

		entries, err := n.entries.FindByTrace(cmd.Context(), args[0])
		if err != nil {
			panic(err)
		}

		printJSON(cmd, entries)
	},
}

var operateCmd = &cobra.Command{
	Use:       "operate <deposit|withdraw|borrow|repay|convert> <customer> <asset> [borrow_asset]",
	Aliases:   []string{"op"},
	Short:     "run a product operation for customer",
	Args:      cobra.RangeArgs(3, 4),
	ValidArgs: []string{"deposit", "withdraw", "borrow", "repay", "convert"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)

		action, customer, asset := args[0], args[1], args[2]
		amount := amountFlag(cmd)

		traceID, _ := cmd.Flags().GetString("trace")
		if traceID == "" {
			traceID = id.GenTraceID()
		}
		ctx = core.WithTraceID(ctx, traceID)

		productName, _ := cmd.Flags().GetString("product")
		product, ok := n.products[productName]
		if !ok {
			panic(fmt.Errorf("unknown product %q", productName))
		}

		var err error
		switch action {
		case "deposit":
			err = product.Deposit(ctx, customer, asset, amount)
		case "withdraw":
			err = product.Withdraw(ctx, customer, asset, amount)
		case "borrow":
			err = n.borrower.Borrow(ctx, customer, asset, amount)
		case "repay":
			var repaid decimal.Decimal
			if repaid, err = n.borrower.RepayBorrow(ctx, customer, asset, amount); err == nil {
				cmd.Println("repaid", repaid)
			}
		case "convert":
			if len(args) < 4 {
				panic("convert needs a borrow asset")
			}

			var repaid decimal.Decimal
			if repaid, err = n.borrower.ConvertCollateral(ctx, customer, asset, amount, args[3]); err == nil {
				cmd.Println("repaid", repaid)
			}
		default:
			panic(fmt.Errorf("unknown operation %q", action))
		}

		if err != nil {
			cmd.PrintErrln(action, "failed:", err)
			return
		}

		cmd.Println(action, "done, trace", traceID)
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <asset>",
	Short: "print the pay url that funds a deposit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database := provideDatabase()
		defer database.Close()
		n := provideNode(database)
		traceID := id.GenTraceID()

		url, err := n.wallet.PaySchemaURL(cmd.Context(), args[0], amountFlag(cmd), traceID)
		if err != nil {
			panic(err)
		}

		cmd.Println("trace", traceID)
		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(payCmd)
	ledgerCmd.AddCommand(balanceCmd, sheetCmd, liquidityCmd, snapshotCmd, entriesCmd, operateCmd)

	operateCmd.Flags().StringP("amount", "q", "0", "amount in smallest units")
	operateCmd.Flags().String("trace", "", "trace id, generated when empty")
	operateCmd.Flags().String("product", "savings", "savings, supplier or loaner for deposit and withdraw")
	payCmd.Flags().StringP("amount", "q", "0", "amount in smallest units")
}
