package commands

import (
	"MyVault/internal/cli/api"
	"MyVault/internal/config"
	"MyVault/internal/model"
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type expenseAddCmd struct{}

func (expenseAddCmd) Name() string { return "expense-add" }
func (expenseAddCmd) Description() string {
	return "Добавить расход или доход"
}
func (expenseAddCmd) Usage() string {
	return "expense-add [--income] [--date YYYY-MM-DD] <title> <amount> <category>"
}

func (expenseAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("expense-add")
	income := fs.Bool("income", false, "")
	date := fs.String("date", "", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return ErrUsage
	}
	amount, err := decimal.NewFromString(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid amount %q", fs.Arg(1))
	}
	in := model.ExpenseCreate{
		Title:    fs.Arg(0),
		Amount:   amount,
		Category: model.Category(fs.Arg(2)),
		IsIncome: *income,
	}
	if *date != "" {
		d, err := parseDay(*date)
		if err != nil {
			return fmt.Errorf("invalid date %q", *date)
		}
		in.OccurredOn = &d
	}
	e, err := newClient(cfg).CreateExpense(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:       %s\n", e.ID)
	fmt.Fprintf(Out, "  amount:   %s\n", e.Amount.StringFixed(2))
	fmt.Fprintf(Out, "  category: %s\n", e.Category)
	fmt.Fprintf(Out, "  date:     %s\n", e.OccurredOn.Format(dateLayout))
	return nil
}

type expensesCmd struct{}

func (expensesCmd) Name() string { return "expenses" }
func (expensesCmd) Description() string {
	return "Показать расходы и доходы"
}
func (expensesCmd) Usage() string {
	return "expenses [--income|--spent] [--category C] [--from D] [--to D]"
}

func (expensesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("expenses")
	income := fs.Bool("income", false, "")
	spent := fs.Bool("spent", false, "")
	category := fs.String("category", "", "")
	from := fs.String("from", "", "")
	to := fs.String("to", "", "")
	limit := fs.Int("limit", 0, "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 || (*income && *spent) {
		return ErrUsage
	}
	q := api.ExpenseQuery{Category: *category, StartDate: *from, EndDate: *to, Limit: *limit}
	if *income || *spent {
		v := *income
		q.IsIncome = &v
	}
	list, err := newClient(cfg).ListExpenses(ctx, q)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return nil
	}
	total := decimal.Zero
	for _, e := range list {
		sign := "-"
		if e.IsIncome {
			sign = "+"
			total = total.Add(e.Amount)
		} else {
			total = total.Sub(e.Amount)
		}
		title := ""
		if e.Item != nil {
			title = e.Item.Title
		}
		fmt.Fprintf(Out, "- %s  %s  %s%s  %-10s %s\n",
			short(e.ID), e.OccurredOn.Format(dateLayout), sign, e.Amount.StringFixed(2), e.Category, title)
	}
	fmt.Fprintf(Out, "Всего: %d, итог: %s\n", len(list), total.StringFixed(2))
	return nil
}

type expenseDelCmd struct{}

func (expenseDelCmd) Name() string        { return "expense-del" }
func (expenseDelCmd) Description() string { return "Удалить расход" }
func (expenseDelCmd) Usage() string       { return "expense-del <id>" }

func (expenseDelCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	if err := newClient(cfg).DeleteExpense(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted: %s\n", args[0])
	return nil
}

type reportCmd struct{}

func (reportCmd) Name() string { return "report" }
func (reportCmd) Description() string {
	return "Месячный отчёт по расходам"
}
func (reportCmd) Usage() string { return "report <year> <month>" }

func (reportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return ErrUsage
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	rep, err := newClient(cfg).MonthlyReport(ctx, year, month)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Отчёт за %s\n", rep.Month)
	fmt.Fprintf(Out, "  доходы:  %s\n", rep.TotalIncome.StringFixed(2))
	fmt.Fprintf(Out, "  расходы: %s\n", rep.TotalExpense.StringFixed(2))
	fmt.Fprintf(Out, "  итог:    %s\n", rep.NetAmount.StringFixed(2))
	for _, c := range rep.ExpenseByCategory {
		fmt.Fprintf(Out, "  - %-12s %10s  (%d)\n", c.Category, c.TotalAmount.StringFixed(2), c.Count)
	}
	return nil
}

func init() {
	RegisterCmd(expenseAddCmd{})
	RegisterCmd(expensesCmd{})
	RegisterCmd(expenseDelCmd{})
	RegisterCmd(reportCmd{})
}
