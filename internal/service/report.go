package service

import (
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal — сумма и число записей по категории и направлению.
type CategoryTotal struct {
	Category    model.Category  `json:"category"`
	IsIncome    bool            `json:"is_income"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
}

// MonthlyReport — итоги месяца.
type MonthlyReport struct {
	Month             string          `json:"month"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
}

// ReportService считает отчёты по расходам. Суммирование идёт в decimal.
type ReportService struct {
	expenses repo.ChildRepository[model.Expense]
}

func NewReportService(r repo.ChildRepository[model.Expense]) *ReportService {
	return &ReportService{expenses: r}
}

// CategoryReport группирует расходы по (category, is_income). Даты включительные, nil — без границы.
// Порядок: категория, затем расходы перед доходами.
func (s *ReportService) CategoryReport(ctx context.Context, start, end *time.Time) ([]CategoryTotal, error) {
	var conds []repo.Cond
	if start != nil && end != nil {
		if _, _, err := dayRange(*start, *end); err != nil {
			return nil, err
		}
	}
	if start != nil {
		conds = append(conds, repo.Cond{Field: "occurred_on", Op: repo.Gte, Value: dayStart(*start)})
	}
	if end != nil {
		conds = append(conds, repo.Cond{Field: "occurred_on", Op: repo.Lt, Value: dayStart(*end).AddDate(0, 0, 1)})
	}
	rows, err := s.expenses.QueryChildren(ctx, repo.Query{Where: conds})
	if err != nil {
		return nil, fmt.Errorf("category report: %w", err)
	}

	type key struct {
		cat    model.Category
		income bool
	}
	groups := map[key]*CategoryTotal{}
	for _, e := range rows {
		k := key{e.Category, e.IsIncome}
		g, ok := groups[k]
		if !ok {
			g = &CategoryTotal{Category: e.Category, IsIncome: e.IsIncome, TotalAmount: decimal.Zero}
			groups[k] = g
		}
		g.TotalAmount = g.TotalAmount.Add(e.Amount)
		g.Count++
	}
	out := make([]CategoryTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return !out[i].IsIncome && out[j].IsIncome
	})
	return out, nil
}

// MonthlyReport — доходы, расходы и разница за календарный месяц.
func (s *ReportService) MonthlyReport(ctx context.Context, year, month int) (*MonthlyReport, error) {
	if year < 2000 || year > 2100 {
		return nil, model.NewValidationError("year", "must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return nil, model.NewValidationError("month", "must be between 1 and 12")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	groups, err := s.CategoryReport(ctx, &first, &last)
	if err != nil {
		return nil, err
	}
	rep := &MonthlyReport{
		Month:             fmt.Sprintf("%04d-%02d", year, month),
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		ExpenseByCategory: groups,
	}
	for _, g := range groups {
		if g.IsIncome {
			rep.TotalIncome = rep.TotalIncome.Add(g.TotalAmount)
		} else {
			rep.TotalExpense = rep.TotalExpense.Add(g.TotalAmount)
		}
	}
	rep.NetAmount = rep.TotalIncome.Sub(rep.TotalExpense)
	return rep, nil
}
