package service

import (
	"MyVault/internal/blob"
	"MyVault/internal/docstore"
	"MyVault/internal/model"
	"MyVault/internal/repo"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testServices возвращает сервисы поверх обоих бэкендов: SQLite в памяти и документного на памяти.
func testServices(t *testing.T) map[string]*Services {
	t.Helper()
	db, err := repo.InitDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	return map[string]*Services{
		"relational": New(repo.NewRelationalStorage(db), blob.NewMemory(""), logger, Options{}),
		"document":   New(repo.NewDocumentStorage(docstore.NewMemory(), logger), blob.NewMemory(""), logger, Options{}),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCreate_LinksItemAndChild(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			e, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Lunch", Amount: dec("12.345"), Category: model.CategoryRestaurant})
			require.NoError(t, err)
			require.NotNil(t, e.Item)
			assert.Equal(t, e.ItemID, e.Item.ID)
			assert.Equal(t, model.KindExpense, e.Item.Kind)
			assert.True(t, e.Amount.Equal(dec("12.35")), "amount rounded to cents, got %s", e.Amount)
			assert.False(t, e.OccurredOn.IsZero())

			it, err := s.Items.Get(ctx, e.ItemID)
			require.NoError(t, err)
			assert.Equal(t, "Lunch", it.Title)
			assert.Equal(t, model.KindExpense, it.Kind)

			task, err := s.Tasks.Create(ctx, model.TaskCreate{Title: "Call mom"})
			require.NoError(t, err)
			assert.Equal(t, model.KindTask, task.Item.Kind)
			assert.Nil(t, task.DueAt)
			assert.False(t, task.IsDone)

			msg, err := s.Chats.Create(ctx, model.ChatCreate{Message: "hello"})
			require.NoError(t, err)
			assert.Equal(t, model.KindChat, msg.Item.Kind)
			assert.True(t, msg.IsUser)
			assert.Equal(t, model.StatusSent, msg.Status)
			assert.NotEmpty(t, msg.ConversationID)
			assert.Equal(t, "Chat message: hello...", msg.Item.Title)
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: "x", Amount: dec("0"), Category: model.CategoryFun})
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Expenses.Create(ctx, model.ExpenseCreate{Title: "x", Amount: dec("1"), Category: "jewels"})
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Tasks.Create(ctx, model.TaskCreate{Title: ""})
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Expenses.Create(ctx, model.ExpenseCreate{Title: "x", Amount: dec("0.004"), Category: model.CategoryFun})
			assert.ErrorIs(t, err, model.ErrValidation, "rounds to zero")

			items, err := s.Items.List(ctx, "", Page{})
			require.NoError(t, err)
			assert.Empty(t, items, "nothing is stored when validation fails")

			e, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Gum", Amount: dec("0.005"), Category: model.CategorySnacks})
			require.NoError(t, err)
			assert.True(t, e.Amount.Equal(dec("0.01")), "half a cent rounds up, got %s", e.Amount)

			tiny := dec("0.001")
			_, err = s.Expenses.Update(ctx, e.ID, model.ExpenseUpdate{Amount: &tiny})
			assert.ErrorIs(t, err, model.ErrValidation)
			got, err := s.Expenses.Get(ctx, e.ID)
			require.NoError(t, err)
			assert.True(t, got.Amount.IsPositive())
			assert.True(t, got.Amount.Equal(dec("0.01")))
		})
	}
}

func TestDelete_Cascades(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			task, err := s.Tasks.Create(ctx, model.TaskCreate{Title: "Pay rent"})
			require.NoError(t, err)
			require.NoError(t, s.Tasks.Delete(ctx, task.ID))

			_, err = s.Tasks.Get(ctx, task.ID)
			assert.ErrorIs(t, err, model.ErrNotFound)
			_, err = s.Items.Get(ctx, task.ItemID)
			assert.ErrorIs(t, err, model.ErrNotFound)

			assert.ErrorIs(t, s.Tasks.Delete(ctx, task.ID), model.ErrNotFound)
		})
	}
}

func TestUpdate_PatchLocalityAndStamp(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			e, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Taxi", Amount: dec("15.00"), Category: model.CategoryTransport})
			require.NoError(t, err)
			u0 := e.Item.UpdatedAt

			e1, err := s.Expenses.Update(ctx, e.ID, model.ExpenseUpdate{Title: strPtr("Airport taxi")})
			require.NoError(t, err)
			assert.Equal(t, "Airport taxi", e1.Item.Title)
			assert.True(t, e1.Amount.Equal(dec("15")))
			assert.Equal(t, model.CategoryTransport, e1.Category)
			assert.True(t, e1.Item.UpdatedAt.After(u0))

			amount := dec("17.5")
			e2, err := s.Expenses.Update(ctx, e.ID, model.ExpenseUpdate{Amount: &amount})
			require.NoError(t, err)
			assert.Equal(t, "Airport taxi", e2.Item.Title)
			assert.True(t, e2.Amount.Equal(dec("17.50")))
			assert.True(t, e2.Item.UpdatedAt.After(e1.Item.UpdatedAt))
			assert.True(t, e2.Item.CreatedAt.Equal(e.Item.CreatedAt))

			it, err := s.Items.Get(ctx, e.ItemID)
			require.NoError(t, err)
			assert.Equal(t, "Airport taxi", it.Title)
			assert.True(t, it.UpdatedAt.Equal(e2.Item.UpdatedAt))

			_, err = s.Expenses.Update(ctx, uuid.NewString(), model.ExpenseUpdate{Title: strPtr("x")})
			assert.ErrorIs(t, err, model.ErrNotFound)
			_, err = s.Expenses.Update(ctx, e.ID, model.ExpenseUpdate{Title: strPtr("")})
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestChat_StatusAdvance(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			m, err := s.Chats.Create(ctx, model.ChatCreate{Message: "ping", IsUser: boolPtr(false)})
			require.NoError(t, err)
			assert.False(t, m.IsUser)

			d1, err := s.Chats.UpdateStatus(ctx, m.ID, model.StatusDelivered)
			require.NoError(t, err)
			require.NotNil(t, d1.DeliveredAt)
			assert.Nil(t, d1.ReadAt)

			d2, err := s.Chats.UpdateStatus(ctx, m.ID, model.StatusDelivered)
			require.NoError(t, err)
			assert.True(t, d2.DeliveredAt.Equal(*d1.DeliveredAt))
			assert.True(t, d2.Item.UpdatedAt.Equal(d1.Item.UpdatedAt), "repeating a status is a no-op")

			r, err := s.Chats.UpdateStatus(ctx, m.ID, model.StatusRead)
			require.NoError(t, err)
			assert.Equal(t, model.StatusRead, r.Status)
			require.NotNil(t, r.ReadAt)
			assert.True(t, r.DeliveredAt.Equal(*d1.DeliveredAt))

			_, err = s.Chats.UpdateStatus(ctx, m.ID, model.StatusSent)
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Chats.UpdateStatus(ctx, m.ID, "lost")
			assert.ErrorIs(t, err, model.ErrValidation)

			other, err := s.Chats.Create(ctx, model.ChatCreate{Message: "pong"})
			require.NoError(t, err)
			jumped, err := s.Chats.UpdateStatus(ctx, other.ID, model.StatusRead)
			require.NoError(t, err)
			assert.NotNil(t, jumped.DeliveredAt, "read implies delivered")
			assert.NotNil(t, jumped.ReadAt)
		})
	}
}

func TestReport_Categories(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			when := at("2024-05-10T12:00:00Z")
			for _, in := range []model.ExpenseCreate{
				{Title: "Market", Amount: dec("10.10"), Category: model.CategoryGrocery},
				{Title: "Gum", Amount: dec("0.20"), Category: model.CategoryGrocery},
				{Title: "Refund", Amount: dec("100"), Category: model.CategoryGrocery, IsIncome: true},
				{Title: "Cinema", Amount: dec("5.55"), Category: model.CategoryFun},
			} {
				in.OccurredOn = &when
				_, err := s.Expenses.Create(ctx, in)
				require.NoError(t, err)
			}

			start, end := day("2024-05-01"), day("2024-05-31")
			rep, err := s.Reports.CategoryReport(ctx, &start, &end)
			require.NoError(t, err)
			require.Len(t, rep, 3)

			assert.Equal(t, model.CategoryFun, rep[0].Category)
			assert.True(t, rep[0].TotalAmount.Equal(dec("5.55")))
			assert.Equal(t, 1, rep[0].Count)

			assert.Equal(t, model.CategoryGrocery, rep[1].Category)
			assert.False(t, rep[1].IsIncome)
			assert.True(t, rep[1].TotalAmount.Equal(dec("10.30")), "got %s", rep[1].TotalAmount)
			assert.Equal(t, 2, rep[1].Count)

			assert.True(t, rep[2].IsIncome)
			assert.True(t, rep[2].TotalAmount.Equal(dec("100")))

			empty, err := s.Reports.CategoryReport(ctx, ptrTime(day("2023-01-01")), ptrTime(day("2023-01-31")))
			require.NoError(t, err)
			assert.Empty(t, empty)

			_, err = s.Reports.CategoryReport(ctx, &end, &start)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestReport_MonthlyBoundary(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			for _, c := range []struct {
				when   string
				amount string
				income bool
			}{
				{"2024-01-31T23:59:59Z", "5.00", false},
				{"2024-02-01T00:00:00Z", "1000.10", true},
				{"2024-02-29T23:59:00Z", "20.05", false},
				{"2024-03-01T00:00:00Z", "999.00", false},
			} {
				when := at(c.when)
				_, err := s.Expenses.Create(ctx, model.ExpenseCreate{
					Title: "e", Amount: dec(c.amount), Category: model.CategoryOther, IsIncome: c.income, OccurredOn: &when,
				})
				require.NoError(t, err)
			}

			rep, err := s.Reports.MonthlyReport(ctx, 2024, 2)
			require.NoError(t, err)
			assert.Equal(t, "2024-02", rep.Month)
			assert.True(t, rep.TotalIncome.Equal(dec("1000.10")), "income %s", rep.TotalIncome)
			assert.True(t, rep.TotalExpense.Equal(dec("20.05")), "expense %s", rep.TotalExpense)
			assert.True(t, rep.NetAmount.Equal(dec("980.05")), "net %s", rep.NetAmount)
			assert.Len(t, rep.ExpenseByCategory, 2)

			_, err = s.Reports.MonthlyReport(ctx, 1999, 1)
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Reports.MonthlyReport(ctx, 2024, 13)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestExpense_CoffeeScenario(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			coffee, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Coffee", Amount: dec("3.50"), Category: model.CategoryRestaurant})
			require.NoError(t, err)
			_, err = s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Salary", Amount: dec("2500"), Category: model.CategoryOther, IsIncome: true})
			require.NoError(t, err)

			list, err := s.Expenses.List(ctx, ExpenseFilter{IsIncome: boolPtr(false)}, Page{})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, coffee.ID, list[0].ID)
			assert.Equal(t, "Coffee", list[0].Item.Title)

			amount := dec("4.25")
			_, err = s.Expenses.Update(ctx, coffee.ID, model.ExpenseUpdate{Amount: &amount})
			require.NoError(t, err)
			got, err := s.Expenses.Get(ctx, coffee.ID)
			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(dec("4.25")))

			require.NoError(t, s.Expenses.Delete(ctx, coffee.ID))
			_, err = s.Expenses.Get(ctx, coffee.ID)
			assert.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func TestExpense_ListFiltersAndPaging(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			for i, d := range []string{"2024-03-01T08:00:00Z", "2024-03-02T08:00:00Z", "2024-03-03T23:30:00Z"} {
				when := at(d)
				cat := model.CategoryFuel
				if i == 1 {
					cat = model.CategorySnacks
				}
				_, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: d, Amount: dec("1"), Category: cat, OccurredOn: &when})
				require.NoError(t, err)
			}

			all, err := s.Expenses.List(ctx, ExpenseFilter{}, Page{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "2024-03-03T23:30:00Z", all[0].Item.Title, "most recent first")

			from, to := day("2024-03-02"), day("2024-03-03")
			ranged, err := s.Expenses.List(ctx, ExpenseFilter{StartDate: &from, EndDate: &to}, Page{})
			require.NoError(t, err)
			assert.Len(t, ranged, 2, "end date is inclusive")

			fuel := model.CategoryFuel
			byCat, err := s.Expenses.List(ctx, ExpenseFilter{Category: &fuel}, Page{Limit: 1, Offset: 1})
			require.NoError(t, err)
			require.Len(t, byCat, 1)
			assert.Equal(t, "2024-03-01T08:00:00Z", byCat[0].Item.Title)

			none, err := s.Expenses.List(ctx, ExpenseFilter{}, Page{Offset: 10})
			require.NoError(t, err)
			assert.Empty(t, none)

			_, err = s.Expenses.List(ctx, ExpenseFilter{}, Page{Limit: 101})
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Expenses.List(ctx, ExpenseFilter{}, Page{Limit: -1})
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Expenses.List(ctx, ExpenseFilter{}, Page{Offset: -1})
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestTask_FiltersToggleAndRange(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
			s.Tasks.now = func() time.Time { return now }

			yesterday := now.Add(-24 * time.Hour)
			tomorrow := now.Add(24 * time.Hour)
			late, err := s.Tasks.Create(ctx, model.TaskCreate{Title: "late", DueAt: &yesterday})
			require.NoError(t, err)
			_, err = s.Tasks.Create(ctx, model.TaskCreate{Title: "late but done", DueAt: &yesterday, IsDone: true})
			require.NoError(t, err)
			_, err = s.Tasks.Create(ctx, model.TaskCreate{Title: "soon", DueAt: &tomorrow})
			require.NoError(t, err)
			_, err = s.Tasks.Create(ctx, model.TaskCreate{Title: "someday"})
			require.NoError(t, err)

			all, err := s.Tasks.List(ctx, TaskFilter{}, Page{})
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, "someday", all[3].Item.Title, "undated last")
			assert.Equal(t, "soon", all[2].Item.Title)

			overdue, err := s.Tasks.List(ctx, TaskFilter{Overdue: true}, Page{})
			require.NoError(t, err)
			require.Len(t, overdue, 1)
			assert.Equal(t, late.ID, overdue[0].ID)

			due, err := s.Tasks.List(ctx, TaskFilter{DueDate: &tomorrow}, Page{})
			require.NoError(t, err)
			require.Len(t, due, 1)
			assert.Equal(t, "soon", due[0].Item.Title)

			toggled, err := s.Tasks.Toggle(ctx, late.ID)
			require.NoError(t, err)
			assert.True(t, toggled.IsDone)
			assert.True(t, toggled.Item.UpdatedAt.After(late.Item.UpdatedAt))

			done, err := s.Tasks.List(ctx, TaskFilter{IsDone: boolPtr(true)}, Page{})
			require.NoError(t, err)
			assert.Len(t, done, 2)

			ranged, err := s.Tasks.ForDateRange(ctx, yesterday, now)
			require.NoError(t, err)
			assert.Len(t, ranged, 2)

			cleared, err := s.Tasks.Update(ctx, late.ID, model.TaskUpdate{ClearDue: true})
			require.NoError(t, err)
			assert.Nil(t, cleared.DueAt)

			_, err = s.Tasks.Toggle(ctx, uuid.NewString())
			assert.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func TestChat_ListAndConversations(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Chats.Create(ctx, model.ChatCreate{Message: "a1", ConversationID: strPtr("a")})
			require.NoError(t, err)
			_, err = s.Chats.Create(ctx, model.ChatCreate{Message: "a2", ConversationID: strPtr("a")})
			require.NoError(t, err)
			_, err = s.Chats.Create(ctx, model.ChatCreate{Message: "b1", ConversationID: strPtr("b")})
			require.NoError(t, err)

			msgs, err := s.Chats.List(ctx, "a", Page{})
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, "a2", msgs[0].Message, "newest first")

			convs, err := s.Chats.Conversations(ctx, 0)
			require.NoError(t, err)
			require.Len(t, convs, 2)
			assert.Equal(t, "b", convs[0].ConversationID)
			assert.Equal(t, 1, convs[0].MessageCount)
			assert.Equal(t, 2, convs[1].MessageCount)

			one, err := s.Chats.Conversations(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, one, 1)

			_, err = s.Chats.Conversations(ctx, 51)
			assert.ErrorIs(t, err, model.ErrValidation)

			_, err = s.Chats.Create(ctx, model.ChatCreate{Message: string(make([]rune, 2001))})
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestItems_DispatchByKind(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			note, err := s.Items.Create(ctx, model.ItemCreate{Kind: model.KindNote, Title: "Idea", Content: strPtr("text")})
			require.NoError(t, err)
			assert.Equal(t, model.KindNote, note.Kind)

			e, err := s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Book", Amount: dec("9.99"), Category: model.CategoryPersonal})
			require.NoError(t, err)

			notes, err := s.Items.List(ctx, model.KindNote, Page{})
			require.NoError(t, err)
			require.Len(t, notes, 1)
			assert.Equal(t, note.ID, notes[0].ID)

			renamed, err := s.Items.Update(ctx, e.ItemID, model.ItemUpdate{Title: strPtr("Novel")})
			require.NoError(t, err)
			assert.Equal(t, "Novel", renamed.Title)
			child, err := s.Expenses.Get(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, "Novel", child.Item.Title, "embedded copy refreshed")

			upd, err := s.Items.Update(ctx, note.ID, model.ItemUpdate{Content: strPtr("more")})
			require.NoError(t, err)
			assert.Equal(t, "more", *upd.Content)
			assert.Equal(t, "Idea", upd.Title)

			require.NoError(t, s.Items.Delete(ctx, e.ItemID))
			_, err = s.Expenses.Get(ctx, e.ID)
			assert.ErrorIs(t, err, model.ErrNotFound)

			require.NoError(t, s.Items.Delete(ctx, note.ID))
			assert.ErrorIs(t, s.Items.Delete(ctx, note.ID), model.ErrNotFound)

			_, err = s.Items.Create(ctx, model.ItemCreate{Kind: "recipe", Title: "x"})
			assert.ErrorIs(t, err, model.ErrValidation)
			_, err = s.Items.List(ctx, "recipe", Page{})
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestCalendar_Events(t *testing.T) {
	ctx := context.Background()
	for name, s := range testServices(t) {
		t.Run(name, func(t *testing.T) {
			due := at("2024-07-02T09:30:00Z")
			_, err := s.Tasks.Create(ctx, model.TaskCreate{Title: "Dentist", DueAt: &due})
			require.NoError(t, err)
			_, err = s.Tasks.Create(ctx, model.TaskCreate{Title: "Undated"})
			require.NoError(t, err)
			spent := at("2024-07-03T18:00:00Z")
			_, err = s.Expenses.Create(ctx, model.ExpenseCreate{Title: "Dinner", Amount: dec("30"), Category: model.CategoryRestaurant, OccurredOn: &spent})
			require.NoError(t, err)

			ev, err := s.Calendar.Events(ctx, day("2024-07-01"), day("2024-07-03"), "")
			require.NoError(t, err)
			require.Len(t, ev.Tasks, 1)
			assert.Equal(t, "Dentist", ev.Tasks[0].Title)
			assert.Equal(t, "2024-07-02", ev.Tasks[0].Date)
			require.NotNil(t, ev.Tasks[0].Time)
			assert.Equal(t, "09:30:00", *ev.Tasks[0].Time)
			require.Len(t, ev.Expenses, 1)
			assert.Equal(t, "expense", ev.Expenses[0].Type)
			assert.Equal(t, model.CategoryRestaurant, ev.Expenses[0].Category)

			onlyTasks, err := s.Calendar.Events(ctx, day("2024-07-01"), day("2024-07-03"), EventTasks)
			require.NoError(t, err)
			assert.Empty(t, onlyTasks.Expenses)
			assert.Len(t, onlyTasks.Tasks, 1)

			_, err = s.Calendar.Events(ctx, day("2024-07-01"), day("2024-07-03"), "meetings")
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestExpense_Categories(t *testing.T) {
	s := NewExpenseService(nil, zap.NewNop().Sugar())
	cats := s.Categories()
	assert.Len(t, cats, 12)
	cats[0] = "changed"
	assert.Equal(t, model.CategoryTransport, model.Categories[0])
}
