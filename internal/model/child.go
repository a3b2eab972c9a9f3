package model

// Child — общие методы дочерних записей, которыми пользуются адаптеры хранения.
type Child interface {
	Kind() Kind
	ChildID() string
	ParentID() string
	Parent() *Item
	// Bind присваивает id записи и связывает её с Item.
	Bind(id string, item *Item)
	SetParent(item *Item)
}

var (
	_ Child = (*Expense)(nil)
	_ Child = (*Task)(nil)
	_ Child = (*ChatMessage)(nil)
	_ Child = (*FileAsset)(nil)
)

func (*Expense) Kind() Kind                 { return KindExpense }
func (e *Expense) ChildID() string          { return e.ID }
func (e *Expense) ParentID() string         { return e.ItemID }
func (e *Expense) Parent() *Item            { return e.Item }
func (e *Expense) SetParent(item *Item)     { e.Item = item }
func (e *Expense) Bind(id string, it *Item) { e.ID, e.ItemID, e.Item = id, it.ID, it }

func (*Task) Kind() Kind                 { return KindTask }
func (t *Task) ChildID() string          { return t.ID }
func (t *Task) ParentID() string         { return t.ItemID }
func (t *Task) Parent() *Item            { return t.Item }
func (t *Task) SetParent(item *Item)     { t.Item = item }
func (t *Task) Bind(id string, it *Item) { t.ID, t.ItemID, t.Item = id, it.ID, it }

func (*ChatMessage) Kind() Kind                 { return KindChat }
func (m *ChatMessage) ChildID() string          { return m.ID }
func (m *ChatMessage) ParentID() string         { return m.ItemID }
func (m *ChatMessage) Parent() *Item            { return m.Item }
func (m *ChatMessage) SetParent(item *Item)     { m.Item = item }
func (m *ChatMessage) Bind(id string, it *Item) { m.ID, m.ItemID, m.Item = id, it.ID, it }

func (*FileAsset) Kind() Kind                 { return KindFile }
func (f *FileAsset) ChildID() string          { return f.ID }
func (f *FileAsset) ParentID() string         { return f.ItemID }
func (f *FileAsset) Parent() *Item            { return f.Item }
func (f *FileAsset) SetParent(item *Item)     { f.Item = item }
func (f *FileAsset) Bind(id string, it *Item) { f.ID, f.ItemID, f.Item = id, it.ID, it }
