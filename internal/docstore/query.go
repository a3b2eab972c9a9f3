package docstore

import (
	"sort"
	"strings"
)

// Operator — оператор сравнения фильтра.
type Operator string

const (
	Eq  Operator = "eq"
	Gt  Operator = "gt"
	Gte Operator = "gte"
	Lt  Operator = "lt"
	Lte Operator = "lte"
)

// Filter — условие на поле. Поле может быть путём через точку: "item.kind".
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Order — ключ сортировки.
type Order struct {
	Field string
	Desc  bool
}

// Query — выборка: все фильтры через AND, затем сортировка, смещение и лимит (0 — без лимита).
type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
	Offset  int
}

// Where добавляет фильтр и возвращает запрос для цепочки вызовов.
func (q Query) Where(field string, op Operator, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Lookup достаёт значение по пути через точку.
func Lookup(doc map[string]any, path string) (any, bool) {
	var cur any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	}
	return nil, false
}

// Match проверяет документ по всем фильтрам.
func Match(doc Document, filters []Filter) bool {
	for _, f := range filters {
		v, _ := Lookup(doc, f.Field)
		c, ok := Compare(v, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case Eq:
			if c != 0 {
				return false
			}
		case Gt:
			if c <= 0 {
				return false
			}
		case Gte:
			if c < 0 {
				return false
			}
		case Lt:
			if c >= 0 {
				return false
			}
		case Lte:
			if c > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Compare сравнивает два канонических значения. ok=false, если значения несравнимы
// (разные типы или nil с не-nil).
func Compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0, true
		}
		return 0, false
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Apply выполняет запрос над набором документов в памяти. Отсутствующие и nil-значения
// при сортировке всегда идут последними.
func Apply(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if Match(d, q.Filters) {
			out = append(out, d)
		}
	}
	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j], q.Order)
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []Document{}
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func less(a, b Document, order []Order) bool {
	for _, o := range order {
		av, _ := Lookup(a, o.Field)
		bv, _ := Lookup(b, o.Field)
		switch {
		case av == nil && bv == nil:
			continue
		case av == nil:
			return false
		case bv == nil:
			return true
		}
		c, ok := Compare(av, bv)
		if !ok || c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}
