package repo

import (
	"MyVault/internal/docstore"
	"MyVault/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pairLockTTL — срок жизни блокировки пары Item/дочерний документ.
const pairLockTTL = 10 * time.Second

// NewDocumentStorage собирает репозитории поверх документного хранилища. Каждый дочерний
// документ хранит копию своего Item в поле "item"; копия обновляется в том же пакете,
// что и документ Item.
func NewDocumentStorage(store docstore.Store, logger *zap.SugaredLogger) *Storage {
	return &Storage{
		Backend:  "document",
		Items:    &docItemRepo{store: store, logger: logger},
		Expenses: newDocChildRepo(store, logger, expenseCodec),
		Tasks:    newDocChildRepo(store, logger, taskCodec),
		Chats:    newDocChildRepo(store, logger, chatCodec),
		Files:    newDocChildRepo(store, logger, fileCodec),
	}
}

type docChildRepo[C any, P childPtr[C]] struct {
	store  docstore.Store
	logger *zap.SugaredLogger
	codec  docCodec[C]
	kind   model.Kind
}

func newDocChildRepo[C any, P childPtr[C]](store docstore.Store, logger *zap.SugaredLogger, codec docCodec[C]) ChildRepository[C] {
	var c C
	return &docChildRepo[C, P]{store: store, logger: logger, codec: codec, kind: P(&c).Kind()}
}

func (r *docChildRepo[C, P]) notFound(id string) error {
	return &model.NotFoundError{Entity: string(r.kind), ID: id}
}

func pairKey(itemID string) string { return "pair:" + itemID }

// withPairLock выполняет fn под блокировкой, если хранилище её поддерживает.
func withPairLock(ctx context.Context, store docstore.Store, key string, fn func(ctx context.Context) error) error {
	if l, ok := store.(docstore.Locker); ok {
		return l.WithLock(ctx, key, pairLockTTL, fn)
	}
	return fn(ctx)
}

func (r *docChildRepo[C, P]) InsertPair(ctx context.Context, item *model.Item, child *C) error {
	p := P(child)
	stampNewItem(item, p.Kind())
	p.Bind(uuid.NewString(), item)

	err := r.store.Commit(ctx, []docstore.Op{
		docstore.Set(collItems, item.ID, encodeItem(item)),
		docstore.Set(r.codec.collection, p.ChildID(), r.codec.encode(child)),
	})
	return model.WrapStorage("insert pair", err)
}

// load читает и разбирает дочерний документ без гидратации.
func (r *docChildRepo[C, P]) load(ctx context.Context, id string) (*C, docstore.Document, error) {
	doc, err := r.store.Get(ctx, r.codec.collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil, r.notFound(id)
	}
	if err != nil {
		return nil, nil, model.WrapStorage("read "+string(r.kind), err)
	}
	c, err := r.decode(doc)
	if err != nil {
		return nil, nil, err
	}
	return c, doc, nil
}

func (r *docChildRepo[C, P]) decode(doc docstore.Document) (*C, error) {
	c, err := r.codec.decode(doc)
	if err != nil {
		return nil, model.WrapStorage("decode "+string(r.kind), err)
	}
	it, err := embeddedItem(doc)
	if err != nil {
		return nil, model.WrapStorage("decode item", err)
	}
	if it != nil && it.ID != "" {
		P(c).SetParent(it)
	}
	return c, nil
}

// hydrate подставляет Item, если вложенной копии нет: сначала из коллекции items,
// затем минимальную проекцию.
func (r *docChildRepo[C, P]) hydrate(ctx context.Context, c *C) error {
	p := P(c)
	if p.Parent() != nil {
		return nil
	}
	it, err := r.parent(ctx, p.ParentID())
	if err != nil {
		return err
	}
	if it == nil {
		it = r.project(c)
		r.logger.Warnw("document without parent item, returning projection", "kind", r.kind, "id", p.ChildID(), "item_id", p.ParentID())
	}
	p.SetParent(it)
	return nil
}

// parent читает Item из коллекции items; отсутствие — не ошибка.
func (r *docChildRepo[C, P]) parent(ctx context.Context, itemID string) (*model.Item, error) {
	if itemID == "" {
		return nil, nil
	}
	doc, err := r.store.Get(ctx, collItems, itemID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, model.WrapStorage("read item", err)
	}
	it, err := decodeItem(map[string]any(doc))
	if err != nil {
		return nil, model.WrapStorage("decode item", err)
	}
	return it, nil
}

func (r *docChildRepo[C, P]) project(c *C) *model.Item {
	title, stamp := r.codec.projection(c)
	if title == "" {
		title = string(r.kind)
	}
	return &model.Item{ID: P(c).ParentID(), Kind: r.kind, Title: title, CreatedAt: stamp, UpdatedAt: stamp}
}

func (r *docChildRepo[C, P]) ReadChild(ctx context.Context, id string) (*C, error) {
	c, _, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *docChildRepo[C, P]) FindByItem(ctx context.Context, itemID string) (*C, error) {
	docs, err := r.store.Find(ctx, r.codec.collection, docstore.Query{}.Where("item_id", docstore.Eq, itemID))
	if err != nil {
		return nil, model.WrapStorage("find "+string(r.kind), err)
	}
	if len(docs) == 0 {
		return nil, &model.NotFoundError{Entity: string(r.kind), ID: itemID}
	}
	c, err := r.decode(docs[0])
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *docChildRepo[C, P]) UpdateChild(ctx context.Context, id string, ip model.ItemPatch, cp model.ChildPatch) (*C, error) {
	pre, _, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	var out *C
	err = withPairLock(ctx, r.store, pairKey(P(pre).ParentID()), func(ctx context.Context) error {
		cur, _, err := r.load(ctx, id)
		if err != nil {
			return err
		}
		p := P(cur)

		// источник истины для полей Item — документ items; вложенная копия — запасной вариант
		base, err := r.parent(ctx, p.ParentID())
		if err != nil {
			return err
		}
		if base == nil {
			base = p.Parent()
		}
		if base == nil {
			base = r.project(cur)
		}

		item := ip.Apply(*base)
		item.UpdatedAt = model.NextStamp(base.UpdatedAt, time.Now())

		next := r.codec.apply(*cur, cp)
		P(&next).SetParent(&item)

		err = r.store.Commit(ctx, []docstore.Op{
			docstore.Set(collItems, item.ID, encodeItem(&item)),
			docstore.Set(r.codec.collection, id, r.codec.encode(&next)),
		})
		if err != nil {
			return model.WrapStorage("update "+string(r.kind), err)
		}
		if err := r.verifyEmbedded(ctx, id, &item); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// verifyEmbedded перечитывает дочерний документ и восстанавливает вложенную копию Item,
// если она разошлась с только что записанной.
func (r *docChildRepo[C, P]) verifyEmbedded(ctx context.Context, id string, want *model.Item) error {
	doc, err := r.store.Get(ctx, r.codec.collection, id)
	if err != nil {
		return model.WrapStorage("verify "+string(r.kind), err)
	}
	got, err := embeddedItem(doc)
	if err == nil && sameItem(got, want) {
		return nil
	}
	r.logger.Warnw("embedded item diverged, repairing", "kind", r.kind, "id", id, "item_id", want.ID)
	doc["item"] = encodeItem(want)
	if err := r.store.Commit(ctx, []docstore.Op{docstore.Set(r.codec.collection, id, doc)}); err != nil {
		return model.WrapStorage("repair "+string(r.kind), err)
	}
	return nil
}

func sameItem(a, b *model.Item) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.Title != b.Title || !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}
	if (a.Content == nil) != (b.Content == nil) {
		return false
	}
	return a.Content == nil || *a.Content == *b.Content
}

func (r *docChildRepo[C, P]) DeleteChild(ctx context.Context, id string) error {
	pre, _, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	return withPairLock(ctx, r.store, pairKey(P(pre).ParentID()), func(ctx context.Context) error {
		cur, _, err := r.load(ctx, id)
		if err != nil {
			return err
		}
		ops := []docstore.Op{docstore.Delete(r.codec.collection, id)}
		// отсутствующий Item не мешает удалению дочернего документа
		if it, err := r.parent(ctx, P(cur).ParentID()); err == nil && it != nil {
			ops = append(ops, docstore.Delete(collItems, it.ID))
		} else if err != nil {
			r.logger.Warnw("parent item lookup failed during delete", "kind", r.kind, "id", id, "error", err)
		}
		return model.WrapStorage("delete "+string(r.kind), r.store.Commit(ctx, ops))
	})
}

func toDocQuery(q Query) (docstore.Query, error) {
	out := docstore.Query{Limit: q.Limit, Offset: q.Offset}
	for _, c := range q.Where {
		switch c.Op {
		case Eq, Gt, Gte, Lt, Lte:
		default:
			return out, fmt.Errorf("unsupported operator %q", c.Op)
		}
		out.Filters = append(out.Filters, docstore.Filter{Field: c.Field, Op: docstore.Operator(c.Op), Value: encodeValue(c.Value)})
	}
	for _, s := range q.OrderBy {
		out.Order = append(out.Order, docstore.Order{Field: s.Field, Desc: s.Desc})
	}
	out.Order = append(out.Order, docstore.Order{Field: "id"})
	return out, nil
}

func (r *docChildRepo[C, P]) QueryChildren(ctx context.Context, q Query) ([]C, error) {
	dq, err := toDocQuery(q)
	if err != nil {
		return nil, err
	}
	docs, err := r.store.Find(ctx, r.codec.collection, dq)
	if err != nil {
		return nil, model.WrapStorage("query "+string(r.kind), err)
	}
	out := make([]C, 0, len(docs))
	for _, d := range docs {
		c, err := r.decode(d)
		if err != nil {
			return nil, err
		}
		if err := r.hydrate(ctx, c); err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

type docItemRepo struct {
	store  docstore.Store
	logger *zap.SugaredLogger
}

func (r *docItemRepo) CreateItem(ctx context.Context, item *model.Item) error {
	stampNewItem(item, item.Kind)
	return model.WrapStorage("insert item", r.store.Commit(ctx, []docstore.Op{docstore.Set(collItems, item.ID, encodeItem(item))}))
}

func (r *docItemRepo) GetItem(ctx context.Context, id string) (*model.Item, error) {
	doc, err := r.store.Get(ctx, collItems, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, &model.NotFoundError{Entity: "item", ID: id}
	}
	if err != nil {
		return nil, model.WrapStorage("read item", err)
	}
	it, err := decodeItem(map[string]any(doc))
	if err != nil {
		return nil, model.WrapStorage("decode item", err)
	}
	return it, nil
}

func (r *docItemRepo) ListItems(ctx context.Context, q Query) ([]model.Item, error) {
	dq, err := toDocQuery(q)
	if err != nil {
		return nil, err
	}
	docs, err := r.store.Find(ctx, collItems, dq)
	if err != nil {
		return nil, model.WrapStorage("list items", err)
	}
	out := make([]model.Item, 0, len(docs))
	for _, d := range docs {
		it, err := decodeItem(map[string]any(d))
		if err != nil {
			return nil, model.WrapStorage("decode item", err)
		}
		out = append(out, *it)
	}
	return out, nil
}

// children возвращает дочерние документы, привязанные к Item.
func (r *docItemRepo) children(ctx context.Context, it *model.Item) (string, []docstore.Document, error) {
	coll := collectionFor(it.Kind)
	if coll == "" {
		return "", nil, nil
	}
	docs, err := r.store.Find(ctx, coll, docstore.Query{}.Where("item_id", docstore.Eq, it.ID))
	if err != nil {
		return "", nil, model.WrapStorage("find children", err)
	}
	return coll, docs, nil
}

// UpdateItem обновляет Item и вложенные копии во всех привязанных документах одним пакетом.
func (r *docItemRepo) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	var out *model.Item
	err := withPairLock(ctx, r.store, pairKey(id), func(ctx context.Context) error {
		cur, err := r.GetItem(ctx, id)
		if err != nil {
			return err
		}
		next := patch.Apply(*cur)
		next.UpdatedAt = model.NextStamp(cur.UpdatedAt, time.Now())

		ops := []docstore.Op{docstore.Set(collItems, id, encodeItem(&next))}
		coll, docs, err := r.children(ctx, cur)
		if err != nil {
			return err
		}
		for _, d := range docs {
			d["item"] = encodeItem(&next)
			ops = append(ops, docstore.Set(coll, str(d["id"]), d))
		}
		if err := r.store.Commit(ctx, ops); err != nil {
			return model.WrapStorage("update item", err)
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteItem удаляет Item и привязанные дочерние документы одним пакетом.
func (r *docItemRepo) DeleteItem(ctx context.Context, id string) error {
	cur, err := r.GetItem(ctx, id)
	if err != nil {
		return err
	}
	ops := []docstore.Op{docstore.Delete(collItems, id)}
	coll, docs, err := r.children(ctx, cur)
	if err != nil {
		return err
	}
	for _, d := range docs {
		ops = append(ops, docstore.Delete(coll, str(d["id"])))
	}
	return model.WrapStorage("delete item", r.store.Commit(ctx, ops))
}
