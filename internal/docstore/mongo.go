package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo хранит документы в одноимённых коллекциях, _id совпадает с id документа.
// Commit выполняется в транзакции сессии, поэтому нужен replica set.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*Mongo)(nil)

// NewMongo подключается к серверу и проверяет соединение.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

func (m *Mongo) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s/%s: %w", collection, id, err)
	}
	return fromBSON(raw), nil
}

// Find передаёт фильтры серверу; сортировка и срез выполняются в процессе,
// чтобы порядок nil-значений совпадал с остальными драйверами.
func (m *Mongo) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	cur, err := m.db.Collection(collection).Find(ctx, filterToBSON(q.Filters))
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", collection, err)
	}
	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(raws))
	for _, r := range raws {
		docs = append(docs, fromBSON(r))
	}
	return Apply(docs, q), nil
}

func (m *Mongo) Commit(ctx context.Context, ops []Op) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			coll := m.db.Collection(op.Collection)
			switch op.Kind {
			case OpSet:
				doc := bson.M{}
				for k, v := range op.Doc {
					doc[k] = v
				}
				doc["_id"] = op.ID
				if _, err := coll.ReplaceOne(sc, bson.M{"_id": op.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
					return nil, err
				}
			case OpDelete:
				if _, err := coll.DeleteOne(sc, bson.M{"_id": op.ID}); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("mongo commit: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var mongoOps = map[Operator]string{Eq: "$eq", Gt: "$gt", Gte: "$gte", Lt: "$lt", Lte: "$lte"}

func filterToBSON(filters []Filter) bson.M {
	out := bson.M{}
	for _, f := range filters {
		op, ok := mongoOps[f.Op]
		if !ok {
			continue
		}
		cond, ok := out[f.Field].(bson.M)
		if !ok {
			cond = bson.M{}
			out[f.Field] = cond
		}
		cond[op] = f.Value
	}
	return out
}

// fromBSON приводит декодированный документ к канонической форме и убирает _id.
func fromBSON(raw bson.M) Document {
	out := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		out[k] = normalizeBSON(v)
	}
	return out
}

func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalizeBSON(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalizeBSON(val)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeBSON(t[i])
		}
		return out
	case int32:
		return int64(t)
	case primitive.Null:
		return nil
	}
	return v
}
