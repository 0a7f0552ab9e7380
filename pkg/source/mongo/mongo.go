// Package mongo loads slice stores from a MongoDB collection.
//
// Each document holds one slice with the fields of [io.Record]:
//
//	{ts: 0, dur: 4, depth: 0, track_id: 1, name: "main", stack_id: 1}
//
// Documents are read sorted by (ts, depth), which satisfies the store's
// per-track ordering precondition. An index on {ts: 1, depth: 1} keeps the
// sort cheap.
//
// The source is addressed with a standard connection string whose path is
// the database; the collection comes from the "collection" query parameter
// and defaults to "slices":
//
//	mongodb://localhost:27017/traces?collection=slices
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/tracelayout/pkg/cache"
	"github.com/matzehuels/tracelayout/pkg/errors"
	tlio "github.com/matzehuels/tracelayout/pkg/io"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/strpool"
)

// DefaultCollection is used when the URI names none.
const DefaultCollection = "slices"

// Target is a parsed source URI.
type Target struct {
	// URI is the connection string without the collection parameter.
	URI        string
	Database   string
	Collection string
}

// ParseURI splits a source URI into connection string, database and
// collection.
func ParseURI(uri string) (Target, error) {
	if err := errors.ValidateMongoURI(uri); err != nil {
		return Target{}, err
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Target{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse mongodb URI")
	}

	db := strings.Trim(u.Path, "/")
	if db == "" {
		return Target{}, errors.New(errors.ErrCodeInvalidInput, "mongodb URI %s names no database", u.Redacted())
	}
	q := u.Query()
	coll := q.Get("collection")
	if coll == "" {
		coll = DefaultCollection
	}
	q.Del("collection")
	u.RawQuery = q.Encode()

	return Target{URI: u.String(), Database: db, Collection: coll}, nil
}

// LoadOptions narrow a load.
type LoadOptions struct {
	// Tracks limits the load to these tracks. Empty loads all.
	Tracks []slice.TrackID
	// Timeout bounds connect plus read. Zero means 30s.
	Timeout time.Duration
}

// Loader reads slices from one collection.
type Loader struct {
	target Target
	logger *log.Logger
}

// NewLoader returns a loader for uri.
func NewLoader(uri string, logger *log.Logger) (*Loader, error) {
	t, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{target: t, logger: logger}, nil
}

// Target returns the parsed source.
func (l *Loader) Target() Target { return l.target }

// Load connects, reads the collection into a new store and disconnects.
func (l *Loader) Load(ctx context.Context, pool *strpool.Pool, opts LoadOptions) (*slice.Table, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := l.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			l.logger.Warn("mongodb disconnect failed", "err", err)
		}
	}()

	coll := client.Database(l.target.Database).Collection(l.target.Collection)
	findOpts := options.Find().SetSort(bson.D{{Key: "ts", Value: 1}, {Key: "depth", Value: 1}})
	cur, err := coll.Find(ctx, Filter(opts.Tracks), findOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s.%s", l.target.Database, l.target.Collection)
	}
	defer cur.Close(ctx)

	t := slice.NewTable(pool)
	for cur.Next(ctx) {
		var rec tlio.Record
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode slice %d", t.RowCount())
		}
		if err := insert(t, rec); err != nil {
			return nil, err
		}
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s.%s", l.target.Database, l.target.Collection)
	}

	l.logger.Debug("loaded slices from mongodb",
		"database", l.target.Database,
		"collection", l.target.Collection,
		"rows", t.RowCount())
	return t, nil
}

func (l *Loader) connect(ctx context.Context) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(l.target.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "mongodb client")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "connect to mongodb")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	return client, nil
}

// Filter returns the query selecting the given tracks, or all documents
// when tracks is empty.
func Filter(tracks []slice.TrackID) bson.D {
	if len(tracks) == 0 {
		return bson.D{}
	}
	ids := make(bson.A, len(tracks))
	for i, id := range tracks {
		ids[i] = int64(id)
	}
	return bson.D{{Key: "track_id", Value: bson.D{{Key: "$in", Value: ids}}}}
}

func insert(t *slice.Table, rec tlio.Record) error {
	if rec.Dur < 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "slice %d (%s): negative dur %d", t.RowCount(), rec.Name, rec.Dur)
	}
	t.Insert(rec.Row(t.Pool()))
	return nil
}

// String implements fmt.Stringer with credentials redacted.
func (t Target) String() string {
	u, err := url.Parse(t.URI)
	if err != nil {
		return fmt.Sprintf("%s.%s", t.Database, t.Collection)
	}
	return fmt.Sprintf("%s (%s.%s)", u.Redacted(), t.Database, t.Collection)
}
