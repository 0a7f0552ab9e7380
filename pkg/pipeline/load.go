package pipeline

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracelayout/pkg/cache"
	"github.com/matzehuels/tracelayout/pkg/errors"
	tlio "github.com/matzehuels/tracelayout/pkg/io"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/source/mongo"
)

// DetectSource guesses the source kind of input. data is the file content
// and is ignored for MongoDB URIs.
func DetectSource(input string, data []byte) string {
	if strings.HasPrefix(input, "mongodb://") || strings.HasPrefix(input, "mongodb+srv://") {
		return SourceMongo
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		return SourceChrome
	}
	// Look for the top-level trace key near the start only.
	head := trimmed[:min(len(trimmed), 4096)]
	if bytes.Contains(head, []byte(`"traceEvents"`)) {
		return SourceChrome
	}
	return SourceJSON
}

// ReadFile loads a local store without caching.
func ReadFile(path, kind string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Decode(path, kind, data)
}

// Decode builds a dataset from file content.
func Decode(name, kind string, data []byte) (*Dataset, error) {
	if kind == SourceAuto {
		kind = DetectSource(name, data)
	}

	var (
		st  *slice.Table
		err error
	)
	switch kind {
	case SourceJSON:
		st, err = tlio.ReadJSON(bytes.NewReader(data), nil)
	case SourceChrome:
		st, err = tlio.ReadChromeTrace(bytes.NewReader(data), nil)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "source %q cannot be decoded from a file", kind)
	}
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Source: name,
		Slices: st,
		Hash:   cache.Hash(append([]byte(kind+"\x00"), data...)),
	}, nil
}

// loadMongo reads a MongoDB source. The store is cached in slices JSON
// form under the source key.
func (r *Runner) loadMongo(ctx context.Context, opts Options) (*Dataset, bool, error) {
	target, err := mongo.ParseURI(opts.Input)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.SourceKey(SourceMongo, opts.Input)

	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, "source", key); hit {
			if ds, err := Decode(target.String(), SourceJSON, data); err == nil {
				return ds, true, nil
			}
		}
	}

	loader, err := mongo.NewLoader(opts.Input, opts.Logger)
	if err != nil {
		return nil, false, err
	}
	st, err := loader.Load(ctx, nil, mongo.LoadOptions{})
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := tlio.WriteJSON(st, &buf); err != nil {
		return nil, false, err
	}
	data := buf.Bytes()
	r.cacheSet(ctx, "source", key, data, cache.TTLSource)

	return &Dataset{
		Source: loader.Target().String(),
		Slices: st,
		Hash:   cache.Hash(append([]byte(SourceJSON+"\x00"), data...)),
	}, false, nil
}

// sourceLabel names an input for logs and hooks. MongoDB URIs are
// redacted.
func sourceLabel(kind, input string) string {
	if kind != SourceMongo {
		return input
	}
	t, err := mongo.ParseURI(input)
	if err != nil {
		return "mongodb"
	}
	return t.String()
}

func logDataset(logger *log.Logger, ds *Dataset) {
	logger.Info("loaded slices",
		"source", ds.Source,
		"slices", ds.Slices.RowCount(),
		"tracks", len(ds.Slices.Tracks()))
}
