package sink

import (
	"encoding/json"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// RenderJSON returns the indented JSON encoding of t. The result decodes
// with [table.DecodeJSON].
func RenderJSON(t *table.Table) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode table %s", t.Name())
	}
	return append(data, '\n'), nil
}
