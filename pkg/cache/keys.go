package cache

import "fmt"

// Keyer derives cache keys.
type Keyer interface {
	// SourceKey identifies a store snapshot loaded from a remote source.
	SourceKey(kind, location string) string
	// TableKey identifies a computed table over the store with the given
	// content hash.
	TableKey(storeHash, table string, opts TableKeyOpts) string
	// ArtifactKey identifies a rendering of the table with the given
	// content hash.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// TableKeyOpts are the query inputs that change a computed table.
type TableKeyOpts struct {
	Argument   string   `json:"argument"`
	Where      []string `json:"where,omitempty"`
	Order      []string `json:"order,omitempty"`
	CheckOrder bool     `json:"check_order,omitempty"`
}

// ArtifactKeyOpts are the render inputs that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) SourceKey(kind, location string) string {
	return fmt.Sprintf("source:%s:%s", kind, Hash([]byte(location)))
}

func (DefaultKeyer) TableKey(storeHash, table string, opts TableKeyOpts) string {
	return hashKey("table:"+table, storeHash, opts)
}

func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, tableHash, opts)
}

var _ Keyer = DefaultKeyer{}
