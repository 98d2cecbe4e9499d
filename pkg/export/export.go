// Package export renders the registry into durable formats: a
// hierarchical document (JSON or YAML), flat delimited tables, and a
// relational SQLite database that can be read back into a registry.
package export

import (
	"github.com/mamedex/mamedex/pkg/errors"
	"github.com/mamedex/mamedex/pkg/registry"
)

// checkRegistry rejects exports of an empty registry.
func checkRegistry(reg *registry.Registry) error {
	if reg == nil || reg.Machines().Len() == 0 {
		return errors.ErrNoData
	}
	return nil
}
