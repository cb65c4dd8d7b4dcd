// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package harvest

import (
	"fmt"

	"cloudeng.io/cmdutil/flags"
	"cloudeng.io/webapi/clients/assembly/records"
)

// EntitiesFromTable returns the entities in a table, using idColumn
// for each entity's ID and, if present, nameColumn for its name. The
// idColumn is required.
func EntitiesFromTable(tbl records.Table, idColumn, nameColumn string) ([]Entity, error) {
	if err := tbl.Require(idColumn); err != nil {
		return nil, err
	}
	hasName := tbl.Has(nameColumn)
	entities := make([]Entity, 0, len(tbl.Records))
	for _, r := range tbl.Records {
		e := Entity{ID: r.String(idColumn)}
		if hasName {
			e.Name = r.String(nameColumn)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// LoadEntities reads the entities from the named CSV file.
func LoadEntities(filename, idColumn, nameColumn string) ([]Entity, error) {
	tbl, err := records.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	entities, err := EntitiesFromTable(tbl, idColumn, nameColumn)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return entities, nil
}

// Select returns the entities in the specified range, which is 1-based
// and inclusive. An unset range selects all entities.
func Select(entities []Entity, r flags.IntRangeSpec) []Entity {
	if r.From == 0 && r.To == 0 && !r.ExtendsToEnd {
		return entities
	}
	from := max(r.From, 1) - 1
	to := len(entities)
	if !r.ExtendsToEnd && r.To > 0 {
		to = min(r.To, len(entities))
	}
	if from >= to {
		return nil
	}
	return entities[from:to]
}
