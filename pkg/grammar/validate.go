package grammar

import (
	"errors"
	"fmt"

	"github.com/entimark/entimark/pkg/charpolicy"
)

// Validate checks that every entry has an id and at least one name that
// keeps a significant character under policy. All problems are reported.
func Validate(entries []Entry, policy charpolicy.Policy) error {
	var errs []error
	for i, e := range entries {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("entry %d: entity id is required", i+1))
			continue
		}
		if len(e.Names) == 0 {
			errs = append(errs, fmt.Errorf("entity %s: at least one name is required", e.ID))
			continue
		}
		for _, name := range e.Names {
			if policy.Key(name) == "" {
				errs = append(errs, fmt.Errorf("entity %s: name %q has no significant characters", e.ID, name))
			}
		}
	}
	return errors.Join(errs...)
}
