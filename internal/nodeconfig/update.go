package nodeconfig

import (
	"fmt"
	"strings"
)

// Change is one key/value assignment in an update batch.
type Change struct {
	Key   string
	Value string
}

// String returns the change in record file form.
func (c Change) String() string {
	return c.Key + ":" + c.Value
}

// ParseChange parses a textual key:value assignment as given on the command
// line or over the console. Only the pair shape is checked here; key and
// value validation happens against the field table when the change is
// applied.
func ParseChange(s string) (Change, error) {
	key, value, found := strings.Cut(s, ":")
	if !found {
		return Change{}, fmt.Errorf("invalid assignment %q: expected key:value", s)
	}
	return Change{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
	}, nil
}

// Update is an ordered batch of field assignments applied all-or-nothing.
// One rejected change rejects the whole batch, so a multi-field edit never
// leaves a record half-updated.
//
// Example usage:
//
//	update := nodeconfig.NewUpdate().
//	    Set(nodeconfig.KeyDeviceID, "2A").
//	    Set(nodeconfig.KeyRSF, "07")
//	if err := update.Apply(rec); err != nil {
//	    return err
//	}
type Update struct {
	changes []Change
}

// NewUpdate returns an empty update batch.
func NewUpdate() *Update {
	return &Update{}
}

// Set appends one assignment to the batch.
func (u *Update) Set(key, value string) *Update {
	u.changes = append(u.changes, Change{Key: key, Value: value})
	return u
}

// Add appends a parsed change to the batch.
func (u *Update) Add(c Change) *Update {
	u.changes = append(u.changes, c)
	return u
}

// Len returns the number of assignments in the batch.
func (u *Update) Len() int {
	return len(u.changes)
}

// Changes returns the assignments in application order.
func (u *Update) Changes() []Change {
	return u.changes
}

// Validate checks every assignment against a copy of base and returns all
// rejections. base may be nil to validate against a zero record.
func (u *Update) Validate(base *Record) []error {
	if base == nil {
		base = NewRecord()
	}
	scratch := base.Clone()

	var errs []error
	for _, c := range u.changes {
		if err := scratch.Set(c.Key, c.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Apply applies the batch to the record. All assignments are validated on a
// copy first; on any rejection the record is left untouched and the first
// error is returned.
func (u *Update) Apply(r *Record) error {
	scratch := r.Clone()
	for _, c := range u.changes {
		if err := scratch.Set(c.Key, c.Value); err != nil {
			return err
		}
	}
	*r = *scratch
	return nil
}
