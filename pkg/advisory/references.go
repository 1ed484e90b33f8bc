package advisory

import (
	"errors"
	"fmt"
	"strings"
)

const referencePrefix = "URL:"

var ErrMalformedReferences = errors.New("malformed reference list")

// FormatReferences joins the primary advisory URL and the secondary references into a single
// reference string: "URL:<primary>, URL:<secondary-1>, ...". Order is preserved and nothing is deduplicated.
func FormatReferences(primary string, secondary []string) string {
	refs := make([]string, 0, len(secondary)+1)
	refs = append(refs, referencePrefix+primary)
	for _, s := range secondary {
		refs = append(refs, referencePrefix+s)
	}
	return strings.Join(refs, ", ")
}

// SecondaryReferences parses the XREFS field of the record.
func SecondaryReferences(r *Record) ([]string, error) {
	refs, err := ParseList(r.Value(XrefsField))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReferences, err)
	}
	return refs, nil
}
