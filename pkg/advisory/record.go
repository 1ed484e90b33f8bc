package advisory

// Field names of a vendor advisory row, in the order the metadata files carry them.
const (
	OIDField                       = "OID"
	TitleField                     = "TITLE"
	CreationDateField              = "CREATION_DATE"
	LastModificationField          = "LAST_MODIFICATION"
	SourcePackagesField            = "SOURCE_PKGS"
	AdvisoryIDField                = "ADVISORY_ID"
	CVSSBaseVectorField            = "CVSS_BASE_VECTOR"
	CVSSBaseField                  = "CVSS_BASE"
	AdvisoryXrefField              = "ADVISORY_XREF"
	DescriptionField               = "DESCRIPTION"
	InsightField                   = "INSIGHT"
	AffectedField                  = "AFFECTED"
	CVEListField                   = "CVE_LIST"
	BinaryPackagesForReleasesField = "BINARY_PACKAGES_FOR_RELEASES"
	XrefsField                     = "XREFS"
)

// ExpectedFieldNames returns the required header of a metadata file. A fresh slice is returned on every call.
func ExpectedFieldNames() []string {
	return []string{
		OIDField,
		TitleField,
		CreationDateField,
		LastModificationField,
		SourcePackagesField,
		AdvisoryIDField,
		CVSSBaseVectorField,
		CVSSBaseField,
		AdvisoryXrefField,
		DescriptionField,
		InsightField,
		AffectedField,
		CVEListField,
		BinaryPackagesForReleasesField,
		XrefsField,
	}
}

// Record is one row of vendor data: field names in the order they were set, mapped to raw values.
// A name that was never set (or was unset) is absent, which is distinct from an empty value.
type Record struct {
	names  []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{
		values: make(map[string]string),
	}
}

// NewRecordFromRow pairs a header with a CSV row. Columns missing from a short row are left absent.
func NewRecordFromRow(header, row []string) *Record {
	r := NewRecord()
	for idx, name := range header {
		if idx >= len(row) {
			break
		}
		r.Set(name, row[idx])
	}
	return r
}

func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

func (r *Record) Unset(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for idx, n := range r.names {
		if n == name {
			r.names = append(r.names[:idx], r.names[idx+1:]...)
			break
		}
	}
}

func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the raw value for name, or an empty string when absent.
func (r *Record) Value(name string) string {
	return r.values[name]
}

// Names returns the set field names in insertion order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Record) Len() int {
	return len(r.names)
}
