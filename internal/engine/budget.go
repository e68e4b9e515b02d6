package engine

// DefaultMetadataLimit is the ceiling on the total character length of all
// metadata keys and values staged for one encode. 30,000 stays under the
// per-object developer-metadata limit of the spreadsheet backends this
// module targets.
const DefaultMetadataLimit = 30000

// MetadataEntry is one staged key/value pair of grid metadata.
type MetadataEntry struct {
	Key   string
	Value string
}

// MetadataBudget enforces the metadata size ceiling. The zero value uses
// DefaultMetadataLimit.
type MetadataBudget struct {
	Limit int
}

func (b MetadataBudget) limit() int {
	if b.Limit > 0 {
		return b.Limit
	}
	return DefaultMetadataLimit
}

// Fits reports whether the staged entries fit under the ceiling.
func (b MetadataBudget) Fits(entries []MetadataEntry) bool {
	return b.Size(entries) <= b.limit()
}

// Size returns the total character length of all keys and values.
func (b MetadataBudget) Size(entries []MetadataEntry) int {
	total := 0
	for _, e := range entries {
		total += len(e.Key) + len(e.Value)
	}
	return total
}
