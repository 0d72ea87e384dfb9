package model

// DefaultCatalog is the list of grants offered for selection, in display order.
var DefaultCatalog = []string{
	"FY 24 Matching Grant",
	"ASA #3",
	"ASA #4",
	"REA #1",
	"REA #2",
	"PC Housing HAF Omaha",
	"PC Housing HAF Lincoln",
	"FY 25 RSS Grant",
	"UHP #1",
	"UHP #4",
	"UHP #5",
	"REA #3 Omaha",
	"REA #3 Lincoln",
	"Non-Grant",
}

// Available returns the catalog entries not already present in selected.
func Available(catalog []string, selected []GrantRequest) []string {
	taken := make(map[string]struct{}, len(selected))
	for _, r := range selected {
		taken[r.Name] = struct{}{}
	}
	var out []string
	for _, name := range catalog {
		if _, ok := taken[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}
