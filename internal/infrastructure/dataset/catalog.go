package dataset

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gmseabra/MolDB-Screening/pkg/errors"
)

// CatalogEntry is one vendor listing for a compound.
type CatalogEntry struct {
	CompoundID string
	Vendor     string
	CatalogID  string
}

// Catalog maps compound IDs to their vendor listings, loaded from the
// supplier spreadsheets that accompany the screening libraries.
type Catalog struct {
	entries map[string][]CatalogEntry
}

// LoadCatalog reads vendor listings from an xlsx workbook.  Every sheet is
// scanned; each must carry a header row with at least a compound ID column
// followed by vendor and catalog-number columns.  Header names are matched
// case-insensitively against "id", "vendor" and "catalog".
func LoadCatalog(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataRead, "opening catalog workbook")
	}
	defer f.Close()

	c := &Catalog{entries: make(map[string][]CatalogEntry)}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeDataRead, "reading catalog sheet %q", sheet)
		}
		if err := c.addSheet(sheet, rows); err != nil {
			return nil, err
		}
	}
	if len(c.entries) == 0 {
		return nil, errors.DataFormat("catalog workbook contains no listings")
	}
	return c, nil
}

func (c *Catalog) addSheet(sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	idCol, vendorCol, catCol := -1, -1, -1
	for i, h := range rows[0] {
		switch {
		case containsFold(h, "id") && idCol < 0 && !containsFold(h, "catalog"):
			idCol = i
		case containsFold(h, "vendor") || containsFold(h, "supplier"):
			vendorCol = i
		case containsFold(h, "catalog"):
			catCol = i
		}
	}
	if idCol < 0 || vendorCol < 0 {
		return errors.DataFormat("catalog sheet is missing ID or vendor columns").WithDetail(sheet)
	}

	for _, row := range rows[1:] {
		if idCol >= len(row) || vendorCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		vendor := strings.TrimSpace(row[vendorCol])
		if id == "" || vendor == "" {
			continue
		}
		entry := CatalogEntry{CompoundID: id, Vendor: vendor}
		if catCol >= 0 && catCol < len(row) {
			entry.CatalogID = strings.TrimSpace(row[catCol])
		}
		c.entries[id] = append(c.entries[id], entry)
	}
	return nil
}

// Lookup returns the vendor listings for a compound, nil when unlisted.
func (c *Catalog) Lookup(compoundID string) []CatalogEntry {
	return c.entries[compoundID]
}

// Vendors returns the distinct vendor names for a compound, in listing order.
func (c *Catalog) Vendors(compoundID string) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range c.entries[compoundID] {
		if !seen[e.Vendor] {
			seen[e.Vendor] = true
			out = append(out, e.Vendor)
		}
	}
	return out
}

// Len returns the number of distinct listed compounds.
func (c *Catalog) Len() int { return len(c.entries) }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
