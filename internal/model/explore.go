package model

import "sort"

type Company struct {
	CompanyName  string
	TickerSymbol string
	Information  string
}

// Catalog maps a category name to its companies.
type Catalog map[string][]Company

func (c Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Catalog) FindCompany(ticker string) (Company, bool) {
	for _, name := range c.CategoryNames() {
		for _, company := range c[name] {
			if company.TickerSymbol == ticker {
				return company, true
			}
		}
	}
	return Company{}, false
}
