package competition

import (
	"sort"
	"strings"
)

// DefaultCodes is the preferred selection when the token can access them.
var DefaultCodes = []string{"PL", "PD", "BL1", "SA", "FL1", "CL", "BSA", "MLS"}

// Summary describes one competition the API token can access.
type Summary struct {
	Code     string
	Name     string
	AreaName string
	Type     string
}

// Clean drops summaries without code or name and orders the rest by area
// then name.
func Clean(items []Summary) []Summary {
	out := make([]Summary, 0, len(items))
	for _, item := range items {
		item.Code = strings.TrimSpace(item.Code)
		item.Name = strings.TrimSpace(item.Name)
		item.AreaName = strings.TrimSpace(item.AreaName)
		item.Type = strings.TrimSpace(item.Type)
		if item.Code == "" || item.Name == "" {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AreaName != out[j].AreaName {
			return out[i].AreaName < out[j].AreaName
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Codes lists the competition codes in order.
func Codes(items []Summary) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}

// SelectDefaults keeps the preferred codes that are available, in preferred
// order.
func SelectDefaults(preferred []string, available []Summary) []string {
	have := make(map[string]struct{}, len(available))
	for _, item := range available {
		have[item.Code] = struct{}{}
	}
	out := make([]string, 0, len(preferred))
	for _, code := range preferred {
		if _, ok := have[code]; ok {
			out = append(out, code)
		}
	}
	return out
}
