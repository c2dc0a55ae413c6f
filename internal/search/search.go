// Package search implements the free-text part filter: a linear scan with
// substring matching, acceptable because the working set stays small.
package search

import (
	"strconv"
	"strings"
	"time"

	"servis32/internal/model"
)

// Filter returns the parts whose concatenated field text contains every
// whitespace-separated term of the query (case-insensitive AND; no ranking).
// Input order is preserved. An empty or whitespace-only query matches nothing.
func Filter(parts []model.Part, query string) []model.Part {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []model.Part{}
	}

	matched := []model.Part{}
	for _, p := range parts {
		blob := blobFor(p)
		ok := true
		for _, term := range terms {
			if !strings.Contains(blob, term) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched
}

// blobFor concatenates every field of a part, identifier and timestamp
// included, into one lowercase string.
func blobFor(p model.Part) string {
	var b strings.Builder
	write := func(s string) {
		b.WriteString(s)
		b.WriteByte(' ')
	}

	write(strconv.FormatInt(p.ID, 10))
	write(p.Name)
	write(p.Brand)
	write(p.Model)
	write(p.Category)
	write(p.Fuel)
	write(p.Engine)
	write(p.PartNumber)
	write(strconv.Itoa(p.Quantity))
	if p.Price != nil {
		write(strconv.FormatFloat(*p.Price, 'f', -1, 64))
	}
	write(p.Note)
	write(p.Location)
	for _, img := range p.Images {
		write(img)
	}
	write(p.CreatedAt.Format(time.DateTime))

	return strings.ToLower(b.String())
}
