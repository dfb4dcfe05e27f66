package filter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"jobfeed/internal/domain"
)

const listingRule = 40

// WriteListing prints one block per record with its company, position,
// location and url, each block closed by a dashed rule. Missing or
// non-string fields print as "n/a".
func WriteListing(w io.Writer, recs []domain.Record) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", listingRule)
	for _, r := range recs {
		fmt.Fprintf(bw, "Company: %s\n", field(r, "company"))
		fmt.Fprintf(bw, "Position: %s\n", field(r, "position"))
		fmt.Fprintf(bw, "Location: %s\n", field(r, "location"))
		fmt.Fprintf(bw, "URL: %s\n", field(r, "url"))
		fmt.Fprintln(bw, rule)
	}
	return bw.Flush()
}

func field(r domain.Record, key string) string {
	if v, ok := r.String(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "n/a"
}
