package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// indexList is a pflag.Value holding changeset indices. It accepts repeated
// flags, comma-separated lists and ranges such as "0,2-4".
type indexList []int

var _ pflag.Value = (*indexList)(nil)

func (l *indexList) String() string {
	parts := make([]string, len(*l))
	for i, n := range *l {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (l *indexList) Type() string { return "indices" }

func (l *indexList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := parseIndex(part)
			if err != nil {
				return err
			}
			*l = append(*l, n)
			continue
		}
		from, err := parseIndex(lo)
		if err != nil {
			return err
		}
		to, err := parseIndex(hi)
		if err != nil {
			return err
		}
		if to < from {
			return fmt.Errorf("range %q runs backwards", part)
		}
		for n := from; n <= to; n++ {
			*l = append(*l, n)
		}
	}
	return nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}
