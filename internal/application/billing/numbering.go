package billing

import (
	"fmt"
	"regexp"
	"strconv"
)

// numberSequence issues <prefix>-N invoice numbers.
type numberSequence struct {
	prefix string
	re     *regexp.Regexp
}

func newNumberSequence(prefix string) numberSequence {
	return numberSequence{
		prefix: prefix,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)$`),
	}
}

// next increments the numeric suffix of last. A missing or foreign last
// number restarts the sequence at <prefix>-1.
func (s numberSequence) next(last string) string {
	m := s.re.FindStringSubmatch(last)
	if m == nil {
		return s.first()
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return s.first()
	}
	return fmt.Sprintf("%s-%d", s.prefix, n+1)
}

func (s numberSequence) first() string {
	return s.prefix + "-1"
}
