package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrDecompositionUnparseable is wrapped by Decompose when the compound
// shape is present but its parts cannot be used.
var ErrDecompositionUnparseable = errors.New("compound query cannot be parsed")

// Case-sensitive: "Multiplied by" is not recognised.
var (
	compoundPattern = regexp.MustCompile(`([\p{L}\p{N}\p{M}_\s]+)( multiplied by\s*| \* )(\d+)`)
	numericSubject  = regexp.MustCompile(`^[0-9\s]+$`)
)

// CompoundMatch is a query of the form "<subject> multiplied by <n>" or
// "<subject> * <n>".
type CompoundMatch struct {
	Subject    string
	Multiplier int64
	Operator   string
}

// Expression joins the resolved subject with the multiplier.
func (m *CompoundMatch) Expression(intermediate string) string {
	return fmt.Sprintf("%s * %d", intermediate, m.Multiplier)
}

// Decompose looks for the first compound shape in query. It returns nil, nil
// when there is none, or when the subject is only a number ("2 * 3"), which
// is ordinary arithmetic.
func Decompose(query string) (*CompoundMatch, error) {
	m := compoundPattern.FindStringSubmatch(query)
	if m == nil {
		return nil, nil
	}

	subject := strings.TrimSpace(m[1])
	if subject == "" || numericSubject.MatchString(subject) {
		return nil, nil
	}

	n, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: multiplier %q: %v", ErrDecompositionUnparseable, m[3], err)
	}

	return &CompoundMatch{
		Subject:    subject,
		Multiplier: n,
		Operator:   strings.TrimSpace(m[2]),
	}, nil
}
