package common

import "strings"

type Set[T comparable] map[T]struct{}

func (s Set[T]) Contains(value T) bool {
	_, ok := s[value]
	return ok
}

// CodeSet is a Set of upper-cased IATA style codes.
type CodeSet = Set[string]

func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, code := range codes {
		s[strings.ToUpper(code)] = struct{}{}
	}

	return s
}
