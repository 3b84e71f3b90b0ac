package engine

import (
	"sort"
	"strings"
)

// DefaultTreeLearner is used when the caller's configuration omits the
// tree learner or names an unrecognized one.
const DefaultTreeLearner = "data"

var treeLearners = map[string]struct{}{
	"data":             {},
	"data_parallel":    {},
	"feature":          {},
	"feature_parallel": {},
	"voting":           {},
	"voting_parallel":  {},
}

// ValidTreeLearner reports whether s names a recognized distributed tree
// learner, case-insensitively. Recognized values are forwarded unchanged.
func ValidTreeLearner(s string) bool {
	_, ok := treeLearners[strings.ToLower(s)]
	return ok
}

func TreeLearnerNames() []string {
	names := make([]string, 0, len(treeLearners))
	for name := range treeLearners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
