package listquery

import (
	"sort"

	"github.com/phrazzld/taskr-api/internal/domain"
)

// ParseBool treats "true" as true and any other value as false.
func ParseBool(raw string) (any, error) {
	return raw == "true", nil
}

// ParseAccountStatus accepts only members of the account status enumeration.
func ParseAccountStatus(raw string) (any, error) {
	status, err := domain.ParseAccountStatus(raw)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
