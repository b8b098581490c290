package cache

import "fmt"

// GenerateKeyWithParams builds a colon-separated cache key from a prefix and
// its parameters.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// BuildPattern turns a key prefix into a glob pattern for DeleteByPattern.
func BuildPattern(prefix string) string {
	return fmt.Sprintf("%s*", prefix)
}
