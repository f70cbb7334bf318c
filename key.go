package cache

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NullToken substitutes absent optional filter parameters in cache keys.
const NullToken = "null"

// Key builds a deterministic cache key from a logical query.
//
// Parts are rendered in fixed positions joined by "_", nil values (including
// typed nil pointers) render as NullToken and non-nil pointers as their
// pointee. Two logically identical queries always produce the same key.
func Key(prefix string, parts ...interface{}) string {
	b := strings.Builder{}
	b.WriteString(prefix)

	for _, part := range parts {
		b.WriteString("_")
		b.WriteString(renderPart(part))
	}

	return b.String()
}

// KeyHash builds a cache key with parts folded through a hash.
//
// Useful when filter values are long or contain the separator, the key stays
// short and collision-free for practical purposes while remaining
// deterministic.
func KeyHash(prefix string, parts ...interface{}) string {
	b := strings.Builder{}

	for _, part := range parts {
		b.WriteString(renderPart(part))
		b.WriteString("_")
	}

	return prefix + "_" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

func renderPart(part interface{}) string {
	if part == nil {
		return NullToken
	}

	v := reflect.ValueOf(part)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return NullToken
		}

		part = v.Elem().Interface()
	}

	return fmt.Sprint(part)
}
