package memo

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const idPrefix = "MEMO_ID"

func handleSlice(v reflect.Value) string {
	// If the value is a pointer to a slice, get the actual slice
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Len() < 1 {
		return "empty"
	}

	var sliceStrings []string
	for i := 0; i < v.Len(); i++ {
		sliceStrings = append(sliceStrings, fmt.Sprintf("%v", v.Index(i).Interface()))
	}

	return strings.Join(sliceStrings, ",")
}

// handleTime turns a time.Time into an epoch string.
func handleTime(v reflect.Value) string {
	if timestamp, ok := v.Interface().(time.Time); ok {
		if !timestamp.IsZero() {
			return strconv.FormatInt(timestamp.Unix(), 10)
		}
	}
	return "empty-time"
}

func (c *Cache[T]) handleStruct(permutationStruct interface{}) string {
	str := ""
	v := reflect.ValueOf(permutationStruct)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("permutationStruct must be a struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		// Skip unexported fields
		if !field.CanInterface() {
			c.log.Warn(
				"memo: permutationStruct contains an unexported field which won't be part of the cache key",
				zap.String("field", v.Type().Field(i).Name),
			)
			continue
		}

		if i > 0 {
			str += "-"
		}

		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				str += "nil"
				continue
			}
			// If it's not nil we'll dereference the pointer to handle its value.
			field = field.Elem()
		}

		//nolint:exhaustive // We don't need special logic for every kind.
		switch field.Kind() {
		case reflect.Slice:
			if field.IsNil() {
				str += "nil"
			} else {
				str += handleSlice(field)
			}
		case reflect.Struct:
			// Only handle time.Time structs.
			if field.Type() == reflect.TypeOf(time.Time{}) {
				str += handleTime(field)
			}
			continue
		// All of these types makes for bad keys.
		case reflect.Map, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
			continue
		default:
			str += fmt.Sprintf("%v", field.Interface())
		}
	}
	return str
}

// PermutatedKey takes a prefix, and a struct where the fields are
// concatenated in order to make a unique cache key. Passing anything
// but a struct for "permutationStruct" will result in a panic.
//
// The cache will only use the EXPORTED fields of the struct to construct the key.
// The permutation struct should be FLAT, with no nested structs. The fields can
// be any of the basic types, as well as slices and time.Time values.
func (c *Cache[T]) PermutatedKey(prefix string, permutationStruct interface{}) string {
	return prefix + "-" + c.handleStruct(permutationStruct)
}

// BatchKeyFn provides a function that can be used in conjunction with
// "GetOrComputeBatch". It takes in a prefix, and returns a function
// that will append an id suffix for each item.
func (c *Cache[T]) BatchKeyFn(prefix string) KeyFn {
	return func(id string) string {
		return fmt.Sprintf("%s-%s-%s", prefix, idPrefix, id)
	}
}

// PermutatedBatchKeyFn provides a function that can be used in
// conjunction with GetOrComputeBatch. It takes a prefix, and a struct
// where the fields are concatenated with the id in order to make a
// unique cache key. Passing anything but a struct for
// "permutationStruct" will result in a panic.
//
// The cache will only use the EXPORTED fields of the struct to construct the key.
// The permutation struct should be FLAT, with no nested structs. The fields can
// be any of the basic types, as well as slices and time.Time values.
func (c *Cache[T]) PermutatedBatchKeyFn(prefix string, permutationStruct interface{}) KeyFn {
	return func(id string) string {
		key := c.PermutatedKey(prefix, permutationStruct)
		return fmt.Sprintf("%s-%s-%s", key, idPrefix, id)
	}
}
