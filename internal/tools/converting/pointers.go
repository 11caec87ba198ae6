package converting

// Unwrap returns the zero value for a nil pointer.
func Unwrap[T any](x *T) (r T) {
	if x != nil {
		r = *x
	}

	return
}

func PointerToValue[T any](v T) *T {
	return &v
}

// MapPointer applies convert to a non-nil pointer and keeps nil as nil.
func MapPointer[T any, R any](x *T, convert func(T) R) *R {
	if x == nil {
		return nil
	}

	r := convert(*x)
	return &r
}
