package util

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// MinG returns the smaller of a and b.
func MinG[T int | int32 | int64 | float64](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// MaxG returns the larger of a and b.
func MaxG[T int | int32 | int64 | float64](a, b T) T {
	if a > b {
		return a
	}
	return b
}
