package configs

import "iter"

// All decodes every value at path, panicking on failures.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for value, err := range loader.IterCueValues(path) {
			if err != nil {
				panic(err)
			}
			var v T
			if err := value.Decode(&v); err != nil {
				panic(&LoadError{
					Path: path,
					Err:  err,
				})
			}
			if !yield(v) {
				break
			}
		}
	}
}
