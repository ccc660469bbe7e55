package utils

import "github.com/sony/gobreaker"

// ExecuteWithBreaker is a typed wrapper over gobreaker's interface{}-based
// Execute.
func ExecuteWithBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		return *new(T), err
	}

	return res.(T), nil
}
