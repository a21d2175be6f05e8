package errors

// WrapOpComponent provides a convenience helper to wrap errors with consistent
// Op and Component propagation. It avoids repetition when creating structured
// errors throughout the codebase. If err is nil, returns nil.
func WrapOpComponent(err error, op Operation, component string) error {
	if err == nil {
		return nil
	}
	return NewWithComponent(op, component, err)
}

// WrapTransaction wraps an individual save/load/delete rejection with the
// transaction-failure code. If err is nil, returns nil.
func WrapTransaction(err error, op Operation, component string) error {
	if err == nil {
		return nil
	}
	return NewTransactionError(op, component, err)
}
