package reviewer

// ReviewOption is a functional option for customizing review behavior.
type ReviewOption func(*reviewOptions)

// reviewOptions holds optional configuration for a review operation.
type reviewOptions struct {
	excludedRules []string
}

// WithExcludedRules skips the named rules in addition to the ones excluded
// by the configuration. Unknown names are ignored.
//
// Example:
//
//	result, err := r.Review(sql,
//	    WithExcludedRules("prefer-robust-stmts", "ban-char-field"))
func WithExcludedRules(names ...string) ReviewOption {
	return func(opts *reviewOptions) {
		opts.excludedRules = append(opts.excludedRules, names...)
	}
}
