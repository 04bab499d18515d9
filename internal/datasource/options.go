package datasource

// Option configures a load.
type Option func(*options)

type options struct {
	comma   rune
	infer   bool
	path    string
	limit   int
	lenient bool
}

func defaults() options {
	return options{comma: ',', infer: true}
}

// WithComma sets the delimiter for delimited text.
func WithComma(r rune) Option {
	return func(o *options) { o.comma = r }
}

// WithInference toggles number and boolean detection in delimited text.
func WithInference(on bool) Option {
	return func(o *options) { o.infer = on }
}

// WithPath selects the row array inside a JSON document using gjson path
// syntax, for example "data.items".
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithLimit stops after n rows. Zero means no limit.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithLenient skips records that are not objects instead of failing.
func WithLenient(on bool) Option {
	return func(o *options) { o.lenient = on }
}

func (o options) full(n int) bool { return o.limit > 0 && n >= o.limit }
