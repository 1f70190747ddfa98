package tiler

// ITiler runs one command of the tool against the given options
type ITiler interface {
	RunTiler(opts *TilerOptions) error
}
