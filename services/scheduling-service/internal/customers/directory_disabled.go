//go:build !protogen

package customers

// NewDirectoryProvider is compiled in only when the directory protos are
// generated. Without them the local provider is the only implementation.
func NewDirectoryProvider(_ string, _ *LocalProvider) (Provider, error) {
	return nil, nil
}
