package wizard

import "context"

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, siteURL, method string) (bool, error)

func (f VerifierFunc) Verify(ctx context.Context, siteURL, method string) (bool, error) {
	return f(ctx, siteURL, method)
}

// AcceptAllVerifier stands in for the backend ownership check until
// the backend exposes one. It approves every site deterministically.
func AcceptAllVerifier() Verifier {
	return VerifierFunc(func(ctx context.Context, siteURL, method string) (bool, error) {
		return true, nil
	})
}
