// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"shorts/internal/domain/entity"
)

// NavigationTarget is where the caller must send the user after an
// operation reaches its terminal outcome.
type NavigationTarget string

const (
	// TargetDashboard is the authenticated area.
	TargetDashboard NavigationTarget = "/dashboard"
	// TargetLanding is the unauthenticated landing page.
	TargetLanding NavigationTarget = "/"
)

// ResolveOutput is the single terminal outcome of a resolution attempt.
type ResolveOutput struct {
	Target NavigationTarget
	// HardReload demands a full document navigation instead of a client-side
	// route change. Set when the session was established explicitly, because
	// provider-internal caches are only guaranteed consistent after a reload.
	HardReload bool
	// Session is the established session, nil when resolution failed.
	Session *entity.Session
	// FailureMessage carries the user-visible text of an explicit provider
	// rejection. Empty on success and on silent fall-throughs.
	FailureMessage string
}

// Authenticated reports whether resolution reached the authenticated outcome.
func (o *ResolveOutput) Authenticated() bool {
	return o != nil && o.Session != nil
}

// SessionResolverUsecase runs once per authentication callback. Given the
// redirect's URL fragment (possibly empty), it deterministically reaches one
// of two terminal outcomes, tolerating that the provider may have already
// established the session asynchronously before it runs.
type SessionResolverUsecase interface {
	// Resolve executes the resolution protocol: fragment exchange, cached
	// session check, then a change-listener fallback that waits until the
	// provider fires, the configured timeout expires, or ctx is torn down.
	Resolve(ctx context.Context, fragment string) (*ResolveOutput, error)
}
