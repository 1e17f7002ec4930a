package campus

import (
	"context"

	"campus-market-go/pkg/logger"
)

// CampusResolver is satisfied by *Resolver.
type CampusResolver interface {
	ResolveCampus(ctx context.Context, ip string) Code
}

// CampusAssigner persists a resolved campus and returns the stored code.
type CampusAssigner interface {
	AssignCampus(ctx context.Context, personID uint, code Code) (Code, error)
}

// Detector is the post-authentication hook that refines a person's campus
// from their client IP.
type Detector struct {
	resolver CampusResolver
	assigner CampusAssigner
	executor *Executor
	log      logger.Logger
}

func NewDetector(resolver CampusResolver, assigner CampusAssigner, executor *Executor, log logger.Logger) *Detector {
	if log == nil {
		log = logger.Nop()
	}
	return &Detector{resolver: resolver, assigner: assigner, executor: executor, log: log}
}

// Observe resolves synchronously only when current is Others, and then
// returns the stored campus with changed=true if it was updated. For any
// other campus a detached lookup is submitted and its result is only logged;
// a person already on a real campus is never reassigned.
func (d *Detector) Observe(ctx context.Context, personID uint, current Code, ip string) (Code, bool) {
	if current == Others {
		resolved := d.resolver.ResolveCampus(ctx, ip)
		if resolved == Others {
			return current, false
		}

		stored, err := d.assigner.AssignCampus(ctx, personID, resolved)
		if err != nil {
			d.log.InternalError("campus.observe: failed to persist campus", err, "user_id", personID, "campus", resolved)
			return current, false
		}
		d.log.Info("campus.observe: campus assigned", "user_id", personID, "campus", stored, "ip", ip)
		return stored, stored != current
	}

	if d.executor != nil {
		d.executor.Submit("campus.detached_lookup", func(taskCtx context.Context) {
			resolved := d.resolver.ResolveCampus(taskCtx, ip)
			d.log.Debug("campus.observe: detached lookup finished", "user_id", personID, "campus", current, "resolved", resolved)
		})
	}
	return current, false
}
