package reconcile

import (
	"context"
	"fmt"
)

// ReconcileWithPlan reconciles every name and plans the repairs. It does not
// execute them; use ApplyPlan for that.
func (r *Reconciler) ReconcileWithPlan(ctx context.Context) (*Plan, error) {
	results, err := r.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}
	summary, actions := r.buildPlan(results)
	return &Plan{Results: results, Actions: actions, Summary: summary}, nil
}

func (r *Reconciler) buildPlan(results []Result) (Summary, []Action) {
	summary := Summary{TotalItems: len(results)}
	actions := []Action{}

	for _, res := range results {
		if !res.ModelPresent {
			summary.MissingModel++
		}
		if !res.StoragePresent {
			summary.MissingStorage++
		}
		if !res.DatabasePresent {
			summary.MissingDatabase++
		}
		if len(res.Mismatch) > 0 {
			summary.Mismatches++
		}

		if !res.ModelPresent {
			continue
		}
		if !res.StoragePresent && r.spec.Storage != nil {
			actions = append(actions, Action{Type: ActionPublish, Key: res.Name, Reason: "model has no stored definition"})
			summary.PublishActions++
		}
		if !res.DatabasePresent && r.spec.Database != nil {
			actions = append(actions, Action{Type: ActionMigrate, Key: res.Name, Reason: fmt.Sprintf("table %s does not exist", res.Target)})
			summary.MigrateActions++
		}
	}
	return summary, actions
}

// ApplyPlan executes the actions of plan and returns how many ran. Nothing
// runs unless opts.Confirmed is set and opts.DryRun is not. The cached index
// is dropped once any action ran.
func (r *Reconciler) ApplyPlan(ctx context.Context, plan *Plan, mutator Mutator, opts Options) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	if mutator == nil {
		return 0, fmt.Errorf("no mutator to apply %d actions", len(plan.Actions))
	}
	defer func() {
		if executed > 0 {
			r.Invalidate()
		}
	}()

	for _, action := range plan.Actions {
		switch action.Type {
		case ActionPublish:
			err = mutator.Publish(ctx, action.Key)
		case ActionMigrate:
			err = mutator.Migrate(ctx, action.Key)
		default:
			err = fmt.Errorf("unknown action type %q", action.Type)
		}
		if err != nil {
			return executed, fmt.Errorf("%s %s: %w", action.Type, action.Key, err)
		}
		executed++
	}
	return executed, nil
}
