package reconcile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"datapath/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMutator struct {
	published []string
	migrated  []string
	err       error
}

func (m *recordingMutator) Publish(_ context.Context, name string) error {
	m.published = append(m.published, name)
	return m.err
}

func (m *recordingMutator) Migrate(_ context.Context, name string) error {
	m.migrated = append(m.migrated, name)
	return m.err
}

func TestReconcileWithPlan(t *testing.T) {
	f := setup(t, 0)
	plan, err := reconcile.New(f.spec).ReconcileWithPlan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, reconcile.Summary{
		TotalItems:      4,
		MissingModel:    2,
		MissingStorage:  2,
		MissingDatabase: 2,
		Mismatches:      1,
		PublishActions:  1,
		MigrateActions:  1,
	}, plan.Summary)
	assert.Equal(t, []reconcile.Action{
		{Type: reconcile.ActionPublish, Key: "gadgets", Reason: "model has no stored definition"},
		{Type: reconcile.ActionMigrate, Key: "gadgets", Reason: "table gadgets does not exist"},
	}, plan.Actions)
}

func TestReconcileWithPlan_NoRepairSources(t *testing.T) {
	f := setup(t, 0)
	f.spec.Storage = nil
	f.spec.Database = nil
	plan, err := reconcile.New(f.spec).ReconcileWithPlan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)
}

func TestApplyPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires Confirmation", func(t *testing.T) {
		f := setup(t, time.Minute)
		r := reconcile.New(f.spec)
		plan, err := r.ReconcileWithPlan(ctx)
		require.NoError(t, err)

		m := &recordingMutator{}
		n, err := r.ApplyPlan(ctx, plan, m, reconcile.Options{})
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = r.ApplyPlan(ctx, plan, m, reconcile.Options{Confirmed: true, DryRun: true})
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, m.published)
	})

	t.Run("Executes And Invalidates", func(t *testing.T) {
		f := setup(t, time.Minute)
		r := reconcile.New(f.spec)
		plan, err := r.ReconcileWithPlan(ctx)
		require.NoError(t, err)

		m := &recordingMutator{}
		n, err := r.ApplyPlan(ctx, plan, m, reconcile.Options{Confirmed: true})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"gadgets"}, m.published)
		assert.Equal(t, []string{"gadgets"}, m.migrated)

		_, err = r.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, f.storage.listing.Load())
	})

	t.Run("Stops On Failure", func(t *testing.T) {
		f := setup(t, 0)
		r := reconcile.New(f.spec)
		plan, err := r.ReconcileWithPlan(ctx)
		require.NoError(t, err)

		m := &recordingMutator{err: errors.New("bucket offline")}
		n, err := r.ApplyPlan(ctx, plan, m, reconcile.Options{Confirmed: true})
		assert.ErrorContains(t, err, "bucket offline")
		assert.Zero(t, n)
		assert.Empty(t, m.migrated)
	})

	t.Run("No Mutator", func(t *testing.T) {
		f := setup(t, 0)
		r := reconcile.New(f.spec)
		plan, err := r.ReconcileWithPlan(ctx)
		require.NoError(t, err)
		_, err = r.ApplyPlan(ctx, plan, nil, reconcile.Options{Confirmed: true})
		assert.Error(t, err)
	})
}
