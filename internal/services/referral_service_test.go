package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/giftvault/internal/config"
	"github.com/example/giftvault/internal/models"
)

func TestRegisterEdge(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())
	ctx := context.Background()

	referrer := store.addUser(&models.User{ReferralCode: "ALPHA234"})
	referred := store.addUser(&models.User{})

	edge, err := svc.RegisterEdge(ctx, "ALPHA234", referred.ID)
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, "ALPHA234", edge.ReferrerCode)
	assert.Equal(t, referred.ID, edge.ReferredUserID)
	assert.False(t, edge.IsRedeemed)

	// The edge is unique per referred user; re-registering returns the
	// existing one.
	again, err := svc.RegisterEdge(ctx, "ALPHA234", referred.ID)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, edge.ID, again.ID)

	count, err := store.CountReferrals(ctx, referrer.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterEdgeUnknownCode(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())

	referred := store.addUser(&models.User{})

	edge, err := svc.RegisterEdge(context.Background(), "NOSUCH99", referred.ID)
	require.NoError(t, err)
	assert.Nil(t, edge, "unknown code is a soft failure")
}

func TestRegisterEdgeSelfReferral(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())

	user := store.addUser(&models.User{ReferralCode: "SELFCODE"})

	edge, err := svc.RegisterEdge(context.Background(), "SELFCODE", user.ID)
	require.NoError(t, err)
	assert.Nil(t, edge)
}

func TestRegisterEdgeEmptyCode(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())

	referred := store.addUser(&models.User{})

	edge, err := svc.RegisterEdge(context.Background(), "", referred.ID)
	require.NoError(t, err)
	assert.Nil(t, edge)
}

func TestEvaluateWithoutReferrerIsNoop(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())

	user := store.addUser(&models.User{})

	require.NoError(t, svc.Evaluate(context.Background(), user, 2500))
}

func TestEvaluatePaysOnce(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())
	ctx := context.Background()

	referrer := store.addUser(&models.User{ReferralCode: "BRAVO567"})
	code := referrer.ReferralCode
	referred := store.addUser(&models.User{ReferredBy: &code})

	_, err := svc.RegisterEdge(ctx, code, referred.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Evaluate(ctx, referred, 2500))
	require.NoError(t, svc.Evaluate(ctx, referred, 2500))

	updated, err := store.GetUser(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.ReferralEarningsCents)
}

func TestEvaluateCumulativePolicy(t *testing.T) {
	cfg := &config.Config{
		ReferralBonusCents:     300,
		ReferralPolicy:         config.ReferralPolicyCumulative,
		ReferralThresholdCents: 10000,
	}
	store := newFakeStore()
	svc := NewReferralService(store, cfg)
	ctx := context.Background()

	referrer := store.addUser(&models.User{ReferralCode: "CHARLIE8"})
	code := referrer.ReferralCode
	referred := store.addUser(&models.User{ReferredBy: &code})

	_, err := svc.RegisterEdge(ctx, code, referred.ID)
	require.NoError(t, err)

	// Below the threshold, nothing is paid.
	require.NoError(t, svc.Evaluate(ctx, referred, 4000))
	updated, err := store.GetUser(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Zero(t, updated.ReferralEarningsCents)

	// Crossing the threshold pays the bonus.
	require.NoError(t, svc.Evaluate(ctx, referred, 6000))
	updated, err = store.GetUser(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.ReferralEarningsCents)

	// Further approvals pay nothing more.
	require.NoError(t, svc.Evaluate(ctx, referred, 6000))
	updated, err = store.GetUser(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.ReferralEarningsCents)
}

func TestReferralStats(t *testing.T) {
	store := newFakeStore()
	svc := NewReferralService(store, testConfig())
	ctx := context.Background()

	referrer := store.addUser(&models.User{ReferralCode: "DELTA999", ReferralEarningsCents: 600})

	for i := 0; i < 3; i++ {
		referred := store.addUser(&models.User{})
		_, err := svc.RegisterEdge(ctx, referrer.ReferralCode, referred.ID)
		require.NoError(t, err)
	}

	count, earnings, err := svc.Stats(ctx, referrer.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, int64(600), earnings)
}
