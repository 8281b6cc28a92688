package precheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostctl/internal/platform/cloud"
)

func TestCheck_PostpaidEnvironment(t *testing.T) {
	fake := cloud.NewFake()
	fake.Environments = []cloud.Environment{
		{ID: "env-1", BillingMode: cloud.BillingPostpaid},
		{ID: "env-2", BillingMode: cloud.BillingPrepaid},
	}

	env, err := NewChecker(fake).Check(context.Background(), "env-1")
	require.NoError(t, err)
	assert.Equal(t, "env-1", env.ID)
	assert.Equal(t, cloud.BillingPostpaid, env.BillingMode)
}

func TestCheck_EnvironmentNotFound(t *testing.T) {
	fake := cloud.NewFake()
	fake.Environments = []cloud.Environment{
		{ID: "env-1", BillingMode: cloud.BillingPostpaid},
	}

	_, err := NewChecker(fake).Check(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnvironmentNotFound)
}

func TestCheck_RejectsEveryNonPostpaidMode(t *testing.T) {
	for _, mode := range []cloud.BillingMode{cloud.BillingPrepaid, "trial", ""} {
		t.Run(string(mode), func(t *testing.T) {
			fake := cloud.NewFake()
			fake.Environments = []cloud.Environment{
				{ID: "env-1", BillingMode: mode},
			}

			_, err := NewChecker(fake).Check(context.Background(), "env-1")
			require.Error(t, err)

			var ube *UnsupportedBillingModeError
			require.ErrorAs(t, err, &ube)
			assert.Equal(t, "env-1", ube.EnvironmentID)
			assert.Equal(t, mode, ube.Mode)
		})
	}
}

func TestCheck_ListFailurePropagates(t *testing.T) {
	fake := cloud.NewFake()
	fake.DescribeEnvironmentsErr = errors.New("control plane unreachable")

	_, err := NewChecker(fake).Check(context.Background(), "env-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "control plane unreachable")
}

func TestCheck_FetchesFreshEveryCall(t *testing.T) {
	fake := cloud.NewFake()
	fake.Environments = []cloud.Environment{
		{ID: "env-1", BillingMode: cloud.BillingPostpaid},
	}

	checker := NewChecker(fake)
	_, err := checker.Check(context.Background(), "env-1")
	require.NoError(t, err)
	_, err = checker.Check(context.Background(), "env-1")
	require.NoError(t, err)

	assert.Equal(t, 2, fake.DescribeEnvironmentsCalls)
}
