package authhealth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

func TestTryCheck_NormalizesErrors(t *testing.T) {
	res := tryCheck(context.Background(), func(_ context.Context) (domain.CheckResult, error) {
		return domain.CheckResult{}, fmt.Errorf("provider exploded")
	})

	assert.True(t, res.HasProblem)
	assert.Contains(t, res.Details, "provider exploded")
}

func TestTryCheck_NormalizesPanics(t *testing.T) {
	res := tryCheck(context.Background(), func(_ context.Context) (domain.CheckResult, error) {
		panic("nil pointer somewhere deep in an SDK")
	})

	assert.True(t, res.HasProblem)
	assert.NotEmpty(t, res.Details)
}

func TestTryCheck_PassesThroughResults(t *testing.T) {
	res := tryCheck(context.Background(), func(_ context.Context) (domain.CheckResult, error) {
		return domain.CheckResult{HasProblem: true, Details: "something specific"}, nil
	})

	assert.True(t, res.HasProblem)
	assert.Equal(t, "something specific", res.Details)
}

func TestTryFix_NormalizesErrors(t *testing.T) {
	res := tryFix(context.Background(), func(_ context.Context) (domain.FixResult, error) {
		return domain.FixResult{}, fmt.Errorf("insert rejected")
	})

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.Contains(t, res.Details, "insert rejected")
}

func TestTryFix_NormalizesPanics(t *testing.T) {
	res := tryFix(context.Background(), func(_ context.Context) (domain.FixResult, error) {
		panic("boom")
	})

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}
