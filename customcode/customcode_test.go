package customcode

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/goeval/api"
)

type runnerFunc func(ctx context.Context, args api.CodeRunArgs) (float64, error)

func (f runnerFunc) Run(ctx context.Context, args api.CodeRunArgs) (float64, error) {
	return f(ctx, args)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	in := api.EvalInputs{
		Inputs:    map[string]any{"question": "2+2?"},
		Output:    "4",
		DataPoint: map[string]any{"correct_answer": "4", "difficulty": "easy"},
		AppParams: map[string]any{"temperature": 0.2},
		Settings:  map[string]any{"code": "def evaluate(...): return 1.0"},
	}

	t.Run("forwards the full argument bundle", func(t *testing.T) {
		var got api.CodeRunArgs
		runner := runnerFunc(func(ctx context.Context, args api.CodeRunArgs) (float64, error) {
			got = args
			return 0.9, nil
		})

		result := Run(runner).Evaluate(ctx, in)

		require.Equal(t, api.ResultTypeNumber, result.Type, "error: %+v", result.Error)
		assert.Equal(t, 0.9, result.Value)
		assert.Equal(t, "def evaluate(...): return 1.0", got.Code)
		assert.Equal(t, "4", got.CorrectAnswer)
		assert.Equal(t, in.Inputs, got.Inputs)
		assert.Equal(t, in.AppParams, got.AppParams)
		assert.Equal(t, in.DataPoint, got.DataPoint)
		assert.Equal(t, "4", got.Output)
	})

	t.Run("runner failure is contained", func(t *testing.T) {
		runner := runnerFunc(func(ctx context.Context, args api.CodeRunArgs) (float64, error) {
			return 0, fmt.Errorf("sandbox rejected code")
		})

		result := Run(runner).Evaluate(ctx, in)

		require.Equal(t, api.ResultTypeError, result.Type)
		assert.Contains(t, result.Error.Message, "sandbox rejected code")
	})

	t.Run("missing code setting", func(t *testing.T) {
		missing := in
		missing.Settings = map[string]any{}

		result := Run(runnerFunc(func(ctx context.Context, args api.CodeRunArgs) (float64, error) {
			t.Fatal("runner must not be called")
			return 0, nil
		})).Evaluate(ctx, missing)

		require.Equal(t, api.ResultTypeError, result.Type)
		assert.Empty(t, result.Error.Stacktrace)
	})

	t.Run("nil runner", func(t *testing.T) {
		result := Run(nil).Evaluate(ctx, in)
		require.Equal(t, api.ResultTypeError, result.Type)
	})
}
