package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
	"github.com/safar/labecommerce/internal/store"
	"github.com/safar/labecommerce/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageString(t *testing.T) {
	assert.Equal(t, "Validating", StageValidating.String())
	assert.Equal(t, "Committed", StageCommitted.String())
	assert.Equal(t, "Aborted", StageAborted.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}

func TestPipelineLogsFinalState(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewPipeline(store.NewMemoryStore(), logger)
	ctx := context.Background()

	err := p.Run(ctx, Mutation{
		Name:  "create thing",
		Check: func(ctx context.Context, q store.Querier) error { return conflict("taken") },
	})
	require.Error(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mutation aborted", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Aborted", entry["state"])
	assert.Equal(t, "Checking", entry["stage"])
	assert.Equal(t, "create thing", entry["operation"])
	assert.Equal(t, "taken", entry["error"])

	buf.Reset()
	require.NoError(t, p.Run(ctx, Mutation{Name: "noop"}))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mutation committed", entry["msg"])
	assert.Equal(t, "Committed", entry["state"])
}

func TestPipelineValidateRunsBeforeStore(t *testing.T) {
	s := store.NewMemoryStore()
	p := NewPipeline(s, nil)
	touched := false

	err := p.Run(context.Background(), Mutation{
		Name:     "test",
		Validate: func() error { return &validation.Error{Messages: []string{`"id" is required`}} },
		Resolve: func(ctx context.Context, q store.Querier) error {
			touched = true
			return nil
		},
	})

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StageValidating, serr.Stage)
	assert.Equal(t, `"id" is required`, serr.Message)
	assert.False(t, touched)
}

func TestPipelineRecordsAbortStage(t *testing.T) {
	p := NewPipeline(store.NewMemoryStore(), nil)

	err := p.Run(context.Background(), Mutation{
		Name:    "test",
		Resolve: func(ctx context.Context, q store.Querier) error { return nil },
		Check:   func(ctx context.Context, q store.Querier) error { return conflict("taken") },
		Commit: func(ctx context.Context, q store.Querier) error {
			t.Fatal("commit must not run after a failed check")
			return nil
		},
	})

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, StageChecking, serr.Stage)
}

func TestPipelineRollsBackFailedCommit(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	p := NewPipeline(s, nil)
	boom := errors.New("disk full")

	err := p.Run(ctx, Mutation{
		Name: "test",
		Commit: func(ctx context.Context, q store.Querier) error {
			if err := q.CreateUser(ctx, &models.User{ID: "u1", Email: "a@x.com", Password: "p"}); err != nil {
				return err
			}
			return boom
		},
	})

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StageCommitted, serr.Stage)
	assert.Equal(t, "unexpected error", serr.Message)

	_, err = s.GetUser(ctx, "u1")
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestPipelineCommits(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	p := NewPipeline(s, nil)

	err := p.Run(ctx, Mutation{
		Name: "test",
		Commit: func(ctx context.Context, q store.Querier) error {
			return q.CreateUser(ctx, &models.User{ID: "u1", Email: "a@x.com", Password: "p"})
		},
	})
	require.NoError(t, err)

	_, err = s.GetUser(ctx, "u1")
	assert.NoError(t, err)
}
