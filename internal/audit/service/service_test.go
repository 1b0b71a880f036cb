package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/labelworks/internal/audit/domain"
	"github.com/smallbiznis/labelworks/internal/audit/repository"
	"github.com/smallbiznis/labelworks/internal/clock"
	obscontext "github.com/smallbiznis/labelworks/internal/observability/context"
	"github.com/smallbiznis/labelworks/pkg/db/dbtest"
	"github.com/smallbiznis/labelworks/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn := dbtest.New(t, &domain.AuditLog{})
	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))
	return NewService(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clk,
	}), clk
}

func TestRecordUsesRequestContext(t *testing.T) {
	svc, _ := newTestService(t)

	ctx := obscontext.WithActor(context.Background(), "minji")
	ctx = obscontext.WithRequestID(ctx, "req-1")
	ctx = obscontext.WithClient(ctx, "10.0.0.1", "curl/8")

	require.NoError(t, svc.Record(ctx, domain.ActionCreate, "order", "42", map[string]any{
		"orderNumber": "ORD-2025-001",
		"password":    "should-not-leak",
	}))

	resp, err := svc.List(context.Background(), domain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)

	entry := resp.AuditLogs[0]
	assert.Equal(t, "minji", entry.Actor)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "10.0.0.1", *entry.IPAddress)
	require.NotNil(t, entry.TargetID)
	assert.Equal(t, "42", *entry.TargetID)
	assert.Equal(t, "ORD-2025-001", entry.Metadata["orderNumber"])
	assert.NotEqual(t, "should-not-leak", entry.Metadata["password"])
}

func TestRecordDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	assert.ErrorIs(t, svc.Record(context.Background(), " ", "order", "1", nil), domain.ErrInvalidAction)

	require.NoError(t, svc.Record(context.Background(), domain.ActionDelete, "", "", nil))
	resp, err := svc.List(context.Background(), domain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, domain.ActorSystem, resp.AuditLogs[0].Actor)
	assert.Equal(t, "unknown", resp.AuditLogs[0].TargetType)
	assert.Nil(t, resp.AuditLogs[0].TargetID)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(ctx, domain.ActionUpdate, "material", "m1", map[string]any{"n": i}))
		clk.Advance(time.Minute)
	}
	require.NoError(t, svc.Record(ctx, domain.ActionUpdate, "supplier", "s1", nil))

	first, err := svc.List(ctx, domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 2},
		TargetType: "material",
	})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	assert.True(t, first.HasMore)
	assert.EqualValues(t, 4, first.AuditLogs[0].Metadata["n"])

	second, err := svc.List(ctx, domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: first.NextPageToken},
		TargetType: "material",
	})
	require.NoError(t, err)
	require.Len(t, second.AuditLogs, 2)
	assert.EqualValues(t, 2, second.AuditLogs[0].Metadata["n"])

	third, err := svc.List(ctx, domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: second.NextPageToken},
		TargetType: "material",
	})
	require.NoError(t, err)
	require.Len(t, third.AuditLogs, 1)
	assert.False(t, third.HasMore)
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, domain.ListAuditLogRequest{Pagination: pagination.Pagination{PageToken: "%%%"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)

	start := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, domain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
