package pipeline

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"helphive-gateway/pkg/types"
)

func sampleTasks() []types.Task {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []types.Task{
		{ID: "t1", Title: "Grocery run", Category: types.CategoryShopping, UrgencyLevel: types.UrgencyMedium, CreatedAt: created},
		{ID: "t2", Title: "Pharmacy pickup", Category: types.CategoryMedical, UrgencyLevel: types.UrgencyUrgent, CreatedAt: created},
		{ID: "t3", Title: "Dog walk", Category: types.CategoryHousehold, UrgencyLevel: types.UrgencyNonUrgent, CreatedAt: created},
	}
}

func taskIDs(tasks []types.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestRankReorders(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankReply: `["t2","t3","t1"]`}
	tp := newTestPipeline(t, mock, 10, 100)

	got := tp.pipe.Rank(testCtx(t), sampleTasks())
	if !reflect.DeepEqual(taskIDs(got), []string{"t2", "t3", "t1"}) {
		t.Fatalf("unexpected order: %v", taskIDs(got))
	}
}

func TestRankDropsUnknownAndDuplicateIDs(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankReply: `["t2","deleted-task","t2","t1"]`}
	tp := newTestPipeline(t, mock, 10, 100)

	got := tp.pipe.Rank(testCtx(t), sampleTasks())
	if !reflect.DeepEqual(taskIDs(got), []string{"t2", "t1"}) {
		t.Fatalf("unknown and repeated ids should be dropped: %v", taskIDs(got))
	}
}

func TestRankCachedIdempotence(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankReply: `["t3","t2","t1"]`}
	tp := newTestPipeline(t, mock, 10, 100)
	ctx := testCtx(t)

	first := tp.pipe.Rank(ctx, sampleTasks())
	second := tp.pipe.Rank(ctx, sampleTasks())

	if mock.rankCalls != 1 {
		t.Fatalf("identical task list should hit the cache, upstream calls = %d", mock.rankCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached ranking differs:\nfirst:  %v\nsecond: %v", taskIDs(first), taskIDs(second))
	}
}

func TestRankUpstreamFailureKeepsOrder(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankErr: fmt.Errorf("upstream 503")}
	tp := newTestPipeline(t, mock, 10, 100)

	tasks := sampleTasks()
	got := tp.pipe.Rank(testCtx(t), tasks)
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("failure must keep the input order: %v", taskIDs(got))
	}

	hourly, _ := tp.tracker.Counts(testCtx(t))
	if hourly != 0 {
		t.Fatalf("failed call must not consume quota, hourly = %d", hourly)
	}
}

func TestRankUnparseableReplyKeepsOrder(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankReply: "I would do the pharmacy run first."}
	tp := newTestPipeline(t, mock, 10, 100)

	tasks := sampleTasks()
	got := tp.pipe.Rank(testCtx(t), tasks)
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("unparseable reply must keep the input order: %v", taskIDs(got))
	}
}

func TestRankQuotaExhaustedKeepsOrder(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankReply: `["t3","t2","t1"]`}
	tp := newTestPipeline(t, mock, 1, 100)
	ctx := testCtx(t)

	tp.tracker.Record(ctx)

	tasks := sampleTasks()
	got := tp.pipe.Rank(ctx, tasks)
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("over-quota ranking must keep the input order: %v", taskIDs(got))
	}
	if mock.rankCalls != 0 {
		t.Fatalf("over-quota request must not reach upstream")
	}
}

func TestRankEmptyAndNilClient(t *testing.T) {
	t.Parallel()

	mock := &mockClient{rankReply: `["t1"]`}
	tp := newTestPipeline(t, mock, 10, 100)

	if got := tp.pipe.Rank(testCtx(t), nil); got != nil {
		t.Fatalf("nil tasks should come back as-is")
	}
	if got := tp.pipe.Rank(testCtx(t), []types.Task{}); len(got) != 0 {
		t.Fatalf("empty tasks should come back as-is")
	}
	if mock.rankCalls != 0 {
		t.Fatalf("empty input must not reach upstream")
	}

	local := newTestPipeline(t, nil, 10, 100)
	tasks := sampleTasks()
	if got := local.pipe.Rank(testCtx(t), tasks); !reflect.DeepEqual(got, tasks) {
		t.Fatalf("nil client must keep the input order")
	}
}
