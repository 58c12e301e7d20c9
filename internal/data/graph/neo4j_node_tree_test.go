package graph

import (
	"context"
	"testing"
	"time"

	types "github.com/yungbote/nodetree-backend/internal/domain"
)

func TestNodeRecordsSkipsEmpty(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	recs := nodeRecords([]*types.Node{
		nil,
		{NodeID: 0, NodeName: "unsaved"},
		{NodeID: 100000001, NodeName: "root", State: 2, ChildrenState: -1},
		{NodeID: 100000002, NodeName: "leaf", ParentID: 100000001},
	}, now)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0]["id"] != int64(100000001) || recs[0]["children_state"] != int64(-1) {
		t.Fatalf("unexpected root record: %#v", recs[0])
	}
	if recs[1]["parent_id"] != int64(100000001) {
		t.Fatalf("unexpected leaf parent: %#v", recs[1])
	}
	if recs[1]["synced_at"] != now.Format(time.RFC3339Nano) {
		t.Fatalf("unexpected synced_at: %v", recs[1]["synced_at"])
	}
}

func TestNilMirrorIsNoop(t *testing.T) {
	var m *NodeTreeMirror
	if err := m.UpsertNodes(context.Background(), []*types.Node{{NodeID: 1}}); err != nil {
		t.Fatalf("UpsertNodes: %v", err)
	}
	if err := m.DeleteNodes(context.Background(), []int64{1}); err != nil {
		t.Fatalf("DeleteNodes: %v", err)
	}
	m.EnsureSchema(context.Background())
	if NewNodeTreeMirror(nil, nil) != nil {
		t.Fatalf("expected nil mirror for nil client")
	}
}
