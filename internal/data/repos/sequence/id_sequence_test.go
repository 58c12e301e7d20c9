package sequence

import (
	"context"
	"testing"

	"github.com/yungbote/nodetree-backend/internal/data/repos/testutil"
	seq "github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
)

func TestIDSequenceRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewIDSequenceRepo(db, testutil.Logger(t))

	if cur, err := repo.Current(dbc, seq.Node); err != nil || cur != seq.Floor[seq.Node] {
		t.Fatalf("Current before use: cur=%d err=%v", cur, err)
	}

	first, err := repo.Next(dbc, seq.Node)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first != 100000001 {
		t.Fatalf("first node id: got %d", first)
	}
	second, err := repo.Next(dbc, seq.Node)
	if err != nil || second != first+1 {
		t.Fatalf("second node id: got %d err=%v", second, err)
	}

	if id, err := repo.Next(dbc, seq.PNTG); err != nil || id != 1000 {
		t.Fatalf("first pntg id: got %d err=%v", id, err)
	}

	if err := repo.AlignWith(dbc, seq.User, 100500); err != nil {
		t.Fatalf("AlignWith: %v", err)
	}
	if id, err := repo.Next(dbc, seq.User); err != nil || id != 100501 {
		t.Fatalf("after align: got %d err=%v", id, err)
	}
	// Aligning below the current value is a no-op.
	if err := repo.AlignWith(dbc, seq.User, 5); err != nil {
		t.Fatalf("AlignWith low: %v", err)
	}
	if cur, err := repo.Current(dbc, seq.User); err != nil || cur != 100501 {
		t.Fatalf("Current after low align: cur=%d err=%v", cur, err)
	}
}
