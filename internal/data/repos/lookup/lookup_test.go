package lookup

import (
	"context"
	"testing"

	"github.com/yungbote/nodetree-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
)

func TestPNTGRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewPNTGRepo(db, testutil.Logger(t))

	row := &types.PNTG{TgID: 1000, TgName: "ops", BotToken: "b", ChatID: "c", URL: "https://t.me", StateCode: "0"}
	if _, err := repo.Create(dbc, []*types.PNTG{row}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByID(dbc, 1000)
	if err != nil || got == nil || got.TgName != "ops" {
		t.Fatalf("GetByID: %v err=%v", got, err)
	}
	got.TgName = "alerts"
	if err := repo.Update(dbc, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	rows, err := repo.List(dbc)
	if err != nil || len(rows) != 1 || rows[0].TgName != "alerts" {
		t.Fatalf("List: %v err=%v", rows, err)
	}
	if max, err := repo.MaxID(dbc); err != nil || max != 1000 {
		t.Fatalf("MaxID: %d err=%v", max, err)
	}
	if n, err := repo.FullDeleteByIDs(dbc, []int64{1000}); err != nil || n != 1 {
		t.Fatalf("FullDeleteByIDs: n=%d err=%v", n, err)
	}
	if got, err := repo.GetByID(dbc, 1000); err != nil || got != nil {
		t.Fatalf("GetByID after delete: %v err=%v", got, err)
	}
}

func TestStateCodeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewStateCodeRepo(db, testutil.Logger(t))

	if _, err := repo.Create(dbc, []*types.StateCode{{Code: 2, StateName: "running"}, {Code: 1, StateName: "new"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Upsert(dbc, []*types.StateCode{{Code: 1, StateName: "created"}, {Code: 3, StateName: "done"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rows, err := repo.List(dbc)
	if err != nil || len(rows) != 3 {
		t.Fatalf("List: len=%d err=%v", len(rows), err)
	}
	if rows[0].Code != 1 || rows[0].StateName != "created" {
		t.Fatalf("upsert did not rename: %+v", rows[0])
	}
	if n, err := repo.Rename(dbc, 2, "active"); err != nil || n != 1 {
		t.Fatalf("Rename: n=%d err=%v", n, err)
	}
	got, err := repo.GetByCode(dbc, 2)
	if err != nil || got == nil || got.StateName != "active" {
		t.Fatalf("GetByCode: %v err=%v", got, err)
	}
	if n, err := repo.FullDeleteByCodes(dbc, []int{3, 99}); err != nil || n != 1 {
		t.Fatalf("FullDeleteByCodes: n=%d err=%v", n, err)
	}
}
