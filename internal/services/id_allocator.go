package services

import (
	"fmt"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

// IDAllocator hands out ids from the id_sequences table. It must be called
// inside the transaction that inserts the row.
type IDAllocator interface {
	Next(dbc dbctx.Context, sequence string, maxID func(dbctx.Context) (int64, error)) (int64, error)
}

type idAllocator struct {
	seqRepo repos.IDSequenceRepo
	log     *logger.Logger
}

func NewIDAllocator(seqRepo repos.IDSequenceRepo, log *logger.Logger) IDAllocator {
	return &idAllocator{seqRepo: seqRepo, log: log.With("service", "IDAllocator")}
}

// Next allocates an id. If the table already holds a larger id (rows written
// before the sequence existed), the sequence is moved past it first.
func (a *idAllocator) Next(dbc dbctx.Context, sequence string, maxID func(dbctx.Context) (int64, error)) (int64, error) {
	id, err := a.seqRepo.Next(dbc, sequence)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", sequence, err)
	}
	if maxID == nil {
		return id, nil
	}
	max, err := maxID(dbc)
	if err != nil {
		return 0, fmt.Errorf("read max %s id: %w", sequence, err)
	}
	if id > max {
		return id, nil
	}
	a.log.Warn("id sequence behind table, realigning", "sequence", sequence, "allocated", id, "max", max)
	if err := a.seqRepo.AlignWith(dbc, sequence, max); err != nil {
		return 0, fmt.Errorf("align %s sequence: %w", sequence, err)
	}
	id, err = a.seqRepo.Next(dbc, sequence)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", sequence, err)
	}
	return id, nil
}
