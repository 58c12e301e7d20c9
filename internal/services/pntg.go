package services

import (
	"strings"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/domain/lookup"
	"github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

// PNTGService manages Telegram notification targets.
type PNTGService interface {
	Create(dbc dbctx.Context, in types.NewPNTG) (*types.PNTG, error)
	Get(dbc dbctx.Context, id int64) (*types.PNTG, error)
	Update(dbc dbctx.Context, id int64, patch types.PNTGPatch) (*types.PNTG, error)
	Delete(dbc dbctx.Context, id int64) error
	List(dbc dbctx.Context) ([]types.PNTGSummary, error)
}

type pntgService struct {
	log      *logger.Logger
	tx       txn.Runner
	pntgRepo repos.PNTGRepo
	ids      IDAllocator
}

func NewPNTGService(log *logger.Logger, tx txn.Runner, pntgRepo repos.PNTGRepo, ids IDAllocator) PNTGService {
	return &pntgService{
		log:      log.With("service", "PNTGService"),
		tx:       tx,
		pntgRepo: pntgRepo,
		ids:      ids,
	}
}

func (s *pntgService) Create(dbc dbctx.Context, in types.NewPNTG) (*types.PNTG, error) {
	const op = "pntg.create"
	required := []struct {
		field string
		val   string
	}{
		{"tg_name", in.TgName},
		{"bot_token", in.BotToken},
		{"chat_id", in.ChatID},
		{"url", in.URL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			return nil, apperr.InvalidArgument(op, "%s is required", r.field)
		}
	}
	stateCode := strings.TrimSpace(in.StateCode)
	if stateCode == "" {
		stateCode = lookup.DefaultPNTGStateCode
	}

	var created *types.PNTG
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		id, err := s.ids.Next(dbc, sequence.PNTG, s.pntgRepo.MaxID)
		if err != nil {
			return apperr.Internal(op, err)
		}
		row := &types.PNTG{
			TgID:      id,
			TgName:    strings.TrimSpace(in.TgName),
			BotToken:  strings.TrimSpace(in.BotToken),
			ChatID:    strings.TrimSpace(in.ChatID),
			URL:       strings.TrimSpace(in.URL),
			StateCode: stateCode,
		}
		if _, err := s.pntgRepo.Create(dbc, []*types.PNTG{row}); err != nil {
			return mapRepoErr(op, err)
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("pntg created", "tg_id", created.TgID, "chat_id", created.ChatID)
	return created, nil
}

func (s *pntgService) Get(dbc dbctx.Context, id int64) (*types.PNTG, error) {
	const op = "pntg.get"
	row, err := s.pntgRepo.GetByID(dbc, id)
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if row == nil {
		return nil, apperr.NotFound(op, "pntg %d not found", id)
	}
	return row, nil
}

func (s *pntgService) Update(dbc dbctx.Context, id int64, patch types.PNTGPatch) (*types.PNTG, error) {
	const op = "pntg.update"
	var updated *types.PNTG
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		row, err := s.Get(dbc, id)
		if err != nil {
			return err
		}
		set := func(field string, dst *string, v *string) error {
			if v == nil {
				return nil
			}
			trimmed := strings.TrimSpace(*v)
			if trimmed == "" {
				return apperr.InvalidArgument(op, "%s must not be empty", field)
			}
			*dst = trimmed
			return nil
		}
		for _, f := range []struct {
			field string
			dst   *string
			v     *string
		}{
			{"tg_name", &row.TgName, patch.TgName},
			{"bot_token", &row.BotToken, patch.BotToken},
			{"chat_id", &row.ChatID, patch.ChatID},
			{"url", &row.URL, patch.URL},
			{"state_code", &row.StateCode, patch.StateCode},
		} {
			if err := set(f.field, f.dst, f.v); err != nil {
				return err
			}
		}
		if err := s.pntgRepo.Update(dbc, row); err != nil {
			return mapRepoErr(op, err)
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *pntgService) Delete(dbc dbctx.Context, id int64) error {
	const op = "pntg.delete"
	n, err := s.pntgRepo.FullDeleteByIDs(dbc, []int64{id})
	if err != nil {
		return mapRepoErr(op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, "pntg %d not found", id)
	}
	s.log.Info("pntg deleted", "tg_id", id)
	return nil
}

func (s *pntgService) List(dbc dbctx.Context) ([]types.PNTGSummary, error) {
	rows, err := s.pntgRepo.List(dbc)
	if err != nil {
		return nil, mapRepoErr("pntg.list", err)
	}
	out := make([]types.PNTGSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.PNTGSummary{TgID: r.TgID, TgName: r.TgName})
	}
	return out, nil
}
