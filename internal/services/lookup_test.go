package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/pointers"
)

func TestPNTGCreateKeepsBotTokenOutOfLogs(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	ids := NewIDAllocator(repos.NewIDSequenceRepo(env.db, log), log)
	svc := NewPNTGService(log, txn.NewRunner(env.db), repos.NewPNTGRepo(env.db, log), ids)

	const token = "987654:secret-bot-token"
	_, err := svc.Create(bg(), types.NewPNTG{TgName: "ops", BotToken: token, ChatID: "-100", URL: "https://api.telegram.org"})
	require.NoError(t, err)

	require.NotZero(t, logs.FilterMessage("pntg created").Len())
	for _, entry := range logs.All() {
		for k, v := range entry.ContextMap() {
			require.NotEqual(t, "bot_token", k)
			require.False(t, strings.Contains(fmt.Sprint(v), token), "field %s leaks the token", k)
		}
	}
}

func TestPNTGLifecycle(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	_, err := env.pntg.Create(bg(), types.NewPNTG{TgName: "ops", BotToken: "123:abc", ChatID: "-100"})
	require.True(t, apperr.IsCode(err, apperr.CodeInvalidArgument), "url is required")

	row, err := env.pntg.Create(bg(), types.NewPNTG{TgName: " ops ", BotToken: "123:abc", ChatID: "-100", URL: "https://api.telegram.org"})
	require.NoError(t, err)
	require.Equal(t, int64(1000), row.TgID)
	require.Equal(t, "ops", row.TgName)
	require.Equal(t, types.DefaultPNTGStateCode, row.StateCode)

	row, err = env.pntg.Update(bg(), row.TgID, types.PNTGPatch{ChatID: pointers.String("-200"), StateCode: pointers.String("2")})
	require.NoError(t, err)
	require.Equal(t, "-200", row.ChatID)
	require.Equal(t, "2", row.StateCode)
	require.Equal(t, "123:abc", row.BotToken)

	_, err = env.pntg.Update(bg(), row.TgID, types.PNTGPatch{URL: pointers.String(" ")})
	require.True(t, apperr.IsCode(err, apperr.CodeInvalidArgument))

	list, err := env.pntg.List(bg())
	require.NoError(t, err)
	require.Equal(t, []types.PNTGSummary{{TgID: row.TgID, TgName: "ops"}}, list)

	require.NoError(t, env.pntg.Delete(bg(), row.TgID))
	require.True(t, apperr.IsCode(env.pntg.Delete(bg(), row.TgID), apperr.CodeNotFound))
	_, err = env.pntg.Get(bg(), row.TgID)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestStateCodeLifecycle(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	_, err := env.stateCodes.Create(bg(), nil, "orphan")
	require.True(t, apperr.IsCode(err, apperr.CodeInvalidArgument))

	sc, err := env.stateCodes.Create(bg(), pointers.Int(7), "blocked")
	require.NoError(t, err)
	require.Equal(t, 7, sc.Code)

	_, err = env.stateCodes.Create(bg(), pointers.Int(7), "again")
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))

	sc, err = env.stateCodes.Rename(bg(), 7, "stuck")
	require.NoError(t, err)
	require.Equal(t, "stuck", sc.StateName)
	got, err := env.stateCodes.Get(bg(), 7)
	require.NoError(t, err)
	require.Equal(t, "stuck", got.StateName)

	_, err = env.stateCodes.Rename(bg(), 8, "nope")
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	require.NoError(t, env.stateCodes.Delete(bg(), 7))
	require.True(t, apperr.IsCode(env.stateCodes.Delete(bg(), 7), apperr.CodeNotFound))
}

func TestStateCodeSeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	require.NoError(t, env.stateCodes.Seed(bg(), nil))
	require.NoError(t, env.stateCodes.Seed(bg(), nil))

	rows, err := env.stateCodes.List(bg())
	require.NoError(t, err)
	require.Len(t, rows, len(DefaultStateCodes))
	require.Equal(t, 0, rows[0].Code)
}
