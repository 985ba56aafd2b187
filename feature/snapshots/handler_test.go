package snapshots_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"pns-snapshot/core/database"
	"pns-snapshot/core/ledger"
	"pns-snapshot/core/snapshot"
	"pns-snapshot/feature/accounts"
	"pns-snapshot/feature/snapshots"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	app    *fiber.App
	store  *snapshot.FileStore
	ledger *ledger.Ledger
	before snapshot.Artifact
	after  snapshot.Artifact
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := snapshot.NewFileStore(t.TempDir())
	before, err := store.Save(ctx, accounts.KindAll, time.Unix(1668091204, 0), accounts.FromSnapshot(snapshot.New(time.Time{},
		snapshot.NewEntity("0x01", "a.dot"),
		snapshot.NewEntity("0x02", "b.dot"),
	)))
	require.NoError(t, err)
	after, err := store.Save(ctx, accounts.KindAll, time.Unix(1669365039, 0), accounts.FromSnapshot(snapshot.New(time.Time{},
		snapshot.NewEntity("0x01", "a.dot"),
		snapshot.NewEntity("0x03", "c.dot"),
	)))
	require.NoError(t, err)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	l, err := ledger.New(db, true, zap.NewNop())
	require.NoError(t, err)

	svc := snapshots.NewService(store, l, time.Minute, zap.NewNop())
	feature := snapshots.NewFeature(svc)
	require.True(t, feature.IsEnabled())
	assert.Equal(t, "snapshots", feature.Name())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return &fixture{app: app, store: store, ledger: l, before: before, after: after}
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHandleList(t *testing.T) {
	f := setup(t)

	status, body := get(t, f.app, "/snapshots/all_accounts")
	assert.Equal(t, 200, status)
	var list []snapshot.Artifact
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, f.before.Name, list[0].Name)

	status, body = get(t, f.app, "/snapshots/records")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestHandleLatest(t *testing.T) {
	f := setup(t)

	resp, err := f.app.Test(httptest.NewRequest("GET", "/snapshots/all_accounts/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, f.after.Name, resp.Header.Get("X-Artifact"))

	var doc accounts.AllAccounts
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, 2, doc.AccountsNum)

	status, _ := get(t, f.app, "/snapshots/domains/latest")
	assert.Equal(t, 404, status)
}

func TestHandleDocument(t *testing.T) {
	f := setup(t)

	status, body := get(t, f.app, "/snapshots/all_accounts/"+f.before.Name)
	assert.Equal(t, 200, status)
	var doc accounts.AllAccounts
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "0x02", doc.Accounts[1].ID)

	status, _ = get(t, f.app, "/snapshots/records/"+f.before.Name)
	assert.Equal(t, 400, status)

	status, _ = get(t, f.app, "/snapshots/all_accounts/all_accounts1.json")
	assert.Equal(t, 404, status)

	status, _ = get(t, f.app, "/snapshots/all_accounts/notes.txt")
	assert.Equal(t, 400, status)
}

func TestHandleDiff(t *testing.T) {
	f := setup(t)

	status, body := get(t, f.app, "/diff")
	require.Equal(t, 200, status)
	var res snapshots.DiffResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, f.before.Name, res.Before)
	assert.Equal(t, f.after.Name, res.After)
	assert.Equal(t, []string{"b.dot", "c.dot"}, res.Report.Toggled)
	assert.Equal(t, 2, res.Report.Summary.Surplus)

	status, body = get(t, f.app, "/diff?before="+f.after.Name+"&after="+f.after.Name)
	require.Equal(t, 200, status)
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Empty(t, res.Report.Toggled)

	status, _ = get(t, f.app, "/diff?before=all_accounts5.json&after="+f.after.Name)
	assert.Equal(t, 404, status)
}

func TestHandleRuns(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	run, err := f.ledger.Start(ctx, accounts.KindAll)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Finish(ctx, run, f.after.Name, 2, 3))

	status, body := get(t, f.app, "/runs?kind=all_accounts")
	assert.Equal(t, 200, status)
	var runs []ledger.Run
	require.NoError(t, json.Unmarshal(body, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, ledger.StatusSucceeded, runs[0].Status)

	status, body = get(t, f.app, "/runs/"+run.ID)
	assert.Equal(t, 200, status)
	assert.Contains(t, string(body), f.after.Name)

	status, _ = get(t, f.app, "/runs/missing")
	assert.Equal(t, 404, status)
}
