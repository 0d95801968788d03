package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/adapters/storage"
	"treasurecove/internal/adapters/storage/kv"
	"treasurecove/internal/domain/activity"
	"treasurecove/internal/domain/audit"
	"treasurecove/internal/domain/lifeguard"
	"treasurecove/internal/domain/state"
	"treasurecove/internal/domain/user"
)

const prefix = "treasureCove_"

func fixedNow() time.Time {
	return time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
}

func newGateway(t *testing.T) (*Gateway, *kv.SQLiteStore) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := kv.NewSQLiteStore(db)
	return New(store, Options{KeyPrefix: prefix, BcryptCost: 4, Collector: perf.NewCollector(64), Now: fixedNow}), store
}

func TestSaveAll_RoundTrip(t *testing.T) {
	g, _ := newGateway(t)
	ctx := context.Background()

	want, err := state.Seed(4)
	require.NoError(t, err)
	want.Sequences = state.Sequences{User: 9, Lifeguard: 12, Audit: 10, Activity: 30}
	by := "Demetrius Lopez"
	at := time.Date(2025, 10, 6, 9, 15, 0, 0, time.UTC)
	want.Audits[1].LastEditedBy, want.Audits[1].LastEditedAt = &by, &at

	require.NoError(t, g.SaveAll(ctx, &want))

	got, loaded := g.LoadAll(ctx)
	assert.True(t, loaded.Users && loaded.Lifeguards && loaded.Audits && loaded.Activity)
	assert.Equal(t, want, got)
}

func TestSaveAll_EmptyCollectionsStayLoaded(t *testing.T) {
	g, _ := newGateway(t)
	ctx := context.Background()

	require.NoError(t, g.SaveAll(ctx, &state.State{}))
	got, loaded := g.LoadAll(ctx)
	assert.True(t, loaded.Activity, "an empty activity log is a stored value")
	assert.Empty(t, got.Activity)
}

func TestLoad_MissingKeyKeepsDefault(t *testing.T) {
	g, _ := newGateway(t)
	dst := state.SeedLifeguards()
	ok := g.Load(context.Background(), CollectionLifeguards, &dst)
	assert.False(t, ok)
	assert.Len(t, dst, 10)
}

func TestLoad_CorruptValueKeepsDefault(t *testing.T) {
	g, store := newGateway(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, prefix+CollectionAudits, []byte(`{"schema_version":1,"data":[{"id":"one"`)))

	dst := state.SeedAudits()
	assert.False(t, g.Load(ctx, CollectionAudits, &dst))
	assert.Len(t, dst, 10)
}

func TestLoad_WrongShapeKeepsDefault(t *testing.T) {
	g, store := newGateway(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, prefix+CollectionAudits, []byte(`{"schema_version":1,"data":[{"id":"one"}]}`)))

	dst := state.SeedAudits()
	assert.False(t, g.Load(ctx, CollectionAudits, &dst))
	assert.Len(t, dst, 10, "destination must not be partially overwritten")
}

func TestLoad_NewerSchemaIsIgnored(t *testing.T) {
	g, store := newGateway(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, prefix+CollectionUsers, []byte(`{"schema_version":99,"data":[]}`)))

	var dst []user.User
	assert.False(t, g.Load(ctx, CollectionUsers, &dst))
	assert.Nil(t, dst)
}

func TestLoad_LegacyDocuments(t *testing.T) {
	g, store := newGateway(t)
	ctx := context.Background()

	users := `[{"id":1,"username":"Demetrius Lopez","role":"SENIOR_ADMIN","password":"demetrius2025","active":true,
		"created_by":"System","created_date":"2025-01-01","last_login":"2025-10-04",
		"individual_permissions":{"can_manage_users":true,"can_export_data":true}},
		{"id":9,"username":"Old","role":"VIEWER","password":"pw","active":false,
		"created_by":"Demetrius Lopez","created_date":"2025-05-01","last_login":null,"individual_permissions":{}}]`
	audits := `[{"id":4,"lifeguard_name":"JAVIAN QUIÑONES","date":"2025-09-20","time":"09:30:00","audit_type":"Visual",
		"skill_detail":"","auditor_name":"Kyarra Cruz","result":"EXCEEDS","notes":"","follow_up":"","created_by":"Kyarra Cruz",
		"created_date":"2025-09-20 09:30:00","last_edited_by":"Demetrius Lopez","last_edited_date":"2025-10-01T08:00:00.000Z"}]`
	log := `[{"id":1,"timestamp":"2025-10-06 12:00:00","user":"Demetrius Lopez","action":"LOGIN","details":"User logged in"}]`
	guards := `[{"sheet_number":"01","sheet_name":"Lifeguard_Audit_Sheet_01","lifeguard_name":"mia figueroa","active":true,"hire_date":"2025-01-01","status":"INACTIVE"}]`

	require.NoError(t, store.PutMany(ctx, []kv.Entry{
		{Key: prefix + CollectionUsers, Value: []byte(users)},
		{Key: prefix + CollectionAudits, Value: []byte(audits)},
		{Key: prefix + CollectionActivity, Value: []byte(log)},
		{Key: prefix + CollectionLifeguards, Value: []byte(guards)},
	}))

	st, loaded := g.LoadAll(ctx)
	require.True(t, loaded.Users && loaded.Audits && loaded.Activity && loaded.Lifeguards)

	require.Len(t, st.Users, 2)
	admin := st.Users[0]
	assert.NotEqual(t, "demetrius2025", admin.PasswordHash)
	assert.NoError(t, admin.CheckPassword("demetrius2025"))
	assert.NoError(t, st.Users[1].CheckPassword("pw"), "short legacy passwords still import")
	require.NotNil(t, admin.LastLogin)
	assert.Equal(t, time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), *admin.LastLogin)
	assert.Nil(t, st.Users[1].LastLogin)
	assert.Equal(t, 2, admin.Permissions.Count())

	require.Len(t, st.Audits, 1)
	a := st.Audits[0]
	assert.Equal(t, audit.ResultExceeds, a.Result)
	assert.True(t, a.Edited())
	assert.Equal(t, time.Date(2025, 9, 20, 9, 30, 0, 0, time.UTC), a.CreatedAt)

	require.Len(t, st.Activity, 1)
	assert.Equal(t, activity.ActionLogin, st.Activity[0].Action)

	require.Len(t, st.Lifeguards, 1)
	assert.Equal(t, "MIA FIGUEROA", st.Lifeguards[0].Name)
	assert.False(t, st.Lifeguards[0].Active, "status wins over a stale active flag")
	assert.Equal(t, lifeguard.StatusInactive, st.Lifeguards[0].Status)
}

func TestSave_SingleCollection(t *testing.T) {
	g, store := newGateway(t)
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, CollectionLifeguards, state.SeedLifeguards()))
	e, err := store.Get(ctx, prefix+CollectionLifeguards)
	require.NoError(t, err)
	assert.Contains(t, string(e.Value), `"schema_version":1`)
	assert.Contains(t, string(e.Value), `"saved_at":"2025-10-06T12:00:00Z"`)
}

// failingStore rejects every write.
type failingStore struct {
	kv.Store
	puts int
}

func (f *failingStore) Put(context.Context, string, []byte) error {
	f.puts++
	return errors.New("disk full")
}

func (f *failingStore) PutMany(context.Context, []kv.Entry) error {
	f.puts++
	return errors.New("disk full")
}

func TestSaveAll_FailureIsReportedNotPanicked(t *testing.T) {
	collector := perf.NewCollector(8)
	g := New(&failingStore{}, Options{KeyPrefix: prefix, Collector: collector, Now: fixedNow})

	err := g.SaveAll(context.Background(), &state.State{})
	assert.Error(t, err)

	snap := collector.Snapshot(time.Time{}.Add(time.Nanosecond), 5)
	assert.Equal(t, 1, snap.FailedFlushes)
}

func TestKey(t *testing.T) {
	g := New(nil, Options{KeyPrefix: prefix})
	assert.Equal(t, "treasureCove_activityLog", g.Key(CollectionActivity))
}
