package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/monitoring"
	"github.com/kingyeung625/hk-school-selector/service/tabular"
	"github.com/kingyeung625/hk-school-selector/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSource() tabular.Source {
	return tabular.Source{Filename: "schools.csv", Reader: strings.NewReader(testutil.TableCSV(testutil.SampleSchoolTable()))}
}

func districtState(d string) models.FilterState {
	return models.FilterState{Selections: []models.Selection{{Facet: facet.KeyDistrict, Values: []string{d}}}}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(Options{})

	sess := store.Create()
	assert.NotEmpty(t, sess.ID)
	assert.Nil(t, sess.Dataset())
	assert.False(t, sess.Summary().HasDataset)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, _, err = store.Search(sess.ID, districtState("沙田區"))
	assert.ErrorIs(t, err, models.ErrNoDataset)

	store.Delete(sess.ID)
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStore_UploadAndSearch(t *testing.T) {
	store := NewStore(Options{})
	sess := store.Create()

	coll, err := store.Upload(sess.ID, sampleSource(), &tabular.Source{
		Filename: "articles.csv",
		Reader:   strings.NewReader(testutil.TableCSV(testutil.SampleArticlesTable())),
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, coll.Version)
	assert.Equal(t, 4, coll.Len())
	assert.Equal(t, 2, coll.Stats.ArticlesJoined)

	summary := sess.Summary()
	assert.True(t, summary.HasDataset)
	assert.Equal(t, coll.Version, summary.Version)
	assert.Equal(t, 4, summary.Records)

	_, result, err := store.Search(sess.ID, districtState("沙田區"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total())
}

func TestStore_FailedUploadLeavesSessionUntouched(t *testing.T) {
	store := NewStore(Options{})
	sess := store.Create()
	first, err := store.Upload(sess.ID, sampleSource(), nil, nil)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		src     tabular.Source
		wantErr error
	}{
		{name: "格式不支持", src: tabular.Source{Filename: "schools.pdf", Reader: strings.NewReader("x")}, wantErr: models.ErrUnsupportedFormat},
		{name: "缺少学校名称列", src: tabular.Source{Filename: "bad.csv", Reader: strings.NewReader("地區,校網\n沙田區,91\n")}, wantErr: models.ErrMissingRequiredColumn},
		{name: "空文件", src: tabular.Source{Filename: "empty.csv", Reader: strings.NewReader("")}, wantErr: models.ErrEmptyTable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Upload(sess.ID, tc.src, nil, nil)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Same(t, first, sess.Dataset())
		})
	}

	second, err := store.Upload(sess.ID, sampleSource(), nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, second.Version, "每次上传生成新版本")
}

func TestStore_Preload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schools.csv")
	require.NoError(t, os.WriteFile(path, []byte(testutil.TableCSV(testutil.SampleSchoolTable())), 0o600))

	store := NewStore(Options{})
	before := store.Create()

	coll, err := store.LoadPreloadFile(path)
	require.NoError(t, err)
	assert.Same(t, coll, store.Preloaded())

	after := store.Create()
	assert.Same(t, coll, after.Dataset())
	assert.Nil(t, before.Dataset(), "已有会话不受预载影响")

	_, err = store.LoadPreloadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	assert.Same(t, coll, store.Preloaded())
}

func TestStore_SessionExpires(t *testing.T) {
	store := NewStore(Options{SessionTTL: 30 * time.Millisecond})
	sess := store.Create()

	time.Sleep(60 * time.Millisecond)
	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStore_EvaluateMemoized(t *testing.T) {
	store := NewStore(Options{})
	sess := store.Create()
	coll, err := store.Upload(sess.ID, sampleSource(), nil, nil)
	require.NoError(t, err)

	hits := promtest.ToFloat64(monitoring.QueryCache.WithLabelValues("hit"))
	first, err := store.Evaluate(coll, districtState("沙田區"))
	require.NoError(t, err)

	paged := districtState("沙田區")
	paged.Page = 3
	second, err := store.Evaluate(coll, paged)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, hits+1, promtest.ToFloat64(monitoring.QueryCache.WithLabelValues("hit")))

	_, err = store.Evaluate(coll, models.FilterState{Selections: []models.Selection{{Facet: "nope"}}})
	assert.ErrorIs(t, err, models.ErrUnknownFacet)
}

func TestStateHash(t *testing.T) {
	a := models.FilterState{Selections: []models.Selection{
		{Facet: facet.KeyDistrict, Values: []string{"沙田區", "大埔區"}},
		{Facet: "bachelor_pct", Value: "50"},
	}, Page: 1, PageSize: 10}
	b := models.FilterState{Selections: []models.Selection{
		{Facet: "bachelor_pct", Value: " 50 "},
		{Facet: facet.KeyDistrict, Values: []string{"大埔區", "沙田區"}},
	}, Page: 4}
	c := models.FilterState{Selections: []models.Selection{
		{Facet: "bachelor_pct", Value: "55"},
		{Facet: facet.KeyDistrict, Values: []string{"大埔區", "沙田區"}},
	}}

	assert.Equal(t, StateHash(a), StateHash(b))
	assert.NotEqual(t, StateHash(a), StateHash(c))
	assert.NotEqual(t, ResultKey("v1", a), ResultKey("v2", a), "版本不同缓存键不同")
}
