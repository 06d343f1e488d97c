package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trend-story-api/apperr"
	"trend-story-api/config"
	"trend-story-api/database"
	"trend-story-api/logger"
	"trend-story-api/models"
	"trend-story-api/services"
	"trend-story-api/testutil"
)

func openRepo(t *testing.T, path string) services.Repository {
	t.Helper()
	repo, err := database.NewStore(path, logger.Discard()).Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestStore_OpenMissingFile(t *testing.T) {
	store := database.NewStore(filepath.Join(t.TempDir(), "missing.db"), logger.Discard())

	_, err := store.Open(context.Background())
	require.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.False(t, store.Healthy(context.Background()))
}

func TestStore_Path(t *testing.T) {
	store := database.NewStore("trends-story/trends_data.db", logger.Discard())
	assert.Equal(t, "trends-story/trends_data.db", store.Path())
}

func TestStore_OpensAreIndependent(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddNews(models.News{ID: 1, Date: testutil.Str("2024-01-15 09:00:00")})
	store := database.NewStore(ds.Path, logger.Discard())

	first, err := store.Open(context.Background())
	require.NoError(t, err)
	second, err := store.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	require.NoError(t, first.Close())

	latest, err := second.LatestDate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2024-01-15 09:00:00", *latest)
}

func TestStore_Healthy(t *testing.T) {
	ds := testutil.NewDataset(t)
	store := database.NewStore(ds.Path, logger.Discard())
	assert.True(t, store.Healthy(context.Background()))

	dirStore := database.NewStore(t.TempDir(), logger.Discard())
	assert.False(t, dirStore.Healthy(context.Background()))
}

func TestRepository_LatestDate(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddNews(
		models.News{ID: 1, Date: testutil.Str("2024-01-15 08:00:00")},
		models.News{ID: 2, Date: testutil.Str("2024-01-16 07:00:00")},
		models.News{ID: 3},
		models.News{ID: 4, Date: testutil.Str("2024-01-14 23:00:00")},
	)

	repo := openRepo(t, ds.Path)
	latest, err := repo.LatestDate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2024-01-16 07:00:00", *latest)
}

func TestRepository_LatestDateEmpty(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddNews(models.News{ID: 1})

	repo := openRepo(t, ds.Path)
	latest, err := repo.LatestDate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestRepository_DatesInIDOrder(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddNews(
		models.News{ID: 3, Date: testutil.Str("2024-01-14")},
		models.News{ID: 1, Date: testutil.Str("2024-01-16")},
		models.News{ID: 2},
		models.News{ID: 4, Date: testutil.Str("2024-01-15")},
	)

	repo := openRepo(t, ds.Path)
	dates, err := repo.Dates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-16", "2024-01-14", "2024-01-15"}, dates)
}

func TestRepository_NewsForDay(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddNews(
		models.News{ID: 5, News: testutil.Str("late"), Date: testutil.Str("2024-01-15 22:00:00"), SerpapiID: testutil.Int64(7)},
		models.News{ID: 2, News: testutil.Str("early"), Date: testutil.Str("2024-01-15 06:00:00"), ImageID: testutil.Int64(9)},
		models.News{ID: 3, News: testutil.Str("other"), Date: testutil.Str("2024-01-14 12:00:00")},
	)

	repo := openRepo(t, ds.Path)
	rows, err := repo.NewsForDay(context.Background(), "2024-01-15")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(2), rows[0].ID)
	assert.Equal(t, "early", *rows[0].News)
	assert.Nil(t, rows[0].SerpapiID)
	assert.Equal(t, int64(9), *rows[0].ImageID)
	assert.Equal(t, int64(5), rows[1].ID)
	assert.Equal(t, int64(7), *rows[1].SerpapiID)

	none, err := repo.NewsForDay(context.Background(), "2023-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_KeywordByID(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddKeyword(1, testutil.Str("eclipse"), testutil.Str("topic-Science"))

	repo := openRepo(t, ds.Path)
	kw, err := repo.KeywordByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, kw)
	assert.Equal(t, "eclipse", *kw.Query)
	assert.Equal(t, "topic-Science", *kw.Categories)

	missing, err := repo.KeywordByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_KeywordLegacySchema(t *testing.T) {
	ds := testutil.NewDatasetWithSchema(t, testutil.LegacySchema)
	ds.AddLegacyKeyword(1, testutil.Str("eclipse"))

	repo := openRepo(t, ds.Path)
	kw, err := repo.KeywordByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, kw)
	assert.Equal(t, "eclipse", *kw.Query)
	assert.Nil(t, kw.Categories)
}

func TestRepository_ImageByID(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddImage(4, testutil.Str("photo_nyc_001.jpg"))
	ds.AddImage(5, nil)

	repo := openRepo(t, ds.Path)
	img, err := repo.ImageByID(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "photo_nyc_001.jpg", *img.FileName)

	noName, err := repo.ImageByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, noName)
	assert.Nil(t, noName.FileName)

	missing, err := repo.ImageByID(context.Background(), 6)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNewsService_AgainstSQLite(t *testing.T) {
	ds := testutil.NewDataset(t)
	ds.AddKeyword(1, testutil.Str("storm"), testutil.Str("topic-Weather|place-Texas|kind-Weather"))
	ds.AddImage(1, testutil.Str("lead_weather_01.jpg"))
	ds.AddNews(
		models.News{ID: 1, News: testutil.Str("yesterday"), Date: testutil.Str("2024-01-14 09:00:00")},
		models.News{ID: 2, News: testutil.Str("storm hits"), Date: testutil.Str("2024-01-15 09:00:00"), SerpapiID: testutil.Int64(1), ImageID: testutil.Int64(1)},
		models.News{ID: 3, News: testutil.Str("dangling"), Date: testutil.Str("2024-01-15 10:00:00"), SerpapiID: testutil.Int64(40), ImageID: testutil.Int64(41)},
	)

	store := database.NewStore(ds.Path, logger.Discard())
	svc := services.NewNewsService(store, config.TestConfig().API)

	resp, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", *resp.Date)
	require.Len(t, resp.Records, 2)

	first := resp.Records[0]
	assert.Equal(t, "storm", *first.Keywords)
	assert.Equal(t, []string{"Weather", "Texas"}, first.Tags)
	assert.Equal(t, "https://example.test/images/weather/lead_weather_01.jpg", *first.Image.URL)

	second := resp.Records[1]
	assert.Nil(t, second.Keywords)
	assert.Nil(t, second.Image)
	assert.Empty(t, second.Tags)
}
