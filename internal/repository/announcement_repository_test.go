package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"bulletin/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var announcementColumns = []string{
	"id", "title", "content", "creator_id", "creation_date", "site_wide",
	"members_only", "dismissal_type", "publish_start", "publish_end",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	a := &model.Announcement{
		Title:         "Big Announcement",
		Content:       "You won't believe what happened next!",
		CreatorID:     2,
		CreationDate:  now,
		SiteWide:      true,
		DismissalType: model.DismissalSession,
		PublishStart:  now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO announcements")).
		WithArgs("Big Announcement", a.Content, int64(2), sqlmock.AnyArg(), true, false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, int64(42), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM announcements WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(announcementColumns).
			AddRow(int64(5), "first", "contented", int64(1), now, true, false, int64(3), now, nil))

	a, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "first", a.Title)
	assert.Equal(t, model.DismissalPermanent, a.DismissalType)
	assert.Nil(t, a.PublishEnd)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM announcements WHERE id = ?")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnnouncementRepositoryDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements WHERE id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListVisibleAnonymous(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`d\.id IS NULL AND a\.members_only = 0 AND a\.id NOT IN \(\?, \?\) ORDER BY`).
		WithArgs(int64(0), now, now, int64(4), int64(9)).
		WillReturnRows(sqlmock.NewRows(announcementColumns).
			AddRow(int64(1), "first", "contented", int64(1), now, true, false, int64(2), now, nil))

	items, err := repo.ListVisible(context.Background(), VisibleQuery{Now: now, Exclude: []int64{4, 9}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListVisibleMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`d\.id IS NULL ORDER BY a\.publish_start DESC`).
		WithArgs(int64(7), now, now).
		WillReturnRows(sqlmock.NewRows(announcementColumns))

	items, err := repo.ListVisible(context.Background(), VisibleQuery{Now: now, UserID: 7})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListVisibleMemberWithSessionExclusions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnnouncementRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`(?s)LEFT JOIN announcement_dismissals d ON d\.announcement_id = a\.id AND d\.user_id = \?.*d\.id IS NULL AND a\.id NOT IN \(\?, \?, \?\) ORDER BY a\.publish_start DESC`).
		WithArgs(int64(7), now, now, int64(2), int64(4), int64(9)).
		WillReturnRows(sqlmock.NewRows(announcementColumns).
			AddRow(int64(3), "third", "contented", int64(1), now, true, true, int64(3), now, nil))

	items, err := repo.ListVisible(context.Background(), VisibleQuery{Now: now, UserID: 7, Exclude: []int64{2, 4, 9}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].MembersOnly)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDismissalRepositoryCountByAnnouncement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDismissalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcement_dismissals WHERE announcement_id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	count, err := repo.CountByAnnouncement(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDismissalRepositoryUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDismissalRepository(db)
	at := time.Now()

	for i := 0; i < 2; i++ {
		mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE id = id")).
			WithArgs(int64(3), int64(8), at).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	require.NoError(t, repo.Upsert(context.Background(), 3, 8, at))
	require.NoError(t, repo.Upsert(context.Background(), 3, 8, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByTokenEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
