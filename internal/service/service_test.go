package service

import (
	"context"
	"testing"
	"time"

	"bulletin/internal/model"
	"bulletin/internal/repository/memrepo"
	"bulletin/internal/session"
	"bulletin/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db            *memrepo.DB
	mr            *miniredis.Miniredis
	sessions      *session.Store
	announcements *AnnouncementService
	dismissals    *DismissalService
	users         UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db := memrepo.New()
	log := logger.NewNop()
	sessions := session.NewStore(rdb, time.Hour)

	return &fixture{
		db:            db,
		mr:            mr,
		sessions:      sessions,
		announcements: NewAnnouncementService(db.Announcements(), rdb, time.Minute, log),
		dismissals:    NewDismissalService(db.Dismissals(), sessions, log),
		users:         NewUserService(db.Users(), log),
	}
}

func (f *fixture) announcement(t *testing.T, title string, dismissal model.DismissalType, siteWide bool) *model.Announcement {
	t.Helper()
	a := &model.Announcement{
		Title:         title,
		Content:       "contented",
		CreatorID:     1,
		SiteWide:      siteWide,
		DismissalType: dismissal,
		PublishStart:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.announcements.CreateAnnouncement(context.Background(), a))
	return a
}

func (f *fixture) user(t *testing.T, name string, staff bool) *model.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), name, name+"@example.com", "password", staff)
	require.NoError(t, err)
	return u
}

func ids(items []model.Announcement) []int64 {
	out := make([]int64, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func TestCreateAnnouncementDefaults(t *testing.T) {
	f := newFixture(t)
	a := &model.Announcement{Title: "Big Announcement", Content: "body", CreatorID: 1}

	require.NoError(t, f.announcements.CreateAnnouncement(context.Background(), a))
	assert.NotZero(t, a.ID)
	assert.Equal(t, model.DismissalSession, a.DismissalType)
	assert.False(t, a.PublishStart.IsZero())
	assert.False(t, a.CreationDate.IsZero())
}

func TestCreateAnnouncementValidation(t *testing.T) {
	f := newFixture(t)
	end := time.Now().Add(-48 * time.Hour)

	tests := []struct {
		name string
		a    model.Announcement
	}{
		{"missing title", model.Announcement{Content: "body"}},
		{"long title", model.Announcement{Title: "123456789012345678901234567890123456789012345678901", Content: "body"}},
		{"missing content", model.Announcement{Title: "t"}},
		{"bad dismissal type", model.Announcement{Title: "t", Content: "body", DismissalType: 7}},
		{"end before start", model.Announcement{Title: "t", Content: "body", PublishEnd: &end}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.a
			assert.ErrorIs(t, f.announcements.CreateAnnouncement(context.Background(), &a), ErrInvalidInput)
		})
	}
}

func TestGetAnnouncementByIDUsesCache(t *testing.T) {
	f := newFixture(t)
	a := f.announcement(t, "cached", model.DismissalSession, true)
	ctx := context.Background()

	got, err := f.announcements.GetAnnouncementByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Title)
	assert.True(t, f.mr.Exists("announcements:detail:1"))

	got.Title = "renamed"
	require.NoError(t, f.announcements.UpdateAnnouncement(ctx, got))
	assert.False(t, f.mr.Exists("announcements:detail:1"))

	got, err = f.announcements.GetAnnouncementByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
}

func TestDeleteAnnouncement(t *testing.T) {
	f := newFixture(t)
	a := f.announcement(t, "doomed", model.DismissalSession, true)
	ctx := context.Background()

	_, err := f.announcements.GetAnnouncementByID(ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, f.announcements.DeleteAnnouncement(ctx, a.ID))
	_, err = f.announcements.GetAnnouncementByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAnnouncementNotFound)
	assert.ErrorIs(t, f.announcements.DeleteAnnouncement(ctx, a.ID), ErrAnnouncementNotFound)
}

func TestGetAnnouncementsAdmin(t *testing.T) {
	f := newFixture(t)
	f.announcement(t, "first", model.DismissalSession, true)
	f.announcement(t, "second", model.DismissalSession, false)
	f.announcement(t, "third", model.DismissalSession, true)

	page, err := f.announcements.GetAnnouncementsAdmin(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestDismissNoIsAlwaysConflict(t *testing.T) {
	f := newFixture(t)
	a := f.announcement(t, "sticky", model.DismissalNo, true)
	staff := f.user(t, "staff", true)
	member := f.user(t, "pinax", false)

	for _, viewer := range []*model.User{nil, member, staff} {
		sess := session.New()
		err := f.dismissals.Dismiss(context.Background(), a, viewer, sess)
		assert.ErrorIs(t, err, ErrDismissalConflict)
		assert.Empty(t, sess.Excluded())
	}
	assert.Zero(t, f.db.DismissalCount())
}

func TestDismissPermanentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	a := f.announcement(t, "permanent", model.DismissalPermanent, true)
	member := f.user(t, "pinax", false)
	ctx := context.Background()

	require.NoError(t, f.dismissals.Dismiss(ctx, a, member, session.New()))
	require.NoError(t, f.dismissals.Dismiss(ctx, a, member, session.New()))

	count, err := f.dismissals.DismissalCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDismissPermanentRequiresLogin(t *testing.T) {
	f := newFixture(t)
	a := f.announcement(t, "permanent", model.DismissalPermanent, true)

	err := f.dismissals.Dismiss(context.Background(), a, nil, session.New())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Zero(t, f.db.DismissalCount())
}

func TestDismissSessionIsPerSession(t *testing.T) {
	f := newFixture(t)
	a := f.announcement(t, "session", model.DismissalSession, true)
	ctx := context.Background()
	now := time.Now()

	sess := session.New()
	require.NoError(t, f.dismissals.Dismiss(ctx, a, nil, sess))
	assert.Zero(t, f.db.DismissalCount())

	stored, err := f.sessions.Load(ctx, sess.ID)
	require.NoError(t, err)
	visible, err := f.announcements.Visible(ctx, now, nil, stored)
	require.NoError(t, err)
	assert.NotContains(t, ids(visible), a.ID)

	visible, err = f.announcements.Visible(ctx, now, nil, session.New())
	require.NoError(t, err)
	assert.Contains(t, ids(visible), a.ID)
}

func TestVisibleAnonymousMatchesMember(t *testing.T) {
	f := newFixture(t)
	first := f.announcement(t, "first", model.DismissalSession, true)
	second := f.announcement(t, "second", model.DismissalPermanent, true)
	f.announcement(t, "not site wide", model.DismissalSession, false)
	member := f.user(t, "pinax", false)
	ctx := context.Background()
	now := time.Now()

	anon, err := f.announcements.Visible(ctx, now, nil, session.New())
	require.NoError(t, err)
	authed, err := f.announcements.Visible(ctx, now, member, session.New())
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, ids(anon))
	assert.ElementsMatch(t, ids(anon), ids(authed))

	require.NoError(t, f.dismissals.Dismiss(ctx, second, member, session.New()))
	authed, err = f.announcements.Visible(ctx, now, member, session.New())
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, ids(authed))
}

func TestVisibleRespectsPublishWindowAndMembersOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	ended := now.Add(-time.Minute)

	future := &model.Announcement{Title: "future", Content: "c", SiteWide: true, PublishStart: now.Add(time.Hour)}
	expired := &model.Announcement{Title: "expired", Content: "c", SiteWide: true, PublishStart: now.Add(-time.Hour), PublishEnd: &ended}
	members := &model.Announcement{Title: "members", Content: "c", SiteWide: true, MembersOnly: true, PublishStart: now.Add(-time.Hour)}
	for _, a := range []*model.Announcement{future, expired, members} {
		require.NoError(t, f.announcements.CreateAnnouncement(ctx, a))
	}
	member := f.user(t, "pinax", false)

	anon, err := f.announcements.Visible(ctx, now, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, anon)

	authed, err := f.announcements.Visible(ctx, now, member, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{members.ID}, ids(authed))
}

func TestCanView(t *testing.T) {
	now := time.Now()
	live := &model.Announcement{PublishStart: now.Add(-time.Hour)}
	future := &model.Announcement{PublishStart: now.Add(time.Hour)}
	members := &model.Announcement{PublishStart: now.Add(-time.Hour), MembersOnly: true}
	member := &model.User{ID: 3}

	assert.True(t, CanView(live, nil, false, now))
	assert.False(t, CanView(future, member, false, now))
	assert.True(t, CanView(future, member, true, now))
	assert.False(t, CanView(members, nil, false, now))
	assert.True(t, CanView(members, member, false, now))
}

func TestUserLogin(t *testing.T) {
	f := newFixture(t)
	created := f.user(t, "pinax", false)
	assert.Len(t, created.Token, tokenLength)
	assert.NotEqual(t, "password", created.Password)

	u, err := f.users.Login(context.Background(), "pinax", "password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = f.users.Login(context.Background(), "pinax", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Login(context.Background(), "nobody", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.users.Create(context.Background(), "pinax", "", "other", false)
	assert.ErrorIs(t, err, ErrUserExists)
}
