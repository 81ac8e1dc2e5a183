// Package memrepo 提供仓库接口的内存实现，用于测试。
package memrepo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"bulletin/internal/model"
	"bulletin/internal/repository"
)

type dismissalKey struct {
	announcementID int64
	userID         int64
}

// DB 内存数据库，公告、关闭记录和用户共享同一把锁
type DB struct {
	mu            sync.Mutex
	nextID        int64
	announcements map[int64]model.Announcement
	dismissals    map[dismissalKey]model.Dismissal
	users         map[int64]model.User
}

// New 创建内存数据库
func New() *DB {
	return &DB{
		announcements: make(map[int64]model.Announcement),
		dismissals:    make(map[dismissalKey]model.Dismissal),
		users:         make(map[int64]model.User),
	}
}

func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

// Announcements 公告仓库
func (db *DB) Announcements() repository.AnnouncementRepository {
	return announcementRepo{db}
}

// Dismissals 关闭记录仓库
func (db *DB) Dismissals() repository.DismissalRepository {
	return dismissalRepo{db}
}

// Users 用户仓库
func (db *DB) Users() repository.UserRepository {
	return userRepo{db}
}

// DismissalCount 关闭记录总数
func (db *DB) DismissalCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.dismissals)
}

type announcementRepo struct{ db *DB }

func (r announcementRepo) Create(_ context.Context, a *model.Announcement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = r.db.id()
	r.db.announcements[a.ID] = *a
	return nil
}

func (r announcementRepo) GetByID(_ context.Context, id int64) (*model.Announcement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.announcements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r announcementRepo) Update(_ context.Context, a *model.Announcement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.announcements[a.ID]; ok {
		r.db.announcements[a.ID] = *a
	}
	return nil
}

func (r announcementRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.announcements[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.announcements, id)
	for k := range r.db.dismissals {
		if k.announcementID == id {
			delete(r.db.dismissals, k)
		}
	}
	return nil
}

func (r announcementRepo) sorted(keep func(model.Announcement) bool) []model.Announcement {
	out := []model.Announcement{}
	for _, a := range r.db.announcements {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishStart.Equal(out[j].PublishStart) {
			return out[i].PublishStart.After(out[j].PublishStart)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r announcementRepo) List(_ context.Context, page, limit int) ([]model.Announcement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.sorted(func(model.Announcement) bool { return true })
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.Announcement{}, nil
	}
	return all[start:min(start+limit, len(all))], nil
}

func (r announcementRepo) Count(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.announcements)), nil
}

func (r announcementRepo) ListVisible(_ context.Context, q repository.VisibleQuery) ([]model.Announcement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.sorted(func(a model.Announcement) bool {
		if !a.SiteWide || !a.Published(q.Now) {
			return false
		}
		if q.UserID == 0 && a.MembersOnly {
			return false
		}
		if _, dismissed := r.db.dismissals[dismissalKey{a.ID, q.UserID}]; dismissed {
			return false
		}
		return !slices.Contains(q.Exclude, a.ID)
	}), nil
}

type dismissalRepo struct{ db *DB }

func (r dismissalRepo) Upsert(_ context.Context, announcementID, userID int64, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := dismissalKey{announcementID, userID}
	if _, ok := r.db.dismissals[key]; ok {
		return nil
	}
	r.db.dismissals[key] = model.Dismissal{
		ID:             r.db.id(),
		AnnouncementID: announcementID,
		UserID:         userID,
		DismissedAt:    at,
	}
	return nil
}

func (r dismissalRepo) CountByAnnouncement(_ context.Context, announcementID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for k := range r.db.dismissals {
		if k.announcementID == announcementID {
			n++
		}
	}
	return n, nil
}

type userRepo struct{ db *DB }

func (r userRepo) Create(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u.ID = r.db.id()
	r.db.users[u.ID] = *u
	return nil
}

func (r userRepo) find(match func(model.User) bool) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r userRepo) GetByToken(_ context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(u model.User) bool { return u.Token == token })
}
