package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-employee-console/internal/model"
	"go-employee-console/internal/repository"
	"go-employee-console/pkg/apiclient"
)

// Placeholder counters until attendance and project data exist.
const (
	PresentCount  = 3
	ProjectsCount = 20
)

type Chart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type Dashboard struct {
	All       []model.FlatEmployee `json:"-"`
	Employees []model.FlatEmployee `json:"employees"`
	Search    string               `json:"search"`
	Total     int                  `json:"total"`
	Present   int                  `json:"present"`
	Absent    int                  `json:"absent"`
	Projects  int                  `json:"projects"`
	Bar       Chart                `json:"bar"`
	Pie       Chart                `json:"pie"`
	Error     string               `json:"error,omitempty"`
	// Stale is set when the list came from the fallback snapshot.
	Stale      bool      `json:"stale"`
	SnapshotAt time.Time `json:"snapshot_at,omitempty"`
}

// Summarize derives counters and chart datasets from the full list.
func Summarize(all []model.FlatEmployee) Dashboard {
	total := len(all)
	absent := total - PresentCount
	if absent < 0 {
		absent = 0
	}
	return Dashboard{
		All:       all,
		Employees: all,
		Total:     total,
		Present:   PresentCount,
		Absent:    absent,
		Projects:  ProjectsCount,
		Bar:       Chart{Labels: []string{"Employees", "Present", "Projects"}, Values: []int{total, PresentCount, ProjectsCount}},
		Pie:       Chart{Labels: []string{"Present", "Absent"}, Values: []int{PresentCount, absent}},
	}
}

// Filter keeps rows whose name, email or state contains query, ignoring case.
func Filter(rows []model.FlatEmployee, query string) []model.FlatEmployee {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]model.FlatEmployee, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Email), q) ||
			strings.Contains(strings.ToLower(r.State), q) {
			out = append(out, r)
		}
	}
	return out
}

// WithSearch returns d with its table narrowed to query.
func (d Dashboard) WithSearch(query string) Dashboard {
	d.Search = query
	d.Employees = Filter(d.All, query)
	return d
}

type DashboardService struct {
	users     Users
	snapshots repository.SnapshotRepository
	ttl       time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewDashboardService(users Users, snapshots repository.SnapshotRepository, ttl time.Duration, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{users: users, snapshots: snapshots, ttl: ttl, now: time.Now, log: log}
}

// Load fetches every employee once. A successful fetch refreshes owner's
// snapshot; a failed one falls back to a snapshot younger than the TTL.
func (s *DashboardService) Load(ctx context.Context, owner, search string) Dashboard {
	users, err := s.users.ListUsers(ctx)
	if err == nil {
		flat := make([]model.FlatEmployee, len(users))
		for i, u := range users {
			flat[i] = u.Flatten()
		}
		if s.snapshots != nil && owner != "" {
			if serr := s.snapshots.Save(ctx, owner, flat); serr != nil {
				s.log.Warn("save employee snapshot failed", zap.Error(serr))
			}
		}
		return Summarize(flat).WithSearch(search)
	}

	s.log.Warn("fetch employees failed", zap.Error(err))
	msg := apiclient.Message(err, "Failed to fetch employees")
	if rows, savedAt, ok := s.fallback(ctx, owner); ok {
		d := Summarize(rows).WithSearch(search)
		d.Stale = true
		d.SnapshotAt = savedAt
		d.Error = msg
		return d
	}
	d := Summarize(nil).WithSearch(search)
	d.Error = msg
	return d
}

func (s *DashboardService) fallback(ctx context.Context, owner string) ([]model.FlatEmployee, time.Time, bool) {
	if s.snapshots == nil || owner == "" {
		return nil, time.Time{}, false
	}
	rows, savedAt, err := s.snapshots.Find(ctx, owner)
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			s.log.Warn("read employee snapshot failed", zap.Error(err))
		}
		return nil, time.Time{}, false
	}
	if s.ttl > 0 && s.now().Sub(savedAt) > s.ttl {
		return nil, time.Time{}, false
	}
	return rows, savedAt, true
}

// Forget drops owner's snapshot.
func (s *DashboardService) Forget(ctx context.Context, owner string) error {
	if s.snapshots == nil || owner == "" {
		return nil
	}
	return s.snapshots.Delete(ctx, owner)
}

// Directory lists employees for the user cards page.
func (s *DashboardService) Directory(ctx context.Context) ([]model.Employee, error) {
	return s.users.ListUsers(ctx)
}
