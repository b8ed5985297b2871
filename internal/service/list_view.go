package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-employee-console/internal/model"
	"go-employee-console/pkg/apiclient"
)

type ListStatus string

const (
	ListIdle    ListStatus = "idle"
	ListLoading ListStatus = "loading"
	ListReady   ListStatus = "ready"
	ListError   ListStatus = "error"
)

var ErrCancelled = errors.New("request cancelled")

type ListRow struct {
	ID      model.ID
	Cells   []string
	Pending bool
}

// ListPage is the rendered state of a resource table.
type ListPage struct {
	Resource Resource
	Columns  []string
	Rows     []ListRow
	Status   ListStatus
	Error    string
}

// Empty reports a successful load with no rows.
func (p ListPage) Empty() bool {
	return p.Status == ListReady && len(p.Rows) == 0
}

// ListSpec binds a resource to its backend calls.
type ListSpec[T any] struct {
	Resource Resource
	Columns  []string
	Lookups  []LookupRequest
	Fetch    func(ctx context.Context, b Backend) ([]T, error)
	ID       func(T) model.ID
	Cells    func(T, *Lookups) []string
	Remove   func(ctx context.Context, b Backend, id model.ID) error
}

// ListView serves one resource table. It holds no rows between calls.
type ListView[T any] struct {
	spec     ListSpec[T]
	backend  Backend
	inflight *InFlight
	log      *zap.Logger
}

func NewListView[T any](spec ListSpec[T], backend Backend, inflight *InFlight, log *zap.Logger) *ListView[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &ListView[T]{spec: spec, backend: backend, inflight: inflight, log: log}
}

func (v *ListView[T]) Resource() Resource {
	return v.spec.Resource
}

// Load fetches the primary table and its lookups concurrently and resolves
// foreign keys.
func (v *ListView[T]) Load(ctx context.Context) ListPage {
	page := ListPage{Resource: v.spec.Resource, Columns: v.spec.Columns, Status: ListLoading}

	scope := NewScope(ctx)
	defer scope.Dispose()

	var (
		items   []T
		lookups Lookups
	)
	g, gctx := errgroup.WithContext(scope.Context())
	g.Go(func() error {
		rows, err := v.spec.Fetch(gctx, v.backend)
		if err != nil {
			return err
		}
		scope.Apply(func() { items = rows })
		return nil
	})
	for _, req := range v.spec.Lookups {
		g.Go(func() error {
			return fetchLookup(gctx, scope, v.backend, &lookups, req)
		})
	}
	err := g.Wait()

	if scope.Disposed() {
		page.Status = ListError
		page.Error = ErrCancelled.Error()
		return page
	}
	if err != nil {
		v.log.Warn("list load failed", zap.String("resource", v.spec.Resource.Key), zap.Error(err))
		page.Status = ListError
		page.Error = apiclient.Message(err, "Failed to fetch "+v.spec.Resource.Plural)
		return page
	}

	page.Rows = make([]ListRow, 0, len(items))
	for _, item := range items {
		id := v.spec.ID(item)
		page.Rows = append(page.Rows, ListRow{
			ID:      id,
			Cells:   v.spec.Cells(item, &lookups),
			Pending: v.inflight.Pending(v.spec.Resource.Key, id),
		})
	}
	page.Status = ListReady
	return page
}

type DeleteResult struct {
	OK      bool
	Message string
	Err     error
}

// Delete removes one row. Only one delete per row may be in flight; the
// caller re-fetches the whole table afterwards.
func (v *ListView[T]) Delete(ctx context.Context, id model.ID) DeleteResult {
	res := v.spec.Resource
	release, ok := v.inflight.Acquire(res.Key, id)
	if !ok {
		return DeleteResult{Err: ErrDeleteInFlight, Message: "Failed to delete " + res.lower() + ": " + ErrDeleteInFlight.Error()}
	}
	defer release()

	if err := v.spec.Remove(ctx, v.backend, id); err != nil {
		v.log.Warn("delete failed",
			zap.String("resource", res.Key),
			zap.Int64("id", int64(id)),
			zap.Error(err),
		)
		return DeleteResult{Err: err, Message: "Failed to delete " + res.lower() + ": " + apiclient.Message(err, "")}
	}
	return DeleteResult{OK: true, Message: res.Name + " deleted successfully!"}
}
