package aztable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

type fakeRow struct {
	body []byte
	etag azcore.ETag
}

// fakeTable is an in-memory stand-in for *aztables.Client that answers with
// the status codes and error codes of the real service.
type fakeTable struct {
	mu       sync.Mutex
	tableOK  bool
	rows     map[string]fakeRow
	version  int
	failWith error

	lastList *aztables.ListEntitiesOptions
	pageSize int
}

func newFakeTable() *fakeTable {
	return &fakeTable{rows: make(map[string]fakeRow), pageSize: 1000}
}

func responseError(status int, code string) error {
	resp := &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"X-Ms-Error-Code": []string{code}},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    httptest.NewRequest(http.MethodGet, "https://account.table.core.windows.net/todos", http.NoBody),
	}
	return runtime.NewResponseErrorWithErrorCode(resp, code)
}

func rowID(pk, rk string) string { return pk + "/" + rk }

func (f *fakeTable) nextETag() azcore.ETag {
	f.version++
	return azcore.ETag(fmt.Sprintf(`W/"datetime'%d'"`, f.version))
}

func (f *fakeTable) CreateTable(context.Context, *aztables.CreateTableOptions) (aztables.CreateTableResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return aztables.CreateTableResponse{}, f.failWith
	}
	if f.tableOK {
		return aztables.CreateTableResponse{}, responseError(http.StatusConflict, string(aztables.TableAlreadyExists))
	}
	f.tableOK = true
	return aztables.CreateTableResponse{}, nil
}

func (f *fakeTable) AddEntity(_ context.Context, entity []byte, _ *aztables.AddEntityOptions) (aztables.AddEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return aztables.AddEntityResponse{}, f.failWith
	}

	var w wireEntity
	if err := json.Unmarshal(entity, &w); err != nil {
		return aztables.AddEntityResponse{}, responseError(http.StatusBadRequest, "InvalidInput")
	}
	id := rowID(w.PartitionKey, w.RowKey)
	if _, ok := f.rows[id]; ok {
		return aztables.AddEntityResponse{}, responseError(http.StatusConflict, "EntityAlreadyExists")
	}

	etag := f.nextETag()
	f.rows[id] = fakeRow{body: entity, etag: etag}
	return aztables.AddEntityResponse{ETag: etag}, nil
}

func (f *fakeTable) GetEntity(_ context.Context, pk, rk string, _ *aztables.GetEntityOptions) (aztables.GetEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return aztables.GetEntityResponse{}, f.failWith
	}

	row, ok := f.rows[rowID(pk, rk)]
	if !ok {
		return aztables.GetEntityResponse{}, responseError(http.StatusNotFound, "ResourceNotFound")
	}
	return aztables.GetEntityResponse{ETag: row.etag, Value: row.body}, nil
}

func (f *fakeTable) UpdateEntity(_ context.Context, entity []byte, opts *aztables.UpdateEntityOptions) (aztables.UpdateEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return aztables.UpdateEntityResponse{}, f.failWith
	}

	var w wireEntity
	if err := json.Unmarshal(entity, &w); err != nil {
		return aztables.UpdateEntityResponse{}, responseError(http.StatusBadRequest, "InvalidInput")
	}
	id := rowID(w.PartitionKey, w.RowKey)
	row, ok := f.rows[id]
	if !ok {
		return aztables.UpdateEntityResponse{}, responseError(http.StatusNotFound, "ResourceNotFound")
	}
	if opts != nil && opts.IfMatch != nil && *opts.IfMatch != azcore.ETagAny && *opts.IfMatch != row.etag {
		return aztables.UpdateEntityResponse{}, responseError(http.StatusPreconditionFailed, "UpdateConditionNotSatisfied")
	}

	etag := f.nextETag()
	f.rows[id] = fakeRow{body: entity, etag: etag}
	return aztables.UpdateEntityResponse{ETag: etag}, nil
}

func (f *fakeTable) DeleteEntity(_ context.Context, pk, rk string, opts *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return aztables.DeleteEntityResponse{}, f.failWith
	}

	id := rowID(pk, rk)
	row, ok := f.rows[id]
	if !ok {
		return aztables.DeleteEntityResponse{}, responseError(http.StatusNotFound, "ResourceNotFound")
	}
	if opts != nil && opts.IfMatch != nil && *opts.IfMatch != azcore.ETagAny && *opts.IfMatch != row.etag {
		return aztables.DeleteEntityResponse{}, responseError(http.StatusPreconditionFailed, "UpdateConditionNotSatisfied")
	}

	delete(f.rows, id)
	return aztables.DeleteEntityResponse{}, nil
}

// NewListEntitiesPager serves rows ordered by key, f.pageSize per page, and
// annotates each entity with its odata.etag like the service does.
func (f *fakeTable) NewListEntitiesPager(opts *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse] {
	f.mu.Lock()
	f.lastList = opts
	f.mu.Unlock()

	offset := 0
	return runtime.NewPager(runtime.PagingHandler[aztables.ListEntitiesResponse]{
		More: func(page aztables.ListEntitiesResponse) bool {
			return page.NextRowKey != nil
		},
		Fetcher: func(context.Context, *aztables.ListEntitiesResponse) (aztables.ListEntitiesResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failWith != nil {
				return aztables.ListEntitiesResponse{}, f.failWith
			}

			ids := make([]string, 0, len(f.rows))
			for id := range f.rows {
				ids = append(ids, id)
			}
			slices.Sort(ids)

			limit := f.pageSize
			if opts != nil && opts.Top != nil && int(*opts.Top) < limit {
				limit = int(*opts.Top)
			}

			var page aztables.ListEntitiesResponse
			for _, id := range ids[offset:] {
				if len(page.Entities) == limit {
					next := id
					page.NextRowKey = &next
					break
				}
				page.Entities = append(page.Entities, withETag(f.rows[id]))
				offset++
			}
			return page, nil
		},
	})
}

func withETag(row fakeRow) []byte {
	var m map[string]any
	_ = json.Unmarshal(row.body, &m)
	m["odata.etag"] = string(row.etag)
	m["Timestamp"] = "2024-05-02T08:30:00Z"
	b, _ := json.Marshal(m)
	return b
}
