package dto_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/tabletodo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/tabletodo-service/internal/domain"
)

const todoPath = "/tabletodo/0f8e3a4c9d2b4e6fa1c3b5d7e9f01234"

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
		wantDetail string // empty means no body
	}{
		{
			name:       "missing todo",
			method:     http.MethodGet,
			err:        fmt.Errorf("get entity todos/0f8e3a4c: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "stale etag on replace",
			method:     http.MethodPut,
			err:        fmt.Errorf("replace entity: UpdateConditionNotSatisfied: %w", domain.ErrConflict),
			wantStatus: http.StatusConflict,
			wantDetail: "replace entity: UpdateConditionNotSatisfied: conflict",
		},
		{
			name:       "store unreachable",
			method:     http.MethodGet,
			err:        fmt.Errorf("query partition: %w", domain.ErrUnavailable),
			wantStatus: http.StatusBadGateway,
			wantDetail: "query partition: unavailable",
		},
		{
			name:       "store call out of time",
			method:     http.MethodDelete,
			err:        fmt.Errorf("delete entity: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantDetail: "delete entity: context deadline exceeded",
		},
		{
			name:       "unexpected failure",
			method:     http.MethodPost,
			err:        errors.New("encoding entity: unsupported type"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "encoding entity: unsupported type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			dto.WriteErrorResponse(w, httptest.NewRequest(tt.method, todoPath, http.NoBody), tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantDetail == "" {
				if w.Body.Len() != 0 || w.Header().Get("Content-Type") != "" {
					t.Errorf("got body %q with Content-Type %q, want a bare status",
						w.Body.String(), w.Header().Get("Content-Type"))
				}
				return
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want application/problem+json", ct)
			}
			var resp dto.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding problem body: %v", err)
			}
			want := dto.ErrorResponse{
				Type:     "about:blank",
				Title:    http.StatusText(tt.wantStatus),
				Status:   tt.wantStatus,
				Detail:   tt.wantDetail,
				Instance: todoPath,
			}
			if resp != want {
				t.Errorf("problem = %+v, want %+v", resp, want)
			}
		})
	}
}
