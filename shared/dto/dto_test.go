package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ofcoz/shared/constant"
	"ofcoz/shared/dto"
	"ofcoz/shared/model"
	"ofcoz/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	timezone.SetLocation(time.UTC)

	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	modified := time.Date(2026, 1, 2, 18, 30, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedAt: created, ModifiedAt: modified, CreatedBy: "mochi", ModifiedBy: "admin-1"})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  created.Format(constant.DateFormat),
		ModifiedAt: modified.Format(constant.DateFormat),
		CreatedBy:  "mochi",
		ModifiedBy: "admin-1",
	}, metadata)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		paged bool
		want  dto.QueryParams
	}{
		{
			name:  "explicit values",
			query: "page=2&limit=20&sort_by=start_time&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_time", SortDir: dto.SortDirAsc},
		},
		{
			name: "unpaged without values stays empty",
		},
		{
			name:  "paged defaults",
			paged: true,
			want: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name:  "garbage is dropped",
			query: "page=-1&limit=abc&sort_dir=sideways",
			paged: true,
			want: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name:  "limit is capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: dto.MaxLimit},
		},
		{
			name:  "explicit sort keeps its own direction",
			query: "sort_by=total_cost",
			paged: true,
			want:  dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit, SortBy: "total_cost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			got := dto.QueryParams{}
			got.FromRequest(req, tt.paged)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		want     string
		wantArgs map[string]any
	}{
		{
			name:     "equal",
			filter:   dto.Filter{Field: "room_id", Value: "2", Operator: dto.FilterOperatorEq, Table: "bookings"},
			want:     "bookings.room_id = :room_id",
			wantArgs: map[string]any{"room_id": "2"},
		},
		{
			name:     "range bound with arg name",
			filter:   dto.Filter{ArgName: "from", Field: "start_time", Value: "2026-10-01", Operator: dto.FilterOperatorGreaterEq},
			want:     "start_time >= :from",
			wantArgs: map[string]any{"from": "2026-10-01"},
		},
		{
			name:     "like wraps the value",
			filter:   dto.Filter{Field: "name", Value: "tabby", Operator: dto.FilterOperatorLike, Table: "rooms"},
			want:     "LOWER(rooms.name) LIKE LOWER(:name)",
			wantArgs: map[string]any{"name": "%tabby%"},
		},
		{
			name:     "in expands each element",
			filter:   dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			want:     "status IN (:status_0, :status_1)",
			wantArgs: map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:     "empty in matches nothing",
			filter:   dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			want:     "FALSE",
			wantArgs: map[string]any{},
		},
		{
			name:     "scalar in is refused",
			filter:   dto.Filter{Field: "status", Value: "pending; DROP TABLE bookings", Operator: dto.FilterOperatorIn},
			want:     "",
			wantArgs: map[string]any{},
		},
		{
			name:     "is null",
			filter:   dto.Filter{Field: "room_id", Operator: dto.FilterIsNull, Table: "available_dates"},
			want:     "available_dates.room_id IS NULL",
			wantArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.want, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "date", Value: "2026-10-15", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "room_id", Operator: dto.FilterIsNull},
					dto.Filter{Field: "room_id", Value: "3", Operator: dto.FilterOperatorEq},
				},
			},
			dto.FilterGroup{Operator: dto.FilterGroupOperatorOr},
			"not a filter",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(date = :date AND (room_id IS NULL OR room_id = :room_id))", where)
	assert.Equal(t, map[string]any{"date": "2026-10-15", "room_id": "3"}, args)
}

func TestFilterGroup_AppendNonEmpty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	group.AppendNonEmpty(
		dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "", Table: "bookings"},
		dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "2", Table: "bookings"},
		dto.Filter{Field: "note", Operator: dto.FilterOperatorLike, Value: nil},
	)

	assert.Len(t, group.Filters, 1)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.room_id = :room_id)", where)
	assert.Equal(t, "2", args["room_id"])
}

func TestFilterGroup_GetWhereClause_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
