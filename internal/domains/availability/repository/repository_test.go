package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ofcoz/internal/domains/availability/repository"
)

func TestBookableFilter(t *testing.T) {
	filter := repository.BookableFilter("3", time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))

	where, args := filter.GetWhereClause()

	assert.Equal(t,
		"(available_dates.date = :date AND (available_dates.room_id IS NULL OR available_dates.room_id = :room_id))",
		where)
	assert.Equal(t, "2026-10-15", args["date"])
	assert.Equal(t, "3", args["room_id"])
}
